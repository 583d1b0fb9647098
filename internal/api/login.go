package api

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/xjudge/xjudge/internal/service"
	"github.com/xjudge/xjudge/internal/service/auth_service"
	"github.com/xjudge/xjudge/middleware"
)

func (a *Api) HandlerSignUp(w http.ResponseWriter, r *http.Request) {
	var request auth_service.UserRegistration
	if err := decodeJsonBody(r.Body, &request); err != nil {
		badPayload(w, err)
		return
	}

	user, err := a.AuthService.SignUp(r.Context(), request)
	if err != nil {
		handlerErrorWithInput(err, request, w)
		return
	}

	marshalAndRespond(w, http.StatusCreated, user)
}

func (a *Api) HandlerLogin(w http.ResponseWriter, r *http.Request) {
	var request auth_service.UserLoginRequest
	if err := decodeJsonBody(r.Body, &request); err != nil {
		badPayload(w, err)
		return
	}

	user, jwtToken, tokenExpiry, err := a.AuthService.Login(r.Context(), request)
	if err != nil {
		handlerErrorWithInput(err, request, w)
		return
	}

	// set jwt session cookie
	cookie := &http.Cookie{
		Name:     middleware.KeyJwtSessionCookieName,
		Value:    jwtToken,
		Expires:  tokenExpiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)

	log.WithField("handle", user.Handle).Info("logged in")
	marshalAndRespond(w, http.StatusOK, user)
}

func (a *Api) HandlerLogout(w http.ResponseWriter, r *http.Request) {
	cookie := &http.Cookie{
		Name:     middleware.KeyJwtSessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)
	respondWithJson(w, http.StatusOK, []byte(`"logged out"`))
}

func (a *Api) HandlerGetMe(w http.ResponseWriter, r *http.Request) {
	claims, err := service.GetClaimsFromContext(r.Context())
	if err != nil {
		handlerError(err, w)
		return
	}

	user, err := a.UserService.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		handlerError(err, w)
		return
	}
	user.HashedPassword = ""

	marshalAndRespond(w, http.StatusOK, user)
}
