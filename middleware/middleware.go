package middleware

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/xjudge/xjudge/internal/service"
)

/*
	context key types are used to avoid conflicts when sharing data via contexts
	visit https://vld.bg/articles/go-context-type/ for more info
*/

const (
	KeyJwtSessionCookieName = "jwt_session"
)

// JWTMiddleware authenticates the session cookie and installs the
// user's claims on the request context. Requests without a valid
// session are rejected before the handler runs.
func JWTMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(KeyJwtSessionCookieName)
		if err != nil {
			http.Error(w, "missing session, please log in", http.StatusUnauthorized)
			return
		}

		claims, err := parseSessionToken(cookie.Value)
		if err != nil {
			log.Warnf("rejected session token: %v", err)
			http.Error(w, "invalid or expired session, please log in again", http.StatusUnauthorized)
			return
		}

		ctx := service.ContextWithClaims(r.Context(), claims)
		next(w, r.WithContext(ctx))
	}
}

func parseSessionToken(raw string) (service.UserCredentialClaims, error) {
	var claims service.UserCredentialClaims

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		secret := os.Getenv(service.KeyJWTSecret)
		if secret == "" {
			return nil, fmt.Errorf("jwt secret is not configured")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return claims, err
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return claims, fmt.Errorf("token claims are not valid")
	}

	rawUserID, ok := mapClaims[service.KeyUserID].(string)
	if !ok {
		return claims, fmt.Errorf("token has no user id")
	}
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		return claims, fmt.Errorf("token user id is not a uuid: %w", err)
	}

	handle, ok := mapClaims[service.KeyHandle].(string)
	if !ok {
		return claims, fmt.Errorf("token has no handle")
	}

	exp, ok := mapClaims[service.KeyExp].(float64)
	if !ok {
		return claims, fmt.Errorf("token has no expiry")
	}
	expiry := time.Unix(int64(exp), 0)
	if time.Now().After(expiry) {
		return claims, fmt.Errorf("token expired at %v", expiry)
	}

	claims.UserID = userID
	claims.Handle = handle
	claims.Expiry = expiry
	return claims, nil
}
