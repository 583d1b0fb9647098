package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/xjudge/xjudge/internal/service/contest_service"
)

func (a *Api) HandlerCreateContest(w http.ResponseWriter, r *http.Request) {
	var request contest_service.CreateContestRequest
	if err := decodeJsonBody(r.Body, &request); err != nil {
		badPayload(w, err)
		return
	}

	contest, err := a.ContestService.CreateContest(r.Context(), request)
	if err != nil {
		handlerErrorWithInput(err, request, w)
		return
	}

	marshalAndRespond(w, http.StatusCreated, contest)
}

func (a *Api) HandlerUpdateContest(w http.ResponseWriter, r *http.Request) {
	var request contest_service.UpdateContestRequest
	if err := decodeJsonBody(r.Body, &request); err != nil {
		badPayload(w, err)
		return
	}

	contest, err := a.ContestService.UpdateContest(r.Context(), request)
	if err != nil {
		handlerErrorWithInput(err, request, w)
		return
	}

	marshalAndRespond(w, http.StatusOK, contest)
}

func (a *Api) HandlerGetContest(w http.ResponseWriter, r *http.Request) {
	contestID, ok := contestIDFromPath(w, r)
	if !ok {
		return
	}

	contest, err := a.ContestService.GetContestByID(r.Context(), contestID)
	if err != nil {
		handlerError(err, w)
		return
	}

	marshalAndRespond(w, http.StatusOK, contest)
}

func (a *Api) HandlerDeleteContest(w http.ResponseWriter, r *http.Request) {
	contestID, ok := contestIDFromPath(w, r)
	if !ok {
		return
	}

	if err := a.ContestService.DeleteContest(r.Context(), contestID); err != nil {
		handlerError(err, w)
		return
	}

	respondWithJson(w, http.StatusOK, []byte(`"contest deleted"`))
}

// HandlerEnterContest grants the caller contestant access, checking the
// contest password when one is required.
func (a *Api) HandlerEnterContest(w http.ResponseWriter, r *http.Request) {
	contestID, ok := contestIDFromPath(w, r)
	if !ok {
		return
	}

	var request struct {
		Password string `json:"password"`
	}
	// an empty body is fine for public contests
	if r.ContentLength > 0 {
		if err := decodeJsonBody(r.Body, &request); err != nil {
			badPayload(w, err)
			return
		}
	}

	if err := a.ContestService.AuthorizeContestantsRoles(
		r.Context(),
		contestID,
		request.Password,
	); err != nil {
		handlerError(err, w)
		return
	}

	respondWithJson(w, http.StatusOK, []byte(`"entered contest"`))
}

func (a *Api) HandlerGetContestRank(w http.ResponseWriter, r *http.Request) {
	contestID, ok := contestIDFromPath(w, r)
	if !ok {
		return
	}

	rank, err := a.ContestService.GetRank(r.Context(), contestID)
	if err != nil {
		handlerError(err, w)
		return
	}

	marshalAndRespond(w, http.StatusOK, rank)
}

func contestIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	contestID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "contest id must be a uuid", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return contestID, true
}
