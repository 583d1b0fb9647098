package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// HandlerGetUserStatistics reports the attempted and solved counters of
// a user's public profile.
func (a *Api) HandlerGetUserStatistics(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")
	if handle == "" {
		http.Error(w, "user handle is required", http.StatusBadRequest)
		return
	}

	stats, err := a.UserService.GetStatistics(r.Context(), handle)
	if err != nil {
		handlerError(err, w)
		return
	}

	marshalAndRespond(w, http.StatusOK, stats)
}

func (a *Api) HandlerReadiness(w http.ResponseWriter, r *http.Request) {
	respondWithJson(w, http.StatusOK, []byte(`"ok"`))
}
