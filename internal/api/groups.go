package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/xjudge/xjudge/internal/service/group_service"
)

func (a *Api) HandlerCreateGroup(w http.ResponseWriter, r *http.Request) {
	var request group_service.CreateGroupRequest
	if err := decodeJsonBody(r.Body, &request); err != nil {
		badPayload(w, err)
		return
	}

	group, err := a.GroupService.CreateGroup(r.Context(), request)
	if err != nil {
		handlerErrorWithInput(err, request, w)
		return
	}

	marshalAndRespond(w, http.StatusCreated, group)
}

func (a *Api) HandlerGetGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "group id must be a uuid", http.StatusBadRequest)
		return
	}

	group, err := a.GroupService.GetGroupByID(r.Context(), groupID)
	if err != nil {
		handlerError(err, w)
		return
	}

	marshalAndRespond(w, http.StatusOK, group)
}

func (a *Api) HandlerJoinGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "group id must be a uuid", http.StatusBadRequest)
		return
	}

	if err := a.GroupService.JoinGroup(r.Context(), groupID); err != nil {
		handlerError(err, w)
		return
	}

	respondWithJson(w, http.StatusOK, []byte(`"joined group"`))
}

func (a *Api) HandlerInvite(w http.ResponseWriter, r *http.Request) {
	var request group_service.InviteRequest
	if err := decodeJsonBody(r.Body, &request); err != nil {
		badPayload(w, err)
		return
	}

	invitation, err := a.GroupService.Invite(r.Context(), request)
	if err != nil {
		handlerErrorWithInput(err, request, w)
		return
	}

	marshalAndRespond(w, http.StatusCreated, invitation)
}
