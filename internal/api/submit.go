package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/xjudge/xjudge/internal/service/submission_service"
)

func (a *Api) HandlerSubmit(w http.ResponseWriter, r *http.Request) {
	var request submission_service.SubmissionRequest
	if err := decodeJsonBody(r.Body, &request); err != nil {
		badPayload(w, err)
		return
	}

	submission, err := a.SubmissionService.Submit(r.Context(), request)
	if err != nil {
		handlerErrorWithInput(err, request, w)
		return
	}

	marshalAndRespond(w, http.StatusOK, submission)
}

func (a *Api) HandlerGetSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "submission id must be a uuid", http.StatusBadRequest)
		return
	}

	submission, err := a.SubmissionService.GetSubmissionByID(r.Context(), id)
	if err != nil {
		handlerError(err, w)
		return
	}

	marshalAndRespond(w, http.StatusOK, submission)
}

func (a *Api) HandlerListSubmissions(w http.ResponseWriter, r *http.Request) {
	request := submission_service.ListSubmissionsRequest{
		UserHandle: r.URL.Query().Get("user_handle"),
		Verdict:    r.URL.Query().Get("verdict"),
	}

	if rawContest := r.URL.Query().Get("contest_id"); rawContest != "" {
		contestID, err := uuid.Parse(rawContest)
		if err != nil {
			http.Error(w, "contest_id must be a uuid", http.StatusBadRequest)
			return
		}
		request.ContestID = &contestID
	}
	if rawProblem := r.URL.Query().Get("problem_id"); rawProblem != "" {
		problemID, err := strconv.Atoi(rawProblem)
		if err != nil {
			http.Error(w, "problem_id must be an integer", http.StatusBadRequest)
			return
		}
		id := int32(problemID)
		request.ProblemID = &id
	}
	if page := r.URL.Query().Get("page"); page != "" {
		pageNumber, err := strconv.Atoi(page)
		if err != nil {
			http.Error(w, "page must be an integer", http.StatusBadRequest)
			return
		}
		request.PageNumber = int32(pageNumber)
	}
	if size := r.URL.Query().Get("page_size"); size != "" {
		pageSize, err := strconv.Atoi(size)
		if err != nil {
			http.Error(w, "page_size must be an integer", http.StatusBadRequest)
			return
		}
		request.PageSize = int32(pageSize)
	}

	submissions, err := a.SubmissionService.ListSubmissions(r.Context(), request)
	if err != nil {
		handlerErrorWithInput(err, request, w)
		return
	}

	marshalAndRespond(w, http.StatusOK, submissions)
}
