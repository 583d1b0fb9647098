package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/xjudge/xjudge/internal/service/problem_service"
)

// HandlerGetProblem resolves a problem by judge and code, scraping the
// judge on first sight of the pair.
func (a *Api) HandlerGetProblem(w http.ResponseWriter, r *http.Request) {
	request := problem_service.ProblemRequest{
		Judge: r.URL.Query().Get("judge"),
		Code:  r.URL.Query().Get("code"),
	}

	problem, err := a.ProblemService.GetProblem(r.Context(), request)
	if err != nil {
		handlerErrorWithInput(err, request, w)
		return
	}

	marshalAndRespond(w, http.StatusOK, problem)
}

func (a *Api) HandlerListProblems(w http.ResponseWriter, r *http.Request) {
	request := problem_service.ListProblemsRequest{
		Judge:       r.URL.Query().Get("judge"),
		Code:        r.URL.Query().Get("code"),
		Title:       r.URL.Query().Get("title"),
		ContestName: r.URL.Query().Get("contest_name"),
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

	pageData, err := a.ProblemService.ListProblems(r.Context(), request)
	if err != nil {
		handlerErrorWithInput(err, request, w)
		return
	}

	marshalAndRespond(w, http.StatusOK, pageData)
}

// HandlerGetDescription serves the rendered problem document addressed
// by its description route, e.g. /description/codeforces-1820A.
func (a *Api) HandlerGetDescription(w http.ResponseWriter, r *http.Request) {
	route := chi.URLParam(r, "route")

	problem, err := a.ProblemService.GetProblemByRoute(r.Context(), route)
	if err != nil {
		handlerError(err, w)
		return
	}

	marshalAndRespond(w, http.StatusOK, problem)
}
