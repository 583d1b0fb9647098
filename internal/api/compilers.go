package api

import (
	"net/http"

	"github.com/xjudge/xjudge/internal/store"
)

func (a *Api) HandlerListCompilers(w http.ResponseWriter, r *http.Request) {
	judge := store.JudgeType(r.URL.Query().Get("judge"))

	compilers, err := a.CompilerService.ListCompilersByJudge(r.Context(), judge)
	if err != nil {
		handlerError(err, w)
		return
	}

	marshalAndRespond(w, http.StatusOK, compilers)
}

func (a *Api) HandlerCreateCompiler(w http.ResponseWriter, r *http.Request) {
	var request store.Compiler
	if err := decodeJsonBody(r.Body, &request); err != nil {
		badPayload(w, err)
		return
	}

	compiler, err := a.CompilerService.CreateCompiler(r.Context(), request)
	if err != nil {
		handlerError(err, w)
		return
	}

	marshalAndRespond(w, http.StatusCreated, compiler)
}

// HandlerListJudges enumerates the judges submissions can target.
func (a *Api) HandlerListJudges(w http.ResponseWriter, r *http.Request) {
	marshalAndRespond(w, http.StatusOK, a.Registry.Judges())
}
