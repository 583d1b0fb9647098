package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/xjudge/xjudge/internal/service"
	"github.com/xjudge/xjudge/internal/xjudge_errors"
)

const errorTimestampLayout = "2006-01-02 03:04:05 PM"

type errorResponse struct {
	Status    int               `json:"status"`
	Message   string            `json:"message"`
	Timestamp string            `json:"timestamp"`
	Errors    map[string]string `json:"errors,omitempty"`
}

func decodeJsonBody(body io.Reader, dest any) error {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondWithJson(w http.ResponseWriter, statusCode int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(payload); err != nil {
		log.Errorf("failed to write response: %v", err)
	}
}

func marshalAndRespond(w http.ResponseWriter, statusCode int, payload any) {
	responseBytes, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("unable to marshal %T response: %v", payload, err)
		http.Error(w, xjudge_errors.ErrInternal.Error(), http.StatusInternalServerError)
		return
	}
	respondWithJson(w, statusCode, responseBytes)
}

// handlerError maps a service error onto its http status and the
// standard error payload. Unknown errors collapse into a 500 without
// leaking their text.
func handlerError(err error, w http.ResponseWriter) {
	handlerErrorWithInput(err, nil, w)
}

// handlerErrorWithInput is handlerError for handlers holding a decoded
// request struct: a validation failure then carries the per-field
// messages.
func handlerErrorWithInput(err error, input any, w http.ResponseWriter) {
	statusCode := statusFromError(err)

	message := err.Error()
	if statusCode == http.StatusInternalServerError {
		message = "internal error, please try again later"
	}

	response := errorResponse{
		Status:    statusCode,
		Message:   message,
		Timestamp: time.Now().Format(errorTimestampLayout),
	}
	if input != nil && errors.Is(err, xjudge_errors.ErrInvalidInput) {
		response.Errors = service.ValidationFieldErrors(input)
	}

	marshalAndRespond(w, statusCode, response)
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, xjudge_errors.ErrInvalidInput),
		errors.Is(err, xjudge_errors.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, xjudge_errors.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, xjudge_errors.ErrUnAuthorized):
		return http.StatusForbidden
	case errors.Is(err, xjudge_errors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, xjudge_errors.ErrEntityAlreadyExist):
		return http.StatusConflict
	case errors.Is(err, xjudge_errors.ErrUpstreamUnavailable),
		errors.Is(err, xjudge_errors.ErrSubmissionFailed),
		errors.Is(err, xjudge_errors.ErrHttpResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func badPayload(w http.ResponseWriter, err error) {
	msg := fmt.Sprintf("invalid request payload, %s", err.Error())
	http.Error(w, msg, http.StatusBadRequest)
}
