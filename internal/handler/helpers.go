package handler

import (
	"errors"
	"net/http"
	"strings"

	"deepchat/internal/domain"
	"deepchat/internal/httputil"
)

// handleError converts domain errors to RFC 7807 responses. Details of
// unexpected errors are never exposed.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := domain.StatusCode(err)

	switch status {
	case http.StatusInternalServerError:
		httputil.RespondProblem(w, r, status, "internal server error")
	case http.StatusServiceUnavailable:
		httputil.RespondProblem(w, r, status, "completion provider unavailable")
	default:
		httputil.RespondProblem(w, r, status, err.Error())
	}
}

// respondBadBody answers a request whose JSON body could not be decoded
func respondBadBody(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		httputil.RespondProblem(w, r, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	httputil.RespondProblem(w, r, http.StatusBadRequest, "Invalid request body")
}

// PathParam extracts a required path parameter, writing a 400 when it is blank
func PathParam(w http.ResponseWriter, r *http.Request, name, label string) (string, bool) {
	value := strings.TrimSpace(r.PathValue(name))
	if value == "" {
		httputil.RespondProblem(w, r, http.StatusBadRequest, label+" is required")
		return "", false
	}
	return value, true
}
