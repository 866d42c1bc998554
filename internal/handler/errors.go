package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errorBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// errorMapping maps a domain sentinel to its HTTP status and error code.
// Order matters only for errors wrapping more than one sentinel.
var errorMapping = []struct {
	target error
	status int
	code   string
}{
	{domain.ErrValidation, http.StatusUnprocessableEntity, "validation_error"},
	{domain.ErrRange, http.StatusUnprocessableEntity, "range_error"},
	{domain.ErrUnknownDay, http.StatusNotFound, "unknown_day"},
	{domain.ErrIndexOutOfRange, http.StatusNotFound, "index_out_of_range"},
	{domain.ErrNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrCancelled, http.StatusPreconditionRequired, "confirmation_required"},
	{domain.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{domain.ErrUnavailable, http.StatusServiceUnavailable, "catalog_unavailable"},
}

// writeError renders err. Domain errors map to 4xx/503 with the message
// that follows the sentinel; anything else is logged and becomes a 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range errorMapping {
		if errors.Is(err, m.target) {
			writeJSON(w, m.status, errorBody(m.code, unwrapMessage(err, m.target)))
			return
		}
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("request_too_large", "request body too large"))
		return
	}
	s.log.ErrorContext(r.Context(), "unhandled error",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	writeJSON(w, http.StatusInternalServerError, errorBody("internal_error", "internal server error"))
}

// requestError renders a request rejected before reaching the service layer
// (e.g. missing body or malformed path parameter).
func (s *Server) requestError(w http.ResponseWriter, r *http.Request, message string, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusUnprocessableEntity, errorBody("validation_error", message))
}

// unwrapMessage extracts the human-readable part that follows the sentinel.
// e.g. "service.TripService.Create: validation error: name is required" → "name is required"
func unwrapMessage(err, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.Index(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return sentinel.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // the status line is already written.
	json.NewEncoder(w).Encode(v)
}
