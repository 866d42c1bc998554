package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/backend/internal/planner"
)

var errEmptyBody = errors.New("request body is required")

// decodeJSON reads the request body into dst. An empty body is an error.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return errEmptyBody
	}
	return err
}

// idParam parses the {id} path parameter.
func idParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}

// dayParam returns the {day} path parameter, which carries a URL-escaped
// day label such as "Monday,%20Oct%2030".
func dayParam(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "day")
	day, err := url.PathUnescape(raw)
	if err != nil || day == "" {
		return "", fmt.Errorf("invalid day %q", raw)
	}
	return day, nil
}

// indexParam parses the {index} path parameter. Negative values are passed
// through and rejected by the itinerary as out of range.
func indexParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", raw)
	}
	return i, nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", name, raw)
	}
	return &v, nil
}

// confirmation turns the ?confirm= query parameter into the answer the
// client collected from its yes/no prompt. Absent or false means declined.
func confirmation(r *http.Request) planner.Confirmer {
	yes, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return planner.Answer(yes)
}
