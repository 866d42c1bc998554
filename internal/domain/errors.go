package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (e.g. missing trip name, malformed item time, negative price).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrRange is returned when a date range is unusable: end before start,
// a span longer than the planner supports, or a range change that would
// discard scheduled items.
var ErrRange = errors.New("range error")

// ErrUnknownDay is returned by itinerary operations addressed at a day label
// that is not part of the itinerary.
var ErrUnknownDay = errors.New("unknown day")

// ErrIndexOutOfRange is returned by itinerary operations addressed at an item
// index that is not valid for the day's current item list.
var ErrIndexOutOfRange = errors.New("index out of range")

// ErrCancelled is returned by confirmation-gated operations when the user
// declined (or never gave) confirmation. Nothing was changed.
var ErrCancelled = errors.New("cancelled")

// ErrInvalidTransition is returned by the planning wizard when an action is
// not allowed in its current step.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrUnavailable is returned when an external collaborator (the catalog
// service) is not configured.
var ErrUnavailable = errors.New("unavailable")
