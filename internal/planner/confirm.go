package planner

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// Confirmer asks the user a yes/no question before a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Answer returns a Confirmer that always gives the same answer. The HTTP
// layer uses it to carry a confirmation the client already collected.
func Answer(yes bool) Confirmer {
	return ConfirmFunc(func(context.Context, string) (bool, error) { return yes, nil })
}

// Prompts shown before each guarded action.
const (
	PromptDeleteTrip  = "Delete this trip?"
	PromptRemoveItem  = "Remove this item from the itinerary?"
	PromptReplaceTrip = "Save changes to this trip?"
)

// TripMutator is the subset of the trip service that Guard protects.
type TripMutator interface {
	Delete(ctx context.Context, id uuid.UUID) error
	RemoveItem(ctx context.Context, id uuid.UUID, day string, index int) (domain.Trip, error)
	Replace(ctx context.Context, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error)
}

// Guard asks for confirmation and only then calls the trip service.
// A declined prompt returns domain.ErrCancelled and changes nothing.
type Guard struct {
	trips TripMutator
}

// NewGuard wraps trips.
func NewGuard(trips TripMutator) *Guard {
	return &Guard{trips: trips}
}

// DeleteTrip removes the trip after confirmation.
func (g *Guard) DeleteTrip(ctx context.Context, c Confirmer, id uuid.UUID) error {
	if err := ask(ctx, c, "DeleteTrip", PromptDeleteTrip); err != nil {
		return err
	}
	return g.trips.Delete(ctx, id)
}

// RemoveItem removes an itinerary item after confirmation.
func (g *Guard) RemoveItem(ctx context.Context, c Confirmer, id uuid.UUID, day string, index int) (domain.Trip, error) {
	if err := ask(ctx, c, "RemoveItem", PromptRemoveItem); err != nil {
		return domain.Trip{}, err
	}
	return g.trips.RemoveItem(ctx, id, day, index)
}

// ReplaceTrip saves edits to a trip after confirmation.
func (g *Guard) ReplaceTrip(ctx context.Context, c Confirmer, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error) {
	if err := ask(ctx, c, "ReplaceTrip", PromptReplaceTrip); err != nil {
		return domain.Trip{}, err
	}
	return g.trips.Replace(ctx, id, patch)
}

func ask(ctx context.Context, c Confirmer, op, prompt string) error {
	if c == nil {
		return fmt.Errorf("planner.Guard.%s: %w: no confirmation", op, domain.ErrCancelled)
	}
	ok, err := c.Confirm(ctx, prompt)
	if err != nil {
		return fmt.Errorf("planner.Guard.%s: %w", op, err)
	}
	if !ok {
		return fmt.Errorf("planner.Guard.%s: %w", op, domain.ErrCancelled)
	}
	return nil
}
