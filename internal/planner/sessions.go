package planner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// Sessions is an in-memory registry of wizards keyed by session id.
// Calls on different sessions run in parallel; calls on one session are
// serialised. A session is forgotten as soon as its wizard is committed or
// abandoned, and Sweep drops sessions nobody has touched for a while.
type Sessions struct {
	mu      sync.Mutex
	wizards map[uuid.UUID]*session
	now     func() time.Time
}

type session struct {
	mu sync.Mutex
	w  *Wizard
	// touched is guarded by Sessions.mu, not session.mu.
	touched time.Time
}

// NewSessions returns an empty registry.
func NewSessions() *Sessions {
	return &Sessions{wizards: make(map[uuid.UUID]*session), now: time.Now}
}

// Start opens a new wizard session at the intro step.
func (s *Sessions) Start() State {
	w := NewWizard(uuid.New())

	s.mu.Lock()
	s.wizards[w.id] = &session{w: w, touched: s.now()}
	s.mu.Unlock()

	return w.State()
}

// Get returns the current state of a session.
// Returns domain.ErrNotFound if the session does not exist.
func (s *Sessions) Get(id uuid.UUID) (State, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return State{}, fmt.Errorf("planner.Sessions.Get: %w", err)
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.w.State(), nil
}

// Do runs fn against the session's wizard and returns the resulting state.
// The state is returned even when fn fails so callers can re-render.
// A wizard left committed or abandoned is removed from the registry, so
// later calls for it get domain.ErrNotFound.
func (s *Sessions) Do(ctx context.Context, id uuid.UUID, fn func(context.Context, *Wizard) error) (State, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return State{}, fmt.Errorf("planner.Sessions.Do: %w", err)
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	err = fn(ctx, sess.w)
	if sess.w.Step().Terminal() {
		s.Discard(id)
	}
	return sess.w.State(), err
}

// Sweep drops every session last used before cutoff and reports how many
// were dropped.
func (s *Sessions) Sweep(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.wizards {
		if sess.touched.Before(cutoff) {
			delete(s.wizards, id)
			n++
		}
	}
	return n
}

// Janitor calls Sweep every interval, dropping sessions idle for longer
// than idle, until ctx is done.
func (s *Sessions) Janitor(ctx context.Context, interval, idle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep(s.now().Add(-idle))
		}
	}
}

// Discard forgets a session. Unknown ids are ignored.
func (s *Sessions) Discard(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.wizards, id)
}

// Len reports the number of open sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.wizards)
}

func (s *Sessions) lookup(id uuid.UUID) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.wizards[id]
	if !ok {
		return nil, fmt.Errorf("%w: plan %s", domain.ErrNotFound, id)
	}
	sess.touched = s.now()
	return sess, nil
}
