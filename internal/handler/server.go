// Package handler implements the HTTP handlers for the trip planner API.
// All handlers are methods on Server. Methods are split into resource files
// (health.go, trip.go, item.go, catalog.go, plan.go, export.go) but share
// the same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/planner"
	"github.com/pkordes/trip-planner/backend/internal/service"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the repo or service layer.
type TripServicer interface {
	Create(ctx context.Context, d domain.TripDraft) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Replace(ctx context.Context, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddItem(ctx context.Context, id uuid.UUID, day string, item domain.ItineraryItem) (domain.Trip, error)
	UpdateItem(ctx context.Context, id uuid.UUID, day string, index int, item domain.ItineraryItem) (domain.Trip, error)
	RemoveItem(ctx context.Context, id uuid.UUID, day string, index int) (domain.Trip, error)
	MoveItem(ctx context.Context, id uuid.UUID, day string, from, to int) (domain.Trip, error)
	SetDayLocation(ctx context.Context, id uuid.UUID, day string, loc *domain.Location) (domain.Trip, error)
}

// CatalogSearcher filters the remote catalog for one tab.
type CatalogSearcher interface {
	Search(ctx context.Context, tab domain.Tab, state domain.FilterState) (service.SearchResult, error)
}

// ExportServicer returns the flat export of all trips.
type ExportServicer interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// TokenDecoder resolves a detail-page token back to a business ID.
type TokenDecoder interface {
	Decode(token string) (string, error)
}

// Deps are the collaborators a Server needs. Nil members disable the
// routes that depend on them.
type Deps struct {
	Trips   TripServicer
	Catalog CatalogSearcher
	Export  ExportServicer
	Tokens  TokenDecoder
	Plans   *planner.Sessions
	// OpenAPI is served verbatim at /openapi.yaml when non-empty.
	OpenAPI []byte
	Logger  *slog.Logger
}

// Server holds the dependencies shared by every handler.
type Server struct {
	trips   TripServicer
	guard   *planner.Guard
	catalog CatalogSearcher
	export  ExportServicer
	tokens  TokenDecoder
	plans   *planner.Sessions
	openapi []byte
	log     *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(d Deps) *Server {
	s := &Server{
		trips:   d.Trips,
		catalog: d.Catalog,
		export:  d.Export,
		tokens:  d.Tokens,
		plans:   d.Plans,
		openapi: d.OpenAPI,
		log:     d.Logger,
	}
	if s.trips != nil {
		s.guard = planner.NewGuard(s.trips)
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(Deps{})
}

// Routes returns the API router. Middleware is applied by the caller.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody("not_found", "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method_not_allowed", "method not allowed"))
	})

	r.Get("/healthz", s.GetHealth)
	if len(s.openapi) > 0 {
		r.Get("/openapi.yaml", s.GetOpenAPI)
	}

	if s.trips != nil {
		r.Route("/trips", func(r chi.Router) {
			r.Post("/", s.CreateTrip)
			r.Get("/", s.ListTrips)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.GetTrip)
				r.Patch("/", s.ReplaceTrip)
				r.Delete("/", s.DeleteTrip)
				r.Put("/days/{day}/location", s.SetDayLocation)
				r.Route("/days/{day}/items", func(r chi.Router) {
					r.Post("/", s.AddItem)
					r.Put("/{index}", s.UpdateItem)
					r.Delete("/{index}", s.RemoveItem)
					r.Post("/{index}/move", s.MoveItem)
				})
			})
		})
	}

	if s.export != nil {
		r.Get("/export", s.GetExport)
	}

	if s.catalog != nil {
		r.Post("/catalog/{tab}/search", s.SearchCatalog)
	}
	if s.tokens != nil {
		r.Get("/catalog/listings/{token}", s.GetListingLink)
	}

	if s.plans != nil {
		r.Route("/plans", func(r chi.Router) {
			r.Post("/", s.StartPlan)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.GetPlan)
				r.Put("/details", s.SetPlanDetails)
				r.Put("/dates", s.SetPlanDates)
				r.Post("/next", s.NextPlanStep)
				r.Post("/back", s.PreviousPlanStep)
				r.Post("/cancel", s.CancelPlan)
				r.Post("/submit", s.SubmitPlan)
				r.Put("/days/{day}/location", s.SetPlanDayLocation)
				r.Route("/days/{day}/items", func(r chi.Router) {
					r.Post("/", s.AddPlanItem)
					r.Put("/{index}", s.UpdatePlanItem)
					r.Delete("/{index}", s.RemovePlanItem)
				})
			})
		})
	}
	return r
}
