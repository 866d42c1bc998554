package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/repo"
)

// ExportService assembles a flat export of all trips and their itinerary items.
type ExportService struct {
	trips repo.TripRepo
}

// NewExportService constructs an ExportService backed by the provided repo.
func NewExportService(trips repo.TripRepo) *ExportService {
	return &ExportService{trips: trips}
}

// Export returns one ExportRow per itinerary item across all trips, in trip
// list order, then day order, then item order. Trips with no items
// contribute one row with empty day and item fields.
func (s *ExportService) Export(ctx context.Context) ([]domain.ExportRow, error) {
	trips, err := s.trips.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := []domain.ExportRow{}
	for _, t := range trips {
		base := domain.ExportRow{
			TripID:        t.ID.String(),
			TripName:      t.Name,
			TripStartDate: t.StartDate.Format(time.DateOnly),
			TripEndDate:   t.EndDate.Format(time.DateOnly),
			Origin:        t.CurrentLocation.Name,
			Destination:   t.Destination.Name,
		}
		if t.Itinerary.ItemCount() == 0 {
			rows = append(rows, base)
			continue
		}
		for _, d := range t.Itinerary {
			for i, item := range d.Items {
				row := base
				row.Day = d.Label
				if d.Location != nil {
					row.DayLocation = d.Location.Name
				}
				row.ItemPosition = i + 1
				row.ItemTitle = item.Title
				row.ItemTime = item.Time
				row.ItemBooked = item.IsBooked
				row.ItemNotes = item.Notes
				rows = append(rows, row)
			}
		}
	}
	return rows, nil
}
