package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_name", "trip_start_date", "trip_end_date",
	"origin", "destination", "day", "day_location",
	"item_position", "item_title", "item_time", "item_booked", "item_notes",
}

// ExportRow is the JSON form of one export row.
// Day and item fields are omitted for trips without items.
type ExportRow struct {
	TripID        uuid.UUID          `json:"trip_id"`
	TripName      string             `json:"trip_name"`
	TripStartDate openapi_types.Date `json:"trip_start_date"`
	TripEndDate   openapi_types.Date `json:"trip_end_date"`
	Origin        string             `json:"origin,omitempty"`
	Destination   string             `json:"destination,omitempty"`
	Day           *string            `json:"day,omitempty"`
	DayLocation   *string            `json:"day_location,omitempty"`
	ItemPosition  *int               `json:"item_position,omitempty"`
	ItemTitle     *string            `json:"item_title,omitempty"`
	ItemTime      *string            `json:"item_time,omitempty"`
	ItemBooked    *bool              `json:"item_booked,omitempty"`
	ItemNotes     *string            `json:"item_notes,omitempty"`
}

// GetExport handles GET /export.
// It returns a flat table of every trip and itinerary item.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "csv" && format != "json" {
		s.requestError(w, r, "format must be csv or json", nil)
		return
	}

	rows, err := s.export.Export(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if format == "csv" {
		writeCSV(w, rows)
		return
	}
	writeJSON(w, http.StatusOK, buildJSONResponse(rows))
}

// buildJSONResponse converts domain rows to their JSON form.
func buildJSONResponse(rows []domain.ExportRow) []ExportRow {
	out := make([]ExportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, domainRowToJSONRow(r))
	}
	return out
}

// writeCSV encodes domain rows as CSV.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		cw.Write(domainRowToCSVRecord(r))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="trips.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	w.Write(buf.Bytes())
}

// domainRowToJSONRow maps a domain.ExportRow to its JSON form.
// A row without an item position carries no day or item fields.
func domainRowToJSONRow(r domain.ExportRow) ExportRow {
	tripID, _ := uuid.Parse(r.TripID)
	row := ExportRow{
		TripID:        tripID,
		TripName:      r.TripName,
		TripStartDate: parseDate(r.TripStartDate),
		TripEndDate:   parseDate(r.TripEndDate),
		Origin:        r.Origin,
		Destination:   r.Destination,
	}
	if r.ItemPosition == 0 {
		return row
	}
	row.Day = &r.Day
	if r.DayLocation != "" {
		row.DayLocation = &r.DayLocation
	}
	row.ItemPosition = &r.ItemPosition
	row.ItemTitle = &r.ItemTitle
	if r.ItemTime != "" {
		row.ItemTime = &r.ItemTime
	}
	row.ItemBooked = &r.ItemBooked
	row.ItemNotes = &r.ItemNotes
	return row
}

// domainRowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// Rows without an item leave the day and item columns empty.
func domainRowToCSVRecord(r domain.ExportRow) []string {
	position, booked := "", ""
	if r.ItemPosition > 0 {
		position = strconv.Itoa(r.ItemPosition)
		booked = strconv.FormatBool(r.ItemBooked)
	}
	return []string{
		r.TripID,
		r.TripName,
		r.TripStartDate,
		r.TripEndDate,
		r.Origin,
		r.Destination,
		r.Day,
		r.DayLocation,
		position,
		r.ItemTitle,
		r.ItemTime,
		booked,
		r.ItemNotes,
	}
}

// parseDate parses a "2006-01-02" string into an openapi_types.Date.
// Malformed input yields the zero date; the service always formats dates itself.
func parseDate(s string) openapi_types.Date {
	t, _ := time.Parse(time.DateOnly, s)
	return openapi_types.Date{Time: t}
}
