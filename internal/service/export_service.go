package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/schoolward/timetable-api/internal/models"
	appErrors "github.com/schoolward/timetable-api/pkg/errors"
	"github.com/schoolward/timetable-api/pkg/export"
)

type slotLister interface {
	List(ctx context.Context, subjectGroupID string) ([]models.ScheduleSlot, error)
}

// ExportService renders a group's weekly schedule as CSV or PDF.
type ExportService struct {
	slots slotLister
	csv   *export.CSVExporter
	pdf   *export.PDFExporter
}

// NewExportService creates an export service instance.
func NewExportService(slots slotLister) *ExportService {
	return &ExportService{slots: slots, csv: export.NewCSVExporter(), pdf: export.NewPDFExporter()}
}

var exportHeaders = []string{"Day", "Start", "End", "Room", "Quarter"}

// Timetable renders the group's schedule in the requested format and
// returns the bytes plus a content type. The export view is sorted by day
// and start time; storage order is untouched.
func (s *ExportService) Timetable(ctx context.Context, subjectGroupID, format string) ([]byte, string, error) {
	slots, err := s.slots.List(ctx, subjectGroupID)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule slots")
	}

	view := make([]models.ScheduleSlot, len(slots))
	copy(view, slots)
	sort.SliceStable(view, func(i, j int) bool {
		if view[i].DayOfWeek != view[j].DayOfWeek {
			return view[i].DayOfWeek < view[j].DayOfWeek
		}
		return view[i].StartTime.Compare(view[j].StartTime) < 0
	})

	dataset := export.Dataset{Headers: exportHeaders}
	for _, slot := range view {
		room := ""
		if slot.Room != nil {
			room = *slot.Room
		}
		quarter := "all"
		if slot.Quarter != nil {
			quarter = fmt.Sprintf("%d", *slot.Quarter)
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Day":     models.DayName(slot.DayOfWeek),
			"Start":   slot.StartTime.String(),
			"End":     slot.EndTime.String(),
			"Room":    room,
			"Quarter": quarter,
		})
	}

	switch format {
	case "csv", "":
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, "text/csv", nil
	case "pdf":
		payload, err := s.pdf.Render(dataset, fmt.Sprintf("Weekly schedule %s", subjectGroupID))
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}
