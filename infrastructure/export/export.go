package export

import (
	"errors"
	"fmt"
	"time"

	"rifa/domain/entities"
)

// ErrNothingToExport is returned when there are no events to write
var ErrNothingToExport = errors.New("no raffle events to export")

// Headers are the column titles shared by the CSV and XLSX exports
var Headers = []string{"Título", "Local", "Data Sorteio", "Valor", "Prêmio", "Cartelas"}

// FileName returns the export file name for the given extension, e.g. rifas_export_2025-03-01.csv
func FileName(ext string, now time.Time) string {
	return fmt.Sprintf("rifas_export_%s.%s", now.Format("2006-01-02"), ext)
}

// row holds the exported columns of a single event
func row(event *entities.RaffleEvent) []string {
	return []string{
		event.Title,
		event.Location,
		formatDrawDate(event.DrawDate),
		event.Value.StringFixed(2),
		event.Prize,
		event.Range().String(),
	}
}

func formatDrawDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}
