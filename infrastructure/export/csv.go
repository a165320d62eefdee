package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"rifa/domain/entities"
)

const utf8BOM = "\ufeff"

// WriteCSV writes events as a semicolon separated file with a UTF-8 BOM so
// spreadsheet programs pick up the accents.
func WriteCSV(w io.Writer, list []*entities.RaffleEvent) error {
	if len(list) == 0 {
		return ErrNothingToExport
	}

	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(Headers); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, event := range list {
		if err := cw.Write(row(event)); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", event.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
