package export

import (
	"fmt"
	"io"

	"rifa/domain/entities"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Rifas"

// WriteXLSX writes events as a single-sheet workbook. Value and the ticket
// bounds are stored as numbers so they can be summed.
func WriteXLSX(w io.Writer, list []*entities.RaffleEvent) (err error) {
	if len(list) == 0 {
		return ErrNothingToExport
	}

	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close workbook: %w", closeErr)
		}
	}()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	headers := append(append([]string{}, Headers...), "Inicial", "Final")
	headerRow := make([]interface{}, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4F46E5"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return fmt.Errorf("failed to resolve last column: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}

	moneyFormat := "#,##0.00"
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFormat})
	if err != nil {
		return fmt.Errorf("failed to create value style: %w", err)
	}

	for i, event := range list {
		value, _ := event.Value.Float64()
		values := []interface{}{
			event.Title,
			event.Location,
			formatDrawDate(event.DrawDate),
			value,
			event.Prize,
			event.Range().String(),
			event.InitialSeq,
			event.FinalSeq,
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to resolve row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", event.ID, err)
		}

		valueCell, _ := excelize.CoordinatesToCellName(4, i+2)
		if err := f.SetCellStyle(sheetName, valueCell, valueCell, moneyStyle); err != nil {
			return fmt.Errorf("failed to style value cell: %w", err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "A", 32); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.SetColWidth(sheetName, "B", lastCol, 16); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
