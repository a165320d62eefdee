package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"rifa/domain/entities"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func exportEvents() []*entities.RaffleEvent {
	return []*entities.RaffleEvent{
		{
			ID:         "evt-1",
			Title:      "Rifa de Natal",
			Location:   "Igreja Matriz",
			DrawDate:   time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC),
			Value:      decimal.RequireFromString("10"),
			Prize:      "Cesta; com panetone",
			InitialSeq: 1,
			FinalSeq:   500,
		},
		{
			ID:         "evt-2",
			Title:      "Bingo",
			DrawDate:   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			Value:      decimal.RequireFromString("2.5"),
			Prize:      "TV",
			InitialSeq: 100,
			FinalSeq:   199,
		},
	}
}

func TestFileName(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "rifas_export_2025-03-01.csv", FileName("csv", now))
	assert.Equal(t, "rifas_export_2025-03-01.xlsx", FileName("xlsx", now))
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, exportEvents()))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "\ufeff"), "output must start with a BOM")

	lines := strings.Split(strings.TrimSuffix(strings.TrimPrefix(out, "\ufeff"), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Título;Local;Data Sorteio;Valor;Prêmio;Cartelas", lines[0])
	assert.Equal(t, `Rifa de Natal;Igreja Matriz;24/12/2025;10.00;"Cesta; com panetone";1 a 500`, lines[1])
	assert.Equal(t, "Bingo;;01/07/2025;2.50;TV;100 a 199", lines[2])
}

func TestWriteCSV_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.ErrorIs(t, WriteCSV(&buf, nil), ErrNothingToExport)
	assert.Zero(t, buf.Len())
}

func TestWriteXLSX(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, exportEvents()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Título", "Local", "Data Sorteio", "Valor", "Prêmio", "Cartelas", "Inicial", "Final"}, rows[0])
	assert.Equal(t, "Rifa de Natal", rows[1][0])
	assert.Equal(t, "1 a 500", rows[1][5])
	assert.Equal(t, "100", rows[2][6])

	raw, err := f.GetCellValue(sheetName, "D3", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "2.5", raw)
}

func TestWriteXLSX_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.ErrorIs(t, WriteXLSX(&buf, []*entities.RaffleEvent{}), ErrNothingToExport)
}
