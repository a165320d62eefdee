package render

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"rifa/domain/entities"
	"rifa/domain/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sheetEvent(initial, final int) *entities.RaffleEvent {
	return &entities.RaffleEvent{
		ID:          "evt-1",
		Title:       "Rifa São João",
		Description: "Ação entre amigos",
		Location:    "Salão paroquial",
		DrawDate:    time.Date(2025, 6, 24, 0, 0, 0, 0, time.UTC),
		Value:       decimal.RequireFromString("12.5"),
		Prize:       "Uma cesta básica completa",
		InitialSeq:  initial,
		FinalSeq:    final,
	}
}

func testRenderer(t *testing.T) *TicketSheetRenderer {
	t.Helper()
	r, err := NewTicketSheetRenderer(services.NewTicketGrid(entities.DefaultSlotsPerPage), 1)
	require.NoError(t, err)
	return r
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestFileBaseName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "RIFA-RIFA-SAO-JOAO", FileBaseName(sheetEvent(1, 10)))
	assert.Equal(t, "RIFA-SORTEIO", FileBaseName(&entities.RaffleEvent{Title: "  "}))
}

func TestRenderAll_OnePNGPerPage(t *testing.T) {
	t.Parallel()

	r := testRenderer(t)
	sheets, err := r.RenderAll(sheetEvent(1, 60))
	require.NoError(t, err)
	require.Len(t, sheets, 3)

	width, height := r.Size()
	assert.Equal(t, 210, width)
	assert.Equal(t, 297, height)

	for i, sheet := range sheets {
		assert.Equal(t, i+1, sheet.Page)
		img := decodePNG(t, sheet.PNG)
		assert.Equal(t, width, img.Bounds().Dx())
		assert.Equal(t, height, img.Bounds().Dy())
	}
	assert.Equal(t, "RIFA-RIFA-SAO-JOAO-01.png", sheets[0].FileName)
	assert.Equal(t, "RIFA-RIFA-SAO-JOAO-03.png", sheets[2].FileName)
}

func TestRenderAll_TooManySheets(t *testing.T) {
	t.Parallel()

	event := sheetEvent(1, entities.DefaultSlotsPerPage*MaxSheetsInMemory+1)

	sheets, err := testRenderer(t).RenderAll(event)
	assert.ErrorIs(t, err, ErrTooManySheets)
	assert.Nil(t, sheets)
}

func TestRenderEach_StreamsAndStops(t *testing.T) {
	t.Parallel()

	r := testRenderer(t)

	var pages []int
	require.NoError(t, r.RenderEach(sheetEvent(1, 60), func(sheet Sheet) error {
		pages = append(pages, sheet.Page)
		return nil
	}))
	assert.Equal(t, []int{1, 2, 3}, pages)

	stop := errors.New("disk full")
	calls := 0
	err := r.RenderEach(sheetEvent(1, 60), func(Sheet) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestRenderAll_InvalidRange(t *testing.T) {
	t.Parallel()

	_, err := testRenderer(t).RenderAll(sheetEvent(10, 1))
	assert.ErrorIs(t, err, entities.ErrInvalidRange)
}

func TestRenderPage_HeaderImage(t *testing.T) {
	t.Parallel()

	r := testRenderer(t)
	grid := services.NewTicketGrid(entities.DefaultSlotsPerPage)

	header := image.NewRGBA(image.Rect(0, 0, 40, 16))
	for x := 0; x < 40; x++ {
		for y := 0; y < 16; y++ {
			header.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, header))

	withImage := sheetEvent(1, 5)
	withImage.HeaderImage = buf.Bytes()
	page, err := grid.Page(withImage, 1)
	require.NoError(t, err)

	data, err := r.RenderPage(withImage, page)
	require.NoError(t, err)

	img := decodePNG(t, data)
	red, green, _, _ := img.At(int(marginMM)+20, int(marginMM)+20).RGBA()
	assert.Greater(t, red>>8, uint32(150), "header image should be drawn inside the margin")
	assert.Less(t, green>>8, uint32(100))
}

func TestRenderPage_BrokenHeaderFallsBack(t *testing.T) {
	t.Parallel()

	r := testRenderer(t)
	grid := services.NewTicketGrid(entities.DefaultSlotsPerPage)

	broken := sheetEvent(1, 5)
	broken.HeaderImage = []byte("not an image")
	page, err := grid.Page(broken, 1)
	require.NoError(t, err)

	data, err := r.RenderPage(broken, page)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
