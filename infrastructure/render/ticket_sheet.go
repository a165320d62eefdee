package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strconv"
	"strings"
	"time"

	"rifa/domain/entities"
	"rifa/domain/services"
	"rifa/domain/utils"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	_ "golang.org/x/image/webp"
)

// Page geometry in millimetres (A4 portrait)
const (
	pageWidthMM  = 210.0
	pageHeightMM = 297.0
	marginMM     = 10.0
	spacingMM    = 4.0

	imageHeaderHeightMM = 80.0
	textHeaderHeightMM  = 95.0

	pointToMM = 0.3528
)

// DefaultPixelsPerMM renders an A4 sheet at 840x1188
const DefaultPixelsPerMM = 4.0

// Sheet is one rendered page
type Sheet struct {
	Page     int
	FileName string
	PNG      []byte
}

// TicketSheetRenderer draws printable ticket sheets, one PNG per grid page
type TicketSheetRenderer struct {
	grid    *services.TicketGrid
	scale   float64
	regular *truetype.Font
	bold    *truetype.Font
}

// NewTicketSheetRenderer creates a renderer for the given grid
func NewTicketSheetRenderer(grid *services.TicketGrid, pixelsPerMM float64) (*TicketSheetRenderer, error) {
	if pixelsPerMM <= 0 {
		pixelsPerMM = DefaultPixelsPerMM
	}

	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}

	return &TicketSheetRenderer{
		grid:    grid,
		scale:   pixelsPerMM,
		regular: regular,
		bold:    bold,
	}, nil
}

// FileBaseName returns the base name used for every exported sheet of the event
func FileBaseName(event *entities.RaffleEvent) string {
	return "RIFA-" + utils.FileSlug(event.Title)
}

// Size returns the pixel size of a rendered sheet
func (r *TicketSheetRenderer) Size() (int, int) {
	return int(r.mm(pageWidthMM)), int(r.mm(pageHeightMM))
}

// MaxSheetsInMemory caps RenderAll. Larger events are streamed with RenderEach.
const MaxSheetsInMemory = 200

// ErrTooManySheets is returned by RenderAll when an event needs more than MaxSheetsInMemory pages
var ErrTooManySheets = errors.New("too many ticket sheets to render at once")

// RenderAll renders every page of the event
func (r *TicketSheetRenderer) RenderAll(event *entities.RaffleEvent) ([]Sheet, error) {
	if total := r.grid.TotalPages(event); total > MaxSheetsInMemory {
		return nil, fmt.Errorf("%w: %d pages, limit %d", ErrTooManySheets, total, MaxSheetsInMemory)
	}

	var sheets []Sheet
	err := r.RenderEach(event, func(sheet Sheet) error {
		sheets = append(sheets, sheet)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sheets, nil
}

// RenderEach renders the pages one at a time and hands each to fn, stopping at the first error
func (r *TicketSheetRenderer) RenderEach(event *entities.RaffleEvent, fn func(Sheet) error) error {
	pages, err := r.grid.Pages(event)
	if err != nil {
		return err
	}

	base := FileBaseName(event)
	width := max(len(strconv.Itoa(len(pages))), 2)

	for _, page := range pages {
		data, err := r.RenderPage(event, page)
		if err != nil {
			return err
		}
		sheet := Sheet{
			Page:     page.Number,
			FileName: fmt.Sprintf("%s-%0*d.png", base, width, page.Number),
			PNG:      data,
		}
		if err := fn(sheet); err != nil {
			return err
		}
	}
	return nil
}

// RenderPage renders a single grid page as PNG
func (r *TicketSheetRenderer) RenderPage(event *entities.RaffleEvent, page *services.GridPage) ([]byte, error) {
	start := time.Now()
	defer func() {
		log.WithFields(log.Fields{
			"eventId":    event.ID,
			"page":       page.Number,
			"durationMs": time.Since(start).Milliseconds(),
		}).Debug("Ticket sheet rendered")
	}()

	width, height := r.Size()
	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	contentWidth := pageWidthMM - marginMM*2

	headerHeight := textHeaderHeightMM
	header := r.decodeHeaderImage(event)
	if header != nil {
		headerHeight = imageHeaderHeightMM
		r.drawImageHeader(dc, header, contentWidth, headerHeight)
	} else {
		r.drawFallbackHeader(dc, event, contentWidth, headerHeight)
	}

	gridStartY := marginMM + headerHeight + spacingMM
	gridHeight := pageHeightMM - marginMM - gridStartY - 4

	rows := page.Rows()
	cellWidth := contentWidth / float64(page.Columns)
	cellHeight := gridHeight / float64(len(rows))

	for rowIdx, row := range rows {
		for colIdx, slot := range row {
			if slot == nil {
				continue
			}
			x := marginMM + float64(colIdx)*cellWidth
			y := gridStartY + float64(rowIdx)*cellHeight
			r.drawCell(dc, slot, x, y, cellWidth, cellHeight)
		}
	}

	r.setFont(dc, r.regular, 6)
	dc.SetRGB255(180, 180, 180)
	dc.DrawString(utils.T(utils.MsgSheetFooter, page.Number, page.TotalPages), r.mm(marginMM), r.mm(pageHeightMM-3))

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// decodeHeaderImage returns nil when the event has no image or it cannot be decoded
func (r *TicketSheetRenderer) decodeHeaderImage(event *entities.RaffleEvent) image.Image {
	if !event.HasHeaderImage() {
		return nil
	}
	img, format, err := image.Decode(bytes.NewReader(event.HeaderImage))
	if err != nil {
		log.WithFields(log.Fields{
			"eventId": event.ID,
			"error":   err,
		}).Warn("Failed to decode header image, using text header")
		return nil
	}
	log.WithFields(log.Fields{
		"eventId": event.ID,
		"format":  format,
	}).Debug("Decoded header image")
	return img
}

func (r *TicketSheetRenderer) drawImageHeader(dc *gg.Context, img image.Image, contentWidth, headerHeight float64) {
	target := image.Rect(0, 0, int(r.mm(contentWidth)), int(r.mm(headerHeight)))
	scaled := image.NewRGBA(target)
	draw.CatmullRom.Scale(scaled, target, img, img.Bounds(), draw.Over, nil)
	dc.DrawImage(scaled, int(r.mm(marginMM)), int(r.mm(marginMM)))
}

func (r *TicketSheetRenderer) drawFallbackHeader(dc *gg.Context, event *entities.RaffleEvent, contentWidth, headerHeight float64) {
	left := marginMM + 6

	dc.SetRGB(1, 1, 1)
	dc.DrawRoundedRectangle(r.mm(marginMM), r.mm(marginMM), r.mm(contentWidth), r.mm(headerHeight), r.mm(2))
	dc.FillPreserve()
	dc.SetRGB255(220, 220, 230)
	dc.SetLineWidth(r.mm(0.1))
	dc.Stroke()

	title := strings.ToUpper(utils.CleanText(event.Title))
	if title == "" {
		title = "SORTEIO"
	}
	dc.SetRGB(0, 0, 0)
	r.setFont(dc, r.bold, 20)
	dc.DrawString(title, r.mm(left), r.mm(marginMM+12))

	dc.SetLineWidth(r.mm(0.6))
	dc.DrawLine(r.mm(left), r.mm(marginMM+14), r.mm(marginMM+40), r.mm(marginMM+14))
	dc.Stroke()

	description := utils.CleanText(event.Description)
	if description == "" {
		description = "Sem informacoes adicionais."
	}
	r.setFont(dc, r.regular, 10)
	dc.DrawStringWrapped(description, r.mm(left), r.mm(marginMM+18), 0, 0, r.mm(contentWidth-12), 1.3, gg.AlignLeft)

	infoBoxY := marginMM + headerHeight - 22
	dc.SetRGB255(248, 250, 252)
	dc.DrawRoundedRectangle(r.mm(marginMM+3), r.mm(infoBoxY), r.mm(contentWidth-6), r.mm(18), r.mm(1))
	dc.Fill()

	labelY := infoBoxY + 6
	valueY := infoBoxY + 12

	dc.SetRGB(0, 0, 0)
	r.drawInfo(dc, "LOCAL:", upperOrDash(event.Location), left, labelY, valueY)
	r.drawInfo(dc, "DATA:", utils.FormatDate(event.DrawDate), marginMM+60, labelY, valueY)
	r.drawInfo(dc, "VALOR:", utils.FormatCurrency(event.Value), marginMM+105, labelY, valueY)
	r.drawInfo(dc, "PREMIO:", upperOrDash(event.Prize), marginMM+145, labelY, valueY)
}

func (r *TicketSheetRenderer) drawInfo(dc *gg.Context, label, value string, x, labelY, valueY float64) {
	r.setFont(dc, r.bold, 8)
	dc.DrawString(label, r.mm(x), r.mm(labelY))
	r.setFont(dc, r.regular, 8)
	dc.DrawString(value, r.mm(x), r.mm(valueY))
}

func (r *TicketSheetRenderer) drawCell(dc *gg.Context, slot *entities.TicketSlot, x, y, w, h float64) {
	// border
	dc.SetRGB255(210, 210, 220)
	dc.SetLineWidth(r.mm(0.05) + 0.5)
	dc.DrawRectangle(r.mm(x+0.5), r.mm(y+0.5), r.mm(w-1), r.mm(h-1))
	dc.Stroke()

	dc.SetRGB(0, 0, 0)
	r.setFont(dc, r.bold, 34)
	dc.DrawStringAnchored(strconv.Itoa(slot.Number), r.mm(x+w/2), r.mm(y+13), 0.5, 0)

	r.setFont(dc, r.bold, 8)
	dc.DrawString("NOME:", r.mm(x+3), r.mm(y+21))
	dc.DrawString("CEL:", r.mm(x+3), r.mm(y+26))

	dc.SetRGB255(235, 235, 235)
	dc.SetLineWidth(r.mm(0.15))
	dc.DrawLine(r.mm(x+13), r.mm(y+21), r.mm(x+w-3), r.mm(y+21))
	dc.DrawLine(r.mm(x+10), r.mm(y+26), r.mm(x+w-3), r.mm(y+26))
	dc.Stroke()

	dc.SetRGB255(110, 110, 110)
	r.setFont(dc, r.regular, 5.5)
	dc.DrawString("Valor: "+utils.FormatCurrency(slot.Value), r.mm(x+3), r.mm(y+h-5.5))

	prize := "Sorteio: " + utils.CleanText(slot.Prize)
	lines := dc.WordWrap(prize, r.mm(w-6))
	lineHeight := 5.5 * pointToMM * 1.15
	for i, line := range lines {
		dc.DrawString(line, r.mm(x+3), r.mm(y+h-3+float64(i)*lineHeight))
	}
}

func (r *TicketSheetRenderer) setFont(dc *gg.Context, f *truetype.Font, points float64) {
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{
		Size:    r.mm(points * pointToMM),
		DPI:     72,
		Hinting: font.HintingFull,
	}))
}

func (r *TicketSheetRenderer) mm(v float64) float64 {
	return v * r.scale
}

func upperOrDash(s string) string {
	cleaned := strings.ToUpper(utils.CleanText(s))
	if cleaned == "" {
		return "-"
	}
	return cleaned
}
