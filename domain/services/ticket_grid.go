package services

import (
	"fmt"

	"rifa/domain/entities"
)

// GridPage is one sheet of tickets. Slots past the end of the range are nil
// so every page keeps the full grid shape.
type GridPage struct {
	Number     int                    `json:"number"`
	TotalPages int                    `json:"total_pages"`
	Columns    int                    `json:"columns"`
	Slots      []*entities.TicketSlot `json:"slots"`
}

// FirstNumber returns the first ticket number printed on the page
func (p *GridPage) FirstNumber() (int, bool) {
	for _, slot := range p.Slots {
		if slot != nil {
			return slot.Number, true
		}
	}
	return 0, false
}

// LastNumber returns the last ticket number printed on the page
func (p *GridPage) LastNumber() (int, bool) {
	for i := len(p.Slots) - 1; i >= 0; i-- {
		if p.Slots[i] != nil {
			return p.Slots[i].Number, true
		}
	}
	return 0, false
}

// Rows splits the page slots into rows of Columns cells
func (p *GridPage) Rows() [][]*entities.TicketSlot {
	cols := p.Columns
	if cols <= 0 {
		cols = len(p.Slots)
	}
	var rows [][]*entities.TicketSlot
	for start := 0; start < len(p.Slots); start += cols {
		end := start + cols
		if end > len(p.Slots) {
			end = len(p.Slots)
		}
		rows = append(rows, p.Slots[start:end])
	}
	return rows
}

// TicketGrid paginates the tickets of an event
type TicketGrid struct {
	slotsPerPage int
	columns      int
}

// NewTicketGrid creates a grid with the given page size. Pages are laid out
// as a square when the size allows it (25 slots gives 5x5).
func NewTicketGrid(slotsPerPage int) *TicketGrid {
	if slotsPerPage <= 0 {
		slotsPerPage = entities.DefaultSlotsPerPage
	}
	columns := 1
	for (columns+1)*(columns+1) <= slotsPerPage {
		columns++
	}
	if slotsPerPage%columns != 0 {
		columns = slotsPerPage
	}
	return &TicketGrid{slotsPerPage: slotsPerPage, columns: columns}
}

// SlotsPerPage returns the page size
func (g *TicketGrid) SlotsPerPage() int {
	return g.slotsPerPage
}

// TotalPages returns ceil(total tickets / page size)
func (g *TicketGrid) TotalPages(event *entities.RaffleEvent) int {
	return event.TotalPages(g.slotsPerPage)
}

// Page builds page number page (1-based) of the event's tickets
func (g *TicketGrid) Page(event *entities.RaffleEvent, page int) (*GridPage, error) {
	if err := event.Range().Validate(); err != nil {
		return nil, err
	}

	total := g.TotalPages(event)
	if page < 1 || page > total {
		return nil, fmt.Errorf("%w: page %d of %d", entities.ErrPageOutOfRange, page, total)
	}

	start := event.InitialSeq + (page-1)*g.slotsPerPage
	slots := make([]*entities.TicketSlot, g.slotsPerPage)
	for i := range slots {
		n := start + i
		if n > event.FinalSeq {
			break
		}
		slots[i] = event.Slot(n)
	}

	return &GridPage{
		Number:     page,
		TotalPages: total,
		Columns:    g.columns,
		Slots:      slots,
	}, nil
}

// Pages builds every page of the event
func (g *TicketGrid) Pages(event *entities.RaffleEvent) ([]*GridPage, error) {
	if err := event.Range().Validate(); err != nil {
		return nil, err
	}

	total := g.TotalPages(event)
	pages := make([]*GridPage, 0, total)
	for p := 1; p <= total; p++ {
		page, err := g.Page(event, p)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}
