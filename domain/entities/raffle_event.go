package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	// DefaultSlotsPerPage is the number of tickets printed on one sheet (5x5 grid)
	DefaultSlotsPerPage = 25

	// DefaultInitialSeq and DefaultFinalSeq are the range a new event form starts with
	DefaultInitialSeq = 1
	DefaultFinalSeq   = 999

	// MaxTicketNumber is the largest number the INTEGER columns can store
	MaxTicketNumber = 2147483647
)

// DefaultTicketValue is the ticket price a new event form starts with
var DefaultTicketValue = decimal.NewFromInt(10)

var validate = validator.New(validator.WithRequiredStructEnabled())

// RaffleEvent represents a raffle with its numbered ticket range and prize
type RaffleEvent struct {
	ID          string          `db:"id" json:"id"`
	Title       string          `db:"title" json:"title" validate:"required,max=200"`
	Description string          `db:"description" json:"description"`
	Location    string          `db:"location" json:"location" validate:"max=200"`
	StartDate   *time.Time      `db:"start_date" json:"start_date,omitempty"`
	EndDate     *time.Time      `db:"end_date" json:"end_date,omitempty"`
	DrawDate    time.Time       `db:"draw_date" json:"draw_date" validate:"required"`
	Value       decimal.Decimal `db:"value" json:"value"`
	Prize       string          `db:"prize" json:"prize" validate:"max=500"`
	InitialSeq  int             `db:"initial_seq" json:"initial_seq" validate:"gte=0,lte=2147483647"`
	FinalSeq    int             `db:"final_seq" json:"final_seq" validate:"gte=0,lte=2147483647"`
	HeaderImage []byte          `db:"header_image" json:"header_image,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// NewRaffleEventDraft returns an event populated with the form defaults
func NewRaffleEventDraft() *RaffleEvent {
	return &RaffleEvent{
		Value:      DefaultTicketValue,
		InitialSeq: DefaultInitialSeq,
		FinalSeq:   DefaultFinalSeq,
	}
}

// Validate checks required fields, the ticket range and the ticket value
func (e *RaffleEvent) Validate() error {
	if err := validate.Struct(e); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			fields := make([]string, 0, len(validationErrs))
			for _, fe := range validationErrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidEvent, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	if e.Value.IsNegative() {
		return fmt.Errorf("%w: Value must not be negative", ErrInvalidEvent)
	}

	if e.StartDate != nil && e.EndDate != nil && e.EndDate.Before(*e.StartDate) {
		return fmt.Errorf("%w: EndDate is before StartDate", ErrInvalidEvent)
	}

	return e.Range().Validate()
}

// Range returns the ticket range of the event
func (e *RaffleEvent) Range() Range {
	return Range{InitialSeq: e.InitialSeq, FinalSeq: e.FinalSeq}
}

// TotalSlots returns the number of tickets in the event
func (e *RaffleEvent) TotalSlots() int {
	return e.Range().Size()
}

// TotalPages returns how many sheets are needed to print every ticket
func (e *RaffleEvent) TotalPages(slotsPerPage int) int {
	if slotsPerPage <= 0 {
		slotsPerPage = DefaultSlotsPerPage
	}
	total := e.TotalSlots()
	pages := total / slotsPerPage
	if total%slotsPerPage != 0 {
		pages++
	}
	return pages
}

// HasHeaderImage returns true if a custom sheet header image was uploaded
func (e *RaffleEvent) HasHeaderImage() bool {
	return len(e.HeaderImage) > 0
}

// Slot returns the printable slot for a ticket number
func (e *RaffleEvent) Slot(number int) *TicketSlot {
	return &TicketSlot{
		Number: number,
		Value:  e.Value,
		Prize:  e.Prize,
	}
}

// CloneAsNew copies the event data into a fresh draft without identity
func (e *RaffleEvent) CloneAsNew() *RaffleEvent {
	clone := *e
	clone.ID = ""
	clone.CreatedAt = time.Time{}
	if e.HeaderImage != nil {
		clone.HeaderImage = append([]byte(nil), e.HeaderImage...)
	}
	return &clone
}

// MatchesSearch reports whether the title or prize contains term, ignoring case
func (e *RaffleEvent) MatchesSearch(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Title), term) ||
		strings.Contains(strings.ToLower(e.Prize), term)
}

// TicketSlot is a single printable ticket of a raffle
type TicketSlot struct {
	Number int             `json:"number"`
	Value  decimal.Decimal `json:"value"`
	Prize  string          `json:"prize"`
}
