package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rifa/database"
	"rifa/domain/entities"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const raffleEventColumns = `
	id, title, description, location, start_date, end_date, draw_date,
	value::text, prize, initial_seq, final_seq, header_image, created_at
`

// RaffleEventRepository implements the RaffleEventRepository interface
type RaffleEventRepository struct {
	q       queryable
	metrics QueryObserver
}

// QueryObserver receives the duration of every repository query
type QueryObserver interface {
	RecordQuery(ctx context.Context, operation string, duration time.Duration, err error)
}

// NewRaffleEventRepository creates a new raffle event repository
func NewRaffleEventRepository(db *database.DB) *RaffleEventRepository {
	return &RaffleEventRepository{q: db.Pool}
}

// newRaffleEventRepositoryWithTx creates a new raffle event repository with a transaction
func newRaffleEventRepositoryWithTx(tx queryable, metrics QueryObserver) *RaffleEventRepository {
	return &RaffleEventRepository{q: tx, metrics: metrics}
}

func (r *RaffleEventRepository) observe(ctx context.Context, operation string, start time.Time, err error) {
	if r.metrics != nil {
		r.metrics.RecordQuery(ctx, operation, time.Since(start), err)
	}
}

// GetByID retrieves a raffle event by ID
func (r *RaffleEventRepository) GetByID(ctx context.Context, id string) (event *entities.RaffleEvent, err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "raffle_events.get_by_id", start, err) }()

	query := `SELECT ` + raffleEventColumns + ` FROM raffle_events WHERE id = $1`

	event, err = scanRaffleEvent(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get raffle event %s: %w", id, err)
	}
	return event, nil
}

// List returns every raffle event, newest first
func (r *RaffleEventRepository) List(ctx context.Context) (list []*entities.RaffleEvent, err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "raffle_events.list", start, err) }()

	query := `SELECT ` + raffleEventColumns + ` FROM raffle_events ORDER BY created_at DESC, id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list raffle events: %w", err)
	}
	return collectRaffleEvents(rows)
}

// Search returns events whose title or prize contains term, ignoring case
func (r *RaffleEventRepository) Search(ctx context.Context, term string) (list []*entities.RaffleEvent, err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "raffle_events.search", start, err) }()

	query := `
		SELECT ` + raffleEventColumns + `
		FROM raffle_events
		WHERE title ILIKE '%' || $1 || '%' OR prize ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC, id
	`

	rows, err := r.q.Query(ctx, query, escapeLike(term))
	if err != nil {
		return nil, fmt.Errorf("failed to search raffle events: %w", err)
	}
	return collectRaffleEvents(rows)
}

// Upsert inserts the event or replaces the stored one with the same ID
func (r *RaffleEventRepository) Upsert(ctx context.Context, event *entities.RaffleEvent) (err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "raffle_events.upsert", start, err) }()

	query := `
		INSERT INTO raffle_events (
			id, title, description, location, start_date, end_date, draw_date,
			value, prize, initial_seq, final_seq, header_image, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::numeric, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			title        = EXCLUDED.title,
			description  = EXCLUDED.description,
			location     = EXCLUDED.location,
			start_date   = EXCLUDED.start_date,
			end_date     = EXCLUDED.end_date,
			draw_date    = EXCLUDED.draw_date,
			value        = EXCLUDED.value,
			prize        = EXCLUDED.prize,
			initial_seq  = EXCLUDED.initial_seq,
			final_seq    = EXCLUDED.final_seq,
			header_image = EXCLUDED.header_image,
			updated_at   = NOW()
	`

	_, err = r.q.Exec(ctx, query,
		event.ID,
		event.Title,
		event.Description,
		event.Location,
		event.StartDate,
		event.EndDate,
		event.DrawDate,
		event.Value.String(),
		event.Prize,
		event.InitialSeq,
		event.FinalSeq,
		event.HeaderImage,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert raffle event %s: %w", event.ID, err)
	}
	return nil
}

// Delete removes a raffle event. Returns false when no row matched.
func (r *RaffleEventRepository) Delete(ctx context.Context, id string) (deleted bool, err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "raffle_events.delete", start, err) }()

	tag, err := r.q.Exec(ctx, `DELETE FROM raffle_events WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete raffle event %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func collectRaffleEvents(rows pgx.Rows) ([]*entities.RaffleEvent, error) {
	defer rows.Close()

	list := make([]*entities.RaffleEvent, 0)
	for rows.Next() {
		event, err := scanRaffleEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan raffle event: %w", err)
		}
		list = append(list, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate raffle events: %w", err)
	}
	return list, nil
}

func scanRaffleEvent(row pgx.Row) (*entities.RaffleEvent, error) {
	var event entities.RaffleEvent
	var value string

	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Location,
		&event.StartDate,
		&event.EndDate,
		&event.DrawDate,
		&value,
		&event.Prize,
		&event.InitialSeq,
		&event.FinalSeq,
		&event.HeaderImage,
		&event.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	event.Value, err = decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid stored value %q: %w", value, err)
	}
	return &event, nil
}

func escapeLike(term string) string {
	out := make([]rune, 0, len(term))
	for _, r := range term {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
