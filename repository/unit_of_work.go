package repository

import (
	"context"
	"errors"
	"fmt"

	"rifa/application"
	"rifa/database"
	"rifa/domain/interfaces"
	"rifa/events"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	metrics          QueryObserver
	transactionalBus *events.TransactionalBus
	raffleEventRepo  interfaces.RaffleEventRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory. Events published
// inside a unit of work reach publisher only after a successful commit.
func NewUnitOfWorkFactory(db *database.DB, publisher events.Publisher) *unitOfWorkFactory {
	return &unitOfWorkFactory{
		db:        db,
		publisher: publisher,
	}
}

type unitOfWorkFactory struct {
	db        *database.DB
	publisher events.Publisher
	metrics   QueryObserver
}

// WithQueryObserver makes every repository created by the factory report query durations
func (f *unitOfWorkFactory) WithQueryObserver(metrics QueryObserver) *unitOfWorkFactory {
	f.metrics = metrics
	return f
}

func (f *unitOfWorkFactory) Create() application.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		metrics:          f.metrics,
		transactionalBus: events.NewTransactionalBus(f.publisher),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx
	u.raffleEventRepo = newRaffleEventRepositoryWithTx(tx, u.metrics)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	u.tx = nil

	// events are best-effort once the data is committed
	if err := u.transactionalBus.Flush(u.ctx); err != nil {
		log.WithError(err).Error("Failed to flush events after commit")
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	u.tx = nil

	u.transactionalBus.Discard()
	return nil
}

// RaffleEventRepository returns the raffle event repository for this unit of work
func (u *unitOfWork) RaffleEventRepository() interfaces.RaffleEventRepository {
	if u.raffleEventRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.raffleEventRepo
}

// EventBus returns the transactional event publisher
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	return u.transactionalBus
}
