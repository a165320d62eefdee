package application

import (
	"context"
	"errors"
	"sync"

	"rifa/domain/entities"
	"rifa/domain/interfaces"
	"rifa/domain/testhelpers"
	"rifa/events"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []events.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()

	types := make([]events.EventType, len(p.events))
	for i, e := range p.events {
		types[i] = e.Type()
	}
	return types
}

func (p *recordingPublisher) ofType(t events.EventType) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []events.Event
	for _, e := range p.events {
		if e.Type() == t {
			out = append(out, e)
		}
	}
	return out
}

type fakeUnitOfWork struct {
	repo       *testhelpers.MockRaffleEventRepository
	bus        *events.TransactionalBus
	beginErr   error
	began      bool
	committed  bool
	rolledBack bool
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error {
	if u.beginErr != nil {
		return u.beginErr
	}
	u.began = true
	return nil
}

func (u *fakeUnitOfWork) Commit() error {
	u.committed = true
	return u.bus.Flush(context.Background())
}

func (u *fakeUnitOfWork) Rollback() error {
	u.rolledBack = true
	u.bus.Discard()
	return nil
}

func (u *fakeUnitOfWork) RaffleEventRepository() interfaces.RaffleEventRepository {
	return u.repo
}

func (u *fakeUnitOfWork) EventBus() interfaces.EventPublisher {
	return u.bus
}

type fakeUnitOfWorkFactory struct {
	repo      *testhelpers.MockRaffleEventRepository
	publisher *recordingPublisher
	created   []*fakeUnitOfWork
	beginErr  error
}

func newFakeUnitOfWorkFactory() *fakeUnitOfWorkFactory {
	return &fakeUnitOfWorkFactory{
		repo:      new(testhelpers.MockRaffleEventRepository),
		publisher: &recordingPublisher{},
	}
}

func (f *fakeUnitOfWorkFactory) Create() UnitOfWork {
	uow := &fakeUnitOfWork{
		repo:     f.repo,
		bus:      events.NewTransactionalBus(f.publisher),
		beginErr: f.beginErr,
	}
	f.created = append(f.created, uow)
	return uow
}

func (f *fakeUnitOfWorkFactory) last() *fakeUnitOfWork {
	return f.created[len(f.created)-1]
}

type mapLoader map[string]*entities.RaffleEvent

func (m mapLoader) Get(ctx context.Context, id string) (*entities.RaffleEvent, error) {
	if event, ok := m[id]; ok {
		return event, nil
	}
	return nil, entities.ErrEventNotFound
}

var errBoom = errors.New("boom")
