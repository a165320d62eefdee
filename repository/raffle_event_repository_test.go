package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"rifa/events"
	"rifa/repository/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaffleEventRepository_CRUD(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewRaffleEventRepository(testDB.DB)
	ctx := context.Background()

	t.Run("event not found", func(t *testing.T) {
		event, err := repo.GetByID(ctx, "does-not-exist")
		require.NoError(t, err)
		assert.Nil(t, event)
	})

	t.Run("insert and read back", func(t *testing.T) {
		testDB.Truncate(t)

		start := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
		event := testutil.CreateTestRaffleEvent("Rifa da Quermesse")
		event.StartDate = &start
		event.Value = decimal.RequireFromString("12.50")
		event.HeaderImage = []byte{0x89, 0x50, 0x4e, 0x47}

		require.NoError(t, repo.Upsert(ctx, event))

		got, err := repo.GetByID(ctx, event.ID)
		require.NoError(t, err)
		require.NotNil(t, got)

		assert.Equal(t, event.Title, got.Title)
		assert.Equal(t, event.Location, got.Location)
		assert.True(t, event.Value.Equal(got.Value))
		assert.Equal(t, event.InitialSeq, got.InitialSeq)
		assert.Equal(t, event.FinalSeq, got.FinalSeq)
		assert.Equal(t, event.HeaderImage, got.HeaderImage)
		require.NotNil(t, got.StartDate)
		assert.True(t, start.Equal(*got.StartDate))
		assert.Nil(t, got.EndDate)
		assert.True(t, event.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("upsert replaces existing", func(t *testing.T) {
		testDB.Truncate(t)

		event := testutil.CreateTestRaffleEvent("Rifa Antiga")
		require.NoError(t, repo.Upsert(ctx, event))

		event.Title = "Rifa Nova"
		event.FinalSeq = 500
		require.NoError(t, repo.Upsert(ctx, event))

		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Rifa Nova", list[0].Title)
		assert.Equal(t, 500, list[0].FinalSeq)
	})

	t.Run("list is newest first", func(t *testing.T) {
		testDB.Truncate(t)

		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		for i, title := range []string{"primeira", "segunda", "terceira"} {
			require.NoError(t, repo.Upsert(ctx, testutil.CreateTestRaffleEventAt(title, base.Add(time.Duration(i)*time.Hour))))
		}

		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "terceira", list[0].Title)
		assert.Equal(t, "primeira", list[2].Title)
	})

	t.Run("search matches title or prize ignoring case", func(t *testing.T) {
		testDB.Truncate(t)

		tv := testutil.CreateTestRaffleEvent("Rifa da Escola")
		tv.Prize = "Televisão 50%"
		bike := testutil.CreateTestRaffleEvent("Rifa do Clube")
		bike.Prize = "Bicicleta"
		require.NoError(t, repo.Upsert(ctx, tv))
		require.NoError(t, repo.Upsert(ctx, bike))

		found, err := repo.Search(ctx, "ESCOLA")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, tv.ID, found[0].ID)

		found, err = repo.Search(ctx, "bici")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, bike.ID, found[0].ID)

		found, err = repo.Search(ctx, "%")
		require.NoError(t, err)
		assert.Len(t, found, 1, "wildcards are matched literally")
	})

	t.Run("delete", func(t *testing.T) {
		testDB.Truncate(t)

		event := testutil.CreateTestRaffleEvent("Para apagar")
		require.NoError(t, repo.Upsert(ctx, event))

		deleted, err := repo.Delete(ctx, event.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, event.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("range constraint enforced", func(t *testing.T) {
		event := testutil.CreateTestRaffleEvent("Invalida")
		event.InitialSeq = 10
		event.FinalSeq = 1
		assert.Error(t, repo.Upsert(ctx, event))
	})
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type countingObserver struct {
	mu    sync.Mutex
	calls map[string]int
}

func (o *countingObserver) RecordQuery(ctx context.Context, operation string, duration time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls[operation]++
}

func TestUnitOfWork_CommitAndRollback(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	publisher := &recordingPublisher{}
	observer := &countingObserver{calls: map[string]int{}}
	factory := NewUnitOfWorkFactory(testDB.DB, publisher).WithQueryObserver(observer)
	ctx := context.Background()

	t.Run("commit persists and flushes events", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))

		event := testutil.CreateTestRaffleEvent("Commit")
		require.NoError(t, uow.RaffleEventRepository().Upsert(ctx, event))
		require.NoError(t, uow.EventBus().Publish(events.RaffleEventSavedEvent{EventID: event.ID}))
		assert.Equal(t, 0, publisher.count())

		require.NoError(t, uow.Commit())
		assert.Equal(t, 1, publisher.count())
		assert.Equal(t, 1, observer.calls["raffle_events.upsert"])

		got, err := NewRaffleEventRepository(testDB.DB).GetByID(ctx, event.ID)
		require.NoError(t, err)
		assert.NotNil(t, got)
	})

	t.Run("rollback discards data and events", func(t *testing.T) {
		before := publisher.count()

		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))

		event := testutil.CreateTestRaffleEvent("Rollback")
		require.NoError(t, uow.RaffleEventRepository().Upsert(ctx, event))
		require.NoError(t, uow.EventBus().Publish(events.RaffleEventSavedEvent{EventID: event.ID}))
		require.NoError(t, uow.Rollback())

		assert.Equal(t, before, publisher.count())

		got, err := NewRaffleEventRepository(testDB.DB).GetByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("repository access before begin panics", func(t *testing.T) {
		uow := factory.Create()
		assert.Panics(t, func() { uow.RaffleEventRepository() })
	})

	t.Run("double begin fails", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		defer uow.Rollback()

		assert.Error(t, uow.Begin(ctx))
	})
}

func TestEscapeLike(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `50\%`, escapeLike("50%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c\\d`, escapeLike(`c\d`))
	assert.Equal(t, "Ação", escapeLike("Ação"))
}
