package persistence_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lovelog-backend/infrastructure/persistence"
	"lovelog-backend/infrastructure/persistence/memory"
	"lovelog-backend/pkg/observability"
)

type staticStatus bool

func (s staticStatus) IsConnected() bool { return bool(s) }

// flakyStore wraps a working store and fails every operation while fail is
// set, standing in for a durable backend that lost its connection mid-flight.
type flakyStore struct {
	inner persistence.Store
	fail  bool
}

var errBackend = errors.New("connection reset by peer")

func (f *flakyStore) List(ctx context.Context) ([]persistence.Record, error) {
	if f.fail {
		return nil, errBackend
	}
	return f.inner.List(ctx)
}

func (f *flakyStore) Create(ctx context.Context, data persistence.Record) (persistence.Record, error) {
	if f.fail {
		return nil, errBackend
	}
	return f.inner.Create(ctx, data)
}

func (f *flakyStore) Update(ctx context.Context, id string, data persistence.Record) (persistence.Record, error) {
	if f.fail {
		return nil, errBackend
	}
	return f.inner.Update(ctx, id, data)
}

func (f *flakyStore) Delete(ctx context.Context, id string) error {
	if f.fail {
		return errBackend
	}
	return f.inner.Delete(ctx, id)
}

func (f *flakyStore) Clear(ctx context.Context) error {
	if f.fail {
		return errBackend
	}
	return f.inner.Clear(ctx)
}

func newTestGateway(collection string, durable persistence.Store, connected bool) *persistence.Gateway {
	return persistence.NewGateway(
		collection,
		durable,
		memory.NewRecordStore(collection),
		staticStatus(connected),
		observability.NewTestMetrics(),
		zap.NewNop(),
	)
}

func TestGatewayUsesDurableStoreWhenConnected(t *testing.T) {
	ctx := context.Background()
	durable := memory.NewRecordStore("memories")
	g := newTestGateway("memories", durable, true)

	rec, err := g.Create(ctx, persistence.Record{"content": "dinner"})
	require.NoError(t, err)
	assert.Equal(t, rec["id"], rec["_id"])

	records, err := durable.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestGatewaySkipsDurableStoreWhenDisconnected(t *testing.T) {
	ctx := context.Background()
	durable := &flakyStore{inner: memory.NewRecordStore("memories")}
	g := newTestGateway("memories", durable, false)

	rec, err := g.Create(ctx, persistence.Record{"content": "dinner"})
	require.NoError(t, err)
	assert.Contains(t, rec.ID(), "memory-memories-")

	inDurable, err := durable.inner.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, inDurable, "disconnected durable store must never be touched")
}

func TestGatewayNilDurableStore(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway("wishes", nil, false)

	rec, err := g.Create(ctx, persistence.Record{"text": "visit paris"})
	require.NoError(t, err)
	assert.Equal(t, "memory-wishes-1", rec.ID())
	assert.False(t, g.DurableAvailable())
}

func TestGatewayFallsBackOnDurableError(t *testing.T) {
	ctx := context.Background()
	durable := &flakyStore{inner: memory.NewRecordStore("messages"), fail: true}
	g := newTestGateway("messages", durable, true)

	rec, err := g.Create(ctx, persistence.Record{"content": "miss you", "mood": "romantic"})
	require.NoError(t, err)
	assert.Equal(t, "memory-messages-1", rec.ID())

	records, err := g.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "miss you", records[0]["content"])
}

func TestGatewayFallbackCoversEveryOperation(t *testing.T) {
	ctx := context.Background()
	durable := &flakyStore{inner: memory.NewRecordStore("wishes"), fail: true}
	g := newTestGateway("wishes", durable, true)

	created, err := g.Create(ctx, persistence.Record{"text": "learn to dance"})
	require.NoError(t, err)

	updated, err := g.Update(ctx, created.ID(), persistence.Record{"completed": true})
	require.NoError(t, err)
	assert.Equal(t, true, updated["completed"])

	require.NoError(t, g.Delete(ctx, created.ID()))
	require.NoError(t, g.Clear(ctx))

	records, err := g.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestGatewayNotFoundDoesNotTriggerFallback(t *testing.T) {
	ctx := context.Background()
	durable := &flakyStore{inner: memory.NewRecordStore("memories")}

	// Plant a record in the fallback store with the id we will ask for. If
	// the gateway wrongly fell back, the update would succeed.
	fallback := memory.NewRecordStore("memories")
	g := persistence.NewGateway("memories", durable, fallback, staticStatus(true),
		observability.NewTestMetrics(), zap.NewNop())
	planted, err := fallback.Create(ctx, persistence.Record{"content": "decoy"})
	require.NoError(t, err)

	_, err = g.Update(ctx, planted.ID(), persistence.Record{"content": "changed"})
	assert.ErrorIs(t, err, persistence.ErrNotFound)

	err = g.Delete(ctx, planted.ID())
	assert.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestGatewayBreakerOpensAfterRepeatedFailures(t *testing.T) {
	ctx := context.Background()
	durable := &flakyStore{inner: memory.NewRecordStore("moods"), fail: true}
	g := newTestGateway("moods", durable, true)

	for i := 0; i < 6; i++ {
		_, err := g.Create(ctx, persistence.Record{"mood": "tired", "date": "2024-01-01"})
		require.NoError(t, err)
	}

	// The breaker is now open; even a recovered durable store is bypassed
	// until the open interval elapses.
	durable.fail = false
	_, err := g.Create(ctx, persistence.Record{"mood": "happy", "date": "2024-01-02"})
	require.NoError(t, err)

	inDurable, err := durable.inner.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, inDurable)
}

func TestGatewayListAppliesSortPolicy(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway("anniversaries", nil, false)

	for _, date := range []string{"2024-06-01", "2023-02-14", "2025-01-01"} {
		_, err := g.Create(ctx, persistence.Record{"name": "n", "date": date})
		require.NoError(t, err)
	}

	records, err := g.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "2023-02-14", records[0]["date"])
	assert.Equal(t, "2024-06-01", records[1]["date"])
	assert.Equal(t, "2025-01-01", records[2]["date"])
}

func TestSortRecordsMissingFieldSortsLast(t *testing.T) {
	records := []persistence.Record{
		{"name": "no-date"},
		{"name": "dated", "date": "2024-01-01"},
	}
	persistence.SortRecords(records, persistence.SortPolicy{Field: "date"})

	assert.Equal(t, "dated", records[0]["name"])
	assert.Equal(t, "no-date", records[1]["name"])
}

func TestSortRecordsDescending(t *testing.T) {
	records := []persistence.Record{
		{"createdAt": "2024-01-01T00:00:00.000000000Z"},
		{"createdAt": "2024-03-01T00:00:00.000000000Z"},
		{"createdAt": "2024-02-01T00:00:00.000000000Z"},
	}
	persistence.SortRecords(records, persistence.SortPolicy{Field: "createdAt", Descending: true})

	assert.Equal(t, "2024-03-01T00:00:00.000000000Z", records[0]["createdAt"])
	assert.Equal(t, "2024-01-01T00:00:00.000000000Z", records[2]["createdAt"])
}
