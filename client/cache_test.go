package client_test

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lovelog-backend/client"
	"lovelog-backend/domain"
	"lovelog-backend/infrastructure/config"
	"lovelog-backend/infrastructure/persistence"
	"lovelog-backend/infrastructure/persistence/memory"
	"lovelog-backend/interfaces/http/rest"
	"lovelog-backend/pkg/auth"
	"lovelog-backend/pkg/observability"
)

type disconnected struct{}

func (disconnected) IsConnected() bool { return false }

// newTestCache runs the real API over httptest and returns a cache bound to
// it, so these tests exercise the same wire format production sees.
func newTestCache(t *testing.T) *client.StateCache {
	cache, _ := newTestCacheAndClient(t)
	return cache
}

func newTestCacheAndClient(t *testing.T) (*client.StateCache, *client.Client) {
	t.Helper()

	cfg := &config.Config{Environment: "test", AllowedOrigin: "http://localhost:3000"}
	logger := zap.NewNop()
	metrics := observability.NewTestMetrics()

	gateways := make(map[domain.Kind]*persistence.Gateway, len(domain.Kinds))
	for _, kind := range domain.Kinds {
		gateways[kind] = persistence.NewGateway(
			kind.String(), nil, memory.NewRecordStore(kind.String()),
			disconnected{}, metrics, logger,
		)
	}
	users := persistence.NewGateway(
		"users", nil, memory.NewRecordStore("users"),
		disconnected{}, metrics, logger,
	)
	tokens := auth.NewService("test-secret", "lovelog-backend", time.Hour)

	router := rest.NewRouter(cfg, gateways, users, tokens, prometheus.NewRegistry(), logger)
	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)

	api := client.New(srv.URL + "/api/v1")
	return client.NewStateCache(api), api
}

func TestRefreshAllNormalizesIdentifiers(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)

	require.NoError(t, cache.AddMemory(ctx, domain.Memory{
		Type: "story", Content: "the proposal", Date: "2024-05-20",
	}))

	require.Len(t, cache.Memories, 1)
	m := cache.Memories[0]
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, m.ID, m.NativeID)
}

func TestAddAndDeleteAcrossCollections(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)

	require.NoError(t, cache.AddAnniversary(ctx, domain.Anniversary{Name: "first date", Date: "2023-02-14"}))
	require.NoError(t, cache.AddMessage(ctx, domain.Message{Content: "good morning", Mood: "sweet"}))
	require.NoError(t, cache.AddWish(ctx, domain.Wish{Text: "see the northern lights"}))

	assert.Len(t, cache.Anniversaries, 1)
	assert.Len(t, cache.Messages, 1)
	assert.Len(t, cache.Wishes, 1)

	require.NoError(t, cache.DeleteMessage(ctx, cache.Messages[0].ID))
	assert.Empty(t, cache.Messages)
	assert.Len(t, cache.Wishes, 1, "other collections are untouched")
}

func TestUpdateMemoryKeepsUntouchedFields(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)

	require.NoError(t, cache.AddMemory(ctx, domain.Memory{
		Type: "travel", Content: "weekend in kyoto", Date: "2024-03-10",
		Photos: []string{"kyoto-1.jpg"},
	}))
	id := cache.Memories[0].ID

	require.NoError(t, cache.UpdateMemory(ctx, id, map[string]interface{}{
		"content": "long weekend in kyoto",
	}))

	m := cache.Memories[0]
	assert.Equal(t, "long weekend in kyoto", m.Content)
	assert.Equal(t, "travel", m.Type)
	assert.Equal(t, []string{"kyoto-1.jpg"}, m.Photos)
}

func TestToggleWish(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)

	require.NoError(t, cache.AddWish(ctx, domain.Wish{Text: "learn to dance"}))
	id := cache.Wishes[0].ID
	require.False(t, cache.Wishes[0].Completed)

	require.NoError(t, cache.ToggleWish(ctx, id))
	assert.True(t, cache.Wishes[0].Completed)

	require.NoError(t, cache.ToggleWish(ctx, id))
	assert.False(t, cache.Wishes[0].Completed)

	err := cache.ToggleWish(ctx, "no-such-wish")
	assert.True(t, client.IsNotFound(err))
}

func TestSaveMoodUpsertsByDate(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)

	require.NoError(t, cache.SaveMood(ctx, domain.Mood{Mood: "tired", Date: "2024-04-01"}))
	require.NoError(t, cache.SaveMood(ctx, domain.Mood{Mood: "happy", Date: "2024-04-01"}))
	require.NoError(t, cache.SaveMood(ctx, domain.Mood{Mood: "calm", Date: "2024-04-02"}))

	require.Len(t, cache.Moods, 2, "same-day check-ins update in place")

	byDate := make(map[string]string, len(cache.Moods))
	for _, m := range cache.Moods {
		byDate[m.Date] = m.Mood
	}
	assert.Equal(t, "happy", byDate["2024-04-01"])
	assert.Equal(t, "calm", byDate["2024-04-02"])
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)

	require.NoError(t, cache.AddMemory(ctx, domain.Memory{Type: "date", Content: "picnic", Date: "2024-06-01"}))
	require.NoError(t, cache.AddWish(ctx, domain.Wish{Text: "road trip"}))

	require.NoError(t, cache.ClearAll(ctx))

	assert.Empty(t, cache.Memories)
	assert.Empty(t, cache.Wishes)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)

	require.NoError(t, cache.AddMemory(ctx, domain.Memory{Type: "date", Content: "dinner", Date: "2024-01-01"}))
	require.NoError(t, cache.AddMemory(ctx, domain.Memory{Type: "story", Content: "the proposal", Date: "2024-05-20"}))
	require.NoError(t, cache.AddAnniversary(ctx, domain.Anniversary{Name: "first date", Date: "2023-02-14"}))
	require.NoError(t, cache.AddMessage(ctx, domain.Message{Content: "miss you", Mood: "longing"}))
	require.NoError(t, cache.AddWish(ctx, domain.Wish{Text: "visit paris"}))
	require.NoError(t, cache.SaveMood(ctx, domain.Mood{Mood: "happy", Date: "2024-04-01"}))
	cache.LoveStartDate = "2022-11-05"

	snap := cache.Export()
	assert.NotEmpty(t, snap.ExportDate)

	require.NoError(t, cache.ClearAll(ctx))
	require.Empty(t, cache.Memories)

	sum, err := cache.Import(ctx, snap)
	require.NoError(t, err)
	assert.Equal(t, 6, sum.Total)
	assert.Equal(t, 6, sum.Imported)
	assert.Zero(t, sum.Skipped)
	assert.Zero(t, sum.Failed)

	assert.Len(t, cache.Memories, 2)
	assert.Len(t, cache.Anniversaries, 1)
	assert.Len(t, cache.Messages, 1)
	assert.Len(t, cache.Wishes, 1)
	assert.Len(t, cache.Moods, 1)
	assert.Equal(t, "2022-11-05", cache.LoveStartDate)
}

func TestImportSkipsDuplicates(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)

	require.NoError(t, cache.AddWish(ctx, domain.Wish{Text: "visit paris"}))
	snap := cache.Export()

	sum, err := cache.Import(ctx, snap)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Total)
	assert.Equal(t, 1, sum.Skipped)
	assert.Zero(t, sum.Imported)

	assert.Len(t, cache.Wishes, 1, "re-importing an export adds nothing")
}

func TestImportCountsFailuresAndContinues(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)

	snap := client.Snapshot{
		Memories: []domain.Memory{
			{Type: "date", Date: "2024-01-01"}, // no content, rejected
			{Type: "date", Content: "dinner", Date: "2024-01-02"},
		},
		Wishes: []domain.Wish{{Text: "road trip"}},
	}

	sum, err := cache.Import(ctx, snap)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, 2, sum.Imported)
	assert.Equal(t, 1, sum.Failed)

	assert.Len(t, cache.Memories, 1)
	assert.Len(t, cache.Wishes, 1)
}

func TestSnapshotFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)

	require.NoError(t, cache.AddMessage(ctx, domain.Message{Content: "good night", Mood: "sleepy"}))
	cache.LoveStartDate = "2022-11-05"

	path := filepath.Join(t.TempDir(), "lovelog-export.json")
	require.NoError(t, cache.ExportToFile(path))

	require.NoError(t, cache.ClearAll(ctx))
	cache.LoveStartDate = ""

	sum, err := cache.ImportFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Imported)
	require.Len(t, cache.Messages, 1)
	assert.Equal(t, "good night", cache.Messages[0].Content)
	assert.Equal(t, "2022-11-05", cache.LoveStartDate)
}

func TestRegisterLoginThroughClient(t *testing.T) {
	ctx := context.Background()
	_, c := newTestCacheAndClient(t)

	res, err := c.Register(ctx, "alice", "pw123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "alice", res.User.Username)

	res, err = c.Login(ctx, "alice", "pw123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	_, err = c.Login(ctx, "alice", "wrong")
	require.Error(t, err)
	apiErr, ok := err.(*client.APIError)
	require.True(t, ok)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Equal(t, "invalid username or password", apiErr.Message)
}
