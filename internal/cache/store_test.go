package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/runtara-monitor/internal/datasource"
	"github.com/yourusername/runtara-monitor/internal/model"
	"go.uber.org/zap"
)

func TestDataStoreEmpty(t *testing.T) {
	store := NewDataStore(15*time.Second, zap.NewNop())
	now := time.Now()

	assert.Nil(t, store.Snapshot(), "no snapshot before the first fetch")
	assert.False(t, store.Connected(), "disconnected before the first fetch")
	assert.True(t, store.IsStale(now), "an empty store is stale")
}

func TestDataStoreSuccessThenFailure(t *testing.T) {
	store := NewDataStore(15*time.Second, zap.NewNop())
	t0 := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	snap := &model.Snapshot{
		Instances: []model.Instance{{ID: "a"}, {ID: "b"}},
		Health:    &model.HealthSnapshot{Healthy: true},
		FetchedAt: t0,
	}
	store.Apply(snap, t0)

	require.Same(t, snap, store.Snapshot())
	assert.True(t, store.Connected(), "connected after success")

	failure := &datasource.Error{Kind: datasource.KindConnection, Op: "get health", Cause: errors.New("refused")}
	t1 := t0.Add(5 * time.Second)
	store.Fail(failure, t1)

	assert.Same(t, snap, store.Snapshot(), "previous snapshot kept after a failure")
	assert.Len(t, store.Snapshot().Instances, 2)
	assert.ErrorIs(t, store.LastError(), failure)
	assert.False(t, store.Connected(), "disconnected after a connection error")
	assert.True(t, store.FetchedAt().Equal(t0))
	assert.True(t, store.LastAttempt().Equal(t1))

	store.Apply(&model.Snapshot{FetchedAt: t1.Add(time.Second)}, t1.Add(time.Second))
	assert.NoError(t, store.LastError(), "last error cleared by a success")
	assert.True(t, store.Connected(), "reconnected after success")
}

func TestDataStoreServerErrorKeepsConnection(t *testing.T) {
	store := NewDataStore(0, zap.NewNop())
	now := time.Now()
	store.Apply(&model.Snapshot{FetchedAt: now}, now)

	store.Fail(datasource.NewServerError("list images", 500, "boom"), now)
	assert.True(t, store.Connected(), "a server error leaves the connection status alone")

	store.Fail(&datasource.Error{Kind: datasource.KindTimeout, Op: "get health"}, now)
	assert.True(t, store.Connected(), "a timeout leaves the connection status alone")
}

func TestDataStoreIsStale(t *testing.T) {
	store := NewDataStore(15*time.Second, zap.NewNop())
	t0 := time.Now()
	store.Apply(&model.Snapshot{FetchedAt: t0}, t0)

	assert.False(t, store.IsStale(t0.Add(10*time.Second)))
	assert.True(t, store.IsStale(t0.Add(16*time.Second)))

	store.Apply(nil, t0)
	assert.NotNil(t, store.Snapshot(), "nil apply is ignored")
}
