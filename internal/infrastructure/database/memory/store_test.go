package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/qsim/internal/domain/simulation"
	"github.com/turtacn/qsim/pkg/errors"
)

func sampleResult(name string) *simulation.Result {
	return &simulation.Result{
		MoleculeName: name,
		QubitCount:   4,
		AnsatzType:   simulation.AnsatzUCCSD,
		ExactEnergy:  -1.137,
		VQEEnergy:    -1.136,
		Distances:    []float64{0.5, 0.74},
		EnergyValues: []float64{-1.05, -1.137},
	}
}

func TestStore_PutGet(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, simulation.ErrCacheMiss)
	assert.True(t, errors.IsNotFound(err))

	require.NoError(t, s.Put(ctx, &simulation.CacheEntry{Key: "k", Data: sampleResult("HH"), CachedAt: at}))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "k", got.Key)
	assert.Equal(t, at, got.CachedAt)
	assert.Equal(t, sampleResult("HH"), got.Data)
}

func TestStore_PutReplaces(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Put(ctx, &simulation.CacheEntry{Key: "k", Data: sampleResult("HH")}))
	require.NoError(t, s.Put(ctx, &simulation.CacheEntry{Key: "k", Data: sampleResult("HLi")}))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "HLi", got.Data.MoleculeName)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Entries)
	assert.Greater(t, stats.StorageSizeBytes, int64(0))
}

func TestStore_ReturnedValuesAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	res := sampleResult("HH")
	require.NoError(t, s.Put(ctx, &simulation.CacheEntry{Key: "k", Data: res}))
	res.MoleculeName = "mutated"

	got, _ := s.Get(ctx, "k")
	got.Data.Distances[0] = 99

	again, _ := s.Get(ctx, "k")
	assert.Equal(t, "HH", again.Data.MoleculeName)
	assert.Equal(t, 0.5, again.Data.Distances[0])
}

func TestStore_TTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewStore(WithTTL(time.Minute), WithClock(func() time.Time { return now }))

	require.NoError(t, s.Put(ctx, &simulation.CacheEntry{Key: "k", Data: sampleResult("HH")}))
	_, err := s.Get(ctx, "k")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, simulation.ErrCacheMiss)

	stats, _ := s.Stats(ctx)
	assert.Equal(t, int64(0), stats.Entries)
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, s.Put(ctx, &simulation.CacheEntry{Key: k, Data: sampleResult(k)}))
	}
	n, err := s.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	stats, _ := s.Stats(ctx)
	assert.Equal(t, int64(0), stats.Entries)
	assert.NoError(t, s.Ping(ctx))
	assert.NoError(t, s.Close())
}

func TestStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewStore()
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Put(ctx, &simulation.CacheEntry{Key: "k"}), context.Canceled)
	assert.ErrorIs(t, s.Ping(ctx), context.Canceled)
}

func TestStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = s.Put(ctx, &simulation.CacheEntry{Key: "k", Data: sampleResult("HH")})
				_, _ = s.Get(ctx, "k")
			}
		}()
	}
	wg.Wait()
	stats, _ := s.Stats(ctx)
	assert.Equal(t, int64(1), stats.Entries)
}

//Personal.AI order the ending
