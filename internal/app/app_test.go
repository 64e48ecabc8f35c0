package app

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Freeeeeet/slot_board/internal/config"
	"github.com/Freeeeeet/slot_board/internal/service"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenStoreMemorySeeds(t *testing.T) {
	cfg := &config.Config{StorageDriver: config.DriverMemory, SeedMembers: true}

	store, err := OpenStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, "memory", store.Name())
	members, err := store.ListMembers(context.Background())
	require.NoError(t, err)
	assert.Len(t, members, len(service.DefaultMembers))
}

func TestOpenStoreRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{
		StorageDriver: config.DriverRedis,
		RedisAddr:     mr.Addr(),
		RedisPrefix:   "app-test",
		SeedMembers:   true,
	}

	ctx := context.Background()
	store, err := OpenStore(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, "redis", store.Name())
	assert.True(t, mr.Exists("app-test:members"))

	// повторное открытие не дублирует участников
	again, err := OpenStore(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer again.Close()

	members, err := again.ListMembers(ctx)
	require.NoError(t, err)
	assert.Len(t, members, len(service.DefaultMembers))
}

func TestOpenStoreUnknownDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), &config.Config{StorageDriver: "sqlite"}, zap.NewNop())
	assert.Error(t, err)
}

type countingDigester struct {
	calls atomic.Int32
}

func (d *countingDigester) SendDigest(context.Context) error {
	d.calls.Add(1)
	return nil
}

func TestSchedulerSendsDigest(t *testing.T) {
	d := &countingDigester{}
	s := NewScheduler(d, 10*time.Millisecond, zap.NewNop())
	s.Start(context.Background())

	assert.Eventually(t, func() bool { return d.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	s.Stop()
	s.Stop()
	stopped := d.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, d.calls.Load())
}

func TestSchedulerDisabled(t *testing.T) {
	d := &countingDigester{}
	s := NewScheduler(d, 0, zap.NewNop())
	s.Start(context.Background())
	s.Stop()

	assert.Zero(t, d.calls.Load())
}
