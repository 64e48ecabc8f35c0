package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/slot_board/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestMultiCallsEveryListener(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []string
	)
	record := func(s string) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, s)
	}
	boom := errors.New("boom")

	m := Multi{
		ListenerFunc(func(_ context.Context, a *model.Activity) error {
			record("first:" + a.ID)
			return boom
		}),
		nil,
		ListenerFunc(func(_ context.Context, a *model.Activity) error {
			record("second:" + a.ID)
			return nil
		}),
	}

	err := m.OnActivity(context.Background(), &model.Activity{ID: "a1"})
	assert.ErrorIs(t, err, boom)
	assert.ElementsMatch(t, []string{"first:a1", "second:a1"}, calls)
}

func TestMultiRunsListenersInParallel(t *testing.T) {
	slow := ListenerFunc(func(context.Context, *model.Activity) error {
		time.Sleep(200 * time.Millisecond)
		return nil
	})

	start := time.Now()
	err := Multi{slow, slow, slow}.OnActivity(context.Background(), &model.Activity{ID: "a1"})
	assert.NoError(t, err)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestMultiEmpty(t *testing.T) {
	assert.NoError(t, Multi{}.OnActivity(context.Background(), &model.Activity{}))
	assert.NoError(t, Nop.OnActivity(context.Background(), &model.Activity{}))
}

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "activity.booked", RoutingKey(model.ActivityActionBooked))
	assert.Equal(t, "activity.cancelled", RoutingKey(model.ActivityActionCancelled))
}
