package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordActivity(t *testing.T) {
	ctx := context.Background()

	t.Run("stamps defaults before delivery", func(t *testing.T) {
		var got ActivityEvent
		sink := ActivitySinkFunc(func(_ context.Context, event ActivityEvent) error {
			got = event
			return nil
		})

		recordActivity(ctx, sink, nil, ActivityEvent{
			EventType: ActivityEventLoginSuccess,
			UserID:    "user-123",
		})

		assert.Equal(t, ActivityEventLoginSuccess, got.EventType)
		assert.NotNil(t, got.Metadata)
		assert.False(t, got.OccurredAt.IsZero())
	})

	t.Run("sink failures are swallowed", func(t *testing.T) {
		sink := ActivitySinkFunc(func(context.Context, ActivityEvent) error {
			return errors.New("sink unavailable")
		})

		assert.NotPanics(t, func() {
			recordActivity(ctx, sink, nil, ActivityEvent{EventType: ActivityEventUserCreated})
		})
	})

	t.Run("nil sink is a no-op", func(t *testing.T) {
		assert.NotPanics(t, func() {
			recordActivity(ctx, nil, nil, ActivityEvent{EventType: ActivityEventUserDeleted})
		})
	})
}

func TestActivitySinkFunc(t *testing.T) {
	var f ActivitySinkFunc
	require.NoError(t, f.Record(context.Background(), ActivityEvent{}))
}
