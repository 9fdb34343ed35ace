package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackoffDelay(t *testing.T) {
	tests := []struct {
		retry int
		want  time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{10, 30 * time.Second},
		{63, 30 * time.Second}, // shift overflow collapses to the cap
		{-1, time.Second},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, backoffDelay(tt.retry), "retry %d", tt.retry)
	}
}

func TestSleepCtx(t *testing.T) {
	err := sleepCtx(context.Background(), time.Millisecond)
	assert.NoError(t, err)

	err = sleepCtx(context.Background(), 0)
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = sleepCtx(ctx, time.Minute)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSleepCtxCancelledMidWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- sleepCtx(ctx, time.Minute) }()
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("sleepCtx ignored cancellation")
	}
}
