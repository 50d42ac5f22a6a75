package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitAllowsWithinRate(t *testing.T) {
	l := New("test", 100)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Wait(ctx))
	}
}

func TestWaitCancelled(t *testing.T) {
	l := New("test", 1)
	_ = l.Allow() // exhaust the burst

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Wait(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test")
}

func TestAllow(t *testing.T) {
	l := New("test", 1)
	assert.True(t, l.Allow())
	assert.False(t, l.Allow())
}

func TestName(t *testing.T) {
	assert.Equal(t, "remote-store", New("remote-store", 1).Name())
}
