package plugins

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleLockBlocksSecondHolder(t *testing.T) {
	lock := NewSingleLock()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	locked, err := lock.TryLock(ctx, "chat:lock:u1")
	require.NoError(t, err)
	require.True(t, locked)

	again, err := lock.TryLock(ctx, "chat:lock:u1")
	require.NoError(t, err)
	assert.False(t, again)

	other, err := lock.TryLock(ctx, "chat:lock:u2")
	require.NoError(t, err)
	assert.True(t, other)
}

func TestSingleLockReleasesOnCancel(t *testing.T) {
	lock := NewSingleLock()

	ctx, cancel := context.WithCancel(context.Background())
	locked, err := lock.TryLock(ctx, "chat:lock:u1")
	require.NoError(t, err)
	require.True(t, locked)

	cancel()

	// release runs on the watcher goroutine, not synchronously with cancel
	assert.Eventually(t, func() bool {
		ctx2, cancel2 := context.WithCancel(context.Background())
		defer cancel2()
		ok, err := lock.TryLock(ctx2, "chat:lock:u1")
		return err == nil && ok
	}, time.Second, 10*time.Millisecond)
}
