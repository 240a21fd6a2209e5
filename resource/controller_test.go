package resource

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControllerNilSafe(t *testing.T) {
	var c *Controller
	ctx := context.Background()

	assert.NoError(t, c.AcquireWorker(ctx))
	c.ReleaseWorker()
	assert.NoError(t, c.AcquireIO(ctx, 1<<20))
}

func TestControllerUnlimited(t *testing.T) {
	c := NewController(Config{})
	ctx := context.Background()

	assert.NoError(t, c.AcquireWorker(ctx))
	c.ReleaseWorker()
	assert.NoError(t, c.AcquireIO(ctx, 1<<30))
}

func TestControllerWorkerLimit(t *testing.T) {
	c := NewController(Config{MaxWorkers: 1})
	ctx := context.Background()

	require.NoError(t, c.AcquireWorker(ctx))

	// Second slot is unavailable until release.
	blockedCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.Error(t, c.AcquireWorker(blockedCtx))

	c.ReleaseWorker()
	require.NoError(t, c.AcquireWorker(ctx))
	c.ReleaseWorker()
}

func TestControllerIOChunksLargeRequests(t *testing.T) {
	// A request larger than the burst must be granted in chunks, not rejected.
	c := NewController(Config{IOLimitBytesPerSec: 1024})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.NoError(t, c.AcquireIO(ctx, 2048))
}

func TestRateLimitedWriter(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})
	ctx := context.Background()

	var buf bytes.Buffer
	w := NewRateLimitedWriter(ctx, &buf, c)

	n, err := w.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", buf.String())
}

func TestRateLimitedWriterCanceled(t *testing.T) {
	// Tiny budget: the second write must wait, and a canceled context fails it.
	c := NewController(Config{IOLimitBytesPerSec: 1})
	ctx, cancel := context.WithCancel(context.Background())

	var buf bytes.Buffer
	w := NewRateLimitedWriter(ctx, &buf, c)

	_, err := w.Write([]byte("a"))
	require.NoError(t, err)

	cancel()
	_, err = w.Write([]byte("b"))
	assert.Error(t, err)
}

func TestRateLimitedReader(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})
	ctx := context.Background()

	r := NewRateLimitedReader(ctx, bytes.NewReader([]byte("data")), c)
	buf := make([]byte, 4)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "data", string(buf))
}
