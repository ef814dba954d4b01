package closer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloseRunsInReverseOrder(t *testing.T) {
	c := NewCloser(0)

	var (
		mu    sync.Mutex
		order []string
	)
	for _, name := range []string{"http", "grpc", "outbox"} {
		c.Add(name, func(context.Context) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		})
	}

	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, []string{"outbox", "grpc", "http"}, order)
}

func TestCloseCollectsErrors(t *testing.T) {
	c := NewCloser(0)
	boom := errors.New("boom")

	c.Add("ok", func(context.Context) error { return nil })
	c.Add("broken", func(context.Context) error { return boom })

	err := c.Close(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "broken")
}

func TestCloseIsIdempotent(t *testing.T) {
	c := NewCloser(0)
	calls := 0
	c.Add("once", func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, c.Close(context.Background()))
	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestCloseForcesRemainingOnTimeout(t *testing.T) {
	c := NewCloser(time.Second)

	var firstCalls int
	var mu sync.Mutex
	c.Add("first", func(context.Context) error {
		mu.Lock()
		firstCalls++
		mu.Unlock()
		return nil
	})
	c.Add("slow", func(context.Context) error {
		time.Sleep(100 * time.Millisecond)
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := c.Close(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shutdown interrupted after 0/2 resources")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, firstCalls)
}
