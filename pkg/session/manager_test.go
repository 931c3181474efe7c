package session_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/aria"
	"github.com/aretw0/aria/pkg/domain"
	"github.com/aretw0/aria/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slowFactory(calls *atomic.Int32) session.Factory {
	return func(ctx context.Context, id string) (*aria.Console, error) {
		calls.Add(1)
		time.Sleep(10 * time.Millisecond) // Simulate script loading
		return aria.New(aria.WithScript("essence"), aria.WithName(id))
	}
}

func TestManager_GetOrCreateIsAtomic(t *testing.T) {
	var calls atomic.Int32
	manager := session.NewManager(slowFactory(&calls))
	defer manager.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	consoles := make([]*aria.Console, 5)
	for i := range consoles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, _, err := manager.GetOrCreate(ctx, "atomic-init")
			assert.NoError(t, err)
			consoles[i] = c
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, c := range consoles {
		assert.Same(t, consoles[0], c)
	}
}

func TestManager_SessionsAreIsolated(t *testing.T) {
	var calls atomic.Int32
	manager := session.NewManager(slowFactory(&calls))
	defer manager.Close()
	ctx := context.Background()

	a, created, err := manager.GetOrCreate(ctx, "a")
	require.NoError(t, err)
	assert.True(t, created)
	b, _, err := manager.GetOrCreate(ctx, "b")
	require.NoError(t, err)

	a.SubmitCommand("clear")
	assert.Empty(t, a.CurrentState().Lines)
	assert.NotEmpty(t, b.CurrentState().Lines, "clearing one session leaves the other alone")

	_, created, err = manager.GetOrCreate(ctx, "a")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, []string{"a", "b"}, manager.List())
}

func TestManager_Delete(t *testing.T) {
	var calls atomic.Int32
	manager := session.NewManager(slowFactory(&calls))
	defer manager.Close()
	ctx := context.Background()

	c, _, err := manager.GetOrCreate(ctx, "gone")
	require.NoError(t, err)
	sub, cancel := c.Subscribe()
	defer cancel()

	require.NoError(t, manager.Delete(ctx, "gone"))
	_, open := <-sub
	assert.False(t, open, "deleting a session closes its console")

	_, err = manager.Get("gone")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, manager.Delete(ctx, "gone"), domain.ErrSessionNotFound)
}

func TestManager_LimitAndClose(t *testing.T) {
	var calls atomic.Int32
	manager := session.NewManager(slowFactory(&calls), session.WithLimit(1))
	ctx := context.Background()

	_, _, err := manager.GetOrCreate(ctx, "one")
	require.NoError(t, err)
	_, _, err = manager.GetOrCreate(ctx, "two")
	assert.ErrorIs(t, err, session.ErrLimit)

	manager.Close()
	assert.Zero(t, manager.Len())
	_, _, err = manager.GetOrCreate(ctx, "three")
	assert.ErrorIs(t, err, session.ErrClosed)
}

func TestManager_FactoryError(t *testing.T) {
	boom := errors.New("boom")
	manager := session.NewManager(func(context.Context, string) (*aria.Console, error) {
		return nil, boom
	})

	_, _, err := manager.GetOrCreate(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, manager.Len())
}

func TestNewID(t *testing.T) {
	assert.NotEqual(t, session.NewID(), session.NewID())
	assert.Len(t, session.NewID(), 36)
}
