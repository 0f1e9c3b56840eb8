package queue

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"
)

func TestResultTimeoutThenValue(t *testing.T) {
	q, err := New(1)
	require.NoError(t, err)
	defer q.Shutdown(true)

	release := make(chan struct{})
	fut, err := q.Submit(func() (any, error) { <-release; return "late", nil })
	require.NoError(t, err)

	_, err = fut.Result(10 * time.Millisecond)
	require.ErrorIs(t, err, ErrResultTimeout)

	// The handle is still pending and can be waited on again.
	close(release)
	v, err := fut.Result(5 * time.Second)
	require.NoError(t, err)
	require.Equal(t, "late", v)
}

func TestResultTimeoutMockClock(t *testing.T) {
	mock := quartz.NewMock(t)
	q, err := New(1, WithClock(mock))
	require.NoError(t, err)
	defer q.Shutdown(true)

	release := make(chan struct{})
	fut, err := q.Submit(func() (any, error) { <-release; return "ok", nil })
	require.NoError(t, err)

	trap := mock.Trap().NewTimer()
	defer trap.Close()

	errCh := make(chan error, 1)
	go func() {
		_, err := fut.Result(time.Second)
		errCh <- err
	}()

	ctx := context.Background()
	call := trap.MustWait(ctx)
	call.MustRelease(ctx)
	mock.Advance(time.Second).MustWait(ctx)
	require.ErrorIs(t, <-errCh, ErrResultTimeout)

	close(release)
	v, err := fut.Result(0)
	require.NoError(t, err)
	require.Equal(t, "ok", v)
}

func TestWaitContext(t *testing.T) {
	q, err := New(1)
	require.NoError(t, err)
	defer q.Shutdown(true)

	t.Run("deadline maps to timeout", func(t *testing.T) {
		release := make(chan struct{})
		fut, err := q.Submit(func() (any, error) { <-release; return nil, nil })
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		_, err = fut.Wait(ctx)
		require.ErrorIs(t, err, ErrResultTimeout)
		close(release)
		_, err = fut.Wait(context.Background())
		require.NoError(t, err)
	})

	t.Run("cancellation passes through", func(t *testing.T) {
		release := make(chan struct{})
		fut, err := q.Submit(func() (any, error) { <-release; return nil, nil })
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = fut.Wait(ctx)
		require.ErrorIs(t, err, context.Canceled)
		close(release)
		_, err = fut.Wait(context.Background())
		require.NoError(t, err)
	})
}

func TestDoneChannel(t *testing.T) {
	q, err := New(1)
	require.NoError(t, err)
	defer q.Shutdown(true)

	fut, err := q.Submit(func() (any, error) { return true, nil })
	require.NoError(t, err)

	select {
	case <-fut.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("future never became terminal")
	}
	v, err := fut.Result(0)
	require.NoError(t, err)
	require.Equal(t, true, v)
}
