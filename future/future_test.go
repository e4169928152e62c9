package future_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	amperrors "github.com/amp-labs/amp-otel/errors"
	"github.com/amp-labs/amp-otel/future"
)

func TestPromiseSuccess(t *testing.T) {
	t.Parallel()

	fut, promise := future.New[int]()

	require.False(t, fut.IsCompleted())

	promise.Success(42)

	value, err := fut.Await()
	require.NoError(t, err)
	assert.Equal(t, 42, value)
	assert.True(t, fut.IsCompleted())
}

func TestPromiseFailure(t *testing.T) {
	t.Parallel()

	errBroken := errors.New("broken")
	fut, promise := future.New[string]()

	promise.Failure(errBroken)

	_, err := fut.Await()
	require.ErrorIs(t, err, errBroken)
}

func TestPromiseFulfilledOnce(t *testing.T) {
	t.Parallel()

	fut, promise := future.New[int]()

	promise.Success(1)
	promise.Success(2)
	promise.Failure(errors.New("ignored"))

	value, err := fut.Await()
	require.NoError(t, err)
	assert.Equal(t, 1, value)
}

func TestGo(t *testing.T) {
	t.Parallel()

	fut := future.Go(func() (string, error) {
		return "done", nil
	})

	value, err := fut.Await()
	require.NoError(t, err)
	assert.Equal(t, "done", value)
}

func TestGoPanicRecovery(t *testing.T) {
	t.Parallel()

	fut := future.Go(func() (int, error) {
		panic("boom")
	})

	_, err := fut.Await()
	require.ErrorIs(t, err, amperrors.ErrPanicRecovery)
	assert.Contains(t, err.Error(), "boom")
}

func TestGoContextParentCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	fut := future.GoContext(ctx, func(ctx context.Context) (int, error) {
		close(started)
		<-ctx.Done()

		return 0, ctx.Err()
	})

	<-started
	cancel()

	_, err := fut.Await()
	require.ErrorIs(t, err, context.Canceled)
}

func TestAwaitContextTimeout(t *testing.T) {
	t.Parallel()

	fut, _ := future.New[int]()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := fut.AwaitContext(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, fut.IsCompleted())
}

func TestCancelRunsHooksOnce(t *testing.T) {
	t.Parallel()

	fut, promise := future.New[int]()

	var calls int

	promise.OnCancel(func() { calls++ })

	fut.Cancel()
	fut.Cancel()

	require.True(t, fut.IsCancelled())
	assert.Equal(t, 1, calls)

	_, err := fut.Await()
	require.ErrorIs(t, err, context.Canceled)
}

func TestOnCancelAfterCancellation(t *testing.T) {
	t.Parallel()

	fut, promise := future.New[int]()
	fut.Cancel()

	called := false

	promise.OnCancel(func() { called = true })

	assert.True(t, called)
}

func TestCancelAfterFulfillmentKeepsResult(t *testing.T) {
	t.Parallel()

	fut, promise := future.New[int]()
	promise.Success(7)
	fut.Cancel()

	value, err := fut.Await()
	require.NoError(t, err)
	assert.Equal(t, 7, value)
	assert.True(t, fut.IsCancelled())
}

func TestOnSuccessBeforeFulfillment(t *testing.T) {
	t.Parallel()

	fut, promise := future.New[int]()

	got := make(chan int, 1)

	fut.OnSuccess(func(value int) { got <- value })
	fut.OnError(func(error) { t.Error("unexpected error callback") })

	promise.Success(99)

	select {
	case value := <-got:
		assert.Equal(t, 99, value)
	case <-time.After(time.Second):
		t.Fatal("callback never fired")
	}
}

func TestOnErrorAfterFulfillment(t *testing.T) {
	t.Parallel()

	errBroken := errors.New("broken")
	fut, promise := future.New[int]()
	promise.Failure(errBroken)

	got := make(chan error, 1)

	fut.OnError(func(err error) { got <- err })

	select {
	case err := <-got:
		require.ErrorIs(t, err, errBroken)
	case <-time.After(time.Second):
		t.Fatal("callback never fired")
	}
}

func TestOnResultFiresForBothBranches(t *testing.T) {
	t.Parallel()

	fut, promise := future.New[int]()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []future.Result[int]
	)

	wg.Add(2)

	for range 2 {
		fut.OnResult(func(result future.Result[int]) {
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			wg.Done()
		})
	}

	promise.Complete(5, nil)
	wg.Wait()

	require.Len(t, results, 2)

	for _, result := range results {
		assert.True(t, result.IsSuccess())
		assert.Equal(t, 5, result.Value)
	}
}

func TestConcurrentAwaiters(t *testing.T) {
	t.Parallel()

	fut, promise := future.New[int]()

	const waiters = 20

	var wg sync.WaitGroup

	wg.Add(waiters)

	for range waiters {
		go func() {
			defer wg.Done()

			value, err := fut.Await()
			assert.NoError(t, err)
			assert.Equal(t, 11, value)
		}()
	}

	promise.Success(11)
	wg.Wait()
}

func TestResultPending(t *testing.T) {
	t.Parallel()

	fut, promise := future.New[int]()

	_, ok := fut.Result()
	require.False(t, ok)

	promise.Success(3)

	result, ok := fut.Result()
	require.True(t, ok)
	assert.Equal(t, 3, result.Value)
}
