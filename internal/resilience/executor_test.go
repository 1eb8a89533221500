package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteSucceedsFirstTry(t *testing.T) {
	e := NewExecutor(Config{MaxAttempts: 3, RetryDelay: 0}, nil)

	var calls int
	err := e.Execute(context.Background(), "op", func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestExecuteRetriesFixedCount(t *testing.T) {
	e := NewExecutor(Config{MaxAttempts: 3, RetryDelay: 0}, nil)

	var calls int
	boom := errors.New("boom")
	err := e.Execute(context.Background(), "op", func(ctx context.Context) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestExecuteRecoversMidway(t *testing.T) {
	e := NewExecutor(Config{MaxAttempts: 3, RetryDelay: 0}, nil)

	var calls int
	err := e.Execute(context.Background(), "op", func(ctx context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestExecuteHonorsContextDuringDelay(t *testing.T) {
	e := NewExecutor(Config{MaxAttempts: 5, RetryDelay: time.Minute}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	done := make(chan error, 1)
	go func() {
		done <- e.Execute(ctx, "op", func(ctx context.Context) error {
			calls++
			return errors.New("fail")
		})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.Error(t, err)
		assert.Equal(t, 1, calls, "no second attempt after cancellation")
	case <-time.After(5 * time.Second):
		t.Fatal("Execute did not return after context cancellation")
	}
}

func TestCircuitBreakerOpensAfterFailureRun(t *testing.T) {
	e := NewExecutor(Config{
		MaxAttempts:         1,
		RetryDelay:          0,
		BreakerEnabled:      true,
		BreakerMinRequests:  3,
		BreakerFailureRatio: 0.5,
		BreakerOpenTimeout:  time.Minute,
	}, nil)

	fail := func(ctx context.Context) error { return errors.New("down") }
	for i := 0; i < 3; i++ {
		_ = e.Execute(context.Background(), "op", fail)
	}

	err := e.Execute(context.Background(), "op", fail)
	assert.True(t, IsCircuitOpen(err), "breaker should be open: %v", err)
}

func TestBreakersAreIndependentPerOperation(t *testing.T) {
	e := NewExecutor(Config{
		MaxAttempts:         1,
		RetryDelay:          0,
		BreakerEnabled:      true,
		BreakerMinRequests:  3,
		BreakerFailureRatio: 0.5,
		BreakerOpenTimeout:  time.Minute,
	}, nil)

	fail := func(ctx context.Context) error { return errors.New("down") }
	for i := 0; i < 4; i++ {
		_ = e.Execute(context.Background(), "llm.extract", fail)
	}

	err := e.Execute(context.Background(), "other.op", func(ctx context.Context) error { return nil })
	assert.NoError(t, err)
}

func TestDefaultConfigBreakerTripsOnSustainedFailure(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxAttempts = 1
	cfg.RetryDelay = 0
	e := NewExecutor(cfg, nil)

	fail := func(ctx context.Context) error { return errors.New("down") }
	var tripped bool
	for i := 0; i < 50; i++ {
		if err := e.Execute(context.Background(), "llm.extract", fail); IsCircuitOpen(err) {
			tripped = true
			break
		}
	}
	assert.True(t, tripped, "a default-configured executor must open the breaker under sustained failure")
}

func TestConfigNormalize(t *testing.T) {
	e := NewExecutor(Config{}, nil)
	assert.Equal(t, DefaultConfig().MaxAttempts, e.cfg.MaxAttempts)
	assert.False(t, e.cfg.BreakerEnabled, "breaker stays off unless asked for")
}
