package reliability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker_OpensAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Minute, 1)
	failing := errors.New("write failed")

	for i := 0; i < 3; i++ {
		err := cb.Execute(context.Background(), func() error { return failing })
		assert.ErrorIs(t, err, failing)
	}

	assert.Equal(t, StateOpen, cb.GetState())

	err := cb.Execute(context.Background(), func() error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker is open")
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Minute, 1)
	failing := errors.New("write failed")

	require.Error(t, cb.Execute(context.Background(), func() error { return failing }))
	require.Error(t, cb.Execute(context.Background(), func() error { return failing }))
	require.NoError(t, cb.Execute(context.Background(), func() error { return nil }))

	_, failures, _ := cb.GetMetrics()
	assert.Equal(t, 0, failures)
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestCircuitBreaker_HalfOpenClosesAfterSuccessesMeetLimit(t *testing.T) {
	cb := NewCircuitBreaker(1, 10*time.Millisecond, 2)
	failing := errors.New("write failed")

	require.Error(t, cb.Execute(context.Background(), func() error { return failing }))
	require.Equal(t, StateOpen, cb.GetState())

	time.Sleep(20 * time.Millisecond)

	require.NoError(t, cb.Execute(context.Background(), func() error { return nil }))
	assert.Equal(t, StateHalfOpen, cb.GetState())

	require.NoError(t, cb.Execute(context.Background(), func() error { return nil }))
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(1, 10*time.Millisecond, 2)
	failing := errors.New("write failed")

	require.Error(t, cb.Execute(context.Background(), func() error { return failing }))
	time.Sleep(20 * time.Millisecond)

	require.Error(t, cb.Execute(context.Background(), func() error { return failing }))
	assert.Equal(t, StateOpen, cb.GetState())
}
