package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDelayForDoublesUntilCap(t *testing.T) {
	policy := DefaultPolicy()

	expected := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second,
		30 * time.Second,
	}
	for i, want := range expected {
		assert.Equalf(t, want, policy.DelayFor(i+1), "attempt %d", i+1)
	}
}

func TestDelayForFirstAttemptIsBase(t *testing.T) {
	policy := Policy{BaseDelay: 250 * time.Millisecond, MaxDelay: time.Second, MaxAttempts: 3}

	assert.Equal(t, 250*time.Millisecond, policy.DelayFor(1))
	assert.Equal(t, 500*time.Millisecond, policy.DelayFor(2))
	assert.Equal(t, time.Second, policy.DelayFor(3))
	assert.Equal(t, time.Second, policy.DelayFor(10))
}

func TestDelayForZeroValueFallsBack(t *testing.T) {
	var policy Policy

	assert.Equal(t, 1*time.Second, policy.DelayFor(1))
	assert.Equal(t, 30*time.Second, policy.DelayFor(99))
}

func TestDefaultPolicy(t *testing.T) {
	policy := DefaultPolicy()

	assert.Equal(t, 1*time.Second, policy.BaseDelay)
	assert.Equal(t, 30*time.Second, policy.MaxDelay)
	assert.Equal(t, 5, policy.MaxAttempts)
}
