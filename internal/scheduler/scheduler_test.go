package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCronSchedule(t *testing.T) {
	tests := []struct {
		schedule string
		valid    bool
	}{
		{"*/5 * * * *", true},
		{"30 3 * * *", true},
		{"0 0 * * 0", true},
		{"* * * *", false},
		{"every minute", false},
		{"0 0 0 * * *", false},
	}
	for _, tt := range tests {
		t.Run(tt.schedule, func(t *testing.T) {
			err := ValidateCronSchedule(tt.schedule)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestScheduler_Add(t *testing.T) {
	s := New()
	noop := func(context.Context) {}

	require.NoError(t, s.Add(Job{Name: "sweep", Schedule: "*/5 * * * *", Run: noop}))
	assert.Error(t, s.Add(Job{Name: "sweep", Schedule: "*/5 * * * *", Run: noop}))
	assert.Error(t, s.Add(Job{Name: "broken", Schedule: "nope", Run: noop}))
	assert.NoError(t, s.Add(Job{Name: "off", Schedule: "", Run: noop}))

	assert.Error(t, s.RunNow("off"), "disabled jobs are not registered")
}

func TestScheduler_RunNow(t *testing.T) {
	s := New()
	var runs atomic.Int32
	require.NoError(t, s.Add(Job{Name: "sweep", Schedule: "0 0 1 1 *", Run: func(context.Context) {
		runs.Add(1)
	}}))

	require.NoError(t, s.RunNow("sweep"))
	assert.Equal(t, int32(1), runs.Load())
	assert.Error(t, s.RunNow("missing"))
}

func TestScheduler_RunNowRecoversPanics(t *testing.T) {
	s := New()
	require.NoError(t, s.Add(Job{Name: "bad", Schedule: "0 0 1 1 *", Run: func(context.Context) {
		panic("boom")
	}}))

	assert.NotPanics(t, func() { _ = s.RunNow("bad") })
}

func TestScheduler_StartStop(t *testing.T) {
	s := New()
	require.NoError(t, s.Add(Job{Name: "sweep", Schedule: "*/5 * * * *", Run: func(context.Context) {}}))

	assert.Nil(t, s.NextRunTime("sweep"))

	s.Start(context.Background())
	assert.True(t, s.IsRunning())

	next := s.NextRunTime("sweep")
	require.NotNil(t, next)
	assert.True(t, next.After(time.Now()))
	assert.Nil(t, s.NextRunTime("missing"))

	s.Stop()
	assert.False(t, s.IsRunning())
	s.Stop()
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	require.True(t, s.IsRunning())

	cancel()
	assert.Eventually(t, func() bool { return !s.IsRunning() }, 2*time.Second, 10*time.Millisecond)
}
