package jobs

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"account_portal/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type countingSweeper struct {
	calls atomic.Int32
}

func (s *countingSweeper) Sweep() int {
	s.calls.Add(1)
	return 3
}

func TestLimiterSweepJob_Runs(t *testing.T) {
	sweeper := &countingSweeper{}
	job := NewLimiterSweepJob(sweeper, zap.NewNop(), &config.Config{RateLimitSweepSchedule: "@every 1s"})

	require.NoError(t, job.SetupAndStart())
	defer job.Stop()

	assert.Eventually(t, func() bool { return sweeper.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestLimiterSweepJob_EmptyScheduleIsNoop(t *testing.T) {
	sweeper := &countingSweeper{}
	job := NewLimiterSweepJob(sweeper, zap.NewNop(), &config.Config{})

	require.NoError(t, job.SetupAndStart())
	job.Stop()
	assert.Zero(t, sweeper.calls.Load())
}

func TestLimiterSweepJob_BadSchedule(t *testing.T) {
	job := NewLimiterSweepJob(&countingSweeper{}, zap.NewNop(), &config.Config{RateLimitSweepSchedule: "every now and then"})
	assert.Error(t, job.SetupAndStart())
}

func TestCronLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	cl := NewCronLogger(zap.New(core))

	cl.Info("schedule", "entry", 1, "dangling")
	cl.Error(errors.New("boom"), "job failed")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "schedule", entries[0].Message)
	assert.Equal(t, "MISSING_VALUE", entries[0].ContextMap()["dangling"])
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
}
