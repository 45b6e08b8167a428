package scheduler_test

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unlockgrowth/intake/internal/scheduler"
)

type countingJob struct {
	runs atomic.Int32
	err  error
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run() error {
	j.runs.Add(1)
	return j.err
}

func TestScheduler_RunsRegisteredJob(t *testing.T) {
	s := scheduler.New()
	job := &countingJob{}

	require.NoError(t, s.AddJob("@every 1s", job))

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return job.runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	assert.Error(t, scheduler.New().AddJob("every tuesday", &countingJob{}))
}

func TestScheduler_RunNow(t *testing.T) {
	job := &countingJob{err: errors.New("boom")}

	err := scheduler.New().RunNow(job)
	assert.EqualError(t, err, "boom")
	assert.Equal(t, int32(1), job.runs.Load())
}
