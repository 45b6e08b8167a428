package scheduler

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Job is a unit of background work run on a schedule.
type Job interface {
	Run() error
	Name() string
}

type Scheduler struct {
	cron *cron.Cron
	log  *slog.Logger
}

func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  slog.With("component", "scheduler"),
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// AddJob registers job under a cron spec such as "@every 5m" or "0 * * * *".
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		if err := job.Run(); err != nil {
			s.log.Error("job failed", "job", job.Name(), "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.log.Info("job registered", "job", job.Name(), "schedule", schedule)

	return nil
}

// RunNow executes a job immediately, outside its schedule.
func (s *Scheduler) RunNow(job Job) error {
	return job.Run()
}
