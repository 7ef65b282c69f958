// Package scheduler runs periodic maintenance jobs on cron schedules
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// ErrJobNotFound is returned when a job cannot be found by name
var ErrJobNotFound = errors.New("job not found")

// Job is a unit of scheduled work
type Job interface {
	// Name returns the unique name of the job
	Name() string
	// Run executes the job once
	Run(ctx context.Context) error
}

type entry struct {
	schedule string
	job      Job
}

// Manager handles the scheduling and execution of jobs
type Manager struct {
	entries []entry
	cron    *cron.Cron
}

// NewManager creates a scheduler using standard five-field cron expressions
// plus descriptors such as "@every 1h".
func NewManager() *Manager {
	return &Manager{
		cron: cron.New(cron.WithParser(cron.NewParser(
			cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
		))),
	}
}

// Register adds a job on the given schedule. An empty schedule registers the
// job for manual runs only.
func (m *Manager) Register(schedule string, job Job) {
	m.entries = append(m.entries, entry{schedule: schedule, job: job})
}

// RunJob executes a job by name
func (m *Manager) RunJob(ctx context.Context, name string) error {
	for _, e := range m.entries {
		if e.job.Name() == name {
			return e.job.Run(ctx)
		}
	}
	return ErrJobNotFound
}

// Start schedules every registered job and blocks until ctx is cancelled
func (m *Manager) Start(ctx context.Context) error {
	for _, e := range m.entries {
		if e.schedule == "" {
			log.Printf("Job %s has no schedule, skipping", e.job.Name())
			continue
		}

		job := e.job
		if _, err := m.cron.AddFunc(e.schedule, func() {
			if err := job.Run(ctx); err != nil {
				log.Printf("Error running job %s: %v", job.Name(), err)
			}
		}); err != nil {
			return fmt.Errorf("failed to schedule job %s: %w", job.Name(), err)
		}
		log.Printf("Scheduled job %s (%s)", job.Name(), e.schedule)
	}

	m.cron.Start()
	log.Println("Scheduler started")

	<-ctx.Done()
	log.Println("Stopping scheduler...")
	<-m.cron.Stop().Done()

	return nil
}
