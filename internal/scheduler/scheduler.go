// Package scheduler runs the periodic upkeep jobs: reaping idle sessions and
// trimming favourite history.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule checks a five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// Job is one named periodic function.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context)
}

// Scheduler manages periodic jobs on a single cron runner.
type Scheduler struct {
	cron *cron.Cron

	mu         sync.RWMutex
	jobs       map[string]Job
	entries    map[string]cron.EntryID
	isRunning  bool
	ctx        context.Context
	cancelFunc context.CancelFunc
}

// New creates an empty scheduler.
func New() *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithParser(parser)),
		jobs:    make(map[string]Job),
		entries: make(map[string]cron.EntryID),
		ctx:     context.Background(),
	}
}

// Add registers job. An empty schedule disables it.
func (s *Scheduler) Add(job Job) error {
	if job.Schedule == "" {
		log.Printf("[SCHEDULER] %s: disabled", job.Name)
		return nil
	}
	if err := ValidateCronSchedule(job.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s' for %s: %w", job.Schedule, job.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.Name]; exists {
		return fmt.Errorf("job %s already registered", job.Name)
	}

	entryID, err := s.cron.AddFunc(job.Schedule, func() { s.run(job.Name) })
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", job.Name, err)
	}
	s.jobs[job.Name] = job
	s.entries[job.Name] = entryID
	return nil
}

// Start begins running jobs until Stop is called or ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)
	s.ctx = cancelCtx
	s.cron.Start()
	s.isRunning = true

	for name := range s.jobs {
		log.Printf("[SCHEDULER] %s: scheduled '%s', next run %v", name, s.jobs[name].Schedule, s.cron.Entry(s.entries[name]).Next)
	}

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()
}

// Stop waits for running jobs and stops the cron runner.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancelFunc
	s.cancelFunc = nil
	s.mu.Unlock()

	// Running jobs take the read lock, so wait outside it.
	<-s.cron.Stop().Done()
	cancel()

	log.Printf("[SCHEDULER] Stopped")
}

// RunNow runs the named job synchronously.
func (s *Scheduler) RunNow(name string) error {
	s.mu.RLock()
	_, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown job %s", name)
	}
	s.run(name)
	return nil
}

// IsRunning returns whether the scheduler is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the named job runs next, or nil when the
// scheduler is stopped or the job is unknown.
func (s *Scheduler) NextRunTime(name string) *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	entryID, ok := s.entries[name]
	if !ok {
		return nil
	}
	next := s.cron.Entry(entryID).Next
	return &next
}

func (s *Scheduler) run(name string) {
	s.mu.RLock()
	job := s.jobs[name]
	ctx := s.ctx
	s.mu.RUnlock()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[SCHEDULER] %s: panic: %v", name, r)
		}
	}()

	started := time.Now()
	job.Run(ctx)
	log.Printf("[SCHEDULER] %s: finished in %v", name, time.Since(started).Round(time.Millisecond))
}
