package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/siniestros/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// JobStatus represents the outcome of the last run of a job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// JobFunc is the work of a scheduled job
type JobFunc func(ctx context.Context) error

// JobState is a snapshot of a registered job
type JobState struct {
	Name        string
	Schedule    string
	Status      JobStatus
	Error       string
	Runs        int
	StartedAt   *time.Time
	CompletedAt *time.Time
	NextRun     time.Time
}

type job struct {
	name     string
	schedule string
	fn       JobFunc
	entryID  cron.EntryID

	mu    sync.Mutex
	state JobState
}

func (j *job) start(now time.Time) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.state.Status = JobStatusRunning
	j.state.StartedAt = &now
	j.state.Error = ""
	j.state.Runs++
}

func (j *job) finish(now time.Time, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.state.CompletedAt = &now
	if err != nil {
		j.state.Status = JobStatusFailed
		j.state.Error = err.Error()
		return
	}
	j.state.Status = JobStatusSuccess
}

// Scheduler runs named jobs on cron schedules.
// Overlapping runs of the same job are skipped and panics are recovered.
type Scheduler struct {
	cron       *cron.Cron
	jobTimeout time.Duration
	logger     *zap.Logger

	mu      sync.Mutex
	jobs    map[string]*job
	running bool
	baseCtx context.Context
	cancel  context.CancelFunc
}

// NewScheduler creates a scheduler using standard five-field cron expressions
func NewScheduler(cfg config.SchedulerConfig, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	cl := newCronLogger(logger)
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		jobTimeout: cfg.JobTimeout,
		logger:     logger,
		jobs:       make(map[string]*job),
		baseCtx:    context.Background(),
	}
}

// Register adds a job. Jobs must be registered before Start.
func (s *Scheduler) Register(name, schedule string, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrSchedulerRunning
	}
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, name)
	}

	j := &job{
		name:     name,
		schedule: schedule,
		fn:       fn,
		state:    JobState{Name: name, Schedule: schedule, Status: JobStatusPending},
	}
	id, err := s.cron.AddFunc(schedule, func() { _ = s.run(j) })
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidSchedule, schedule, err)
	}
	j.entryID = id
	s.jobs[name] = j

	s.logger.Info("Scheduled job registered",
		zap.String("job", name),
		zap.String("schedule", schedule),
	)
	return nil
}

// RunNow executes a registered job synchronously, outside its schedule
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	j, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("job not found: %s", name)
	}
	return s.run(j)
}

func (s *Scheduler) run(j *job) error {
	s.mu.Lock()
	parent := s.baseCtx
	s.mu.Unlock()

	ctx := parent
	var cancel context.CancelFunc = func() {}
	if s.jobTimeout > 0 {
		ctx, cancel = context.WithTimeout(parent, s.jobTimeout)
	}
	defer cancel()

	start := time.Now()
	j.start(start)
	s.logger.Info("Scheduled job started", zap.String("job", j.name))

	err := j.fn(ctx)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("%w: %s: %v", ErrJobTimeout, j.name, err)
	}
	j.finish(time.Now(), err)

	if err != nil {
		s.logger.Error("Scheduled job failed",
			zap.String("job", j.name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return err
	}
	s.logger.Info("Scheduled job completed",
		zap.String("job", j.name),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// Start begins firing jobs on their schedules
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.baseCtx, s.cancel = context.WithCancel(ctx)
	s.running = true
	s.cron.Start()
	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.jobs)))
}

// Stop stops scheduling and waits for running jobs until ctx is done
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	cancel := s.cancel
	s.mu.Unlock()

	done := s.cron.Stop().Done()
	select {
	case <-done:
		cancel()
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		// Abort running jobs
		cancel()
		return ctx.Err()
	}
}

// Jobs returns a snapshot of every registered job
func (s *Scheduler) Jobs() []JobState {
	s.mu.Lock()
	defer s.mu.Unlock()

	states := make([]JobState, 0, len(s.jobs))
	for _, j := range s.jobs {
		j.mu.Lock()
		st := j.state
		j.mu.Unlock()
		st.NextRun = s.cron.Entry(j.entryID).Next
		states = append(states, st)
	}
	return states
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	sugar *zap.SugaredLogger
}

func newCronLogger(logger *zap.Logger) cronLogger {
	return cronLogger{sugar: logger.Named("cron").Sugar()}
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}
