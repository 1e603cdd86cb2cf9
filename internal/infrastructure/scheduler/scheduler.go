// Package scheduler runs periodic background jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobStatus is the outcome of a job's last run
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// JobFunc is the body of a scheduled job
type JobFunc func(ctx context.Context) error

// JobState is a snapshot of one registered job
type JobState struct {
	Name        string
	Schedule    string
	Status      JobStatus
	Error       string
	Runs        int
	LastStarted *time.Time
	LastEnded   *time.Time
	Next        time.Time
}

type job struct {
	name     string
	schedule string
	timeout  time.Duration
	fn       JobFunc
	entryID  cron.EntryID
	state    JobState
}

// Scheduler runs named jobs on standard five-field cron expressions.
// A run that is still going when its next tick fires is skipped.
type Scheduler struct {
	cron    *cron.Cron
	logger  *zap.Logger
	mu      sync.Mutex
	jobs    map[string]*job
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a stopped scheduler
func New(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("scheduler")
	cl := cronLogger{logger.Sugar()}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: logger,
		jobs:   make(map[string]*job),
	}
}

// Add registers fn under name. timeout bounds each run; zero means no bound.
func (s *Scheduler) Add(name, schedule string, timeout time.Duration, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrSchedulerRunning
	}
	if _, ok := s.jobs[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, name)
	}

	j := &job{
		name:     name,
		schedule: schedule,
		timeout:  timeout,
		fn:       fn,
		state:    JobState{Name: name, Schedule: schedule, Status: JobStatusPending},
	}
	id, err := s.cron.AddFunc(schedule, func() { s.run(j) })
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", schedule, name, err)
	}
	j.entryID = id
	s.jobs[name] = j
	return nil
}

// Start begins firing jobs. Runs inherit ctx; cancelling it aborts in-flight runs.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.running = true
	s.cron.Start()
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.jobs)))
}

// Stop prevents new runs and waits for in-flight runs or ctx, whichever is first
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.cancel()
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		s.cancel()
		return ctx.Err()
	}
}

// RunNow executes a registered job synchronously, outside its schedule
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	j, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return s.execute(ctx, j)
}

// States returns a snapshot of every job
func (s *Scheduler) States() []JobState {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]JobState, 0, len(s.jobs))
	for _, j := range s.jobs {
		st := j.state
		st.Next = s.cron.Entry(j.entryID).Next
		out = append(out, st)
	}
	return out
}

func (s *Scheduler) run(j *job) {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	_ = s.execute(ctx, j)
}

func (s *Scheduler) execute(ctx context.Context, j *job) error {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	started := time.Now()
	s.mu.Lock()
	j.state.Status = JobStatusRunning
	j.state.LastStarted = &started
	j.state.Runs++
	s.mu.Unlock()

	err := j.fn(ctx)

	ended := time.Now()
	s.mu.Lock()
	j.state.LastEnded = &ended
	if err != nil {
		j.state.Status = JobStatusFailed
		j.state.Error = err.Error()
	} else {
		j.state.Status = JobStatusSuccess
		j.state.Error = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("job failed", zap.String("job", j.name), zap.Duration("elapsed", ended.Sub(started)), zap.Error(err))
	} else {
		s.logger.Debug("job finished", zap.String("job", j.name), zap.Duration("elapsed", ended.Sub(started)))
	}
	return err
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
