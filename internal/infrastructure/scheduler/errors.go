package scheduler

import "errors"

var (
	// ErrSchedulerRunning is returned when jobs are added after Start
	ErrSchedulerRunning = errors.New("scheduler is already running")

	// ErrDuplicateJob is returned when a job name is registered twice
	ErrDuplicateJob = errors.New("job already registered")

	// ErrJobNotFound is returned when a job name is unknown
	ErrJobNotFound = errors.New("job not found")
)
