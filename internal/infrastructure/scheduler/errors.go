package scheduler

import "errors"

var (
	// ErrSchedulerRunning is returned when registering a job after Start
	ErrSchedulerRunning = errors.New("scheduler is already running")

	// ErrInvalidSchedule is returned for a cron expression that does not parse
	ErrInvalidSchedule = errors.New("invalid cron schedule")

	// ErrJobTimeout is returned when a job exceeds its timeout
	ErrJobTimeout = errors.New("scheduled job timed out")

	// ErrDuplicateJob is returned when two jobs share a name
	ErrDuplicateJob = errors.New("job already registered")
)
