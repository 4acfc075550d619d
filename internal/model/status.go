package model

// TaskStatus represents the lifecycle of a download job
type TaskStatus string

const (
	// TaskStatusPending means the job is queued but not started
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusDownloading means retrieval is in progress
	TaskStatusDownloading TaskStatus = "Downloading"

	// TaskStatusStopping means cancellation was requested
	TaskStatusStopping TaskStatus = "Stopping"

	// TaskStatusStopped means the job was cancelled by the user
	TaskStatusStopped TaskStatus = "Stopped"

	// TaskStatusCompleted means the job finished successfully
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusError means the job failed
	TaskStatusError TaskStatus = "Error"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if the job is running
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusDownloading || ts == TaskStatusStopping
}

// IsFinished returns true if the job reached a terminal state
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusStopped || ts == TaskStatusError
}

// StatusFor maps an outcome onto the terminal job status
func StatusFor(o Outcome) TaskStatus {
	switch o.State {
	case OutcomeDone:
		return TaskStatusCompleted
	case OutcomeCancelled:
		return TaskStatusStopped
	default:
		return TaskStatusError
	}
}
