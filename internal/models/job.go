package models

import "time"

// JobStatus is the AnalysisJob state machine:
// pending -> in_progress -> {completed, failed}, the latter two terminal.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// IsTerminal reports whether status admits no further transition.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// AnalysisJob is one execution of one pipeline against one document.
type AnalysisJob struct {
	ID         JobID
	OrgID      OrgID
	DocumentID DocumentID
	PipelineID PipelineID
	Status     JobStatus
	CreatedAt  time.Time
}
