package models

import "time"

// OutputType is the kind of blob a stage recorded.
type OutputType string

const (
	OutputTypeJSON OutputType = "json"
	OutputTypeText OutputType = "txt"
	OutputTypePDF  OutputType = "pdf"
)

// JobStageOutput is an append-only metadata row pointing at a blob the
// engine wrote, recorded only after the blob write succeeds
// (write-then-record).
type JobStageOutput struct {
	ID         StageOutputID
	JobID      JobID
	StageName  string
	OutputType OutputType
	S3Bucket   string
	S3Key      string
	CreatedAt  time.Time
}
