// Package artifact implements the write-then-record helper every stage
// handler uses to persist output: upload the blob first, then insert the
// metadata row.
package artifact

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/Christopher-Schulze/crPipeline-sub000/internal/blob"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/models"
)

// Store is the subset of the DB store the recorder needs.
type Store interface {
	InsertStageOutput(ctx context.Context, out *models.JobStageOutput) error
}

// Recorder writes a blob then records its JobStageOutput row.
type Recorder struct {
	blob   blob.Store
	store  Store
	bucket string
}

// NewRecorder builds a Recorder targeting bucket on blobStore.
func NewRecorder(blobStore blob.Store, store Store, bucket string) *Recorder {
	return &Recorder{blob: blobStore, store: store, bucket: bucket}
}

// nowMillis is overridable only in tests that need deterministic keys;
// production always uses wall-clock time.
var nowMillis = func() int64 { return time.Now().UnixMilli() }

// IntermediateKey builds the storage key for a non-final stage output.
func IntermediateKey(jobID models.JobID, stageName, ext string) string {
	return fmt.Sprintf("jobs/%s/outputs/%s_%d.%s", jobID, stageName, nowMillis(), ext)
}

// AIInputKey builds the bit-exact key for an AI stage's recorded input.
func AIInputKey(jobID models.JobID, stageName string) string {
	return fmt.Sprintf("jobs/%s/outputs/%s_input_%d.json", jobID, stageName, nowMillis())
}

// ReportKey builds the fixed key for the final report PDF.
func ReportKey(jobID models.JobID) string {
	return fmt.Sprintf("jobs/%s/outputs/%s-report.pdf", jobID, jobID)
}

// Record uploads data to key and, only on upload success, inserts the
// JobStageOutput row (write-then-record).
func (r *Recorder) Record(ctx context.Context, jobID models.JobID, stageName string, outputType models.OutputType, key string, data []byte) error {
	if err := r.blob.Put(ctx, r.bucket, key, data); err != nil {
		return errors.Wrap(err, "uploading artifact")
	}
	row := &models.JobStageOutput{
		ID:         models.NewStageOutputID(),
		JobID:      jobID,
		StageName:  stageName,
		OutputType: outputType,
		S3Bucket:   r.bucket,
		S3Key:      key,
		CreatedAt:  time.Now(),
	}
	if err := r.store.InsertStageOutput(ctx, row); err != nil {
		// The blob is already durable at this point; only the metadata
		// row is missing and the rolling context is unaffected. Wrap
		// in ErrMetadataOnly so callers can tell this apart from a
		// failed blob write and downgrade it to a warning.
		return errors.Wrap(fmt.Errorf("%w: %v", ErrMetadataOnly, err), "recording artifact metadata")
	}
	return nil
}

// ErrMetadataOnly marks a Record failure that occurred after the blob was
// already durably written: only the JobStageOutput row is missing.
var ErrMetadataOnly = errors.New("artifact metadata record failed")
