package store

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Christopher-Schulze/crPipeline-sub000/internal/models"
)

// InsertStageOutput appends a JobStageOutput row. Called only after the
// corresponding blob write has already succeeded.
func (d *DB) InsertStageOutput(ctx context.Context, out *models.JobStageOutput) error {
	_, err := d.sqlx.ExecContext(ctx,
		`INSERT INTO job_stage_outputs (id, job_id, stage_name, output_type, s3_bucket, s3_key, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		out.ID.String(), out.JobID.String(), out.StageName, string(out.OutputType),
		out.S3Bucket, out.S3Key, out.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "inserting job_stage_output")
	}
	return nil
}
