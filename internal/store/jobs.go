package store

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/pkg/errors"

	"github.com/Christopher-Schulze/crPipeline-sub000/internal/models"
)

type jobRow struct {
	ID         string    `db:"id"`
	OrgID      string    `db:"org_id"`
	DocumentID string    `db:"document_id"`
	PipelineID string    `db:"pipeline_id"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r jobRow) toModel() (*models.AnalysisJob, error) {
	id, err := models.ParseJobID(r.ID)
	if err != nil {
		return nil, err
	}
	org, err := models.ParseOrgID(r.OrgID)
	if err != nil {
		return nil, err
	}
	doc, err := models.ParseDocumentID(r.DocumentID)
	if err != nil {
		return nil, err
	}
	pipe, err := models.ParsePipelineID(r.PipelineID)
	if err != nil {
		return nil, err
	}
	return &models.AnalysisJob{
		ID: id, OrgID: org, DocumentID: doc, PipelineID: pipe,
		Status: models.JobStatus(r.Status), CreatedAt: r.CreatedAt,
	}, nil
}

// GetJob loads an AnalysisJob by id.
func (d *DB) GetJob(ctx context.Context, id models.JobID) (*models.AnalysisJob, error) {
	query, args, err := goqu.From("analysis_jobs").
		Select("id", "org_id", "document_id", "pipeline_id", "status", "created_at").
		Where(goqu.Ex{"id": id.String()}).
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "building GetJob query")
	}
	var row jobRow
	if err := d.sqlx.GetContext(ctx, &row, query, args...); err != nil {
		return nil, wrapNoRows(err, "analysis_jobs")
	}
	return row.toModel()
}

// UpdateJobStatus transitions a job's status. The update is conditioned
// on a from-status match so a stale writer cannot clobber a newer
// terminal state (a completed job is never overwritten back to
// in_progress).
func (d *DB) UpdateJobStatus(ctx context.Context, id models.JobID, from, to models.JobStatus) error {
	result, err := d.sqlx.ExecContext(ctx,
		`UPDATE analysis_jobs SET status = $1 WHERE id = $2 AND status = $3`,
		string(to), id.String(), string(from))
	if err != nil {
		return errors.Wrap(err, "updating job status")
	}
	n, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "checking job status update result")
	}
	if n == 0 {
		return errors.Errorf("job %s was not in expected status %q", id, from)
	}
	return nil
}
