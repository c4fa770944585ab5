package store

import (
	"context"
	"encoding/json"

	"github.com/doug-martin/goqu/v9"
	"github.com/pkg/errors"

	"github.com/Christopher-Schulze/crPipeline-sub000/internal/models"
)

type pipelineRow struct {
	ID     string `db:"id"`
	OrgID  string `db:"org_id"`
	Name   string `db:"name"`
	Stages []byte `db:"stages"`
}

// GetPipeline loads a Pipeline by id, decoding its stages column.
func (d *DB) GetPipeline(ctx context.Context, id models.PipelineID) (*models.Pipeline, error) {
	query, args, err := goqu.From("pipelines").
		Select("id", "org_id", "name", "stages").
		Where(goqu.Ex{"id": id.String()}).
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "building GetPipeline query")
	}
	var row pipelineRow
	if err := d.sqlx.GetContext(ctx, &row, query, args...); err != nil {
		return nil, wrapNoRows(err, "pipelines")
	}
	pid, err := models.ParsePipelineID(row.ID)
	if err != nil {
		return nil, err
	}
	org, err := models.ParseOrgID(row.OrgID)
	if err != nil {
		return nil, err
	}
	var stages []models.Stage
	if len(row.Stages) > 0 {
		if err := json.Unmarshal(row.Stages, &stages); err != nil {
			return nil, errors.Wrap(err, "decoding pipeline stages")
		}
	}
	return &models.Pipeline{ID: pid, OrgID: org, Name: row.Name, Stages: stages}, nil
}
