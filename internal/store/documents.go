package store

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	"github.com/pkg/errors"

	"github.com/Christopher-Schulze/crPipeline-sub000/internal/models"
)

type documentRow struct {
	ID          string       `db:"id"`
	OrgID       string       `db:"org_id"`
	Filename    string       `db:"filename"`
	DisplayName string       `db:"display_name"`
	Pages       int          `db:"pages"`
	IsTarget    bool         `db:"is_target"`
	ExpiresAt   sql.NullTime `db:"expires_at"`
}

func (r documentRow) toModel() (*models.Document, error) {
	id, err := models.ParseDocumentID(r.ID)
	if err != nil {
		return nil, err
	}
	org, err := models.ParseOrgID(r.OrgID)
	if err != nil {
		return nil, err
	}
	doc := &models.Document{
		ID: id, OrgID: org, StorageKey: r.Filename,
		DisplayName: r.DisplayName, Pages: r.Pages, IsTarget: r.IsTarget,
	}
	if r.ExpiresAt.Valid {
		t := r.ExpiresAt.Time
		doc.ExpiresAt = &t
	}
	return doc, nil
}

// GetDocument loads a Document by id.
func (d *DB) GetDocument(ctx context.Context, id models.DocumentID) (*models.Document, error) {
	query, args, err := goqu.From("documents").
		Select("id", "org_id", "filename", "display_name", "pages", "is_target", "expires_at").
		Where(goqu.Ex{"id": id.String()}).
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "building GetDocument query")
	}
	var row documentRow
	if err := d.sqlx.GetContext(ctx, &row, query, args...); err != nil {
		return nil, wrapNoRows(err, "documents")
	}
	return row.toModel()
}
