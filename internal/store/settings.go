package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/doug-martin/goqu/v9"
	"github.com/pkg/errors"

	"github.com/Christopher-Schulze/crPipeline-sub000/internal/models"
)

type settingsRow struct {
	OrgID           string         `db:"org_id"`
	AIEndpoint      sql.NullString `db:"ai_endpoint"`
	AIKey           sql.NullString `db:"ai_key"`
	AICustomHeaders []byte         `db:"ai_custom_headers"`
	OCREndpoint     sql.NullString `db:"ocr_endpoint"`
	OCRKey          sql.NullString `db:"ocr_key"`
	PromptTemplates []byte         `db:"prompt_templates"`
}

// GetOrgSettings loads OrgSettings for org. The executor treats a load
// failure as "settings absent" and falls through to env-level fallbacks.
func (d *DB) GetOrgSettings(ctx context.Context, org models.OrgID) (*models.OrgSettings, error) {
	query, args, err := goqu.From("org_settings").
		Select("org_id", "ai_endpoint", "ai_key", "ai_custom_headers", "ocr_endpoint", "ocr_key", "prompt_templates").
		Where(goqu.Ex{"org_id": org.String()}).
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "building GetOrgSettings query")
	}
	var row settingsRow
	if err := d.sqlx.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "reading org_settings")
	}
	settings := &models.OrgSettings{
		OrgID:       org,
		AIEndpoint:  row.AIEndpoint.String,
		AIKey:       row.AIKey.String,
		OCREndpoint: row.OCREndpoint.String,
		OCRKey:      row.OCRKey.String,
	}
	if len(row.AICustomHeaders) > 0 {
		if err := json.Unmarshal(row.AICustomHeaders, &settings.AICustomHeaders); err != nil {
			return nil, errors.Wrap(err, "decoding ai_custom_headers")
		}
	}
	if len(row.PromptTemplates) > 0 {
		if err := json.Unmarshal(row.PromptTemplates, &settings.PromptTemplates); err != nil {
			return nil, errors.Wrap(err, "decoding prompt_templates")
		}
	}
	return settings, nil
}
