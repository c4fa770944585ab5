package stages

import (
	"context"
	"encoding/json"

	"github.com/Christopher-Schulze/crPipeline-sub000/internal/artifact"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/jsonpath"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/models"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/render"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/rollingcontext"
)

// ReportHandler merges document/job metadata into the rolling context,
// renders it (templated Markdown or a basic one-page fallback) to PDF,
// uploads it under the fixed report key, and optionally saves a
// summaryFields JSON extract.
type ReportHandler struct {
	Recorder *artifact.Recorder
}

type reportConfig struct {
	Template      string   `json:"template"`
	SummaryFields []string `json:"summaryFields"`
}

func (h *ReportHandler) Handle(ctx context.Context, sc *StageContext) (rollingcontext.Value, Outcome, error) {
	cfg := decodeReportConfig(sc.Stage.Config)

	templating := sc.Rolling.Merge(map[string]interface{}{
		"document_name": sc.Document.DisplayName,
		"job_id":        sc.Job.ID.String(),
	})
	templatingValue := templating.Raw()

	var pdfBytes []byte
	var err error
	if cfg.Template != "" {
		markdown := render.SubstitutePlaceholders(cfg.Template, templatingValue)
		pdfBytes, err = render.RenderMarkdown(markdown, sc.Log)
		if err != nil {
			if sc.Log != nil {
				sc.Log.WithError(err).Warn("template render failed; falling back to basic renderer")
			}
			pdfBytes, err = render.RenderBasic(stringifyReportValue(templatingValue))
		}
	} else {
		pdfBytes, err = render.RenderBasic(stringifyReportValue(templatingValue))
	}
	if err != nil {
		if sc.Log != nil {
			sc.Log.WithError(err).Error("report rendering failed")
		}
		return sc.Rolling, OutcomeCritical, err
	}

	reportKey := artifact.ReportKey(sc.Job.ID)
	if recErr := h.Recorder.Record(ctx, sc.Job.ID, sc.Stage.StageName(), models.OutputTypePDF, reportKey, pdfBytes); recErr != nil {
		if sc.Log != nil {
			sc.Log.WithError(recErr).Warn("failed to record report artifact metadata")
		}
	}

	if len(cfg.SummaryFields) > 0 {
		summary := make(map[string]interface{}, len(cfg.SummaryFields))
		for _, path := range cfg.SummaryFields {
			if value, ok := jsonpath.Resolve(templatingValue, path); ok {
				summary[jsonpath.LeafKey(path)] = value
			}
		}
		if encoded, err := json.Marshal(summary); err == nil {
			summaryKey := artifact.IntermediateKey(sc.Job.ID, "report_summary", "json")
			if recErr := h.Recorder.Record(ctx, sc.Job.ID, "report_summary", models.OutputTypeJSON, summaryKey, encoded); recErr != nil && sc.Log != nil {
				sc.Log.WithError(recErr).Warn("failed to record report summary artifact metadata")
			}
		}
	}

	return templating, OutcomeContinue, nil
}

func decodeReportConfig(raw json.RawMessage) reportConfig {
	var cfg reportConfig
	if len(raw) == 0 {
		return cfg
	}
	_ = json.Unmarshal(raw, &cfg)
	return cfg
}

func stringifyReportValue(v interface{}) string {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return string(encoded)
}
