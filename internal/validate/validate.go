// Package validate implements the pipeline shape check the engine runs
// once per job before trusting a Pipeline's decoded stages.
package validate

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/Christopher-Schulze/crPipeline-sub000/internal/models"
)

// Pipeline checks every stage of p: type non-empty; command absent or
// non-empty; ocr_engine, when present, one of {default, external}; an
// external ocr_engine requires a non-empty ocr_stage_endpoint;
// ocr_stage_key is only ever set alongside ocr_engine=external. On
// failure the executor aborts before entering the stage loop.
func Pipeline(p *models.Pipeline) error {
	for i, stage := range p.Stages {
		if err := validateStage(stage); err != nil {
			return errors.Wrapf(err, "stage %d (%s)", i, stage.StageName())
		}
	}
	return nil
}

func validateStage(s models.Stage) error {
	if strings.TrimSpace(string(s.Type)) == "" {
		return errors.New("stage type must not be empty")
	}
	if s.Command != "" && strings.TrimSpace(s.Command) == "" {
		return errors.New("stage command, if present, must not be blank")
	}
	switch s.OCREngine {
	case "", models.OCREngineDefault, models.OCREngineExternal:
	default:
		return errors.Errorf("unsupported ocr_engine %q", s.OCREngine)
	}
	if s.OCREngine == models.OCREngineExternal {
		if strings.TrimSpace(s.OCRStageEndpoint) == "" {
			return errors.New("ocr_engine=external requires a non-empty ocr_stage_endpoint")
		}
	}
	if s.OCRStageKey != "" && s.OCREngine != models.OCREngineExternal {
		return errors.New("ocr_stage_key may only be set when ocr_engine=external")
	}
	return nil
}
