package stages

import (
	"context"
	"os"
	"strings"

	"github.com/Christopher-Schulze/crPipeline-sub000/internal/artifact"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/httpclient"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/localocr"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/models"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/resolver"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/rollingcontext"
)

// OCRHandler tries the stage custom command, then external OCR at
// stage/org/env priority, then the local default tool, stopping at the
// first method that runs to completion.
type OCRHandler struct {
	Recorder  *artifact.Recorder
	OCRClient *httpclient.OCRClient
	Env       resolver.Env
}

func (h *OCRHandler) Handle(ctx context.Context, sc *StageContext) (rollingcontext.Value, Outcome, error) {
	resolved := resolver.Resolve(sc.Stage, sc.Settings, h.Env)

	var attemptErr error
	lenientOnMissingOutput := false

	switch {
	case strings.TrimSpace(sc.Stage.Command) != "":
		attemptErr = localocr.RunCustomCommand(ctx, sc.Stage.Command, sc.InputPDFPath, sc.OCRTextPath)
		// A custom command that exits 0 but writes no output file is
		// lenient: warn, don't fail.
		lenientOnMissingOutput = attemptErr == nil

	case resolved.OCREndpoint != "":
		// resolver.Resolve already applied the stage -> settings -> env
		// priority order and the ocr_engine="default" suppression, so a
		// non-empty OCREndpoint here always means an external call is due.
		attemptErr = h.runExternal(ctx, sc, resolved)

	default:
		outputBase := strings.TrimSuffix(sc.OCRTextPath, ".txt")
		attemptErr = localocr.RunDefault(ctx, sc.InputPDFPath, outputBase)
	}

	if attemptErr != nil {
		if sc.Log != nil {
			sc.Log.WithError(attemptErr).Error("OCR stage failed")
		}
		return sc.Rolling, OutcomeCritical, attemptErr
	}

	data, err := os.ReadFile(sc.OCRTextPath)
	if err != nil {
		if lenientOnMissingOutput && os.IsNotExist(err) {
			if sc.Log != nil {
				sc.Log.Warn("OCR custom command produced no output file; continuing")
			}
			return sc.Rolling, OutcomeContinue, nil
		}
		if sc.Log != nil {
			sc.Log.WithError(err).Error("OCR output file missing")
		}
		return sc.Rolling, OutcomeCritical, err
	}

	key := artifact.IntermediateKey(sc.Job.ID, sc.Stage.StageName(), "txt")
	if err := h.Recorder.Record(ctx, sc.Job.ID, sc.Stage.StageName(), models.OutputTypeText, key, data); err != nil {
		if sc.Log != nil {
			sc.Log.WithError(err).Warn("failed to record OCR artifact metadata")
		}
	}
	_ = os.Remove(sc.OCRTextPath)

	return sc.Rolling, OutcomeContinue, nil
}

func (h *OCRHandler) runExternal(ctx context.Context, sc *StageContext, resolved resolver.ResolvedConfig) error {
	input, err := os.ReadFile(sc.InputPDFPath)
	if err != nil {
		return err
	}
	text, err := h.OCRClient.Recognize(ctx, resolved.OCREndpoint, sc.Document.StorageKey, input, resolved.OCRKey)
	if err != nil {
		return err
	}
	return os.WriteFile(sc.OCRTextPath, []byte(text), 0o644)
}
