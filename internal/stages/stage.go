// Package stages implements the per-stage-kind handlers the Job Executor
// invokes in order: OCR, Parse, AI, Report. Each handler consumes the
// rolling stage context and returns an updated rolling context plus an
// Outcome; failures are reported as outcomes, never panics.
package stages

import (
	"context"

	"github.com/Christopher-Schulze/crPipeline-sub000/internal/logger"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/models"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/rollingcontext"
)

// Outcome reports whether a stage completed in a way that lets the Executor
// continue to the next stage, or must force the job to failed.
type Outcome int

const (
	OutcomeContinue Outcome = iota
	OutcomeCritical
)

// StageContext carries everything one stage invocation needs besides the
// job/pipeline metadata already resolved by the Executor. It lives for
// the duration of one job.
type StageContext struct {
	Job          *models.AnalysisJob
	Document     *models.Document
	Settings     *models.OrgSettings // nil if absent for the org
	Stage        models.Stage
	Rolling      rollingcontext.Value
	InputPDFPath string // <tempdir>/{job}-input.pdf
	OCRTextPath  string // <tempdir>/{job}-input.txt
	Log          logger.Log
}

// Handler is implemented by each stage kind.
type Handler interface {
	Handle(ctx context.Context, sc *StageContext) (rollingcontext.Value, Outcome, error)
}
