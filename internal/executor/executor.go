// Package executor implements the per-job state machine: it loads
// job/document/pipeline/settings state, walks the pipeline's stages in
// order, and persists the job's terminal status while guaranteeing
// temp-file cleanup on every exit path.
package executor

import (
	"context"
	"os"

	"github.com/pkg/errors"

	"github.com/Christopher-Schulze/crPipeline-sub000/internal/blob"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/logger"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/models"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/rollingcontext"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/stages"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/validate"
)

// Store is the subset of internal/store.DB the executor needs.
type Store interface {
	GetJob(ctx context.Context, id models.JobID) (*models.AnalysisJob, error)
	UpdateJobStatus(ctx context.Context, id models.JobID, from, to models.JobStatus) error
	GetDocument(ctx context.Context, id models.DocumentID) (*models.Document, error)
	GetPipeline(ctx context.Context, id models.PipelineID) (*models.Pipeline, error)
	GetOrgSettings(ctx context.Context, org models.OrgID) (*models.OrgSettings, error)
}

// Executor drives one job at a time through its pipeline.
type Executor struct {
	Store      Store
	Blob       blob.Store
	Bucket     string
	Handlers   map[models.StageKind]stages.Handler
	LogFactory logger.Factory
	// TempRoot is the base directory job temp scopes are created under;
	// os.TempDir() is used when empty.
	TempRoot string
}

func (e *Executor) log() logger.Log {
	if e.LogFactory == nil {
		return nil
	}
	return e.LogFactory("executor")
}

// Execute runs one job to a terminal status. It never returns an error
// to its caller: every failure path ends in a persisted terminal status
// and a log line, so the queue consumer always continues to the next
// message.
//
// The job transitions to in_progress as soon as it is loaded; a missing
// document then fails it from in_progress, keeping the status machine on
// its only legal path (pending -> in_progress -> {completed, failed})
// while still aborting before the stage loop.
func (e *Executor) Execute(ctx context.Context, jobID models.JobID) {
	log := e.log()
	if log != nil {
		log = log.WithField("job_id", jobID.String())
	}

	job, err := e.Store.GetJob(ctx, jobID)
	if err != nil {
		if log != nil {
			log.WithError(err).Warn("job not found; dropping message")
		}
		return
	}

	// A load failure here is treated as "settings absent": env-level
	// fallbacks in the config resolver still apply, and the job proceeds.
	settings, err := e.Store.GetOrgSettings(ctx, job.OrgID)
	if err != nil {
		settings = nil
	}

	if err := e.Store.UpdateJobStatus(ctx, job.ID, models.JobStatusPending, models.JobStatusInProgress); err != nil && log != nil {
		log.WithError(err).Warn("job was not in pending status at dispatch time")
	}

	document, err := e.Store.GetDocument(ctx, job.DocumentID)
	if err != nil {
		e.fail(ctx, job.ID, log, errors.Wrap(err, "loading document"))
		return
	}

	pipeline, err := e.Store.GetPipeline(ctx, job.PipelineID)
	if err != nil {
		e.fail(ctx, job.ID, log, errors.Wrap(err, "loading pipeline"))
		return
	}
	if err := validate.Pipeline(pipeline); err != nil {
		e.fail(ctx, job.ID, log, errors.Wrap(err, "validating pipeline"))
		return
	}

	scope, err := newScope(e.TempRoot, jobID)
	if err != nil {
		e.fail(ctx, job.ID, log, errors.Wrap(err, "acquiring temp directory"))
		return
	}
	defer scope.cleanup(log)

	if err := e.downloadDocument(ctx, document, scope.inputPDFPath()); err != nil {
		e.fail(ctx, job.ID, log, errors.Wrap(err, "downloading document blob"))
		return
	}

	rolling := rollingcontext.Null
	for _, stage := range pipeline.Stages {
		handler, ok := e.Handlers[stage.Type]
		if !ok {
			if log != nil {
				log.WithField("stage_type", string(stage.Type)).Warn("no handler registered for stage kind; skipping")
			}
			continue
		}

		stageLog := log
		if stageLog != nil {
			stageLog = stageLog.WithField("stage", stage.StageName())
		}
		sc := &stages.StageContext{
			Job:          job,
			Document:     document,
			Settings:     settings,
			Stage:        stage,
			Rolling:      rolling,
			InputPDFPath: scope.inputPDFPath(),
			OCRTextPath:  scope.ocrTextPath(),
			Log:          stageLog,
		}

		updated, outcome, handlerErr := handler.Handle(ctx, sc)
		if outcome == stages.OutcomeCritical {
			e.fail(ctx, job.ID, log, errors.Wrapf(handlerErr, "stage %s failed critically", stage.StageName()))
			return
		}
		rolling = updated
	}

	// Re-read status before the final transition: if a concurrent
	// delivery of the same job already finished it, don't clobber a
	// terminal status back to completed.
	current, err := e.Store.GetJob(ctx, jobID)
	if err != nil {
		if log != nil {
			log.WithError(err).Warn("failed to re-read job status before final transition")
		}
		return
	}
	if current.Status == models.JobStatusInProgress {
		if err := e.Store.UpdateJobStatus(ctx, jobID, models.JobStatusInProgress, models.JobStatusCompleted); err != nil {
			if log != nil {
				log.WithError(err).Warn("failed to set job completed")
			}
			return
		}
	}
	if log != nil {
		log.Info("job finished")
	}
}

func (e *Executor) fail(ctx context.Context, jobID models.JobID, log logger.Log, cause error) {
	if err := e.Store.UpdateJobStatus(ctx, jobID, models.JobStatusInProgress, models.JobStatusFailed); err != nil && log != nil {
		log.WithError(err).Warn("failed to set job failed")
	}
	if log != nil {
		log.WithError(cause).Error("job failed")
	}
}

func (e *Executor) downloadDocument(ctx context.Context, doc *models.Document, dest string) error {
	data, err := e.Blob.Get(ctx, e.Bucket, doc.StorageKey)
	if err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}
