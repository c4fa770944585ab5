package executor

import (
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/Christopher-Schulze/crPipeline-sub000/internal/logger"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/models"
)

// scope is the executor's scoped temp-directory acquisition: acquire
// once, guarantee teardown on every exit path including a panic. No temp
// file created for a job may survive the job's terminal transition.
type scope struct {
	dir string
	job models.JobID
}

// newScope creates the job's temp directory under root (os.TempDir() if
// root is empty).
func newScope(root string, job models.JobID) (*scope, error) {
	if root == "" {
		root = os.TempDir()
	}
	dir := filepath.Join(root, "docworker", job.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating job temp directory")
	}
	return &scope{dir: dir, job: job}, nil
}

// inputPDFPath is <tempdir>/{job}-input.pdf.
func (s *scope) inputPDFPath() string {
	return filepath.Join(s.dir, s.job.String()+"-input.pdf")
}

// ocrTextPath is <tempdir>/{job}-input.txt, precomputed before any stage
// runs.
func (s *scope) ocrTextPath() string {
	return filepath.Join(s.dir, s.job.String()+"-input.txt")
}

// cleanup deletes every file under the job's temp directory. If called
// via defer during a panic, it recovers just long enough to run the
// cleanup and log the panic, then re-panics so the panic still propagates
// to a caller-level recover. Removal failures are warning-logged only,
// never fatal.
func (s *scope) cleanup(log logger.Log) {
	r := recover()

	var result *multierror.Error
	if entries, err := os.ReadDir(s.dir); err == nil {
		for _, entry := range entries {
			if err := os.RemoveAll(filepath.Join(s.dir, entry.Name())); err != nil {
				result = multierror.Append(result, errors.Wrapf(err, "removing %s", entry.Name()))
			}
		}
	} else if !os.IsNotExist(err) {
		result = multierror.Append(result, errors.Wrap(err, "listing job temp directory"))
	}
	if err := os.Remove(s.dir); err != nil && !os.IsNotExist(err) {
		result = multierror.Append(result, errors.Wrap(err, "removing job temp directory"))
	}
	if err := result.ErrorOrNil(); err != nil && log != nil {
		log.WithError(err).Warn("failed to clean up job temp directory")
	}

	if r != nil {
		if log != nil {
			log.WithField("panic", r).Error("recovered panic during job execution; re-panicking after cleanup")
		}
		panic(r)
	}
}
