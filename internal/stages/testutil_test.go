package stages

import (
	"context"
	"testing"

	"github.com/Christopher-Schulze/crPipeline-sub000/internal/artifact"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/blob"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/models"
)

// fakeStore is an in-memory artifact.Store used by every stage test in
// this package instead of a real database.
type fakeStore struct {
	outputs []*models.JobStageOutput
}

func (f *fakeStore) InsertStageOutput(ctx context.Context, out *models.JobStageOutput) error {
	f.outputs = append(f.outputs, out)
	return nil
}

func newTestRecorder(t *testing.T) (*artifact.Recorder, *fakeStore, blob.Store) {
	t.Helper()
	store := &fakeStore{}
	blobStore := blob.NewLocalStore(t.TempDir())
	return artifact.NewRecorder(blobStore, store, "test-bucket"), store, blobStore
}
