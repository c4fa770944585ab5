package artifact

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Christopher-Schulze/crPipeline-sub000/internal/blob"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/models"
)

type memStore struct {
	rows      []*models.JobStageOutput
	insertErr error
}

func (m *memStore) InsertStageOutput(ctx context.Context, out *models.JobStageOutput) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.rows = append(m.rows, out)
	return nil
}

type failingBlob struct{}

func (failingBlob) Put(ctx context.Context, bucket, key string, data []byte) error {
	return errors.New("upload refused")
}
func (failingBlob) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	return nil, blob.ErrNotFound
}
func (failingBlob) Delete(ctx context.Context, bucket, key string) error { return nil }

func TestRecord_WriteThenRecord(t *testing.T) {
	store := &memStore{}
	blobStore := blob.NewLocalStore(t.TempDir())
	recorder := NewRecorder(blobStore, store, "bkt")

	jobID := models.NewJobID()
	key := IntermediateKey(jobID, "parse", "json")
	require.NoError(t, recorder.Record(context.Background(), jobID, "parse", models.OutputTypeJSON, key, []byte(`{}`)))

	require.Len(t, store.rows, 1)
	row := store.rows[0]
	assert.Equal(t, jobID, row.JobID)
	assert.Equal(t, "parse", row.StageName)
	assert.Equal(t, "bkt", row.S3Bucket)

	// The blob the row points at must exist before the row does.
	data, err := blobStore.Get(context.Background(), row.S3Bucket, row.S3Key)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestRecord_FailedUploadRecordsNoRow(t *testing.T) {
	store := &memStore{}
	recorder := NewRecorder(failingBlob{}, store, "bkt")

	err := recorder.Record(context.Background(), models.NewJobID(), "parse", models.OutputTypeJSON, "k", []byte(`{}`))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMetadataOnly)
	assert.Empty(t, store.rows)
}

func TestRecord_MetadataFailureAfterUploadIsMarked(t *testing.T) {
	store := &memStore{insertErr: errors.New("db down")}
	blobStore := blob.NewLocalStore(t.TempDir())
	recorder := NewRecorder(blobStore, store, "bkt")

	jobID := models.NewJobID()
	key := IntermediateKey(jobID, "parse", "json")
	err := recorder.Record(context.Background(), jobID, "parse", models.OutputTypeJSON, key, []byte(`{}`))
	assert.ErrorIs(t, err, ErrMetadataOnly)

	// Blob write already happened and stays durable.
	_, getErr := blobStore.Get(context.Background(), "bkt", key)
	assert.NoError(t, getErr)
}

func TestKeyLayouts(t *testing.T) {
	jobID := models.NewJobID()

	assert.Regexp(t,
		regexp.MustCompile(fmt.Sprintf(`^jobs/%s/outputs/ocr_\d+\.txt$`, jobID)),
		IntermediateKey(jobID, "ocr", "txt"))
	assert.Regexp(t,
		regexp.MustCompile(fmt.Sprintf(`^jobs/%s/outputs/ai_input_\d+\.json$`, jobID)),
		AIInputKey(jobID, "ai"))
	assert.Equal(t,
		fmt.Sprintf("jobs/%s/outputs/%s-report.pdf", jobID, jobID),
		ReportKey(jobID))
}
