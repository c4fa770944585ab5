package stages

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Christopher-Schulze/crPipeline-sub000/internal/models"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/rollingcontext"
)

// A templated report lands at the fixed report key and summaryFields
// produce a report_summary JSON artifact keyed by leaf name.
func TestReportHandler_TemplateAndSummaryFields(t *testing.T) {
	recorder, store, blobStore := newTestRecorder(t)
	handler := &ReportHandler{Recorder: recorder}

	sc := newStageContext(t.TempDir())
	sc.Stage = models.Stage{
		Type:   models.StageKindReport,
		Name:   "report",
		Config: json.RawMessage(`{"template":"Token: {{auth.token}}","summaryFields":["auth.token"]}`),
	}
	sc.Rolling = rollingcontext.FromGo(map[string]interface{}{
		"auth": map[string]interface{}{"token": "T"},
	})

	_, outcome, err := handler.Handle(context.Background(), sc)
	require.NoError(t, err)
	assert.Equal(t, OutcomeContinue, outcome)

	require.Len(t, store.outputs, 2)

	reportRow := store.outputs[0]
	assert.Equal(t, models.OutputTypePDF, reportRow.OutputType)
	wantKey := fmt.Sprintf("jobs/%s/outputs/%s-report.pdf", sc.Job.ID, sc.Job.ID)
	assert.Equal(t, wantKey, reportRow.S3Key)

	pdfData, err := blobStore.Get(context.Background(), "test-bucket", reportRow.S3Key)
	require.NoError(t, err)
	assert.True(t, len(pdfData) > 4 && string(pdfData[:4]) == "%PDF")

	summaryRow := store.outputs[1]
	assert.Equal(t, "report_summary", summaryRow.StageName)
	assert.Equal(t, models.OutputTypeJSON, summaryRow.OutputType)
	summaryData, err := blobStore.Get(context.Background(), "test-bucket", summaryRow.S3Key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"T"}`, string(summaryData))
}

func TestReportHandler_NoTemplateUsesBasicRenderer(t *testing.T) {
	recorder, store, blobStore := newTestRecorder(t)
	handler := &ReportHandler{Recorder: recorder}

	sc := newStageContext(t.TempDir())
	sc.Stage = models.Stage{Type: models.StageKindReport, Name: "report"}
	sc.Rolling = rollingcontext.FromGo(map[string]interface{}{"k": "v"})

	_, outcome, err := handler.Handle(context.Background(), sc)
	require.NoError(t, err)
	assert.Equal(t, OutcomeContinue, outcome)

	require.Len(t, store.outputs, 1)
	pdfData, err := blobStore.Get(context.Background(), "test-bucket", store.outputs[0].S3Key)
	require.NoError(t, err)
	assert.True(t, len(pdfData) > 4 && string(pdfData[:4]) == "%PDF")
}

// TestReportHandler_MergesDocumentAndJobMetadata verifies the templating
// object: document_name and job_id shallow-merged into an object context,
// and a non-object context wrapped under previous_stage_output.
func TestReportHandler_MergesDocumentAndJobMetadata(t *testing.T) {
	t.Run("object context", func(t *testing.T) {
		recorder, _, _ := newTestRecorder(t)
		handler := &ReportHandler{Recorder: recorder}

		sc := newStageContext(t.TempDir())
		sc.Stage = models.Stage{Type: models.StageKindReport, Name: "report"}
		sc.Rolling = rollingcontext.FromGo(map[string]interface{}{"k": "v"})

		rolling, _, err := handler.Handle(context.Background(), sc)
		require.NoError(t, err)
		obj := rolling.AsObject()
		assert.Equal(t, "doc.pdf", obj["document_name"])
		assert.Equal(t, sc.Job.ID.String(), obj["job_id"])
		assert.Equal(t, "v", obj["k"])
	})

	t.Run("non-object context wrapped", func(t *testing.T) {
		recorder, _, _ := newTestRecorder(t)
		handler := &ReportHandler{Recorder: recorder}

		sc := newStageContext(t.TempDir())
		sc.Stage = models.Stage{Type: models.StageKindReport, Name: "report"}
		sc.Rolling = rollingcontext.FromGo("just a string")

		rolling, _, err := handler.Handle(context.Background(), sc)
		require.NoError(t, err)
		obj := rolling.AsObject()
		assert.Equal(t, "just a string", obj["previous_stage_output"])
		assert.Equal(t, "doc.pdf", obj["document_name"])
	})
}

func TestReportHandler_SummaryFieldWithJSONPathExpression(t *testing.T) {
	recorder, store, blobStore := newTestRecorder(t)
	handler := &ReportHandler{Recorder: recorder}

	sc := newStageContext(t.TempDir())
	sc.Stage = models.Stage{
		Type:   models.StageKindReport,
		Name:   "report",
		Config: json.RawMessage(`{"summaryFields":["$.a.b.c.d"]}`),
	}
	sc.Rolling = rollingcontext.FromGo(map[string]interface{}{
		"a": map[string]interface{}{"b": map[string]interface{}{"c": map[string]interface{}{"d": 42.0}}},
	})

	_, _, err := handler.Handle(context.Background(), sc)
	require.NoError(t, err)

	require.Len(t, store.outputs, 2)
	summaryData, err := blobStore.Get(context.Background(), "test-bucket", store.outputs[1].S3Key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":42}`, string(summaryData))
}
