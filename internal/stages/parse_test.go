package stages

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Christopher-Schulze/crPipeline-sub000/internal/models"
)

func writeOCRText(t *testing.T, sc *StageContext, text string) {
	t.Helper()
	require.NoError(t, os.WriteFile(sc.OCRTextPath, []byte(text), 0o644))
}

func TestParseHandler_MissingOCRTextSkipsWithoutError(t *testing.T) {
	dir := t.TempDir()
	recorder, store, _ := newTestRecorder(t)
	handler := &ParseHandler{Recorder: recorder}

	sc := newStageContext(dir)
	sc.Stage = models.Stage{Type: models.StageKindParse}

	rolling, outcome, err := handler.Handle(context.Background(), sc)
	require.NoError(t, err)
	assert.Equal(t, OutcomeContinue, outcome)
	assert.Equal(t, sc.Rolling, rolling)
	assert.Empty(t, store.outputs)
}

func TestParseHandler_KeywordExtraction(t *testing.T) {
	dir := t.TempDir()
	recorder, store, blobStore := newTestRecorder(t)
	handler := &ParseHandler{Recorder: recorder}

	sc := newStageContext(dir)
	sc.Stage = models.Stage{
		Type:   models.StageKindParse,
		Config: json.RawMessage(`{"strategy":"keywordExtraction","keywords":["invoice","Total"],"caseSensitive":false}`),
	}
	writeOCRText(t, sc, "Invoice #1\nTotal: 10\ntotal due: 5\n")

	rolling, outcome, err := handler.Handle(context.Background(), sc)
	require.NoError(t, err)
	assert.Equal(t, OutcomeContinue, outcome)

	m := rolling.AsObject()
	assert.Equal(t, float64(1), m["invoice"])
	assert.Equal(t, float64(2), m["Total"])

	require.Len(t, store.outputs, 1)
	data, err := blobStore.Get(context.Background(), "test-bucket", store.outputs[0].S3Key)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"invoice":1`)
}

func TestParseHandler_RegexExtractionCompileErrorFallsBackGracefully(t *testing.T) {
	dir := t.TempDir()
	recorder, _, _ := newTestRecorder(t)
	handler := &ParseHandler{Recorder: recorder}

	sc := newStageContext(dir)
	sc.Stage = models.Stage{
		Type: models.StageKindParse,
		Config: json.RawMessage(`{"strategy":"regexExtraction","patterns":[
			{"name":"bad","regex":"(["},
			{"name":"amount","regex":"\\$([0-9]+)"}
		]}`),
	}
	writeOCRText(t, sc, "Total due: $42 and $17\n")

	rolling, outcome, err := handler.Handle(context.Background(), sc)
	require.NoError(t, err)
	assert.Equal(t, OutcomeContinue, outcome)

	m := rolling.AsObject()
	assert.Equal(t, []interface{}{"Regex Compile Error"}, m["bad"])
	assert.Equal(t, []interface{}{"42", "17"}, m["amount"])
}

func TestParseHandler_RegexCaptureGroupOutOfBoundsFallsBackToFullMatch(t *testing.T) {
	dir := t.TempDir()
	recorder, _, _ := newTestRecorder(t)
	handler := &ParseHandler{Recorder: recorder}

	groupIdx := 5
	sc := newStageContext(dir)
	sc.Stage = models.Stage{
		Type: models.StageKindParse,
		Config: mustJSON(t, parseConfig{
			Strategy: strategyRegex,
			Patterns: []regexPattern{{Name: "x", Regex: `\d+`, CaptureGroupIndex: &groupIdx}},
		}),
	}
	writeOCRText(t, sc, "value 123 here\n")

	rolling, outcome, err := handler.Handle(context.Background(), sc)
	require.NoError(t, err)
	assert.Equal(t, OutcomeContinue, outcome)
	m := rolling.AsObject()
	assert.Equal(t, []interface{}{"123"}, m["x"])
}

func TestParseHandler_SimpleTableExtractionWithNumericSummary(t *testing.T) {
	dir := t.TempDir()
	recorder, _, _ := newTestRecorder(t)
	handler := &ParseHandler{Recorder: recorder}

	sc := newStageContext(dir)
	sc.Stage = models.Stage{
		Type: models.StageKindParse,
		Config: json.RawMessage(`{"strategy":"simpleTableExtraction","headerKeywords":["Item","Qty"],"stopKeywords":["Total"],"numericSummary":true}`),
	}
	writeOCRText(t, sc, "preamble\nItem   Qty\nwidget  2\ngizmo   3\nTotal   5\n")

	rolling, outcome, err := handler.Handle(context.Background(), sc)
	require.NoError(t, err)
	assert.Equal(t, OutcomeContinue, outcome)

	m := rolling.AsObject()
	assert.Equal(t, []interface{}{"Item", "Qty"}, m["headers"])
	rows := m["rows"].([]interface{})
	require.Len(t, rows, 2)
	assert.Equal(t, []interface{}{"widget", "2"}, rows[0])

	summary := m["numeric_summary"].(map[string]interface{})
	qty := summary["Qty"].(map[string]interface{})
	assert.Equal(t, 5.0, qty["sum"])
	assert.Equal(t, 2.5, qty["avg"])
	_, itemIsNumeric := summary["Item"]
	assert.False(t, itemIsNumeric)
}

func TestParseHandler_SimpleTableExtractionNoHeaderMatchIsEmpty(t *testing.T) {
	dir := t.TempDir()
	recorder, _, _ := newTestRecorder(t)
	handler := &ParseHandler{Recorder: recorder}

	sc := newStageContext(dir)
	sc.Stage = models.Stage{
		Type:   models.StageKindParse,
		Config: json.RawMessage(`{"strategy":"simpleTableExtraction","headerKeywords":["Nope"]}`),
	}
	writeOCRText(t, sc, "no matching header anywhere\n")

	rolling, outcome, err := handler.Handle(context.Background(), sc)
	require.NoError(t, err)
	assert.Equal(t, OutcomeContinue, outcome)
	m := rolling.AsObject()
	assert.Equal(t, []interface{}{}, m["headers"])
}

func TestParseHandler_Passthrough(t *testing.T) {
	dir := t.TempDir()
	recorder, _, _ := newTestRecorder(t)
	handler := &ParseHandler{Recorder: recorder}

	sc := newStageContext(dir)
	sc.Stage = models.Stage{Type: models.StageKindParse}
	writeOCRText(t, sc, "line one\n\nline two\n")

	rolling, outcome, err := handler.Handle(context.Background(), sc)
	require.NoError(t, err)
	assert.Equal(t, OutcomeContinue, outcome)
	m := rolling.AsObject()
	assert.Equal(t, strategyPassthru, m["strategy_used"])
	assert.Equal(t, []interface{}{"line one", "line two"}, m["lines"])
}

func mustJSON(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
