package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Christopher-Schulze/crPipeline-sub000/internal/logger"
)

// captureLog implements logger.Log recording warn messages, for asserting
// the truncation warning.
type captureLog struct {
	warns *[]string
}

func (c captureLog) WithField(string, interface{}) logger.Log  { return c }
func (c captureLog) WithFields(logger.Fields) logger.Log       { return c }
func (c captureLog) WithError(error) logger.Log                { return c }
func (c captureLog) Trace(...interface{})                      {}
func (c captureLog) Debug(...interface{})                      {}
func (c captureLog) Info(...interface{})                       {}
func (c captureLog) Warn(args ...interface{}) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i], _ = a.(string)
	}
	*c.warns = append(*c.warns, strings.Join(parts, " "))
}
func (c captureLog) Error(...interface{}) {}

func TestRenderMarkdown_ProducesPDF(t *testing.T) {
	markdown := "# Title\n\nA paragraph.\n\n- one\n- two\n\n> quoted\n\n---\n"
	data, err := RenderMarkdown(markdown, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestRenderMarkdown_WarnsOnTruncation(t *testing.T) {
	var warns []string
	long := strings.Repeat("A paragraph of filler content for the page.\n\n", 200)
	data, err := RenderMarkdown(long, captureLog{warns: &warns})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
	require.NotEmpty(t, warns)
	assert.Contains(t, warns[0], "truncated")
}

func TestRenderBasic_ProducesPDF(t *testing.T) {
	data, err := RenderBasic(`{"k": "v"}`)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}
