package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Christopher-Schulze/crPipeline-sub000/internal/models"
)

func TestResolve_OCRPriorityChain(t *testing.T) {
	env := Env{
		DefaultExternalOCREndpoint: "https://env-ocr.example.com",
		DefaultExternalOCRAPIKey:   "env-ocr-key",
	}
	settings := &models.OrgSettings{OCREndpoint: "https://org-ocr.example.com", OCRKey: "org-ocr-key"}

	t.Run("stage wins when external and set", func(t *testing.T) {
		stage := models.Stage{OCREngine: models.OCREngineExternal, OCRStageEndpoint: "https://stage-ocr.example.com", OCRStageKey: "stage-ocr-key"}
		got := Resolve(stage, settings, env)
		assert.Equal(t, "https://stage-ocr.example.com", got.OCREndpoint)
		assert.Equal(t, "stage-ocr-key", got.OCRKey.Reveal())
	})

	t.Run("falls through to settings when stage endpoint blank", func(t *testing.T) {
		stage := models.Stage{OCREngine: models.OCREngineExternal}
		got := Resolve(stage, settings, env)
		assert.Equal(t, "https://org-ocr.example.com", got.OCREndpoint)
		assert.Equal(t, "org-ocr-key", got.OCRKey.Reveal())
	})

	t.Run("falls through to env when settings absent", func(t *testing.T) {
		stage := models.Stage{OCREngine: models.OCREngineExternal}
		got := Resolve(stage, nil, env)
		assert.Equal(t, "https://env-ocr.example.com", got.OCREndpoint)
		assert.Equal(t, "env-ocr-key", got.OCRKey.Reveal())
	})

	t.Run("ocr_engine=default suppresses every external source", func(t *testing.T) {
		stage := models.Stage{OCREngine: models.OCREngineDefault, OCRStageEndpoint: "https://should-be-ignored.example.com"}
		got := Resolve(stage, settings, env)
		assert.Empty(t, got.OCREndpoint)
		assert.Empty(t, got.OCRKey.Reveal())
	})

	t.Run("no ocr_engine set still allows external fallback", func(t *testing.T) {
		stage := models.Stage{}
		got := Resolve(stage, settings, env)
		assert.Equal(t, "https://org-ocr.example.com", got.OCREndpoint)
	})
}

func TestResolve_AIPriorityChain(t *testing.T) {
	env := Env{AIAPIURL: "https://env-ai.example.com", AIAPIKey: "env-ai-key"}

	t.Run("settings win over env", func(t *testing.T) {
		settings := &models.OrgSettings{AIEndpoint: "https://org-ai.example.com", AIKey: "org-ai-key",
			AICustomHeaders: []models.CustomHeader{{Name: "X-Org", Value: "v"}}}
		got := Resolve(models.Stage{}, settings, env)
		assert.Equal(t, "https://org-ai.example.com", got.AIEndpoint)
		assert.Equal(t, "org-ai-key", got.AIKey.Reveal())
		require.Len(t, got.AICustomHeaders, 1)
	})

	t.Run("env used when settings absent", func(t *testing.T) {
		got := Resolve(models.Stage{}, nil, env)
		assert.Equal(t, "https://env-ai.example.com", got.AIEndpoint)
		assert.Equal(t, "env-ai-key", got.AIKey.Reveal())
	})

	t.Run("whitespace-only settings value treated as empty", func(t *testing.T) {
		settings := &models.OrgSettings{AIEndpoint: "   "}
		got := Resolve(models.Stage{}, settings, env)
		assert.Equal(t, "https://env-ai.example.com", got.AIEndpoint)
	})
}
