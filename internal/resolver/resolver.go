// Package resolver computes effective per-stage endpoint/credential
// values using the three-level stage -> org-settings -> process-env
// fallback chain, modeled as a pure function with no side effects.
package resolver

import (
	"strings"

	"github.com/Christopher-Schulze/crPipeline-sub000/internal/logger"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/models"
)

// Env is the subset of process environment the resolver consults.
type Env struct {
	DefaultExternalOCREndpoint string
	DefaultExternalOCRAPIKey   string
	AIAPIURL                   string
	AIAPIKey                   string
}

// ResolvedConfig is the output of Resolve for one stage.
type ResolvedConfig struct {
	OCREndpoint     string
	OCRKey          logger.Sensitive
	AIEndpoint      string
	AIKey           logger.Sensitive
	AICustomHeaders []models.CustomHeader
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if !blank(v) {
			return v
		}
	}
	return ""
}

// Resolve computes the effective config for stage given org settings
// (possibly nil, meaning "absent") and the process environment.
func Resolve(stage models.Stage, settings *models.OrgSettings, env Env) ResolvedConfig {
	var out ResolvedConfig

	// External OCR endpoint/key: ocr_engine="default" suppresses every
	// external source outright, regardless of what settings/env hold.
	if stage.OCREngine != models.OCREngineDefault {
		var settingsEndpoint, settingsKey string
		if settings != nil {
			settingsEndpoint = settings.OCREndpoint
			settingsKey = settings.OCRKey
		}
		out.OCREndpoint = firstNonBlank(stage.OCRStageEndpoint, settingsEndpoint, env.DefaultExternalOCREndpoint)
		out.OCRKey = logger.Sensitive(firstNonBlank(stage.OCRStageKey, settingsKey, env.DefaultExternalOCRAPIKey))
	}

	var settingsAIEndpoint, settingsAIKey string
	var settingsHeaders []models.CustomHeader
	if settings != nil {
		settingsAIEndpoint = settings.AIEndpoint
		settingsAIKey = settings.AIKey
		settingsHeaders = settings.AICustomHeaders
	}
	out.AIEndpoint = firstNonBlank(settingsAIEndpoint, env.AIAPIURL)
	out.AIKey = logger.Sensitive(firstNonBlank(settingsAIKey, env.AIAPIKey))
	out.AICustomHeaders = settingsHeaders

	return out
}
