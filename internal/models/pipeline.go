package models

import "encoding/json"

// StageKind enumerates the typed steps a Pipeline can contain.
type StageKind string

const (
	StageKindOCR    StageKind = "ocr"
	StageKindParse  StageKind = "parse"
	StageKindAI     StageKind = "ai"
	StageKindReport StageKind = "report"
	StageKindOther  StageKind = "other"
)

// OCREngine selects whether an ocr stage forces local execution or may use
// an external HTTP endpoint.
type OCREngine string

const (
	OCREngineDefault  OCREngine = "default"
	OCREngineExternal OCREngine = "external"
)

// Stage is one embedded step of a Pipeline, decoded from the
// pipelines.stages column. The pipeline validator (internal/validate)
// guarantees its shape before the executor trusts it.
type Stage struct {
	Type             StageKind       `json:"type"`
	Name             string          `json:"name"`
	Command          string          `json:"command,omitempty"`
	PromptName       string          `json:"prompt_name,omitempty"`
	OCREngine        OCREngine       `json:"ocr_engine,omitempty"`
	OCRStageEndpoint string          `json:"ocr_stage_endpoint,omitempty"`
	OCRStageKey      string          `json:"ocr_stage_key,omitempty"`
	Config           json.RawMessage `json:"config,omitempty"`
}

// StageName returns Name if set, else falls back to the positional Type,
// matching how stage_name is recorded on JobStageOutput rows.
func (s Stage) StageName() string {
	if s.Name != "" {
		return s.Name
	}
	return string(s.Type)
}

// Pipeline is read-only to the engine; owned by one Organization.
type Pipeline struct {
	ID     PipelineID
	OrgID  OrgID
	Name   string
	Stages []Stage
}
