package stages

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/Christopher-Schulze/crPipeline-sub000/internal/artifact"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/httpclient"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/models"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/resolver"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/rollingcontext"
)

// AIHandler composes the request body (templated prompt or raw rolling
// context), saves it as an input artifact, POSTs to the resolved
// endpoint, and adopts the JSON response as the new rolling context. An
// empty resolved endpoint is critical, never a silent skip.
type AIHandler struct {
	Recorder *artifact.Recorder
	AIClient *httpclient.AIClient
	Env      resolver.Env
}

// aiRequestBody is the structured request encoding. A bare-string prompt
// body is not supported.
type aiRequestBody struct {
	Prompt      string      `json:"prompt"`
	ContextData interface{} `json:"context_data"`
}

func (h *AIHandler) Handle(ctx context.Context, sc *StageContext) (rollingcontext.Value, Outcome, error) {
	resolved := resolver.Resolve(sc.Stage, sc.Settings, h.Env)
	if strings.TrimSpace(resolved.AIEndpoint) == "" {
		err := errors.New("AI stage has no resolved endpoint")
		if sc.Log != nil {
			sc.Log.WithError(err).Error("AI stage configuration missing")
		}
		return sc.Rolling, OutcomeCritical, err
	}

	var body interface{}
	if sc.Stage.PromptName != "" && sc.Settings != nil {
		if template, ok := sc.Settings.TemplateByName(sc.Stage.PromptName); ok {
			contextJSON, err := json.Marshal(sc.Rolling.Raw())
			if err != nil {
				return sc.Rolling, OutcomeCritical, errors.Wrap(err, "encoding rolling context for prompt template")
			}
			rendered := renderPromptTemplate(template, string(contextJSON))
			body = aiRequestBody{Prompt: rendered, ContextData: sc.Rolling.Raw()}
		}
	}
	if body == nil {
		body = sc.Rolling.Raw()
	}

	encodedBody, err := json.Marshal(body)
	if err == nil {
		inputKey := artifact.AIInputKey(sc.Job.ID, sc.Stage.StageName())
		if recErr := h.Recorder.Record(ctx, sc.Job.ID, sc.Stage.StageName()+"_input", models.OutputTypeJSON, inputKey, encodedBody); recErr != nil && sc.Log != nil {
			sc.Log.WithError(recErr).Warn("failed to record AI input artifact metadata")
		}
	}

	response, err := h.AIClient.Complete(ctx, resolved.AIEndpoint, resolved.AIKey, resolved.AICustomHeaders, body)
	if err != nil {
		if sc.Log != nil {
			sc.Log.WithError(err).Error("AI stage call failed")
		}
		return sc.Rolling, OutcomeCritical, err
	}

	rolling := rollingcontext.FromGo(response)
	encodedResponse, err := json.Marshal(response)
	if err == nil {
		outputKey := artifact.IntermediateKey(sc.Job.ID, sc.Stage.StageName(), "json")
		if recErr := h.Recorder.Record(ctx, sc.Job.ID, sc.Stage.StageName(), models.OutputTypeJSON, outputKey, encodedResponse); recErr != nil && sc.Log != nil {
			sc.Log.WithError(recErr).Warn("failed to record AI output artifact metadata")
		}
	}

	return rolling, OutcomeContinue, nil
}

// renderPromptTemplate substitutes {{json_input}} and {{content}}, both
// naming the serialized rolling context.
func renderPromptTemplate(template, contextJSON string) string {
	rendered := strings.ReplaceAll(template, "{{json_input}}", contextJSON)
	rendered = strings.ReplaceAll(rendered, "{{content}}", contextJSON)
	return rendered
}
