package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"

	"github.com/Christopher-Schulze/crPipeline-sub000/internal/logger"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/models"
)

// AIClient POSTs a JSON body and decodes a JSON response.
type AIClient struct {
	client *retryablehttp.Client
	log    logger.Log
}

// NewAIClient builds an AIClient.
func NewAIClient(log logger.Log) *AIClient {
	return &AIClient{client: NewClient(), log: log}
}

// Complete posts body to endpoint and returns the decoded JSON response.
func (c *AIClient) Complete(ctx context.Context, endpoint string, key logger.Sensitive, headers []models.CustomHeader, body interface{}) (interface{}, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "encoding AI request body")
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, errors.Wrap(err, "building AI request")
	}
	req.Header.Set("Content-Type", "application/json")
	attachBearer(req.Header, key)
	if skipped := attachCustomHeaders(req.Header, headers); len(skipped) > 0 && c.log != nil {
		c.log.WithField("headers", skipped).Warn("skipped invalid custom AI headers")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "calling AI endpoint")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading AI response body")
	}
	if resp.StatusCode >= 400 {
		return nil, errors.Errorf("AI endpoint returned status %d", resp.StatusCode)
	}

	var decoded interface{}
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, errors.Wrap(err, "decoding AI response as JSON")
	}
	return decoded, nil
}
