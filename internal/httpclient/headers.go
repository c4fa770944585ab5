package httpclient

import (
	"net/http"
	"net/textproto"

	"github.com/Christopher-Schulze/crPipeline-sub000/internal/logger"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/models"
)

// attachBearer sets Authorization: Bearer <key> if key is non-empty,
// revealing the sensitive value only at the point of attachment.
func attachBearer(h http.Header, key logger.Sensitive) {
	if key.Reveal() == "" {
		return
	}
	h.Set("Authorization", "Bearer "+key.Reveal())
}

// attachCustomHeaders appends each valid {name, value} pair as a header,
// skipping (and the caller should log) any pair with invalid header
// tokens rather than failing the whole request.
func attachCustomHeaders(h http.Header, headers []models.CustomHeader) (skipped []string) {
	for _, custom := range headers {
		if !validHeaderToken(custom.Name) || !validHeaderValue(custom.Value) {
			skipped = append(skipped, custom.Name)
			continue
		}
		h.Set(custom.Name, custom.Value)
	}
	return skipped
}

func validHeaderToken(s string) bool {
	if s == "" {
		return false
	}
	return textproto.TrimString(s) == s && httpTokenOK(s)
}

func httpTokenOK(s string) bool {
	for _, r := range s {
		if r <= ' ' || r == ':' || r > '~' {
			return false
		}
	}
	return true
}

func validHeaderValue(s string) bool {
	for _, r := range s {
		if r == '\n' || r == '\r' {
			return false
		}
	}
	return true
}
