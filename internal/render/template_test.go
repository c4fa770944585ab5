package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstitutePlaceholders(t *testing.T) {
	value := map[string]interface{}{
		"auth": map[string]interface{}{"token": "T"},
		"n":    3.0,
		"deep": map[string]interface{}{"a": map[string]interface{}{"b": map[string]interface{}{"c": "leaf"}}},
	}

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"dot path", "Token: {{auth.token}}", "Token: T"},
		{"number stringified", "count={{n}}", "count=3"},
		{"unresolved path becomes empty", "x={{missing.path}}!", "x=!"},
		{"json path for deep access", "v={{$.deep.a.b.c}}", "v=leaf"},
		{"multiple placeholders", "{{auth.token}}-{{n}}", "T-3"},
		{"no placeholders untouched", "plain text", "plain text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SubstitutePlaceholders(tt.template, value))
		})
	}
}
