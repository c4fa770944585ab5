// Package jsonpath resolves {{path}} placeholders and summaryFields
// expressions against a JSON-shaped value: dot-paths up to three segments
// resolved directly, deeper paths or an explicit "$." prefix delegated to
// github.com/tidwall/gjson.
package jsonpath

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// Resolve evaluates path against value (any JSON-marshalable Go value),
// returning the resolved node and whether it was found.
func Resolve(value interface{}, path string) (interface{}, bool) {
	trimmed := strings.TrimPrefix(path, "$.")
	segments := strings.Split(trimmed, ".")

	if !strings.HasPrefix(path, "$.") && len(segments) <= 3 {
		if v, ok := resolveDotPath(value, segments); ok {
			return v, true
		}
	}

	data, err := json.Marshal(value)
	if err != nil {
		return nil, false
	}
	result := gjson.GetBytes(data, trimmed)
	if !result.Exists() {
		return nil, false
	}
	return result.Value(), true
}

func resolveDotPath(value interface{}, segments []string) (interface{}, bool) {
	cur := value
	for _, seg := range segments {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// LeafKey returns the final path segment, used as the key a summaryFields
// result is stored under.
func LeafKey(path string) string {
	trimmed := strings.TrimPrefix(path, "$.")
	segments := strings.Split(trimmed, ".")
	return segments[len(segments)-1]
}
