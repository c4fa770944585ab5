// Package rollingcontext implements the tagged JSON value that flows
// stage-to-stage. Stage handlers operate through this small
// get/set/merge surface rather than raw map traversal.
package rollingcontext

import "encoding/json"

// Value is the rolling JSON context passed between stages. It always holds
// one of: nil, bool, float64, string, []interface{}, or
// map[string]interface{}, the same shape encoding/json produces for an
// arbitrary JSON document, kept
// here as a named type so stage handlers have a stable, documented surface
// instead of passing interface{} around.
type Value struct {
	raw interface{}
}

// Null is the empty rolling context, e.g. a pipeline whose first stage is AI.
var Null = Value{}

// FromJSON decodes raw JSON bytes into a Value.
func FromJSON(data []byte) (Value, error) {
	var v interface{}
	if len(data) == 0 {
		return Value{}, nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return Value{}, err
	}
	return Value{raw: v}, nil
}

// FromGo wraps an already-decoded Go value (map[string]interface{}, slice,
// primitive) as a Value without a round trip through JSON.
func FromGo(v interface{}) Value {
	return Value{raw: v}
}

// MarshalJSON serializes the Value back to JSON bytes.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.raw == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(v.raw)
}

// Raw returns the underlying decoded value for callers that need direct
// access (e.g. handing the context to an HTTP client as a JSON body).
func (v Value) Raw() interface{} {
	if v.raw == nil {
		return map[string]interface{}{}
	}
	return v.raw
}

// IsObject reports whether the current value is a JSON object.
func (v Value) IsObject() bool {
	_, ok := v.raw.(map[string]interface{})
	return ok
}

// AsObject returns the value as a map, or an empty map if it is not one.
func (v Value) AsObject() map[string]interface{} {
	if m, ok := v.raw.(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}

// Merge shallow-merges fields into the current value if it is an object,
// or wraps the current value under "previous_stage_output" alongside
// fields otherwise. The report stage builds its templating object with
// this rule.
func (v Value) Merge(fields map[string]interface{}) Value {
	var out map[string]interface{}
	if v.IsObject() {
		src := v.AsObject()
		out = make(map[string]interface{}, len(src)+len(fields))
		for k, val := range src {
			out[k] = val
		}
	} else {
		out = map[string]interface{}{"previous_stage_output": v.Raw()}
	}
	for k, val := range fields {
		out[k] = val
	}
	return Value{raw: out}
}

// Get resolves a key path, one segment per nested object level, against
// an object value, returning (value, found).
func (v Value) Get(path []string) (interface{}, bool) {
	var cur interface{} = v.Raw()
	for _, segment := range path {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
