package rollingcontext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromJSON_Empty(t *testing.T) {
	v, err := FromJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{}, v.Raw())
}

func TestMerge_ObjectShallowMerges(t *testing.T) {
	v, err := FromJSON([]byte(`{"a":1,"b":2}`))
	require.NoError(t, err)

	merged := v.Merge(map[string]interface{}{"b": 3, "c": 4})
	obj := merged.AsObject()
	assert.Equal(t, float64(1), obj["a"])
	assert.Equal(t, 3, obj["b"])
	assert.Equal(t, 4, obj["c"])
}

func TestMerge_NonObjectWrapsUnderPreviousStageOutput(t *testing.T) {
	v, err := FromJSON([]byte(`"just a string"`))
	require.NoError(t, err)

	merged := v.Merge(map[string]interface{}{"document_name": "doc.pdf"})
	obj := merged.AsObject()
	assert.Equal(t, "just a string", obj["previous_stage_output"])
	assert.Equal(t, "doc.pdf", obj["document_name"])
}

func TestGet_ShallowPath(t *testing.T) {
	v, err := FromJSON([]byte(`{"auth":{"token":"T"}}`))
	require.NoError(t, err)

	got, ok := v.Get([]string{"auth", "token"})
	require.True(t, ok)
	assert.Equal(t, "T", got)

	_, ok = v.Get([]string{"auth", "missing"})
	assert.False(t, ok)
}

func TestMarshalJSON_NullBecomesEmptyObject(t *testing.T) {
	data, err := Null.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, "{}", string(data))
}
