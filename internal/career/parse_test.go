package career

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSONPlainPayload(t *testing.T) {
	assert.Equal(t, `{"a":1}`, ExtractJSON(`{"a":1}`))
}

func TestExtractJSONFenced(t *testing.T) {
	assert.Equal(t, `{"a":1}`, ExtractJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, ExtractJSON("```\n{\"a\":1}\n```"))
}

func TestExtractJSONWithSurroundingProse(t *testing.T) {
	raw := "Here is the result you asked for:\n{\"a\":1}\nHope that helps!"
	assert.Equal(t, `{"a":1}`, ExtractJSON(raw))
}

func TestExtractJSONArray(t *testing.T) {
	raw := "The questions:\n[{\"q\":\"one\"}]"
	assert.Equal(t, `[{"q":"one"}]`, ExtractJSON(raw))
}

func TestDecodeJSONErrorIncludesContext(t *testing.T) {
	var dst map[string]any
	err := decodeJSON("definitely not json", &dst)
	assert.ErrorContains(t, err, "parse model response")
}
