package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractStructured_FencedBlock(t *testing.T) {
	text := "Here you go:\n```json\n{\"calories\": 450, \"items\": [\"toast\"]}\n```\nEnjoy!"

	res := ExtractStructured(text)
	require.Equal(t, ResultStructured, res.Kind)
	assert.Equal(t, text, res.Text)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(res.JSON, &parsed))
	assert.Equal(t, 450.0, parsed["calories"])
}

func TestExtractStructured_WholeTextJSON(t *testing.T) {
	res := ExtractStructured(`{"tip": "drink water", "category": "hydration"}`)
	require.Equal(t, ResultStructured, res.Kind)

	var tip Tip
	require.NoError(t, json.Unmarshal(res.JSON, &tip))
	assert.Equal(t, "drink water", tip.Tip)
}

func TestExtractStructured_TextFallback(t *testing.T) {
	res := ExtractStructured("  Your meal looks roughly 500 kcal.  ")
	assert.Equal(t, ResultText, res.Kind)
	assert.Equal(t, "Your meal looks roughly 500 kcal.", res.Text)
	assert.Nil(t, res.JSON)
}

func TestExtractStructured_InvalidFenceFallsThrough(t *testing.T) {
	// The fenced block is broken JSON but the surrounding text isn't JSON
	// either: the result degrades to text, it doesn't error.
	res := ExtractStructured("```json\n{\"calories\": \n```")
	assert.Equal(t, ResultText, res.Kind)
}

func TestExtractStructured_BareScalarIsNotStructured(t *testing.T) {
	// "42" is valid JSON but useless as a payload.
	res := ExtractStructured("42")
	assert.Equal(t, ResultText, res.Kind)
}

func TestExtractStructured_ArrayDocument(t *testing.T) {
	res := ExtractStructured(`[{"tip": "walk"}]`)
	assert.Equal(t, ResultStructured, res.Kind)
}
