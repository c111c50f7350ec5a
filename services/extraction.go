package services

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ResultKind tags how a generated response was interpreted. Consumers
// pattern-match on the kind instead of probing fields defensively.
type ResultKind string

const (
	ResultStructured ResultKind = "structured"
	ResultText       ResultKind = "text"
)

// GenResult is the normalized outcome of a generative call: either a
// structured payload with its JSON preserved, or a degraded text-only
// result. Text always carries the raw generated text.
type GenResult struct {
	Kind ResultKind      `json:"kind"`
	Text string          `json:"text"`
	JSON json.RawMessage `json:"json,omitempty"`
}

var fencedJSONRe = regexp.MustCompile("(?s)```json\\s*(.*?)```")

// ExtractStructured runs the three-stage fallback parse:
//  1. a fenced block tagged ```json
//  2. the entire text parsed directly
//  3. the raw text wrapped as a text-only result
//
// Stage 3 is a success, not an error: callers that can render text handle
// it; callers that strictly need numbers escalate to ErrAIResponseMalformed
// themselves.
func ExtractStructured(text string) GenResult {
	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		if raw, ok := validJSONDocument(m[1]); ok {
			return GenResult{Kind: ResultStructured, Text: text, JSON: raw}
		}
	}

	if raw, ok := validJSONDocument(text); ok {
		return GenResult{Kind: ResultStructured, Text: text, JSON: raw}
	}

	return GenResult{Kind: ResultText, Text: strings.TrimSpace(text)}
}

// validJSONDocument accepts only JSON objects and arrays; bare strings and
// numbers are valid JSON but useless as a structured payload.
func validJSONDocument(s string) (json.RawMessage, bool) {
	s = strings.TrimSpace(s)
	if s == "" || (s[0] != '{' && s[0] != '[') {
		return nil, false
	}
	if !json.Valid([]byte(s)) {
		return nil, false
	}
	return json.RawMessage(s), true
}
