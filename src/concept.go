package main

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
)

// Concept is one term/definition pair returned by the analysis service.
// ID is assigned locally when the response is ingested.
type Concept struct {
	ID         string
	Term       string
	Definition string
}

type rawConcept struct {
	Term       json.RawMessage `json:"term"`
	Definition json.RawMessage `json:"definition"`
}

// parseKeyConcepts extracts the "key_concepts" array from a response body.
// ok is false when the body is not a JSON object or the field is missing or
// not an array. Elements are not validated.
func parseKeyConcepts(body []byte) (concepts []Concept, ok bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, false
	}

	raw, found := fields["key_concepts"]
	if !found || !isArray(raw) {
		return nil, false
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, false
	}

	concepts = make([]Concept, 0, len(elems))
	for _, elem := range elems {
		var rc rawConcept
		// Non-object elements still produce a (blank) card.
		_ = json.Unmarshal(elem, &rc)
		concepts = append(concepts, Concept{
			ID:         uuid.NewString(),
			Term:       textOf(rc.Term),
			Definition: textOf(rc.Definition),
		})
	}
	return concepts, true
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// textOf renders a JSON value for display: strings unquoted, null or absent
// as "", anything else as its JSON text.
func textOf(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	return string(trimmed)
}
