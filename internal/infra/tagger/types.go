package tagger

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// Request is the body posted to the keyphrase service.
type Request struct {
	Inputs string `json:"inputs"`
}

// Keyphrase is a single entity returned by the keyphrase service.
type Keyphrase struct {
	Word        string  `json:"word"`
	EntityGroup string  `json:"entity_group,omitempty"`
	Score       float64 `json:"score,omitempty"`
	Start       int     `json:"start,omitempty"`
	End         int     `json:"end,omitempty"`
}

// parseKeyphrases decodes a response body. The service answers with one list per
// input, `[[{"word": ...}]]`; a flat `[{"word": ...}]` list is accepted too.
// Words are returned in response order; blanks are skipped.
func parseKeyphrases(body []byte) ([]string, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	var nested [][]Keyphrase
	if err := json.Unmarshal(body, &nested); err == nil {
		var flat []Keyphrase
		for _, group := range nested {
			flat = append(flat, group...)
		}
		return words(flat), nil
	}

	var flat []Keyphrase
	if err := json.Unmarshal(body, &flat); err != nil {
		return nil, fmt.Errorf("decoding keyphrase response: %w", err)
	}

	return words(flat), nil
}

func words(items []Keyphrase) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item.Word == "" {
			continue
		}
		out = append(out, item.Word)
	}

	return out
}
