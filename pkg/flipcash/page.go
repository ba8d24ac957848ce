package flipcash

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Page is the decoded form of a list endpoint response. Some deployments of
// the upstream return a bare JSON array, others a DRF pagination envelope
// {count,next,previous,results}; both are decoded here exactly once so
// nothing downstream ever branches on the wire shape again.
type Page[T any] struct {
	Count    int    `json:"count"`
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`
	Results  []T    `json:"results"`

	// Paginated is true when the upstream sent the envelope form
	Paginated bool `json:"-"`
}

// decodePage decodes either list shape into a Page
func decodePage[T any](body []byte) (Page[T], error) {
	var page Page[T]

	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) == 0 {
		page.Results = []T{}
		return page, nil
	}

	if trimmed[0] == '[' {
		var results []T
		if err := json.Unmarshal(trimmed, &results); err != nil {
			return page, fmt.Errorf("failed to decode list response: %w", err)
		}
		page.Results = results
		page.Count = len(results)
		return page, nil
	}

	var envelope struct {
		Count    int             `json:"count"`
		Next     *string         `json:"next"`
		Previous *string         `json:"previous"`
		Results  json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return page, fmt.Errorf("failed to decode paginated response: %w", err)
	}
	if envelope.Results == nil {
		return page, fmt.Errorf("paginated response is missing results")
	}

	var results []T
	if err := json.Unmarshal(envelope.Results, &results); err != nil {
		return page, fmt.Errorf("failed to decode paginated results: %w", err)
	}

	page.Results = results
	page.Count = envelope.Count
	page.Paginated = true
	if envelope.Next != nil {
		page.Next = *envelope.Next
	}
	if envelope.Previous != nil {
		page.Previous = *envelope.Previous
	}
	return page, nil
}
