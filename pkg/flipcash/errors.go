package flipcash

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidCounterPrice is returned before any network call when a
	// counter response carries a non-positive price
	ErrInvalidCounterPrice = errors.New("counter price must be a positive amount")

	// ErrOfferExpired is returned when responding to an offer the backend
	// has already marked expired
	ErrOfferExpired = errors.New("offer has expired and can no longer be responded to")
)

// APIError is a non-2xx response from the upstream API. Message carries the
// backend's error text verbatim; Fields retains the DRF validation map when
// the body was field-keyed, so handlers can render field-level errors
// without substring matching.
type APIError struct {
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream API error (HTTP %d): %s", e.Status, e.Message)
}

// IsNotFound reports whether err is an upstream 404
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 404
}

// decodeAPIError builds an APIError from an error response body. The
// upstream speaks DRF conventions: either {detail|error|message} at the top
// level, or a field-name-keyed map of message arrays for validation errors,
// which is flattened into one human-readable string joined by "; ".
func decodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	if len(body) == 0 {
		apiErr.Message = genericMessage(status)
		return apiErr
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		apiErr.Message = genericMessage(status)
		return apiErr
	}

	// Top-level error string under any of the conventional keys
	for _, key := range []string{"detail", "error", "message"} {
		if msg, ok := raw[key]; ok {
			var s string
			if err := json.Unmarshal(msg, &s); err == nil && s != "" {
				apiErr.Message = s
				return apiErr
			}
		}
	}

	// Field-keyed validation map: {"phone": ["Invalid number"], ...}
	fields := make(map[string][]string)
	for key, val := range raw {
		var msgs []string
		if err := json.Unmarshal(val, &msgs); err == nil {
			fields[key] = msgs
			continue
		}
		var msg string
		if err := json.Unmarshal(val, &msg); err == nil {
			fields[key] = []string{msg}
		}
	}

	if len(fields) == 0 {
		apiErr.Message = genericMessage(status)
		return apiErr
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", key, strings.Join(fields[key], ", ")))
	}

	apiErr.Fields = fields
	apiErr.Message = strings.Join(parts, "; ")
	return apiErr
}

func genericMessage(status int) string {
	return fmt.Sprintf("request failed with status %d", status)
}
