package soroban

import (
	"encoding/json"
	"fmt"
	"strings"
)

// messageCarrier is the accessor shape some decoded payloads expose.
type messageCarrier interface {
	ErrorMessage() string
}

// ExtractErrorMessage pulls the most specific human-readable message out
// of a loosely shaped error payload. Stages are tried in order and the
// first success wins:
//  1. direct string
//  2. a callable accessor (error or ErrorMessage method)
//  3. a plain property ("message", then "error")
//  4. a stringifiable object
//  5. a scan of diagnostic/event data
//  6. raw serialization
func ExtractErrorMessage(payload any) string {
	if payload == nil {
		return ""
	}

	// Stage 1: direct string.
	if s, ok := payload.(string); ok && s != "" {
		return s
	}

	// Stage 2: callable accessor.
	if mc, ok := payload.(messageCarrier); ok {
		if msg := mc.ErrorMessage(); msg != "" {
			return msg
		}
	}
	if err, ok := payload.(error); ok {
		if msg := err.Error(); msg != "" {
			return msg
		}
	}

	// Stage 3: plain property.
	if m, ok := asMap(payload); ok {
		for _, key := range []string{"message", "error"} {
			if v, present := m[key]; present {
				if s, isStr := v.(string); isStr && s != "" {
					return s
				}
				// Nested error objects are common; one recursive probe.
				if nested, isMap := asMap(v); isMap {
					if s, isStr := nested["message"].(string); isStr && s != "" {
						return s
					}
				}
			}
		}

		// Stage 5: scan diagnostic/event data.
		if msg := scanEvents(m); msg != "" {
			return msg
		}
	}

	// Stage 4: stringifiable object.
	if s, ok := payload.(fmt.Stringer); ok {
		if msg := s.String(); msg != "" {
			return msg
		}
	}

	// Stage 6: raw serialization.
	if raw, err := json.Marshal(payload); err == nil && len(raw) > 0 && string(raw) != "null" {
		return string(raw)
	}
	return fmt.Sprintf("%v", payload)
}

// ExtractFromRaw decodes a raw JSON payload and runs the extraction
// stages over it. A blank result is never returned for non-empty input.
func ExtractFromRaw(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return string(raw)
	}
	if msg := ExtractErrorMessage(decoded); msg != "" {
		return msg
	}
	return string(raw)
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// scanEvents looks through diagnostic/event lists for the first entry
// that mentions an error, falling back to the first non-empty entry.
func scanEvents(m map[string]any) string {
	for _, key := range []string{"diagnosticEvents", "events", "diagnostic_events"} {
		list, ok := m[key].([]any)
		if !ok {
			continue
		}

		first := ""
		for _, item := range list {
			s, isStr := item.(string)
			if !isStr || s == "" {
				continue
			}
			if first == "" {
				first = s
			}
			if strings.Contains(strings.ToLower(s), "error") {
				return s
			}
		}
		if first != "" {
			return first
		}
	}
	return ""
}
