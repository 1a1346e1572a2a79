package career

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON strips the markdown code fences models wrap around JSON
// output. If no fence is found it falls back to the outermost brace or
// bracket pair, since models sometimes prefix the payload with prose.
func ExtractJSON(raw string) string {
	out := strings.TrimSpace(raw)

	if strings.HasPrefix(out, "```json") {
		out = strings.TrimPrefix(out, "```json")
	} else if strings.HasPrefix(out, "```") {
		out = strings.TrimPrefix(out, "```")
	}
	out = strings.TrimSuffix(strings.TrimSpace(out), "```")
	out = strings.TrimSpace(out)

	if json.Valid([]byte(out)) {
		return out
	}

	for _, pair := range [][2]string{{"{", "}"}, {"[", "]"}} {
		start := strings.Index(out, pair[0])
		end := strings.LastIndex(out, pair[1])
		if start >= 0 && end > start {
			candidate := out[start : end+1]
			if json.Valid([]byte(candidate)) {
				return candidate
			}
		}
	}

	return out
}

// decodeJSON parses a model response into dst after fence stripping.
func decodeJSON(raw string, dst any) error {
	if err := json.Unmarshal([]byte(ExtractJSON(raw)), dst); err != nil {
		return fmt.Errorf("parse model response: %w", err)
	}
	return nil
}
