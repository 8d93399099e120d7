package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoJSON is returned when an answer holds no decodable JSON object.
var ErrNoJSON = errors.New("llm: no valid JSON object in response")

var (
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	unquotedKeyRe   = regexp.MustCompile(`([{,]\s*)([a-zA-Z_][a-zA-Z0-9_]*)\s*:`)
)

// decodeJSON pulls the first JSON object out of a model answer and
// unmarshals it into out.
func decodeJSON(raw string, out any) error {
	obj := extractJSON(raw)
	if obj == "" {
		return fmt.Errorf("%w: %s", ErrNoJSON, truncate(raw, 200))
	}
	if err := json.Unmarshal([]byte(obj), out); err != nil {
		return fmt.Errorf("llm: decode response: %w", err)
	}
	return nil
}

// extractJSON strips markdown fences and surrounding prose and returns the
// first balanced JSON object, or "" when there is none.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(strings.TrimSuffix(s, "```"))

	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}
	obj := balancedObject(s[start:])
	if json.Valid([]byte(obj)) {
		return obj
	}
	if obj = sanitizeJSON(obj); json.Valid([]byte(obj)) {
		return obj
	}
	return ""
}

// balancedObject returns the prefix of s up to the brace that closes the
// opening one. Braces inside string literals are ignored.
func balancedObject(s string) string {
	depth := 0
	inString := false
	escaped := false

	for i, ch := range s {
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return s
}

// sanitizeJSON fixes trailing commas and bare keys, the two mistakes models
// make most often.
func sanitizeJSON(s string) string {
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	return unquotedKeyRe.ReplaceAllString(s, `$1"$2":`)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
