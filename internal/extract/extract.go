// Package extract recovers JSON objects from raw LLM output.
//
// Models rarely return clean JSON even when told to: replies arrive wrapped
// in prose, inside markdown code fences, or with small syntax defects such as
// trailing commas. Extract applies a fixed sequence of recovery strategies
// and fails loudly when none of them produce an object, so callers never see
// a fabricated or partial result.
package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ExtractionError reports model output that no recovery strategy could turn
// into a JSON object. Raw preserves the complete payload for logging.
type ExtractionError struct {
	Raw    string
	reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract: %s (payload snippet: %s)", e.reason, snippet(e.Raw))
}

// Extract locates and parses the first JSON object in raw. Strategies are
// attempted in order:
//
//  1. parse the trimmed payload directly
//  2. parse the contents of the first ``` code fence
//  3. scan for a balanced {...} span, ignoring braces inside string literals
//  4. repair the best candidate (trailing commas, single-quoted keys) and retry
//
// A top-level array is not an object and falls through to the later steps.
func Extract(raw string) (map[string]any, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, &ExtractionError{Raw: raw, reason: "empty payload"}
	}

	if obj, ok := parseObject(trimmed); ok {
		return unwrapContent(obj), nil
	}

	block, fenced := fencedBlock(trimmed)
	if fenced {
		if obj, ok := parseObject(block); ok {
			return unwrapContent(obj), nil
		}
	}

	candidate, balanced := balancedObject(trimmed)
	if balanced {
		if obj, ok := parseObject(candidate); ok {
			return obj, nil
		}
	} else if fenced {
		candidate = block
	} else {
		candidate = trimmed
	}

	if obj, ok := parseObject(repair(candidate)); ok {
		return obj, nil
	}

	return nil, &ExtractionError{Raw: raw, reason: "no JSON object found"}
}

func parseObject(s string) (map[string]any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	obj, ok := v.(map[string]any)
	return obj, ok
}

// unwrapContent handles models that wrap their whole answer in a
// {"content": "<json string>"} envelope. Only a single-key object whose
// content string itself parses as an object is unwrapped.
func unwrapContent(obj map[string]any) map[string]any {
	if len(obj) != 1 {
		return obj
	}
	s, ok := obj["content"].(string)
	if !ok {
		return obj
	}
	if inner, ok := parseObject(s); ok {
		return inner
	}
	return obj
}

// fencedBlock returns the body of the first triple-backtick fence, tolerating
// an optional "json" language tag and a missing closing fence.
func fencedBlock(s string) (string, bool) {
	start := strings.Index(s, "```")
	if start < 0 {
		return "", false
	}
	body := s[start+3:]
	body = strings.TrimLeft(body, " \t")
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = body[4:]
	}
	body = strings.TrimLeft(body, " \t\r\n")
	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}
	body = strings.TrimSpace(body)
	return body, body != ""
}

// balancedObject returns the first {...} span with balanced braces. Braces
// inside double-quoted string literals do not count, including after escaped
// quotes, so values like "a { b" cannot desynchronize the scan.
func balancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

var (
	trailingObjectComma = regexp.MustCompile(`,\s*}`)
	trailingArrayComma  = regexp.MustCompile(`,\s*]`)
)

// repair fixes the two malformations models actually produce: trailing commas
// before a closing brace or bracket, and single-quoted keys and values.
// Quote conversion only runs when the payload carries no double quotes at
// all and no escaped apostrophes, where the swap cannot change meaning.
func repair(s string) string {
	out := trailingObjectComma.ReplaceAllString(s, "}")
	out = trailingArrayComma.ReplaceAllString(out, "]")
	if !strings.Contains(out, `"`) && strings.Contains(out, "'") && !strings.Contains(out, `\'`) {
		out = strings.ReplaceAll(out, "'", `"`)
	}
	return out
}

func snippet(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "<empty>"
	}
	clean := strings.Join(strings.Fields(trimmed), " ")
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
