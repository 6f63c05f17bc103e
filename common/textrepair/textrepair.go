// Package textrepair recovers JSON documents from LLM output that arrives
// wrapped in markdown fences or cut off mid-structure.
package textrepair

import (
	"encoding/json"
	"regexp"
	"strings"
)

var trailingComma = regexp.MustCompile(`,\s*$`)

// Repair strips markdown code fences and attempts to close any unterminated
// strings, objects and arrays in s. It returns the repaired document and true
// only when the result parses as valid JSON.
func Repair(s string) (string, bool) {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	var (
		stack    []byte
		inString bool
		escaped  bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{' || c == '[':
			stack = append(stack, c)
		case c == '}' || c == ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if inString {
		s += `"`
	} else {
		// A comma dangling at the cut point would sit right before the
		// closers appended below. Only the end of the text is touched;
		// commas inside string values stay as they are.
		s = trailingComma.ReplaceAllString(s, "")
	}

	var b strings.Builder
	b.WriteString(s)
	// Close whatever is still open, innermost first.
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}

	repaired := b.String()
	if !json.Valid([]byte(repaired)) {
		return "", false
	}
	return repaired, true
}
