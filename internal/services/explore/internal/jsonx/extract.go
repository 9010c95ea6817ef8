package jsonx

import (
	"encoding/json"
	"errors"
	"strings"
)

var ErrNoObject = errors.New("no json object found")

// ExtractJSONObject returns the first top level {...} span of text that is
// valid JSON. Braces inside string literals are ignored. Objects nested in a
// rejected span are never considered, and an unclosed span ends the search.
func ExtractJSONObject(text string) (json.RawMessage, error) {
	for offset := 0; offset < len(text); {
		start := strings.IndexByte(text[offset:], '{')
		if start < 0 {
			break
		}
		start += offset

		end := matchBrace(text, start)
		if end < 0 {
			break
		}

		candidate := text[start : end+1]
		if json.Valid([]byte(candidate)) {
			return json.RawMessage(candidate), nil
		}

		offset = end + 1
	}

	return nil, ErrNoObject
}

// matchBrace returns the index of the brace closing the one at start, or -1.
func matchBrace(text string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

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
				return i
			}
		}
	}

	return -1
}
