// Package jsonscan locates JSON objects embedded in free text, such as a model reply
// wrapped in prose or a data blob inlined in an HTML script tag.
package jsonscan

import "encoding/json"

// FirstObject returns the first balanced {...} region of text that parses as JSON.
// Braces inside string literals are ignored. Regions that balance but don't parse are skipped
// and scanning resumes right after the opening brace. Returns false if nothing is found.
func FirstObject(text string) (string, bool) {
	for start := 0; start < len(text); start++ {
		if text[start] != '{' {
			continue
		}
		end, ok := matchBrace(text, start)
		if !ok {
			continue
		}
		candidate := text[start : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate, true
		}
	}
	return "", false
}

// AllObjects returns every top-level balanced region of text that parses as JSON, in order
func AllObjects(text string) []string {
	var res []string
	for start := 0; start < len(text); start++ {
		if text[start] != '{' {
			continue
		}
		end, ok := matchBrace(text, start)
		if !ok {
			continue
		}
		candidate := text[start : end+1]
		if json.Valid([]byte(candidate)) {
			res = append(res, candidate)
			start = end
		}
	}
	return res
}

// matchBrace returns the index of the brace closing the one at start
func matchBrace(text string, start int) (int, bool) {
	depth := 0
	inString, escaped := false, false
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
				return i, true
			}
		}
	}
	return 0, false
}
