package service

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrNoJSON is returned when no parseable JSON object is found in the
// input text.
var ErrNoJSON = errors.New("no JSON object found")

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// ExtractJSON pulls the first JSON object out of free-form text. It
// tries, in order: the whole (trimmed) input, a fenced ```json block,
// and finally the first balanced {...} candidate that parses. Best
// effort only; ErrNoJSON when nothing parses.
func ExtractJSON(text string) (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &out); err == nil {
		return out, nil
	}
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		if err := json.Unmarshal([]byte(m[1]), &out); err == nil {
			return out, nil
		}
	}
	if obj, ok := scanObject(text); ok {
		return obj, nil
	}
	return nil, ErrNoJSON
}

// scanObject walks the text looking for a balanced top-level {...}
// candidate that unmarshals. Braces inside JSON strings don't count.
func scanObject(text string) (map[string]any, bool) {
	for start := 0; start < len(text); start++ {
		if text[start] != '{' {
			continue
		}
		end, ok := balancedEnd(text, start)
		if !ok {
			continue
		}
		var out map[string]any
		if err := json.Unmarshal([]byte(text[start:end+1]), &out); err == nil {
			return out, true
		}
	}
	return nil, false
}

func balancedEnd(text string, start int) (int, bool) {
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
				return i, true
			}
		}
	}
	return 0, false
}
