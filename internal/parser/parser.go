package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"letterly/internal/core"
)

var (
	// Matches a fenced code block tagged as JSON: ```json ... ```
	fencedJSONRegex = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

	// Matches any fenced code block: ``` ... ```
	fencedAnyRegex = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")

	// C0 control characters that break strict JSON parsing. Newline, tab
	// and carriage return stay; they are structural whitespace.
	controlCharRegex = regexp.MustCompile("[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]")
)

// ErrUnparsable is returned when model output cannot be parsed as JSON even
// after the repair retry.
var ErrUnparsable = errors.New("model output is not parseable JSON")

// Parsed is the structured shape expected from the generator.
type Parsed struct {
	Title  string       `json:"title"`
	Blocks []core.Block `json:"blocks"`
}

// Parse turns the generator's raw text into a Parsed document. It strips
// code fencing and stray control bytes, attempts a strict parse, retries
// once after escaping stray line terminators, and otherwise fails. It never
// fabricates a document.
func Parse(raw string) (*Parsed, error) {
	cleaned := Clean(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty output", ErrUnparsable)
	}

	var out Parsed
	err := json.Unmarshal([]byte(cleaned), &out)
	if err == nil {
		return &out, nil
	}

	repaired := escapeBareLineTerminators(cleaned)
	if repaired != cleaned {
		if retryErr := json.Unmarshal([]byte(repaired), &out); retryErr == nil {
			return &out, nil
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrUnparsable, err)
}

// Clean extracts the JSON payload from raw model output: surrounding
// whitespace is trimmed, the first fenced code block is unwrapped (a
// ```json fence wins over an untagged one), and disallowed control
// characters are removed.
func Clean(raw string) string {
	text := strings.TrimSpace(raw)

	if strings.Contains(text, "```") {
		if m := fencedJSONRegex.FindStringSubmatch(text); m != nil {
			text = m[1]
		} else if m := fencedAnyRegex.FindStringSubmatch(text); m != nil {
			text = m[1]
		}
	}

	text = controlCharRegex.ReplaceAllString(text, "")

	return strings.TrimSpace(text)
}

// escapeBareLineTerminators escapes raw line terminators that appear inside
// JSON string literals, the most common way a model response turns out
// unparsable. Terminators between tokens are legal whitespace and are left
// alone.
func escapeBareLineTerminators(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inString := false
	escaped := false
	for _, r := range text {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			case r == '\n', r == '\r', r == '\u2028', r == '\u2029':
				b.WriteString(`\n`)
				continue
			}
		} else if r == '"' {
			inString = true
		}
		b.WriteRune(r)
	}
	return b.String()
}
