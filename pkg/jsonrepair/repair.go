// Package jsonrepair recovers JSON objects from model output that is wrapped in
// prose or slightly malformed.
package jsonrepair

import (
	"regexp"
	"strings"
)

// Transform is a single named text fix. Every transform is idempotent.
type Transform struct {
	Name  string
	Apply func(string) string
}

var (
	trailingCommaRe = regexp.MustCompile(`(?:,\s*)+([\]}])`)
	controlCharRe   = regexp.MustCompile(`[\x00-\x1F\x7F]`)
	bareKeyRe       = regexp.MustCompile(`([{,]\s*)'?([A-Za-z0-9_\-]+)'?\s*:`)
	singleQuotedRe  = regexp.MustCompile(`:\s*'([^']*)'`)

	smartQuotes = strings.NewReplacer("“", `"`, "”", `"`, "‘", "'", "’", "'")
)

// StripBackticks removes markdown code fence characters.
func StripBackticks(s string) string {
	return strings.ReplaceAll(s, "`", "")
}

// NormalizeQuotes replaces typographic quotes with their ASCII forms.
func NormalizeQuotes(s string) string {
	return smartQuotes.Replace(s)
}

// RemoveTrailingCommas drops commas that directly precede a closing bracket or brace.
func RemoveTrailingCommas(s string) string {
	return outsideStrings(s, func(part string) string {
		return trailingCommaRe.ReplaceAllString(part, "$1")
	})
}

// StripControlChars removes ASCII control characters, newlines included.
func StripControlChars(s string) string {
	return controlCharRe.ReplaceAllString(s, "")
}

// QuoteBareKeys double-quotes object keys that are bare or single-quoted.
func QuoteBareKeys(s string) string {
	return outsideStrings(s, func(part string) string {
		return bareKeyRe.ReplaceAllString(part, `${1}"${2}":`)
	})
}

// SingleToDoubleQuotes converts single-quoted values to double-quoted ones.
// Values that themselves contain a single quote are left alone.
func SingleToDoubleQuotes(s string) string {
	return outsideStrings(s, func(part string) string {
		return singleQuotedRe.ReplaceAllString(part, `: "${1}"`)
	})
}

// Transforms lists the repair steps in the order Repair applies them.
var Transforms = []Transform{
	{Name: "strip_backticks", Apply: StripBackticks},
	{Name: "normalize_quotes", Apply: NormalizeQuotes},
	{Name: "remove_trailing_commas", Apply: RemoveTrailingCommas},
	{Name: "strip_control_chars", Apply: StripControlChars},
	{Name: "quote_bare_keys", Apply: QuoteBareKeys},
	{Name: "single_to_double_quotes", Apply: SingleToDoubleQuotes},
}

// Repair extracts the first object candidate from s (or uses all of s when
// there is none) and runs every transform over it.
func Repair(s string) string {
	candidate, ok := ExtractObject(s)
	if !ok {
		candidate = s
	}
	for _, t := range Transforms {
		candidate = t.Apply(candidate)
	}
	return strings.TrimSpace(candidate)
}

// quoteScanner tracks whether a byte stream is inside a double-quoted string.
type quoteScanner struct {
	inString bool
	escaped  bool
}

// step reports whether c belongs to a double-quoted string, quotes included.
func (q *quoteScanner) step(c byte) bool {
	if q.inString {
		switch {
		case q.escaped:
			q.escaped = false
		case c == '\\':
			q.escaped = true
		case c == '"':
			q.inString = false
		}
		return true
	}
	if c == '"' {
		q.inString = true
		return true
	}
	return false
}

// outsideStrings applies fn to the runs of s that are not double-quoted
// strings. String contents, including an unterminated tail, pass through.
func outsideStrings(s string, fn func(string) string) string {
	var b strings.Builder
	b.Grow(len(s))

	var q quoteScanner
	start, quoted := 0, false
	flush := func(part string) {
		if quoted {
			b.WriteString(part)
		} else {
			b.WriteString(fn(part))
		}
	}
	for i := 0; i < len(s); i++ {
		if in := q.step(s[i]); in != quoted {
			flush(s[start:i])
			start, quoted = i, in
		}
	}
	flush(s[start:])
	return b.String()
}

// ExtractObject returns the first balanced {...} block in s, skipping braces
// inside double-quoted strings. When no block balances it falls back to the
// span from the first '{' to the last '}'.
func ExtractObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	var q quoteScanner
	for i := start; i < len(s); i++ {
		c := s[i]
		if q.step(c) {
			continue
		}
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	end := strings.LastIndexByte(s, '}')
	if end <= start {
		return "", false
	}
	return s[start : end+1], true
}
