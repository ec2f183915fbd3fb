// Package rewrite applies ordered text replacements to scaffold files.
package rewrite

import (
	"fmt"
	"regexp"
	"strings"
)

// Replacement is one substitution step. The concrete types are Literal,
// FullMatch and CapturedSpan.
type Replacement interface {
	isReplacement()
}

// Literal replaces every occurrence of Old.
type Literal struct {
	Old string
	New string
}

// FullMatch replaces every whole match of Pattern with New, taken literally.
type FullMatch struct {
	Pattern *regexp.Regexp
	New     string
}

// CapturedSpan replaces only the first capture group inside every match of
// Pattern, leaving the rest of the match intact.
type CapturedSpan struct {
	Pattern *regexp.Regexp
	New     string
}

func (Literal) isReplacement()      {}
func (FullMatch) isReplacement()    {}
func (CapturedSpan) isReplacement() {}

// Text is shorthand for a Literal replacement.
func Text(old, new string) Literal {
	return Literal{Old: old, New: new}
}

// Match is shorthand for a FullMatch replacement with a compiled pattern.
func Match(pattern, new string) FullMatch {
	return FullMatch{Pattern: regexp.MustCompile(pattern), New: new}
}

// Span is shorthand for a CapturedSpan replacement with a compiled pattern.
// The pattern must contain at least one capture group.
func Span(pattern, new string) CapturedSpan {
	re := regexp.MustCompile(pattern)
	if re.NumSubexp() < 1 {
		panic(fmt.Sprintf("rewrite: pattern %q has no capture group", pattern))
	}
	return CapturedSpan{Pattern: re, New: new}
}

// Apply runs the replacements over text in order; each one sees the result
// of the previous.
func Apply(text string, replacements ...Replacement) string {
	for _, r := range replacements {
		text = apply(text, r)
	}
	return text
}

func apply(text string, r Replacement) string {
	switch r := r.(type) {
	case Literal:
		if r.Old == "" {
			return text
		}
		return strings.ReplaceAll(text, r.Old, r.New)
	case FullMatch:
		return r.Pattern.ReplaceAllLiteralString(text, r.New)
	case CapturedSpan:
		return replaceSpans(text, r.Pattern, r.New)
	default:
		panic(fmt.Sprintf("rewrite: unknown replacement %T", r))
	}
}

func replaceSpans(text string, re *regexp.Regexp, repl string) string {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[2], m[3]
		if start < 0 {
			// group did not participate: the whole match goes
			start, end = m[0], m[1]
		}
		b.WriteString(text[last:start])
		b.WriteString(repl)
		last = end
	}
	b.WriteString(text[last:])
	return b.String()
}
