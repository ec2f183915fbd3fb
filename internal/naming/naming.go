// Package naming derives the path and module forms of a plugin or gem name.
//
// Every renamed file and rewritten identifier in the scaffold is computed from
// these two functions, so they stay pure.
package naming

import (
	"regexp"
	"strings"
)

const (
	// Prefix is reserved for gem names and never part of a plugin name.
	Prefix = "tomo-plugin-"

	// Separator joins nested module names.
	Separator = "::"
)

var wordStart = regexp.MustCompile(`^[a-z]|_[a-z]`)

// Path turns a dash-delimited name into a nested directory path.
func Path(name string) string {
	return strings.ReplaceAll(name, "-", "/")
}

// Module turns a dash-delimited name into a nested module identifier,
// e.g. "foo_bar-baz" becomes "FooBar::Baz".
func Module(name string) string {
	return ModuleSep(name, Separator)
}

// ModuleSep is Module with a custom namespace separator.
func ModuleSep(name, sep string) string {
	parts := strings.Split(name, "-")
	for i, part := range parts {
		parts[i] = wordStart.ReplaceAllStringFunc(part, func(s string) string {
			return strings.ToUpper(s[len(s)-1:])
		})
	}
	return strings.Join(parts, sep)
}

// TrimPrefix strips the reserved gem prefix from a plugin name.
func TrimPrefix(name string) string {
	return strings.TrimPrefix(name, Prefix)
}

// GemName is the package identifier for a plugin.
func GemName(plugin string) string {
	return Prefix + TrimPrefix(plugin)
}

// LastSegment returns the final path segment of Path(name).
func LastSegment(name string) string {
	p := Path(name)
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}

// Underscore replaces dashes with underscores, the form used for setting names.
func Underscore(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}
