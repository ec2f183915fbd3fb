package rewrite

import (
	"regexp"
	"strings"
)

const indentUnit = "  "

var (
	firstDecl = regexp.MustCompile(`(?m)^(?:module|class)\b`)
	declLine  = regexp.MustCompile(`^(module|class) (\S+)(.*)$`)
)

type declaration struct {
	keyword string
	name    string
	rest    string
	body    []string
}

// Renest rewraps the single top-level module or class declaration in src so
// that its nesting matches target, a "::"-qualified module name. An empty
// target keeps the declared name and only expands a qualified declaration
// (module A::B::C) into nested blocks.
//
// Text before the first declaration is kept verbatim. Wrapper modules whose
// only content is the next declaration are folded into the name first, so
// an already nested file can be moved under a different namespace. The
// second return value reports whether the text changed.
func Renest(src, target string) (string, bool) {
	loc := firstDecl.FindStringIndex(src)
	if loc == nil {
		return src, false
	}
	preamble, body := src[:loc[0]], src[loc[0]:]

	wrappers, inner, ok := unwrap(strings.Split(strings.TrimRight(body, "\n"), "\n"))
	if !ok {
		return src, false
	}

	declared := strings.Join(append(wrappers, inner.name), "::")
	if target == "" {
		target = declared
	}
	segments := strings.Split(target, "::")
	if len(segments) == 1 && len(wrappers) == 0 && segments[0] == inner.name {
		return src, false
	}

	last := segments[len(segments)-1]
	block := inner.keyword + " " + last + inner.rest + "\n"
	if len(inner.body) > 0 {
		block += strings.Join(inner.body, "\n") + "\n"
	}
	block += "end\n"

	for i := len(segments) - 2; i >= 0; i-- {
		block = "module " + segments[i] + "\n" + indent(block) + "end\n"
	}
	block = collapseBlankLines(block)

	out := preamble + block
	return out, out != src
}

// unwrap peels wrapper modules off lines and returns their names along with
// the innermost declaration.
func unwrap(lines []string) ([]string, declaration, bool) {
	var wrappers []string
	for {
		lines = trimBlank(lines)
		if len(lines) < 2 || lines[len(lines)-1] != "end" {
			return nil, declaration{}, false
		}
		m := declLine.FindStringSubmatch(lines[0])
		if m == nil {
			return nil, declaration{}, false
		}
		d := declaration{keyword: m[1], name: m[2], rest: m[3], body: lines[1 : len(lines)-1]}

		if d.keyword != "module" || strings.TrimSpace(d.rest) != "" || !wrapsSingleDecl(d.body) {
			return wrappers, d, true
		}
		wrappers = append(wrappers, d.name)
		lines = dedent(d.body)
	}
}

// wrapsSingleDecl reports whether body consists of exactly one declaration
// one level deeper.
func wrapsSingleDecl(body []string) bool {
	body = trimBlank(body)
	if len(body) < 2 {
		return false
	}
	first, last := body[0], body[len(body)-1]
	if !strings.HasPrefix(first, indentUnit) || !declLine.MatchString(first[len(indentUnit):]) {
		return false
	}
	if last != indentUnit+"end" {
		return false
	}
	deeper := indentUnit + indentUnit
	for _, l := range body[1 : len(body)-1] {
		if strings.TrimSpace(l) != "" && !strings.HasPrefix(l, deeper) {
			return false
		}
	}
	return true
}

func trimBlank(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func dedent(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimPrefix(l, indentUnit)
	}
	return out
}

func indent(block string) string {
	lines := strings.Split(strings.TrimSuffix(block, "\n"), "\n")
	for i, l := range lines {
		lines[i] = indentUnit + l
	}
	return strings.Join(lines, "\n") + "\n"
}

func collapseBlankLines(block string) string {
	lines := strings.Split(block, "\n")
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}
