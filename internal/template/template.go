// Package template renders the string templates this system embeds in
// managed objects (today, the ConfigMap data block) --
// the same four Sprig functions the teacher's Helm charts lean on,
// exposed to Go's text/template instead of a chart-rendering engine.
package template

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// FuncMap is the fixed function set: default, indent, nindent, quote.
// No chart-rendering library is pulled in since this is the entire
// surface internal/objectwriter needs.
var FuncMap = template.FuncMap{
	"default": defaultFn,
	"indent":  indentFn,
	"nindent": nindentFn,
	"quote":   quoteFn,
}

// Render parses and executes templateText against data using FuncMap,
// the function set internal/objectwriter renders its ConfigMap body
// with.
func Render(name, templateText string, data any) (string, error) {
	tmpl, err := template.New(name).Funcs(FuncMap).Parse(templateText)
	if err != nil {
		return "", fmt.Errorf("template %q: parse: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("template %q: execute: %w", name, err)
	}
	return buf.String(), nil
}

// defaultFn returns fallback when value is nil or the empty string;
// other zero values (0, false, empty collections) are returned as-is,
// unlike Sprig's `default` (pipe form: `{{ .X | default "fallback" }}`).
func defaultFn(fallback, value any) any {
	if value == nil {
		return fallback
	}
	if s, ok := value.(string); ok && s == "" {
		return fallback
	}
	return value
}

// indentFn prefixes every line of s with spaces spaces.
func indentFn(spaces int, s string) string {
	pad := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}

// nindentFn is indentFn with a leading newline, the form almost every
// YAML block-scalar embedding actually wants.
func nindentFn(spaces int, s string) string {
	return "\n" + indentFn(spaces, s)
}

// quoteFn wraps s in double quotes, escaping embedded quotes.
func quoteFn(s string) string {
	return fmt.Sprintf("%q", s)
}
