// Package prompt formats model prompts from templates with
// single-brace placeholders, e.g. "What food pairs well with {food}?".
package prompt

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/m4xw311/chainsight/errors"
)

var placeholderRe = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Template is an immutable prompt template.
type Template struct {
	text      string
	variables []string
}

// New parses the template text and records its placeholder variables.
func New(text string) *Template {
	seen := map[string]bool{}
	var vars []string
	for _, m := range placeholderRe.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			vars = append(vars, m[1])
		}
	}
	sort.Strings(vars)
	return &Template{text: text, variables: vars}
}

// Variables returns the placeholder names in sorted order.
func (t *Template) Variables() []string {
	out := make([]string, len(t.variables))
	copy(out, t.variables)
	return out
}

// Format substitutes values for every placeholder. Missing values are
// an error; extra values are ignored.
func (t *Template) Format(values map[string]any) (string, error) {
	for _, v := range t.variables {
		if _, ok := values[v]; !ok {
			return "", errors.New("missing value for template variable '%s'", v)
		}
	}
	result := placeholderRe.ReplaceAllStringFunc(t.text, func(m string) string {
		name := strings.Trim(m, "{}")
		return fmt.Sprintf("%v", values[name])
	})
	return result, nil
}
