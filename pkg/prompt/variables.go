package prompt

import "regexp"

// The first character class leaves out '#' and '/', so section helpers like
// {{#each}} and {{/each}} never match.
var templateVariable = regexp.MustCompile(`\{\{([a-zA-Z_][a-zA-Z0-9_]*)\}\}`)

// TemplateVariables returns the {{name}} placeholders of a Mustache template,
// in order of first appearance and without duplicates.
func TemplateVariables(text string) []string {
	var (
		names []string
		seen  = map[string]bool{}
	)
	for _, match := range templateVariable.FindAllStringSubmatch(text, -1) {
		name := match[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
