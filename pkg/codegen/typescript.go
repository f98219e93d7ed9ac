// Package codegen generates client code that invokes a prompt through the
// Braintrust JavaScript SDK.
package codegen

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"
	"unicode"

	"github.com/vvoland/btprompt/pkg/prompt"
)

//go:embed typescript.tmpl
var typescriptTemplate string

var typescript = template.Must(template.New("typescript").Parse(typescriptTemplate))

// DefaultFunctionName is used when no function name can be derived from
// the slug.
const DefaultFunctionName = "invokePrompt"

type typescriptData struct {
	Name         string
	Slug         string
	FunctionName string
	TypeName     string
	Variables    []string
}

// TypeScript renders a TypeScript module exposing a traced function that
// invokes the prompt. The function's input type has one string field per
// template variable of userTemplate.
func TypeScript(name, slug, userTemplate string) (string, error) {
	if name == "" {
		name = slug
	}

	fn := FunctionName(slug)
	data := typescriptData{
		Name:         name,
		Slug:         slug,
		FunctionName: fn,
		TypeName:     upperFirst(fn) + "Input",
		Variables:    prompt.TemplateVariables(userTemplate),
	}

	var buf bytes.Buffer
	if err := typescript.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FunctionName turns a slug into a lower camel case identifier:
// "summarize-ticket" becomes "summarizeTicket".
func FunctionName(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})

	var sb strings.Builder
	for _, w := range words {
		sb.WriteString(upperFirst(strings.ToLower(w)))
	}

	fn := sb.String()
	if fn == "" {
		return DefaultFunctionName
	}
	return lowerFirst(fn)
}

func upperFirst(s string) string {
	for i, r := range s {
		return string(unicode.ToUpper(r)) + s[i+len(string(r)):]
	}
	return s
}

func lowerFirst(s string) string {
	for i, r := range s {
		return string(unicode.ToLower(r)) + s[i+len(string(r)):]
	}
	return s
}
