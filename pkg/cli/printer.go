package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/vvoland/btprompt/pkg/braintrust"
	"github.com/vvoland/btprompt/pkg/input"
	"github.com/vvoland/btprompt/pkg/prompt"
)

// DescriptionWidth is how many display columns of a description `list` shows.
const DescriptionWidth = 50

type Printer struct {
	out   io.Writer
	bold  func(format string, a ...any) string
	green func(format string, a ...any) string
}

// NewPrinter returns a Printer writing to out. Colors are only used when out
// is a terminal.
func NewPrinter(out io.Writer) *Printer {
	p := &Printer{
		out:   out,
		bold:  fmt.Sprintf,
		green: fmt.Sprintf,
	}
	if IsTerminal(out) {
		bold := color.New(color.Bold)
		bold.EnableColor()
		green := color.New(color.FgGreen)
		green.EnableColor()
		p.bold = bold.SprintfFunc()
		p.green = green.SprintfFunc()
	}
	return p
}

// IsTerminal reports whether v is an *os.File attached to a terminal.
func IsTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

func (p *Printer) Print(a ...any) {
	fmt.Fprint(p.out, a...)
}

func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

// Success prints a line prefixed with a check mark.
func (p *Printer) Success(format string, a ...any) {
	p.Println(p.green("✓") + " " + fmt.Sprintf(format, a...))
}

// Rule prints a horizontal separator of width ch characters.
func (p *Printer) Rule(ch string, width int) {
	p.Println(strings.Repeat(ch, width))
}

// Confirm asks a yes/no question and reads the answer from rd. With
// defaultYes anything but "n" is a yes, otherwise only "y" is. Running out of
// input counts as an empty answer.
func (p *Printer) Confirm(ctx context.Context, rd io.Reader, question string, defaultYes bool) (bool, error) {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	p.Printf("%s %s: ", question, hint)

	answer, err := input.ReadLine(ctx, rd)
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	if errors.Is(err, io.EOF) {
		p.Println()
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	if defaultYes {
		return answer != "n", nil
	}
	return answer == "y", nil
}

// PrintPromptList prints the `list` view of prompts.
func (p *Printer) PrintPromptList(prompts []braintrust.Prompt) {
	if len(prompts) == 0 {
		p.Println("No prompts found.")
		return
	}

	p.Printf("Found %d prompt(s):\n\n", len(prompts))
	for _, pr := range prompts {
		p.Printf("  %s\n", p.bold("%s", orNA(pr.Slug)))
		p.Printf("    Name: %s\n", orNA(pr.Name))
		if pr.Description != "" {
			p.Printf("    Desc: %s...\n", runewidth.Truncate(pr.Description, DescriptionWidth, ""))
		}
		p.Println()
	}
}

// PrintPrompt prints the `get` view of a prompt.
func (p *Printer) PrintPrompt(pr *braintrust.Prompt) {
	system, user := prompt.SystemUser(pr.Messages())

	p.Printf("Slug: %s\n", pr.Slug)
	p.Printf("Name: %s\n", pr.Name)
	p.Printf("Description: %s\n", orNA(pr.Description))
	p.Printf("Model: %s\n", orNA(pr.Model()))
	if options := formatOptions(pr.PromptData.Options); options != "" {
		p.Printf("Options: %s\n", options)
	}
	p.Println()
	p.Println("=== System Message ===")
	p.Println(system)
	p.Println()
	p.Println("=== User Message ===")
	p.Println(user)
}

// PrintJSON prints an encoded JSON document indented, keeping its key order.
func (p *Printer) PrintJSON(data json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return err
	}
	p.Println(buf.String())
	return nil
}

// PrintInvocation announces an invocation, used in verbose mode.
func (p *Printer) PrintInvocation(projectName, slug string, in any) {
	p.Printf("Invoking '%s' in project '%s'...\n", slug, projectName)
	buf, _ := json.MarshalIndent(in, "", "  ")
	p.Printf("Input: %s\n\n", buf)
}

// PrintOutput prints an invocation's output: strings as they are, anything
// else as indented JSON.
func (p *Printer) PrintOutput(output any) {
	if s, ok := output.(string); ok {
		p.Println(s)
		return
	}
	buf, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		p.Println(fmt.Sprint(output))
		return
	}
	p.Println(string(buf))
}

// PrintResult prints the output and metadata of an invocation.
func (p *Printer) PrintResult(result *braintrust.InvokeResult) {
	p.Println("=== Output ===")
	p.PrintOutput(result.Output)
	p.Println()
	p.Println("=== Metadata ===")
	p.Printf("Duration: %dms\n", result.Duration.Milliseconds())
}

// PrintDiff prints a titled unified diff, or "(no changes)" when diff is
// empty.
func (p *Printer) PrintDiff(title, diff string) {
	p.Printf("=== %s ===\n", title)
	if diff == "" {
		p.Println("(no changes)")
		return
	}
	p.Print(diff)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// formatOptions renders the model options other than the model itself, in
// their original order.
func formatOptions(options *orderedmap.OrderedMap[string, any]) string {
	if options == nil {
		return ""
	}

	var parts []string
	for key, value := range options.FromOldest() {
		if key == "model" {
			continue
		}
		parts = append(parts, formatJSONValue(key, value))
	}

	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, ", ")
}

func formatJSONValue(key string, value any) string {
	if s, ok := value.(string); ok {
		return fmt.Sprintf("%s: %q", key, s)
	}
	jsonBytes, _ := json.Marshal(value)
	return fmt.Sprintf("%s: %s", key, string(jsonBytes))
}
