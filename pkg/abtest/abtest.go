// Package abtest compares a prompt with a variant carrying proposed changes
// and moves the messages of one prompt onto another.
package abtest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/vvoland/btprompt/pkg/braintrust"
	"github.com/vvoland/btprompt/pkg/cli"
	"github.com/vvoland/btprompt/pkg/prompt"
)

// VariantSuffix is appended to a slug to name its test variant.
const VariantSuffix = "-v2"

// Client is the subset of the Braintrust client used here.
type Client interface {
	ProjectID(ctx context.Context, name string) (string, error)
	GetPrompt(ctx context.Context, slug, projectName string) (*braintrust.Prompt, error)
	CreatePrompt(ctx context.Context, req braintrust.CreatePromptRequest) (*braintrust.Prompt, error)
	UpdatePrompt(ctx context.Context, id string, req braintrust.UpdatePromptRequest) (*braintrust.Prompt, error)
	DeletePrompt(ctx context.Context, id string) error
	Invoke(ctx context.Context, projectName, slug string, input any) (*braintrust.InvokeResult, error)
}

func VariantSlug(slug string) string {
	return slug + VariantSuffix
}

// CreateVariant creates the test variant of original. Proposed system and
// user messages replace the original's; empty ones keep the original
// content. Model options are copied.
func CreateVariant(ctx context.Context, client Client, projectName string, original *braintrust.Prompt, system, user string) (*braintrust.Prompt, error) {
	projectID, err := client.ProjectID(ctx, projectName)
	if err != nil {
		return nil, err
	}

	currentSystem, currentUser := prompt.SystemUser(original.Messages())
	if system == "" {
		system = currentSystem
	}
	if user == "" {
		user = currentUser
	}

	name := original.Name
	if name == "" {
		name = original.Slug
	}

	data := braintrust.PromptData{
		Prompt: &braintrust.PromptBlock{
			Type:     "chat",
			Messages: prompt.Build(system, user),
		},
	}
	if original.PromptData.Options != nil {
		clone, err := original.PromptData.Clone()
		if err != nil {
			return nil, fmt.Errorf("copying options of %s: %w", original.Slug, err)
		}
		data.Options = clone.Options
	}

	return client.CreatePrompt(ctx, braintrust.CreatePromptRequest{
		Name:        name + " (v2)",
		Slug:        VariantSlug(original.Slug),
		Description: "Test version of " + original.Slug,
		ProjectID:   projectID,
		PromptData:  data,
	})
}

// Promote copies the system and user messages of source onto target. The
// rest of target's prompt data is sent back unchanged.
func Promote(ctx context.Context, client Client, target, source *braintrust.Prompt) (*braintrust.Prompt, error) {
	data, err := target.PromptData.Clone()
	if err != nil {
		return nil, fmt.Errorf("copying prompt data of %s: %w", target.Slug, err)
	}

	if data.Prompt == nil {
		data.Prompt = &braintrust.PromptBlock{Type: "chat"}
	}
	data.Prompt.Messages = prompt.Build(prompt.SystemUser(source.Messages()))

	return client.UpdatePrompt(ctx, target.ID, braintrust.UpdatePromptRequest{PromptData: &data})
}

// PromoteBySlug looks both prompts up and promotes source onto target.
func PromoteBySlug(ctx context.Context, client Client, projectName, targetSlug, sourceSlug string) (*braintrust.Prompt, error) {
	source, err := client.GetPrompt(ctx, sourceSlug, projectName)
	if err != nil {
		return nil, fmt.Errorf("source prompt: %w", err)
	}
	target, err := client.GetPrompt(ctx, targetSlug, projectName)
	if err != nil {
		return nil, fmt.Errorf("target prompt: %w", err)
	}
	return Promote(ctx, client, target, source)
}

// DeleteBySlug deletes the prompt with the given slug. It reports false
// without error when there is no such prompt.
func DeleteBySlug(ctx context.Context, client Client, projectName, slug string) (bool, error) {
	p, err := client.GetPrompt(ctx, slug, projectName)
	if errors.Is(err, braintrust.ErrPromptNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := client.DeletePrompt(ctx, p.ID); err != nil {
		return false, err
	}
	return true, nil
}

// Comparison holds the results of invoking both prompts with the same input.
type Comparison struct {
	Original *braintrust.InvokeResult
	Variant  *braintrust.InvokeResult
}

// InvokeBoth runs both prompts concurrently with the same input.
func InvokeBoth(ctx context.Context, client Client, projectName, originalSlug, variantSlug string, input any) (*Comparison, error) {
	var cmp Comparison

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := client.Invoke(ctx, projectName, originalSlug, input)
		if err != nil {
			return fmt.Errorf("invoking %s: %w", originalSlug, err)
		}
		cmp.Original = res
		return nil
	})
	g.Go(func() error {
		res, err := client.Invoke(ctx, projectName, variantSlug, input)
		if err != nil {
			return fmt.Errorf("invoking %s: %w", variantSlug, err)
		}
		cmp.Variant = res
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &cmp, nil
}

// Runner drives the interactive A/B test.
type Runner struct {
	client  Client
	printer *cli.Printer
	in      io.Reader

	// Command is how follow-up commands are spelled in the hints printed
	// when the variant is kept.
	Command string
}

func NewRunner(client Client, printer *cli.Printer, in io.Reader) *Runner {
	return &Runner{
		client:  client,
		printer: printer,
		in:      in,
		Command: "btprompt",
	}
}

// Run compares slug with its variant. The variant is created from the
// proposed system/user messages unless it already exists. Both are invoked
// with input, and the user decides whether to promote the variant.
func (r *Runner) Run(ctx context.Context, projectName, slug string, input any, system, user string) error {
	p := r.printer
	variant := VariantSlug(slug)

	p.Printf("🔬 A/B Test: %s vs %s\n", slug, variant)
	p.Rule("=", 50)

	original, err := r.client.GetPrompt(ctx, slug, projectName)
	if err != nil {
		return err
	}

	_, err = r.client.GetPrompt(ctx, variant, projectName)
	switch {
	case err == nil:
		p.Printf("\nNote: %s already exists. Using existing version.\n", variant)
		p.Println("Delete it first if you want to test new changes.")
		p.Println()
	case errors.Is(err, braintrust.ErrPromptNotFound):
		p.Printf("\n📝 Creating %s with proposed changes...\n", variant)
		if _, err := CreateVariant(ctx, r.client, projectName, original, system, user); err != nil {
			return fmt.Errorf("creating %s: %w", variant, err)
		}
		p.Success("Created %s", variant)
		p.Println()
	default:
		return err
	}

	p.Println("Running both prompts with same input...")
	p.Rule("-", 50)

	cmp, err := InvokeBoth(ctx, r.client, projectName, slug, variant, input)
	if err != nil {
		return err
	}
	slog.Debug("A/B test invocations done", "original", cmp.Original.Duration, "variant", cmp.Variant.Duration)

	p.Printf("\n🅰️  ORIGINAL (%s):\n", slug)
	p.Rule("-", 30)
	p.PrintOutput(cmp.Original.Output)

	p.Printf("\n🅱️  V2 (%s):\n", variant)
	p.Rule("-", 30)
	p.PrintOutput(cmp.Variant.Output)

	p.Println()
	p.Rule("=", 50)
	p.Println("📊 Comparison:")
	p.Printf("  Original: %dms\n", cmp.Original.Duration.Milliseconds())
	p.Printf("  V2:       %dms\n", cmp.Variant.Duration.Milliseconds())

	p.Println()
	p.Rule("-", 50)
	promote, err := p.Confirm(ctx, r.in, fmt.Sprintf("Promote %s → %s?", variant, slug), false)
	if err != nil {
		return err
	}

	if !promote {
		p.Printf("\nKept both versions. %s available for further testing.\n", variant)
		p.Printf("To promote later: %s promote --from %s --to %s\n", r.Command, variant, slug)
		p.Printf("To delete v2:     %s delete --slug %s\n", r.Command, variant)
		return nil
	}

	if _, err := PromoteBySlug(ctx, r.client, projectName, slug, variant); err != nil {
		return err
	}
	p.Println()
	p.Success("Promoted %s to %s", variant, slug)

	cleanup, err := p.Confirm(ctx, r.in, fmt.Sprintf("Delete %s?", variant), true)
	if err != nil {
		return err
	}
	if cleanup {
		if _, err := DeleteBySlug(ctx, r.client, projectName, variant); err != nil {
			return err
		}
		p.Success("Deleted %s", variant)
	}

	return nil
}
