package root

import (
	"bytes"
	"fmt"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/vvoland/btprompt/pkg/cli"
	"github.com/vvoland/btprompt/pkg/codegen"
	"github.com/vvoland/btprompt/pkg/paths"
	"github.com/vvoland/btprompt/pkg/prompt"
)

type generateFlags struct {
	slug    string
	project string
	output  string
}

func newGenerateCmd(root *rootFlags) *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate TypeScript code that invokes a prompt",
		Long: `Generate a TypeScript function that invokes the prompt through the Braintrust
SDK, with tracing and an input type derived from the {{variables}} of the user
message.`,
		Example: `  btprompt generate --slug my-prompt
  btprompt generate --slug my-prompt --output src/prompts/myPrompt.ts`,
		GroupID: "advanced",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.run(cmd, root)
		},
	}

	addSlugFlag(cmd, &flags.slug, "Prompt slug")
	addProjectFlag(cmd, &flags.project)
	cmd.Flags().StringVarP(&flags.output, "output", "O", "", "Write the code to this file instead of stdout")

	return cmd
}

func (f *generateFlags) run(cmd *cobra.Command, root *rootFlags) error {
	ctx := cmd.Context()
	out := cli.NewPrinter(cmd.OutOrStdout())

	project, err := root.projectName(ctx, f.project)
	if err != nil {
		return err
	}

	client, err := root.newClient(ctx)
	if err != nil {
		return err
	}

	p, err := client.GetPrompt(ctx, f.slug, project)
	if err != nil {
		return err
	}

	_, user := prompt.SystemUser(p.Messages())
	code, err := codegen.TypeScript(p.Name, p.Slug, user)
	if err != nil {
		return fmt.Errorf("generating code: %w", err)
	}

	if f.output == "" {
		out.Print(code)
		return nil
	}

	path := paths.ExpandTilde(f.output)
	if err := atomic.WriteFile(path, bytes.NewBufferString(code)); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	out.Success("Wrote %s", path)
	return nil
}
