package root

import (
	"github.com/spf13/cobra"

	"github.com/vvoland/btprompt/pkg/cli"
)

type getFlags struct {
	slug    string
	project string
	json    bool
}

func newGetCmd(root *rootFlags) *cobra.Command {
	var flags getFlags

	cmd := &cobra.Command{
		Use:     "get",
		Short:   "Show a prompt",
		Long:    "Show a prompt's name, description, model and messages",
		GroupID: "prompts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.run(cmd, root)
		},
	}

	addSlugFlag(cmd, &flags.slug, "Prompt slug")
	addProjectFlag(cmd, &flags.project)
	cmd.Flags().BoolVar(&flags.json, "json", false, "Print the raw prompt record as JSON")

	return cmd
}

func (f *getFlags) run(cmd *cobra.Command, root *rootFlags) error {
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

	prompt, err := client.GetPrompt(ctx, f.slug, project)
	if err != nil {
		return err
	}

	if f.json {
		raw, err := prompt.Raw()
		if err != nil {
			return err
		}
		return out.PrintJSON(raw)
	}

	out.PrintPrompt(prompt)
	return nil
}
