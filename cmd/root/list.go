package root

import (
	"github.com/spf13/cobra"

	"github.com/vvoland/btprompt/pkg/cli"
)

type listFlags struct {
	project string
}

func newListCmd(root *rootFlags) *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List prompts",
		Long:    "List prompts, optionally only those of one project",
		GroupID: "prompts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.run(cmd, root)
		},
	}

	cmd.Flags().StringVar(&flags.project, "project", "", "Only list prompts of this project (default: $BRAINTRUST_PROJECT_NAME)")

	return cmd
}

func (f *listFlags) run(cmd *cobra.Command, root *rootFlags) error {
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

	prompts, err := client.ListPrompts(ctx, project)
	if err != nil {
		return err
	}

	out.PrintPromptList(prompts)
	return nil
}
