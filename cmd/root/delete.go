package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvoland/btprompt/pkg/cli"
)

type deleteFlags struct {
	slug    string
	project string
	force   bool
}

func newDeleteCmd(root *rootFlags) *cobra.Command {
	var flags deleteFlags

	cmd := &cobra.Command{
		Use:     "delete",
		Aliases: []string{"rm"},
		Short:   "Delete a prompt",
		GroupID: "prompts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.run(cmd, root)
		},
	}

	addSlugFlag(cmd, &flags.slug, "Prompt slug to delete")
	addProjectFlag(cmd, &flags.project)
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Skip confirmation")

	return cmd
}

func (f *deleteFlags) run(cmd *cobra.Command, root *rootFlags) error {
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

	if !f.force {
		ok, err := out.Confirm(ctx, cmd.InOrStdin(), fmt.Sprintf("Delete prompt '%s'?", prompt.Slug), false)
		if err != nil {
			return err
		}
		if !ok {
			out.Println("Cancelled.")
			return nil
		}
	}

	if err := client.DeletePrompt(ctx, prompt.ID); err != nil {
		return err
	}

	out.Success("Deleted prompt: %s", prompt.Slug)
	return nil
}
