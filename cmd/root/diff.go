package root

import (
	"github.com/spf13/cobra"

	"github.com/vvoland/btprompt/pkg/cli"
	"github.com/vvoland/btprompt/pkg/prompt"
)

type diffFlags struct {
	slug    string
	system  string
	user    string
	project string
}

func newDiffCmd(root *rootFlags) *cobra.Command {
	var flags diffFlags

	cmd := &cobra.Command{
		Use:     "diff",
		Short:   "Compare a prompt with proposed messages",
		Example: `  btprompt diff --slug my-prompt --system "New content"`,
		GroupID: "prompts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.run(cmd, root)
		},
	}

	addSlugFlag(cmd, &flags.slug, "Prompt slug")
	cmd.Flags().StringVar(&flags.system, "system", "", "Proposed system message")
	cmd.Flags().StringVar(&flags.user, "user", "", "Proposed user message")
	addProjectFlag(cmd, &flags.project)

	return cmd
}

func (f *diffFlags) run(cmd *cobra.Command, root *rootFlags) error {
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

	current, err := client.GetPrompt(ctx, f.slug, project)
	if err != nil {
		return err
	}

	system, user := prompt.SystemUser(current.Messages())

	if f.system != "" {
		out.PrintDiff("System Message Diff", prompt.UnifiedDiff(system, f.system))
		out.Println()
	}
	if f.user != "" {
		out.PrintDiff("User Message Diff", prompt.UnifiedDiff(user, f.user))
		out.Println()
	}
	if f.system == "" && f.user == "" {
		out.Println("Specify --system or --user to compare")
	}

	return nil
}
