package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvoland/btprompt/pkg/abtest"
	"github.com/vvoland/btprompt/pkg/cli"
	"github.com/vvoland/btprompt/pkg/prompt"
)

type promoteFlags struct {
	from    string
	to      string
	project string
	force   bool
	keep    bool
}

func newPromoteCmd(root *rootFlags) *cobra.Command {
	var flags promoteFlags

	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Copy the messages of one prompt onto another",
		Long: `Copy the system and user messages of one prompt onto another, typically an
A/B test variant onto the original. The rest of the target prompt is kept.`,
		Example: `  btprompt promote --from my-prompt-v2 --to my-prompt`,
		GroupID: "testing",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.run(cmd, root)
		},
	}

	cmd.Flags().StringVar(&flags.from, "from", "", "Source prompt slug")
	cmd.Flags().StringVar(&flags.to, "to", "", "Target prompt slug")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	addProjectFlag(cmd, &flags.project)
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Skip confirmation")
	cmd.Flags().BoolVar(&flags.keep, "keep", false, "Keep the source prompt after promotion")

	return cmd
}

func (f *promoteFlags) run(cmd *cobra.Command, root *rootFlags) error {
	ctx := cmd.Context()
	out := cli.NewPrinter(cmd.OutOrStdout())

	project, err := root.requireProject(ctx, f.project)
	if err != nil {
		return err
	}

	client, err := root.newClient(ctx)
	if err != nil {
		return err
	}

	out.Printf("Promoting %s → %s\n", f.from, f.to)

	source, err := client.GetPrompt(ctx, f.from, project)
	if err != nil {
		return fmt.Errorf("source prompt: %w", err)
	}
	target, err := client.GetPrompt(ctx, f.to, project)
	if err != nil {
		return fmt.Errorf("target prompt: %w", err)
	}

	sourceSystem, sourceUser := prompt.SystemUser(source.Messages())
	targetSystem, targetUser := prompt.SystemUser(target.Messages())

	out.Println()
	out.PrintDiff("System Message Diff", prompt.UnifiedDiff(targetSystem, sourceSystem))
	out.Println()
	out.PrintDiff("User Message Diff", prompt.UnifiedDiff(targetUser, sourceUser))

	if !f.force {
		out.Println()
		ok, err := out.Confirm(ctx, cmd.InOrStdin(), fmt.Sprintf("Apply these changes to %s?", f.to), false)
		if err != nil {
			return err
		}
		if !ok {
			out.Println("Cancelled.")
			return nil
		}
	}

	if _, err := abtest.Promote(ctx, client, target, source); err != nil {
		return err
	}
	out.Println()
	out.Success("Promoted %s → %s", f.from, f.to)

	if f.keep {
		return nil
	}

	cleanup, err := out.Confirm(ctx, cmd.InOrStdin(), fmt.Sprintf("Delete %s?", f.from), true)
	if err != nil {
		return err
	}
	if cleanup {
		if _, err := abtest.DeleteBySlug(ctx, client, project, f.from); err != nil {
			return err
		}
		out.Success("Deleted %s", f.from)
	}

	return nil
}
