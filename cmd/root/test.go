package root

import (
	"github.com/spf13/cobra"

	"github.com/vvoland/btprompt/pkg/abtest"
	"github.com/vvoland/btprompt/pkg/cli"
)

type testFlags struct {
	slug    string
	project string
	system  string
	user    string
	input   inputFlags
}

func newTestCmd(root *rootFlags) *cobra.Command {
	var flags testFlags

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run a prompt, or A/B test it against proposed changes",
		Long: `Run a prompt and show the result.

With --system or --user, a "<slug>-v2" variant carrying the proposed messages is
created, both prompts are run with the same input and you can promote the
variant over the original.`,
		Example: `  btprompt test --slug my-prompt --input '{"q": "test"}'
  btprompt test --slug my-prompt --input '{"q": "test"}' --system "New instructions"`,
		GroupID: "testing",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.run(cmd, root)
		},
	}

	addSlugFlag(cmd, &flags.slug, "Prompt slug to test")
	addProjectFlag(cmd, &flags.project)
	addInputFlags(cmd, &flags.input)
	cmd.Flags().StringVar(&flags.system, "system", "", "Proposed system message (runs an A/B test)")
	cmd.Flags().StringVar(&flags.user, "user", "", "Proposed user message (runs an A/B test)")

	return cmd
}

func (f *testFlags) run(cmd *cobra.Command, root *rootFlags) error {
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

	if _, err := client.GetPrompt(ctx, f.slug, project); err != nil {
		return err
	}

	input, err := f.input.parse()
	if err != nil {
		return err
	}

	if f.system != "" || f.user != "" {
		runner := abtest.NewRunner(client, out, cmd.InOrStdin())
		runner.Command = cmd.Root().Name()
		return runner.Run(ctx, project, f.slug, input, f.system, f.user)
	}

	out.Printf("Testing prompt: %s\n\n", f.slug)
	if f.input.verbose {
		out.PrintInvocation(project, f.slug, input)
	}

	result, err := client.Invoke(ctx, project, f.slug, input)
	if err != nil {
		return err
	}

	out.PrintResult(result)
	return nil
}
