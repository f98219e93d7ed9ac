package root

import (
	"github.com/spf13/cobra"

	"github.com/vvoland/btprompt/pkg/cli"
)

type invokeFlags struct {
	slug    string
	project string
	input   inputFlags
}

func newInvokeCmd(root *rootFlags) *cobra.Command {
	var flags invokeFlags

	cmd := &cobra.Command{
		Use:   "invoke",
		Short: "Run a prompt and show the result",
		Example: `  btprompt invoke --slug my-prompt --input '{"question": "test"}'
  btprompt invoke --slug my-prompt --input-file input.json`,
		GroupID: "testing",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.run(cmd, root)
		},
	}

	addSlugFlag(cmd, &flags.slug, "Prompt slug")
	addProjectFlag(cmd, &flags.project)
	addInputFlags(cmd, &flags.input)

	return cmd
}

func (f *invokeFlags) run(cmd *cobra.Command, root *rootFlags) error {
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
