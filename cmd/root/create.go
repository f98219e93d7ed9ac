package root

import (
	"cmp"
	"errors"

	"github.com/spf13/cobra"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/vvoland/btprompt/pkg/braintrust"
	"github.com/vvoland/btprompt/pkg/cli"
	"github.com/vvoland/btprompt/pkg/prompt"
)

type createFlags struct {
	slug        string
	name        string
	description string
	system      string
	user        string
	model       string
	project     string
}

func newCreateCmd(root *rootFlags) *cobra.Command {
	var flags createFlags

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a prompt",
		Example: `  btprompt create --slug my-prompt --system "You are helpful." --user "Answer: {{question}}"`,
		GroupID: "prompts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.run(cmd, root)
		},
	}

	addSlugFlag(cmd, &flags.slug, "Prompt slug (URL-safe identifier)")
	cmd.Flags().StringVar(&flags.name, "name", "", "Human-readable name (default: the slug)")
	cmd.Flags().StringVar(&flags.description, "description", "", "Prompt description")
	cmd.Flags().StringVar(&flags.system, "system", "", "System message content")
	cmd.Flags().StringVar(&flags.user, "user", "", "User message template")
	cmd.Flags().StringVar(&flags.model, "model", "", "Model name (default: "+DefaultModel+")")
	addProjectFlag(cmd, &flags.project)

	return cmd
}

func (f *createFlags) run(cmd *cobra.Command, root *rootFlags) error {
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

	projectID, err := client.ProjectID(ctx, project)
	if err != nil {
		return err
	}

	_, err = client.GetPrompt(ctx, f.slug, project)
	switch {
	case err == nil:
		return &promptExistsError{slug: f.slug}
	case !errors.Is(err, braintrust.ErrPromptNotFound):
		return err
	}

	options := orderedmap.New[string, any]()
	options.Set("model", cmp.Or(f.model, root.defaultModel()))

	created, err := client.CreatePrompt(ctx, braintrust.CreatePromptRequest{
		Name:        cmp.Or(f.name, f.slug),
		Slug:        f.slug,
		Description: f.description,
		ProjectID:   projectID,
		PromptData: braintrust.PromptData{
			Prompt: &braintrust.PromptBlock{
				Type:     "chat",
				Messages: prompt.Build(f.system, f.user),
			},
			Options: options,
		},
	})
	if err != nil {
		return err
	}

	out.Success("Created prompt: %s", created.Slug)
	out.Printf("  ID: %s\n", created.ID)
	return nil
}
