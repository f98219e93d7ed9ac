package root

import (
	"github.com/spf13/cobra"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/vvoland/btprompt/pkg/braintrust"
	"github.com/vvoland/btprompt/pkg/cli"
	"github.com/vvoland/btprompt/pkg/prompt"
)

type updateFlags struct {
	slug        string
	name        string
	description string
	system      string
	user        string
	model       string
	project     string
}

func newUpdateCmd(root *rootFlags) *cobra.Command {
	var flags updateFlags

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update a prompt",
		Long: `Update a prompt. Only the given fields change: existing system and user
messages are replaced in place, other messages and settings are kept.`,
		Example: `  btprompt update --slug my-prompt --system "New content"
  btprompt update --slug my-prompt --model gpt-4o`,
		GroupID: "prompts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.run(cmd, root)
		},
	}

	addSlugFlag(cmd, &flags.slug, "Prompt slug")
	cmd.Flags().StringVar(&flags.name, "name", "", "New name")
	cmd.Flags().StringVar(&flags.description, "description", "", "New description")
	cmd.Flags().StringVar(&flags.system, "system", "", "New system message")
	cmd.Flags().StringVar(&flags.user, "user", "", "New user message template")
	cmd.Flags().StringVar(&flags.model, "model", "", "New model name")
	addProjectFlag(cmd, &flags.project)

	return cmd
}

func (f *updateFlags) run(cmd *cobra.Command, root *rootFlags) error {
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

	req, err := f.request(current)
	if err != nil {
		return err
	}
	if req.IsEmpty() {
		out.Println("No updates specified.")
		return nil
	}

	updated, err := client.UpdatePrompt(ctx, current.ID, req)
	if err != nil {
		return err
	}

	out.Success("Updated prompt: %s", updated.Slug)
	return nil
}

// request builds the PATCH body. prompt_data is only sent when messages or
// the model change, and then carries every other key of the current one.
func (f *updateFlags) request(current *braintrust.Prompt) (braintrust.UpdatePromptRequest, error) {
	var req braintrust.UpdatePromptRequest

	if f.name != "" {
		req.Name = &f.name
	}
	if f.description != "" {
		req.Description = &f.description
	}

	if f.system == "" && f.user == "" && f.model == "" {
		return req, nil
	}

	data, err := current.PromptData.Clone()
	if err != nil {
		return req, err
	}

	if f.system != "" || f.user != "" {
		if data.Prompt == nil {
			data.Prompt = &braintrust.PromptBlock{Type: "chat"}
		}
		data.Prompt.Messages = prompt.Merge(data.Prompt.Messages, f.system, f.user)
	}

	if f.model != "" {
		if data.Options == nil {
			data.Options = orderedmap.New[string, any]()
		}
		data.Options.Set("model", f.model)
	}

	req.PromptData = &data
	return req, nil
}
