package root

import (
	"github.com/spf13/cobra"
)

func addClientFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.PersistentFlags().StringVar(&flags.apiURL, "api-url", "", "Braintrust API base URL (default: $BRAINTRUST_API_URL or https://api.braintrust.dev/v1)")
	cmd.PersistentFlags().StringSliceVar(&flags.envFiles, "env-from-file", nil, "Read environment variables from file (in addition to ./.env)")
}

func addProjectFlag(cmd *cobra.Command, project *string) {
	cmd.Flags().StringVar(project, "project", "", "Project name (default: $BRAINTRUST_PROJECT_NAME or the default_project setting)")
}

func addSlugFlag(cmd *cobra.Command, slug *string, usage string) {
	cmd.Flags().StringVar(slug, "slug", "", usage)
	_ = cmd.MarkFlagRequired("slug")
}

func addInputFlags(cmd *cobra.Command, in *inputFlags) {
	cmd.Flags().StringVarP(&in.input, "input", "i", "", `JSON input (e.g. '{"key": "value"}')`)
	cmd.Flags().StringVarP(&in.inputFile, "input-file", "f", "", "Read input from a JSON file")
	cmd.Flags().BoolVarP(&in.verbose, "verbose", "v", false, "Show what is being invoked")
}
