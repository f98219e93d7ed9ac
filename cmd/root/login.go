package root

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vvoland/btprompt/pkg/cli"
	"github.com/vvoland/btprompt/pkg/input"
)

func newLoginCmd(root *rootFlags) *cobra.Command {
	var apiKey string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the Braintrust API key in the OS keyring",
		Long: `Store the Braintrust API key in the OS keyring. It is used whenever
BRAINTRUST_API_KEY is neither in the environment nor in an env file.

Without --api-key the key is read from standard input.

Without a keyring service (headless Linux, CI) the key goes to an encrypted file
under ~/.config/btprompt/keyring, unlocked with BTPROMPT_KEYRING_PASSWORD or a
passphrase prompt.`,
		Example: `  btprompt login
  echo "$KEY" | btprompt login`,
		GroupID: "advanced",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cli.NewPrinter(cmd.OutOrStdout())

			if apiKey == "" {
				if cli.IsTerminal(cmd.InOrStdin()) {
					out.Printf("Enter your API key (from %s): ", apiKeysURL)
				}
				line, err := input.ReadLine(cmd.Context(), cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading API key: %w", err)
				}
				apiKey = line
			}

			apiKey = strings.TrimSpace(apiKey)
			if apiKey == "" {
				return errors.New("API key cannot be empty")
			}

			if err := root.keyring.Store(envAPIKey, apiKey); err != nil {
				return fmt.Errorf("storing API key: %w", err)
			}

			out.Success("API key stored in the OS keyring")
			return nil
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key to store")

	return cmd
}

func newLogoutCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "logout",
		Short:   "Remove the Braintrust API key from the OS keyring",
		GroupID: "advanced",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cli.NewPrinter(cmd.OutOrStdout())

			removed, err := root.keyring.Remove(envAPIKey)
			if err != nil {
				return fmt.Errorf("removing API key: %w", err)
			}

			if !removed {
				out.Println("No API key stored.")
				return nil
			}
			out.Success("API key removed from the OS keyring")
			return nil
		},
	}
}
