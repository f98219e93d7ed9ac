package root

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/vvoland/btprompt/pkg/cli"
	"github.com/vvoland/btprompt/pkg/userconfig"
)

func newConfigCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage user configuration",
		Long:  "View and manage user-level btprompt configuration stored in ~/.config/btprompt/config.yaml",
		Example: `  # Show the current configuration
  btprompt config show

  # Use a project by default
  btprompt config set default_project "My Project"

  # Go back to the built-in default model
  btprompt config unset default_model`,
		GroupID: "advanced",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShowCommand(cmd, root)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the current configuration",
		Long:  "Display the current user configuration in YAML format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShowCommand(cmd, root)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the path to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cli.NewPrinter(cmd.OutOrStdout()).Println(root.configPath)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Set a configuration value",
		Args:      cobra.ExactArgs(2),
		ValidArgs: userconfig.Keys,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSetCommand(cmd, root, args[0], args[1])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:       "unset <key>",
		Short:     "Remove a configuration value",
		Args:      cobra.ExactArgs(1),
		ValidArgs: userconfig.Keys,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigUnsetCommand(cmd, root, args[0])
		},
	})

	return cmd
}

func runConfigShowCommand(cmd *cobra.Command, root *rootFlags) error {
	out := cli.NewPrinter(cmd.OutOrStdout())

	config, err := root.userConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	data, err := yaml.MarshalWithOptions(config, yaml.IndentSequence(true), yaml.UseSingleQuote(false))
	if err != nil {
		return fmt.Errorf("failed to format config: %w", err)
	}

	out.Print(string(data))
	return nil
}

func runConfigSetCommand(cmd *cobra.Command, root *rootFlags, key, value string) error {
	out := cli.NewPrinter(cmd.OutOrStdout())

	config, err := root.userConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := config.Set(key, value); err != nil {
		return err
	}
	if err := config.SaveTo(root.configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	stored, _ := config.Get(key)
	out.Success("Set %s = %s", key, stored)
	return nil
}

func runConfigUnsetCommand(cmd *cobra.Command, root *rootFlags, key string) error {
	out := cli.NewPrinter(cmd.OutOrStdout())

	config, err := root.userConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	was, err := config.Unset(key)
	if err != nil {
		return err
	}
	if !was {
		out.Printf("%s is not set.\n", key)
		return nil
	}

	if err := config.SaveTo(root.configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	out.Success("Unset %s", key)
	return nil
}
