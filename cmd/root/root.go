package root

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vvoland/btprompt/pkg/braintrust"
	"github.com/vvoland/btprompt/pkg/environment"
	"github.com/vvoland/btprompt/pkg/logging"
	"github.com/vvoland/btprompt/pkg/paths"
	"github.com/vvoland/btprompt/pkg/userconfig"
)

const AppName = "btprompt"

type rootFlags struct {
	enableOtel   bool
	debugMode    bool
	logFilePath  string
	logFile      io.Closer
	shutdownOtel func(context.Context) error
	apiURL       string
	envFiles     []string

	// Where secrets and user settings live. Tests point these elsewhere.
	keyring    *environment.KeyringProvider
	configPath string
	workDir    string

	settings environment.Provider
	config   *userconfig.Config
}

func defaultRootFlags() *rootFlags {
	return &rootFlags{
		keyring:    environment.NewKeyringProvider(),
		configPath: userconfig.Path(),
	}
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultRootFlags())
}

func newRootCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   AppName,
		Short: "btprompt - manage Braintrust prompts",
		Long:  "btprompt is a command-line tool to list, edit, run, A/B test and promote prompts stored in Braintrust",
		Example: `  btprompt list
  btprompt get --slug my-prompt
  btprompt invoke --slug my-prompt --input '{"question": "test"}'
  btprompt test --slug my-prompt --input '{"q": "test"}' --system "New instructions"
  btprompt diff --slug my-prompt --system "New content"
  btprompt update --slug my-prompt --system "New content"
  btprompt generate --slug my-prompt`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.setupLogging(cmd.ErrOrStderr()); err != nil {
				slog.Warn("Failed to open debug log file, logging to stderr", "error", err)
			}

			if flags.enableOtel {
				shutdown, err := initOTelSDK(cmd.Context())
				if err != nil {
					slog.Warn("Failed to initialize OpenTelemetry SDK", "error", err)
				} else {
					flags.shutdownOtel = shutdown
					slog.Debug("OpenTelemetry SDK initialized successfully")
				}
			}

			return nil
		},
		// If no subcommand is specified, show help
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().BoolVarP(&flags.debugMode, "debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flags.enableOtel, "otel", "o", false, "Enable OpenTelemetry tracing")
	cmd.PersistentFlags().StringVar(&flags.logFilePath, "log-file", "", "Path to debug log file (default: ~/.btprompt/btprompt.debug.log; only used with --debug)")
	addClientFlags(cmd, flags)

	cmd.AddGroup(&cobra.Group{ID: "prompts", Title: "Prompt Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "testing", Title: "Testing Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "advanced", Title: "Advanced Commands:"})

	cmd.AddCommand(newListCmd(flags))
	cmd.AddCommand(newGetCmd(flags))
	cmd.AddCommand(newCreateCmd(flags))
	cmd.AddCommand(newUpdateCmd(flags))
	cmd.AddCommand(newDiffCmd(flags))
	cmd.AddCommand(newDeleteCmd(flags))
	cmd.AddCommand(newInvokeCmd(flags))
	cmd.AddCommand(newTestCmd(flags))
	cmd.AddCommand(newPromoteCmd(flags))
	cmd.AddCommand(newGenerateCmd(flags))
	cmd.AddCommand(newLoginCmd(flags))
	cmd.AddCommand(newLogoutCmd(flags))
	cmd.AddCommand(newConfigCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func Execute(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, args ...string) error {
	return execute(ctx, defaultRootFlags(), stdin, stdout, stderr, args...)
}

func execute(ctx context.Context, flags *rootFlags, stdin io.Reader, stdout, stderr io.Writer, args ...string) error {
	rootCmd := newRootCmd(flags)
	defer flags.close(ctx)

	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return processErr(ctx, err, stderr, rootCmd)
	}
	return nil
}

func processErr(ctx context.Context, err error, stderr io.Writer, rootCmd *cobra.Command) error {
	if ctx.Err() != nil {
		return ctx.Err()
	} else if envErr, ok := errors.AsType[*environment.RequiredEnvError](err); ok {
		for _, v := range envErr.Missing {
			fmt.Fprintf(stderr, "⚠️  %s not set\n", v)
		}
		if len(envErr.Missing) == 1 && envErr.Missing[0] == envAPIKey {
			fmt.Fprintln(stderr)
			fmt.Fprintln(stderr, "Add to your .env file:")
			fmt.Fprintf(stderr, "  %s=sk-your-api-key\n", envAPIKey)
			fmt.Fprintln(stderr)
			fmt.Fprintf(stderr, "Get your API key from: %s\n", apiKeysURL)
			fmt.Fprintf(stderr, "Or store it in the OS keyring with: %s login\n", AppName)
		}
	} else if inputErr, ok := errors.AsType[*invalidInputError](err); ok {
		fmt.Fprintf(stderr, "Error: Invalid JSON input: %v\n", inputErr.err)
	} else if existsErr, ok := errors.AsType[*promptExistsError](err); ok {
		fmt.Fprintf(stderr, "Error: Prompt '%s' already exists. Use 'update' instead.\n", existsErr.slug)
	} else if _, ok := errors.AsType[RuntimeError](err); ok {
		// Runtime errors have already been printed by the command itself
	} else if _, ok := errors.AsType[*braintrust.APIError](err); ok {
		fmt.Fprintln(stderr, err)
	} else if _, ok := errors.AsType[*braintrust.NetworkError](err); ok {
		fmt.Fprintln(stderr, err)
	} else {
		fmt.Fprintln(stderr, "Error:", err)
		if strings.HasPrefix(err.Error(), "unknown command ") || strings.HasPrefix(err.Error(), "accepts ") {
			fmt.Fprintln(stderr)
			_ = rootCmd.Usage()
		}
	}

	return err
}

// setupLogging configures slog logging behavior.
// When --debug is enabled, logs are written to a rotating file <dataDir>/btprompt.debug.log,
// or to the file specified by --log-file.
func (f *rootFlags) setupLogging(stderr io.Writer) error {
	path := cmp.Or(strings.TrimSpace(f.logFilePath), filepath.Join(paths.GetDataDir(), AppName+".debug.log"))

	logFile, err := logging.Setup(f.debugMode, paths.ExpandTilde(path), stderr)
	if logFile != nil {
		f.logFile = logFile
	}
	return err
}

// close flushes traces and closes the debug log.
func (f *rootFlags) close(ctx context.Context) {
	if f.shutdownOtel != nil {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := f.shutdownOtel(ctx); err != nil {
			slog.Warn("Failed to flush traces", "error", err)
		}
	}
	if f.logFile != nil {
		if err := f.logFile.Close(); err != nil {
			slog.Error("Failed to close log file", "error", err)
		}
	}
}

// RuntimeError wraps errors the command has already reported to the user.
type RuntimeError struct {
	Err error
}

func (e RuntimeError) Error() string {
	return e.Err.Error()
}

func (e RuntimeError) Unwrap() error {
	return e.Err
}
