package root

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"

	"github.com/vvoland/btprompt/pkg/braintrust"
	"github.com/vvoland/btprompt/pkg/environment"
	"github.com/vvoland/btprompt/pkg/userconfig"
)

const (
	envAPIKey      = "BRAINTRUST_API_KEY"
	envProjectName = "BRAINTRUST_PROJECT_NAME"
	envAPIURL      = "BRAINTRUST_API_URL"

	apiKeysURL = "https://www.braintrust.dev/app/settings/api-keys"

	// DefaultModel is used by create when neither --model nor the
	// default_model setting is given.
	DefaultModel = "claude-sonnet-4-5-20250929"
)

var errProjectRequired = errors.New("project name required (--project or " + envProjectName + ")")

// invalidInputError is a malformed --input value.
type invalidInputError struct {
	err error
}

func (e *invalidInputError) Error() string {
	return "invalid JSON input: " + e.err.Error()
}

func (e *invalidInputError) Unwrap() error {
	return e.err
}

// promptExistsError is returned by create for a slug that is taken.
type promptExistsError struct {
	slug string
}

func (e *promptExistsError) Error() string {
	return fmt.Sprintf("prompt %q already exists", e.slug)
}

// env returns the process environment backed by ./.env and any
// --env-from-file files. The keyring is not part of it; it only serves the
// API key.
func (f *rootFlags) env() (environment.Provider, error) {
	if f.settings != nil {
		return f.settings, nil
	}

	wd := f.workDir
	if wd == "" {
		var err error
		if wd, err = os.Getwd(); err != nil {
			return nil, err
		}
	}

	dotEnv := filepath.Join(wd, environment.DotEnvFile)
	extra, err := environment.AbsolutePaths(wd, f.envFiles)
	if err != nil {
		return nil, err
	}

	files, err := environment.NewEnvFilesProvider(append([]string{dotEnv}, extra...), dotEnv)
	if err != nil {
		return nil, err
	}

	f.settings = environment.NewMultiProvider(environment.NewOsEnvProvider(), files)
	return f.settings, nil
}

func (f *rootFlags) userConfig() (*userconfig.Config, error) {
	if f.config != nil {
		return f.config, nil
	}

	config, err := userconfig.LoadFrom(f.configPath)
	if err != nil {
		return nil, err
	}
	f.config = config
	return config, nil
}

// newClient builds an API client. The key comes from the environment, then
// env files, then the OS keyring.
func (f *rootFlags) newClient(ctx context.Context) (*braintrust.Client, error) {
	env, err := f.env()
	if err != nil {
		return nil, err
	}

	keys, err := environment.Require(ctx, environment.NewMultiProvider(env, f.keyring), envAPIKey)
	if err != nil {
		return nil, err
	}

	config, err := f.userConfig()
	if err != nil {
		return nil, err
	}

	baseURL := cmp.Or(f.apiURL, environment.Lookup(ctx, env, envAPIURL), config.APIURL, braintrust.DefaultBaseURL)

	return braintrust.NewClient(keys[envAPIKey],
		braintrust.WithBaseURL(baseURL),
		braintrust.WithTracer(otel.Tracer(AppName)),
	)
}

// projectName resolves the project: the --project flag, then
// BRAINTRUST_PROJECT_NAME, then the default_project setting. It may be empty.
func (f *rootFlags) projectName(ctx context.Context, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}

	env, err := f.env()
	if err != nil {
		return "", err
	}
	config, err := f.userConfig()
	if err != nil {
		return "", err
	}

	return cmp.Or(environment.Lookup(ctx, env, envProjectName), config.DefaultProject), nil
}

// requireProject is projectName for commands that cannot run without one.
func (f *rootFlags) requireProject(ctx context.Context, flag string) (string, error) {
	project, err := f.projectName(ctx, flag)
	if err != nil {
		return "", err
	}
	if project == "" {
		return "", errProjectRequired
	}
	return project, nil
}

func (f *rootFlags) defaultModel() string {
	config, err := f.userConfig()
	if err != nil || config.DefaultModel == "" {
		return DefaultModel
	}
	return config.DefaultModel
}

type inputFlags struct {
	input     string
	inputFile string
	verbose   bool
}

// parse returns the invocation input. --input-file wins over --input; no
// input is an empty object.
func (in *inputFlags) parse() (any, error) {
	switch {
	case in.inputFile != "":
		data, err := os.ReadFile(in.inputFile)
		if err != nil {
			return nil, fmt.Errorf("reading input file: %w", err)
		}
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("invalid JSON in %s: %w", in.inputFile, err)
		}
		return v, nil
	case in.input != "":
		var v any
		if err := json.Unmarshal([]byte(in.input), &v); err != nil {
			return nil, &invalidInputError{err: err}
		}
		return v, nil
	default:
		return map[string]any{}, nil
	}
}
