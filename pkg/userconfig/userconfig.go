// Package userconfig provides user-level configuration for btprompt.
// This configuration is stored in ~/.config/btprompt/config.yaml and holds
// defaults that would otherwise be passed on every invocation.
package userconfig

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/natefinch/atomic"

	"github.com/vvoland/btprompt/pkg/paths"
)

// CurrentVersion is the current version of the user config format
const CurrentVersion = "v1"

// Config keys accepted by Set, Unset and Get.
const (
	KeyAPIURL         = "api_url"
	KeyDefaultProject = "default_project"
	KeyDefaultModel   = "default_model"
)

// Keys lists the settable keys in display order.
var Keys = []string{KeyAPIURL, KeyDefaultProject, KeyDefaultModel}

type Config struct {
	Version string `yaml:"version,omitempty"`
	// APIURL overrides the Braintrust API base URL
	APIURL string `yaml:"api_url,omitempty"`
	// DefaultProject is used when neither --project nor BRAINTRUST_PROJECT_NAME is set
	DefaultProject string `yaml:"default_project,omitempty"`
	// DefaultModel is used by create when --model is not given
	DefaultModel string `yaml:"default_model,omitempty"`
}

// Path returns the path to the config file
func Path() string {
	return filepath.Join(paths.GetConfigDir(), "config.yaml")
}

func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config file at path, returning an empty config if it
// doesn't exist.
func LoadFrom(path string) (*Config, error) {
	config := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

func (c *Config) Save() error {
	return c.SaveTo(Path())
}

func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	c.Version = CurrentVersion

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return atomic.WriteFile(path, bytes.NewReader(data))
}

func (c *Config) field(key string) (*string, error) {
	switch key {
	case KeyAPIURL:
		return &c.APIURL, nil
	case KeyDefaultProject:
		return &c.DefaultProject, nil
	case KeyDefaultModel:
		return &c.DefaultModel, nil
	default:
		return nil, fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys, ", "))
	}
}

// Get returns the value stored under key.
func (c *Config) Get(key string) (string, error) {
	f, err := c.field(key)
	if err != nil {
		return "", err
	}
	return *f, nil
}

// Set validates and stores value under key.
func (c *Config) Set(key, value string) error {
	f, err := c.field(key)
	if err != nil {
		return err
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("value for %s cannot be empty, use unset instead", key)
	}
	if key == KeyAPIURL {
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid %s %q: must be an http(s) URL", key, value)
		}
		value = strings.TrimRight(value, "/")
	}

	*f = value
	return nil
}

// Unset clears key. It reports whether a value was set.
func (c *Config) Unset(key string) (bool, error) {
	f, err := c.field(key)
	if err != nil {
		return false, err
	}
	was := *f != ""
	*f = ""
	return was, nil
}

// IsKey reports whether key is a known config key.
func IsKey(key string) bool {
	return slices.Contains(Keys, key)
}
