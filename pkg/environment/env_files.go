package environment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vvoland/btprompt/pkg/paths"
)

// DotEnvFile is the file looked up in the working directory on startup.
const DotEnvFile = ".env"

type KeyValuePair struct {
	Key   string
	Value string
}

func AbsolutePaths(parentDir string, relOrAbsPaths []string) ([]string, error) {
	var absPaths []string

	for _, relOrAbsPath := range relOrAbsPaths {
		absPath, err := AbsolutePath(parentDir, relOrAbsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path %s: %w", relOrAbsPath, err)
		}
		absPaths = append(absPaths, absPath)
	}

	return absPaths, nil
}

func AbsolutePath(parentDir, relOrAbsPath string) (string, error) {
	if relOrAbsPath == "" {
		return "", errors.New("empty environment file path")
	}
	if strings.HasPrefix(relOrAbsPath, "~") && !strings.HasPrefix(relOrAbsPath, "~/") && relOrAbsPath != "~" {
		return "", fmt.Errorf("unsupported tilde expansion format: %s", relOrAbsPath)
	}

	p := paths.ExpandTilde(relOrAbsPath)
	if filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	return filepath.Join(parentDir, p), nil
}

func ReadEnvFile(absolutePath string) ([]KeyValuePair, error) {
	buf, err := os.ReadFile(absolutePath)
	if err != nil {
		return nil, err
	}

	var lines []KeyValuePair

	for line := range strings.SplitSeq(string(buf), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		k, v, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("invalid env file line: %s", line)
		}

		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)

		if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
			v = v[1 : len(v)-1]
		}

		lines = append(lines, KeyValuePair{
			Key:   k,
			Value: v,
		})
	}

	return lines, nil
}

// EnvFilesProvider serves variables read from env files. Later files override
// earlier ones.
type EnvFilesProvider struct {
	values map[string]string
}

// NewEnvFilesProvider reads every file in absolutePaths. Files listed in
// optional are skipped silently when they do not exist.
func NewEnvFilesProvider(absolutePaths []string, optional ...string) (*EnvFilesProvider, error) {
	skippable := make(map[string]bool, len(optional))
	for _, p := range optional {
		skippable[p] = true
	}

	values := map[string]string{}
	for _, p := range absolutePaths {
		pairs, err := ReadEnvFile(p)
		if err != nil {
			if skippable[p] && errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("reading env file %s: %w", p, err)
		}

		slog.Debug("Loaded env file", "path", p, "count", len(pairs))
		for _, kv := range pairs {
			values[kv.Key] = kv.Value
		}
	}

	return &EnvFilesProvider{values: values}, nil
}

func (p *EnvFilesProvider) Get(_ context.Context, name string) (string, bool) {
	value, ok := p.values[name]
	return value, ok
}
