package paths

import (
	"os"
	"path/filepath"
)

// GetConfigDir returns the user's config directory for btprompt.
//
// If the home directory cannot be determined, it falls back to a directory
// under the system temporary directory.
func GetConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Clean(filepath.Join(os.TempDir(), ".btprompt-config"))
	}
	return filepath.Clean(filepath.Join(homeDir, ".config", "btprompt"))
}

// GetDataDir returns the user's data directory for btprompt (debug logs).
func GetDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Clean(filepath.Join(os.TempDir(), ".btprompt"))
	}
	return filepath.Clean(filepath.Join(homeDir, ".btprompt"))
}

// GetHomeDir returns the user's home directory, or an empty string if it
// cannot be determined.
func GetHomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Clean(homeDir)
}

// ExpandTilde expands a leading "~/" to the user's home directory.
func ExpandTilde(p string) string {
	if p == "~" {
		return GetHomeDir()
	}
	rest, ok := cutTildePrefix(p)
	if !ok {
		return p
	}
	homeDir := GetHomeDir()
	if homeDir == "" {
		return p
	}
	return filepath.Join(homeDir, rest)
}

func cutTildePrefix(p string) (string, bool) {
	if len(p) >= 2 && p[0] == '~' && (p[1] == '/' || p[1] == filepath.Separator) {
		return p[2:], true
	}
	return "", false
}
