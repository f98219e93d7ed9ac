package environment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/99designs/keyring"

	"github.com/vvoland/btprompt/pkg/paths"
)

const (
	// KeyringService is the service name credentials are stored under.
	KeyringService = "btprompt"

	// KeyringBackendEnv restricts the keyring to one backend (file, keychain,
	// secret-service, pass...).
	KeyringBackendEnv = "BTPROMPT_KEYRING_BACKEND"
	// KeyringPasswordEnv unlocks the encrypted file backend without a
	// terminal prompt.
	KeyringPasswordEnv = "BTPROMPT_KEYRING_PASSWORD"
)

// KeyringProvider reads secrets from the OS keyring (macOS Keychain,
// Secret Service, Windows Credential Manager, pass...).
type KeyringProvider struct {
	open func() (keyring.Keyring, error)
}

func NewKeyringProvider() *KeyringProvider {
	return &KeyringProvider{open: openKeyring}
}

// NewKeyringProviderFor uses ring instead of the OS keyring.
func NewKeyringProviderFor(ring keyring.Keyring) *KeyringProvider {
	return &KeyringProvider{open: func() (keyring.Keyring, error) { return ring, nil }}
}

func openKeyring() (keyring.Keyring, error) {
	return keyring.Open(keyringConfig())
}

// keyringConfig falls back to an encrypted file under the config dir when no
// OS keyring service is running, as on headless Linux.
func keyringConfig() keyring.Config {
	config := keyring.Config{
		ServiceName:              KeyringService,
		KeychainTrustApplication: true,
		FileDir:                  filepath.Join(paths.GetConfigDir(), "keyring"),
		FilePasswordFunc:         filePassword,
	}
	if backend := os.Getenv(KeyringBackendEnv); backend != "" {
		config.AllowedBackends = []keyring.BackendType{keyring.BackendType(backend)}
	}
	return config
}

func filePassword(prompt string) (string, error) {
	if password, ok := os.LookupEnv(KeyringPasswordEnv); ok {
		return password, nil
	}
	password, err := keyring.TerminalPrompt(prompt)
	if err != nil {
		return "", fmt.Errorf("no OS keyring available and %s is not set: %w", KeyringPasswordEnv, err)
	}
	return password, nil
}

// Get opens the keyring lazily so commands that never need a secret don't
// trigger an unlock prompt.
func (p *KeyringProvider) Get(_ context.Context, name string) (string, bool) {
	ring, err := p.open()
	if err != nil {
		slog.Debug("Keyring not available", "error", err)
		return "", false
	}

	item, err := ring.Get(name)
	if err != nil {
		if !errors.Is(err, keyring.ErrKeyNotFound) {
			slog.Debug("Failed to read from keyring", "name", name, "error", err)
		}
		return "", false
	}

	return string(item.Data), true
}

// Store saves value under name in the OS keyring.
func (p *KeyringProvider) Store(name, value string) error {
	ring, err := p.open()
	if err != nil {
		return fmt.Errorf("opening keyring: %w", err)
	}

	return ring.Set(keyring.Item{
		Key:   name,
		Data:  []byte(value),
		Label: KeyringService + " " + name,
	})
}

// Remove deletes name from the OS keyring. It reports whether a secret was
// present.
func (p *KeyringProvider) Remove(name string) (bool, error) {
	ring, err := p.open()
	if err != nil {
		return false, fmt.Errorf("opening keyring: %w", err)
	}

	// Not every backend reports a missing key on Remove.
	if _, err := ring.Get(name); err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := ring.Remove(name); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return false, err
	}
	return true, nil
}
