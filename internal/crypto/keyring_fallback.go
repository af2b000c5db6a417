//go:build !darwin

package crypto

import (
	"errors"
	"fmt"
	"os"
)

type fallbackKeyring struct{}

func newPlatformKeyring() Keyring {
	return &fallbackKeyring{}
}

// GetKey reads the encryption key from COTIZA_DB_KEY
func (k *fallbackKeyring) GetKey() (string, error) {
	key := os.Getenv(EnvKey)
	if key == "" {
		return "", fmt.Errorf("%s environment variable not set", EnvKey)
	}
	return key, nil
}

// SetKey exports the key for the current process only and reminds the
// user to persist it
func (k *fallbackKeyring) SetKey(password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}
	if err := os.Setenv(EnvKey, password); err != nil {
		return fmt.Errorf("failed to set %s: %w", EnvKey, err)
	}
	fmt.Fprintf(os.Stderr, "No system keyring on this platform: export %s in your shell profile to reuse this database.\n", EnvKey)
	return nil
}

// DeleteKey clears COTIZA_DB_KEY for the current process
func (k *fallbackKeyring) DeleteKey() error {
	return os.Unsetenv(EnvKey)
}

// IsAvailable checks if COTIZA_DB_KEY is set
func (k *fallbackKeyring) IsAvailable() bool {
	return os.Getenv(EnvKey) != ""
}
