//go:build darwin

package crypto

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"
)

type darwinKeyring struct{}

func newPlatformKeyring() Keyring {
	return &darwinKeyring{}
}

// GetKey returns COTIZA_DB_KEY when set, otherwise the key stored in the
// macOS Keychain
func (k *darwinKeyring) GetKey() (string, error) {
	if key := os.Getenv(EnvKey); key != "" {
		return key, nil
	}

	key, err := keyring.Get(ServiceName, KeyName)
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		return "", fmt.Errorf("encryption key not found in keychain: %w", err)
	case err != nil:
		return "", fmt.Errorf("failed to retrieve key from keychain: %w", err)
	case key == "":
		return "", errors.New("encryption key is empty")
	}
	return key, nil
}

// SetKey stores the encryption key in the macOS Keychain
func (k *darwinKeyring) SetKey(password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}
	if err := keyring.Set(ServiceName, KeyName, password); err != nil {
		return fmt.Errorf("failed to store key in keychain: %w", err)
	}
	return nil
}

// DeleteKey removes the stored key. A missing entry is not an error.
func (k *darwinKeyring) DeleteKey() error {
	err := keyring.Delete(ServiceName, KeyName)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete key from keychain: %w", err)
	}
	return nil
}

// IsAvailable probes the Keychain with a throwaway entry
func (k *darwinKeyring) IsAvailable() bool {
	probe := "__cotiza_availability_test__"
	if err := keyring.Set(ServiceName, probe, "test"); err != nil {
		return false
	}
	_ = keyring.Delete(ServiceName, probe)
	return true
}
