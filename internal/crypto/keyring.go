// Package crypto stores the database encryption key.
package crypto

// Keyring provides secure key storage abstraction
type Keyring interface {
	GetKey() (string, error)
	SetKey(password string) error
	DeleteKey() error
	IsAvailable() bool
}

const (
	ServiceName = "cotiza"
	KeyName     = "db-encryption-key"

	// EnvKey holds the database key where no OS keyring is used
	EnvKey = "COTIZA_DB_KEY"
)

// NewKeyring returns the best available keyring implementation
func NewKeyring() Keyring {
	return newPlatformKeyring()
}
