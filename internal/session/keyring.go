package session

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const service = "rce-portal"

// KeyringStore persists the token in the OS keychain/credential manager
type KeyringStore struct {
	key string
}

// NewKeyringStore creates a keyring-backed store. A non-empty namespace keeps
// tokens for different backends apart.
func NewKeyringStore(namespace string) *KeyringStore {
	key := TokenKey
	if namespace != "" {
		key = fmt.Sprintf("%s-%s", TokenKey, namespace)
	}
	return &KeyringStore{key: key}
}

func (s *KeyringStore) Load() (string, error) {
	token, err := keyring.Get(service, s.key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	return token, nil
}

func (s *KeyringStore) Save(token string) error {
	if err := keyring.Set(service, s.key, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

func (s *KeyringStore) Delete() error {
	if err := keyring.Delete(service, s.key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
