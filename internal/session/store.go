package session

import "errors"

// TokenKey is the single storage key holding the session token
const TokenKey = "token"

var ErrUnknownBackend = errors.New("unknown token storage backend")

// TokenStore defines the storage operations for the session token.
// A missing token is reported as an empty string with a nil error.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Delete() error
}

// Open returns the TokenStore for the named backend ("keyring", "file" or "memory").
// namespace scopes keyring entries, typically to the backend host.
func Open(backend, namespace string) (TokenStore, error) {
	switch backend {
	case "", "keyring":
		return NewKeyringStore(namespace), nil
	case "file":
		path, err := DefaultFilePath()
		if err != nil {
			return nil, err
		}
		return NewFileStore(path), nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, ErrUnknownBackend
	}
}

// Present reports whether the store currently holds a non-empty token.
// Read failures count as no token.
func Present(store TokenStore) bool {
	token, err := store.Load()
	return err == nil && token != ""
}
