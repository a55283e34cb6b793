package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.False(t, Present(store))

	require.NoError(t, store.Save("abc123"))
	assert.True(t, Present(store))

	require.NoError(t, store.Delete())
	assert.False(t, Present(store))

	// Deleting twice is fine
	require.NoError(t, store.Delete())
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.json")
	store := NewFileStore(path)

	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token, "missing file means no token")

	require.NoError(t, store.Save("abc123"))

	// A second store on the same file sees the latest value
	other := NewFileStore(path)
	token, err = other.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	require.NoError(t, other.Delete())
	token, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestFileStore_PreservesOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"theme":"dark","token":"old"}`), 0600))

	store := NewFileStore(path)
	require.NoError(t, store.Delete())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"theme": "dark"`)
	assert.NotContains(t, string(data), "old")
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	store := NewFileStore(path)
	_, err := store.Load()
	assert.Error(t, err)
	assert.False(t, Present(store), "read failures count as unauthenticated")
}

func TestKeyringStore_MockProvider(t *testing.T) {
	keyring.MockInit()

	store := NewKeyringStore("localhost:8654")
	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save("abc123"))
	token, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	// Namespaces do not leak into each other
	other := NewKeyringStore("")
	token, err = other.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Delete())
	require.NoError(t, store.Delete())
	assert.False(t, Present(store))
}

func TestOpen(t *testing.T) {
	store, err := Open("memory", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	store, err = Open("keyring", "host")
	require.NoError(t, err)
	assert.IsType(t, &KeyringStore{}, store)

	_, err = Open("redis", "")
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
