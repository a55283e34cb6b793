package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("origin: https://rce.example.com/\nstorage: file\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://rce.example.com/", cfg.Origin)
	assert.Equal(t, "file", cfg.Storage)
	assert.Equal(t, "rce.example.com", cfg.Namespace())
}

func TestLoad_DefaultsStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("origin: http://localhost:5173\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "keyring", cfg.Storage)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"not yaml":        "origin: [",
		"missing origin":  "origin: \"\"\n",
		"unknown storage": "origin: http://localhost:5173\nstorage: cookie\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ConfigFileName)
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestFindConfigFile_SearchesParents(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Save(filepath.Join(root, ConfigFileName), DefaultConfig()))

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	chdir(t, nested)

	cfg, err := LoadFromCurrentDir()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5173", cfg.Origin)
}

func TestFindConfigFile_Missing(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := FindConfigFile()
	assert.ErrorContains(t, err, "portal.yaml not found")
}
