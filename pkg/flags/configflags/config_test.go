package configflags

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
platform:
  url: https://deploy.example.com
  applicationId: app-1
github:
  environment: production
`), 0o644))

	f := NewConfigFlags()
	f.Path = path

	config, err := f.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://deploy.example.com", config.Platform.URL)
	assert.Equal(t, "app-1", config.Platform.ApplicationID)
	assert.Equal(t, "production", config.GitHub.Environment)
}

func TestGetConfigWithoutPath(t *testing.T) {
	config, err := NewConfigFlags().GetConfig()
	require.NoError(t, err)
	assert.Empty(t, config.Platform.URL)
}

func TestGetConfigMissingFile(t *testing.T) {
	f := NewConfigFlags()
	f.Path = filepath.Join(t.TempDir(), "nope.yaml")

	_, err := f.GetConfig()
	assert.Error(t, err)
}
