package actions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")

	require.NoError(t, WriteFile(path, map[string]string{
		"status": "finished",
		"found":  "true",
		"url":    "https://app.example.com",
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "found=true\nstatus=finished\nurl=https://app.example.com\n", string(data))
}

func TestWriteFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")
	require.NoError(t, os.WriteFile(path, []byte("existing=1\n"), 0o644))

	require.NoError(t, WriteFile(path, map[string]string{"found": "false"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "existing=1\nfound=false\n", string(data))
}

func TestWriteOutputsUsesGithubOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")
	t.Setenv("GITHUB_OUTPUT", path)

	require.NoError(t, WriteOutputs(map[string]string{"found": "true"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "found=true\n", string(data))
}

func TestWriteOutputsWithoutFileOnlyLogs(t *testing.T) {
	t.Setenv("GITHUB_OUTPUT", "")
	assert.NoError(t, WriteOutputs(map[string]string{"found": "false"}))
}
