package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := GetRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootShowsHelp(t *testing.T) {
	out, err := executeCommand(t)
	require.NoError(t, err)
	assert.Contains(t, out, "rollscan")
	assert.Contains(t, out, "extract")
	assert.Contains(t, out, "serve")
}

func TestUnknownCommand(t *testing.T) {
	_, err := executeCommand(t, "bogus")
	assert.Error(t, err)
}

func TestExtractRequiresArgs(t *testing.T) {
	_, err := executeCommand(t, "extract")
	assert.Error(t, err)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rollscan.yaml")
	out, err := executeCommand(t, "config", "init", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	// Second init against the same path refuses to overwrite.
	_, err = executeCommand(t, "config", "init", "--file", path)
	assert.Error(t, err)
}
