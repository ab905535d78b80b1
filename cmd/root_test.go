package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandSubcommands(t *testing.T) {
	t.Parallel()

	root := RootCommand()
	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"serve", "add", "remove", "list", "config", "migrate"} {
		assert.Contains(t, names, want)
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("debug"))
}

func TestRootCommandConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("main:\n  name: test-board\nweather:\n  apikey: secret-key\nlocation:\n  provider: none\nstorage:\n  type: memory\n"), 0o600))

	root := RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", path, "--debug", "config"})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "name: test-board")
	assert.Contains(t, out.String(), "debug: true")
	assert.NotContains(t, out.String(), "secret-key")
}

func TestRootCommandVersion(t *testing.T) {
	t.Parallel()

	root := RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "weatherboard version")
}
