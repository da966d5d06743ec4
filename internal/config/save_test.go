package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func readYAML(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, yaml.Unmarshal(data, &out))
	return out
}

func TestSaveKey_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "global.yaml")

	require.NoError(t, SaveKey(path, "theme", "vintage"))

	require.Equal(t, map[string]any{"theme": "vintage"}, readYAML(t, path))
}

func TestSaveKey_ReplacesAndPreservesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "global.yaml")
	content := `# chart defaults
theme: macarons
title:
  left: center # keep me
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	require.NoError(t, SaveKey(path, "theme", "default"))
	require.NoError(t, SaveKey(path, "driftPalette", false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "# chart defaults")
	require.Contains(t, string(data), "# keep me")

	got := readYAML(t, path)
	require.Equal(t, "default", got["theme"])
	require.Equal(t, false, got["driftPalette"])
	require.Equal(t, map[string]any{"left": "center"}, got["title"])
}

func TestSaveKey_Errors(t *testing.T) {
	dir := t.TempDir()

	list := filepath.Join(dir, "list.yaml")
	require.NoError(t, os.WriteFile(list, []byte("- a\n- b\n"), 0o600))
	err := SaveKey(list, "theme", "x")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not a mapping")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("theme: [unclosed"), 0o600))
	err = SaveKey(bad, "theme", "x")
	require.Error(t, err)
	require.Contains(t, err.Error(), "parsing")
}
