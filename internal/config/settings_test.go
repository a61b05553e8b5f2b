package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courselab/envcheck/internal/reconcile"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), DefaultFileName))
	require.NoError(t, err)
	assert.Equal(t, Default(), settings)
	assert.Equal(t, ".env", settings.EnvFile)
	assert.Equal(t, "example.env", settings.ExampleFile)
	assert.Equal(t, "pyproject.toml", settings.Manifest)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	content := `example_file: template.env
no_color: true
flag_pairs:
  - flag: ACME_TRACING
    companion: ACME_API_KEY
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	settings, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "template.env", settings.ExampleFile)
	assert.True(t, settings.NoColor)
	// Unset fields keep their defaults.
	assert.Equal(t, ".env", settings.EnvFile)
	assert.Equal(t, "pyproject.toml", settings.Manifest)
	assert.Equal(t, []reconcile.FlagPair{{Flag: "ACME_TRACING", Companion: "ACME_API_KEY"}}, settings.FlagPairs)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("example_file: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestPairs_BuiltInComesFirst(t *testing.T) {
	s := Settings{FlagPairs: []reconcile.FlagPair{{Flag: "A", Companion: "B"}}}
	pairs := s.Pairs()
	require.Len(t, pairs, 2)
	assert.Equal(t, "LANGSMITH_TRACING", pairs[0].Flag)
	assert.Equal(t, "A", pairs[1].Flag)
}
