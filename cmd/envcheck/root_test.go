package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandWiring(t *testing.T) {
	assert.Equal(t, "envcheck", rootCmd.Use)
	assert.NotNil(t, rootCmd.RunE)

	for _, name := range []string{"project-dir", "env-file", "example-file", "manifest", "no-color"} {
		assert.NotNil(t, rootCmd.Flags().Lookup(name), "flag %s", name)
	}
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))

	sub, _, err := rootCmd.Find([]string{"version"})
	require.NoError(t, err)
	assert.Equal(t, "version", sub.Use)
}
