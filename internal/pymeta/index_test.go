package pymeta

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDistInfo(t *testing.T, site, dir, metadata string) {
	t.Helper()
	full := filepath.Join(site, dir)
	require.NoError(t, os.MkdirAll(full, 0o755))
	if metadata != "" {
		require.NoError(t, os.WriteFile(filepath.Join(full, "METADATA"), []byte(metadata), 0o644))
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"requests", "requests"},
		{"Python-Dotenv", "python-dotenv"},
		{"python_dotenv", "python-dotenv"},
		{"zope.interface", "zope-interface"},
		{"weird__--..name", "weird-name"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in))
	}
}

func TestScanSitePackages(t *testing.T) {
	site := t.TempDir()
	writeDistInfo(t, site, "requests-2.32.3.dist-info",
		"Metadata-Version: 2.1\nName: requests\nVersion: 2.32.3\n\nbody text\n")
	writeDistInfo(t, site, "python_dotenv-1.0.1.dist-info",
		"Metadata-Version: 2.1\nName: python-dotenv\nVersion: 1.0.1\n")
	// No METADATA file: name and version fall back to the directory name.
	writeDistInfo(t, site, "orphan-0.9.0.dist-info", "")

	idx := ScanSitePackages([]string{site})
	assert.Equal(t, 3, idx.Len())

	dist, ok := idx.Lookup("requests")
	require.True(t, ok)
	assert.Equal(t, "2.32.3", dist.Version)
	assert.Equal(t, site, dist.Location)

	// Any PEP 503 spelling resolves.
	_, ok = idx.Lookup("Python-Dotenv")
	assert.True(t, ok)
	_, ok = idx.Lookup("python_dotenv")
	assert.True(t, ok)

	dist, ok = idx.Lookup("orphan")
	require.True(t, ok)
	assert.Equal(t, "0.9.0", dist.Version)

	_, ok = idx.Lookup("flask")
	assert.False(t, ok)
}

func TestScanSitePackages_EarlierDirectoryWins(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeDistInfo(t, first, "requests-2.32.3.dist-info", "Name: requests\nVersion: 2.32.3\n")
	writeDistInfo(t, second, "requests-1.0.0.dist-info", "Name: requests\nVersion: 1.0.0\n")

	idx := ScanSitePackages([]string{first, second})
	dist, ok := idx.Lookup("requests")
	require.True(t, ok)
	assert.Equal(t, "2.32.3", dist.Version)
	assert.Equal(t, first, dist.Location)
}

func TestScanSitePackages_MissingDirIsEmpty(t *testing.T) {
	idx := ScanSitePackages([]string{filepath.Join(t.TempDir(), "absent")})
	assert.Equal(t, 0, idx.Len())
}

func TestMapIndex(t *testing.T) {
	idx := MapIndex{"Python-Dotenv": {Name: "python-dotenv", Version: "1.0.1"}}

	dist, ok := idx.Lookup("python_dotenv")
	require.True(t, ok)
	assert.Equal(t, "1.0.1", dist.Version)

	_, ok = idx.Lookup("requests")
	assert.False(t, ok)
}
