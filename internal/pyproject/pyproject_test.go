package pyproject

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `[project]
name = "course-notebooks"
requires-python = ">=3.12,<3.14"
dependencies = [
    "langchain>=0.3",
    "requests>=2.0",
    "python-dotenv",
]

[tool.uv]
dev-dependencies = ["pytest"]
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pyproject.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleManifest), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "course-notebooks", doc.Project.Name)
	assert.Equal(t, ">=3.12,<3.14", doc.RequiresPython())
	assert.Equal(t, []string{"langchain>=0.3", "requests>=2.0", "python-dotenv"}, doc.Project.Dependencies)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "pyproject.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_MalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pyproject.toml")
	require.NoError(t, os.WriteFile(path, []byte("[project\nbroken"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestRequiresPython_Default(t *testing.T) {
	doc := &Document{}
	assert.Equal(t, ">=3.11", doc.RequiresPython())
}

func TestParseRequirement(t *testing.T) {
	tests := []struct {
		raw     string
		name    string
		spec    string
		wantErr bool
	}{
		{raw: "requests>=2.0", name: "requests", spec: ">=2.0"},
		{raw: "requests >= 2.0, < 3", name: "requests", spec: ">= 2.0, < 3"},
		{raw: "python-dotenv", name: "python-dotenv", spec: ""},
		{raw: "uvicorn[standard]>=0.30", name: "uvicorn", spec: ">=0.30"},
		{raw: "httpx; python_version >= '3.9'", name: "httpx", spec: ""},
		{raw: "requests (>=2.0)", name: "requests", spec: ">=2.0"},
		{raw: "Django~=5.0", name: "Django", spec: "~=5.0"},
		{raw: "numpy==1.26.*", name: "numpy", spec: "==1.26.*"},
		{raw: "", wantErr: true},
		{raw: ">=1.0", wantErr: true},
		{raw: "pkg[unterminated", wantErr: true},
		{raw: "pkg garbage", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			req, err := ParseRequirement(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.name, req.Name)
			assert.Equal(t, tt.spec, req.Specifier)
		})
	}
}
