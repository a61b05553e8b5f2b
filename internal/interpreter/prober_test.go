package interpreter

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courselab/envcheck/internal/environ"
)

func TestParseProbe(t *testing.T) {
	out := "3.12.4\n/proj/.venv/bin/python\n/proj/.venv\n/usr\nlinux\n/proj/.venv/lib/python3.12/site-packages\n"

	info, err := parseProbe("/proj/.venv/bin/python", out)
	require.NoError(t, err)

	assert.Equal(t, "3.12.4", info.Version)
	assert.Equal(t, 3, info.Major)
	assert.Equal(t, 12, info.Minor)
	assert.Equal(t, "/proj/.venv/bin/python", info.Executable)
	assert.Equal(t, "/proj/.venv", info.Prefix)
	assert.Equal(t, "/usr", info.BasePrefix)
	assert.Equal(t, "linux", info.Platform)
	assert.Equal(t, []string{"/proj/.venv/lib/python3.12/site-packages"}, info.SitePackages)

	assert.True(t, info.InVirtualEnv())
	assert.Equal(t, "python3.12", info.VersionTag())
}

func TestParseProbe_NotInVenv(t *testing.T) {
	out := "3.13.1\n/usr/bin/python3\n/usr\n/usr\nlinux\n/usr/lib/python3.13/site-packages\n"

	info, err := parseProbe("/usr/bin/python3", out)
	require.NoError(t, err)
	assert.False(t, info.InVirtualEnv())
}

func TestParseProbe_ShortOutput(t *testing.T) {
	_, err := parseProbe("/usr/bin/python3", "3.12.4\n")
	assert.Error(t, err)
}

func TestParseProbe_BadVersion(t *testing.T) {
	out := "weird\n/usr/bin/python3\n/usr\n/usr\nlinux\n/usr/lib/site-packages\n"
	_, err := parseProbe("/usr/bin/python3", out)
	assert.Error(t, err)
}

func TestLocate_PrefersVirtualEnvVariable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix venv layout")
	}
	venv := t.TempDir()
	binDir := filepath.Join(venv, "bin")
	require.NoError(t, os.MkdirAll(binDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "python"), []byte("#!/bin/sh\n"), 0o755))

	p := ExecProber{
		ProjectDir: t.TempDir(),
		Env:        environ.Map{"VIRTUAL_ENV": venv},
		LookPath:   func(string) (string, error) { return "", errors.New("not found") },
	}
	exe, err := p.locate()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(binDir, "python"), exe)
}

func TestLocate_FallsBackToProjectVenvThenPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix venv layout")
	}
	project := t.TempDir()
	binDir := filepath.Join(project, ".venv", "bin")
	require.NoError(t, os.MkdirAll(binDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "python"), []byte("#!/bin/sh\n"), 0o755))

	p := ExecProber{
		ProjectDir: project,
		Env:        environ.Map{},
		LookPath:   func(string) (string, error) { return "", errors.New("not found") },
	}
	exe, err := p.locate()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(binDir, "python"), exe)

	// Without a project venv, PATH lookup decides.
	p.ProjectDir = t.TempDir()
	p.LookPath = func(name string) (string, error) {
		if name == "python3" {
			return "/usr/bin/python3", nil
		}
		return "", errors.New("not found")
	}
	exe, err = p.locate()
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/python3", exe)
}

func TestLocate_NothingFound(t *testing.T) {
	p := ExecProber{
		ProjectDir: t.TempDir(),
		Env:        environ.Map{},
		LookPath:   func(string) (string, error) { return "", errors.New("not found") },
	}
	_, err := p.locate()
	assert.ErrorIs(t, err, ErrNotFound)
}
