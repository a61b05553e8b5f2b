// Package interpreter locates and probes the Python interpreter a project
// resolves to. The probe is the only place the tool runs a subprocess.
package interpreter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/courselab/envcheck/internal/environ"
)

// ErrNotFound reports that no usable interpreter could be located. Callers
// treat it as fatal: nothing downstream can be checked without one.
var ErrNotFound = errors.New("no python interpreter found")

// Info is a snapshot of interpreter state, taken once per run.
type Info struct {
	Executable   string
	Version      string // "3.12.4"
	Major, Minor int
	Prefix       string
	BasePrefix   string
	Platform     string // sys.platform: "linux", "darwin", "win32"
	SitePackages []string
}

// InVirtualEnv reports whether the interpreter runs inside a venv, using
// the prefix/base_prefix split venvs produce.
func (i Info) InVirtualEnv() bool {
	return i.Prefix != "" && i.Prefix != i.BasePrefix
}

// VersionTag is the "pythonN.M" form install paths embed.
func (i Info) VersionTag() string {
	return fmt.Sprintf("python%d.%d", i.Major, i.Minor)
}

// Prober resolves interpreter state.
type Prober interface {
	Probe(ctx context.Context) (Info, error)
}

// probeScript prints one field per line; parseProbe consumes it in order.
const probeScript = `import sys, sysconfig
print("%d.%d.%d" % sys.version_info[:3])
print(sys.executable)
print(sys.prefix)
print(sys.base_prefix)
print(sys.platform)
print(sysconfig.get_paths()["purelib"])
`

// ExecProber finds an interpreter and runs it once to capture its state.
// Candidates, in order: $VIRTUAL_ENV, the project-local .venv, then
// python3/python on PATH.
type ExecProber struct {
	ProjectDir string
	Env        environ.Provider
	// LookPath is swappable for tests; nil means exec.LookPath.
	LookPath func(file string) (string, error)
}

func (p ExecProber) Probe(ctx context.Context) (Info, error) {
	exe, err := p.locate()
	if err != nil {
		return Info{}, err
	}

	out, err := exec.CommandContext(ctx, exe, "-c", probeScript).Output()
	if err != nil {
		return Info{}, fmt.Errorf("probing %s: %w", exe, err)
	}
	return parseProbe(exe, string(out))
}

func (p ExecProber) locate() (string, error) {
	lookPath := p.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	env := p.Env
	if env == nil {
		env = environ.OS{}
	}
	if venv := environ.Get(env, "VIRTUAL_ENV"); venv != "" {
		if exe := venvPython(venv); exists(exe) {
			return exe, nil
		}
	}
	if exe := venvPython(filepath.Join(p.ProjectDir, ".venv")); exists(exe) {
		return exe, nil
	}
	for _, name := range []string{"python3", "python"} {
		if exe, err := lookPath(name); err == nil {
			return exe, nil
		}
	}
	return "", ErrNotFound
}

// ExpectedVenvPython is where the project-local venv's interpreter lives.
func ExpectedVenvPython(projectDir string) string {
	return venvPython(filepath.Join(projectDir, ".venv"))
}

func venvPython(venvDir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(venvDir, "Scripts", "python.exe")
	}
	return filepath.Join(venvDir, "bin", "python")
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func parseProbe(exe, out string) (Info, error) {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 6 {
		return Info{}, fmt.Errorf("short probe output from %s: %q", exe, out)
	}
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	info := Info{
		Executable:   lines[1],
		Version:      lines[0],
		Prefix:       lines[2],
		BasePrefix:   lines[3],
		Platform:     lines[4],
		SitePackages: []string{lines[5]},
	}
	if info.Executable == "" {
		info.Executable = exe
	}

	parts := strings.SplitN(info.Version, ".", 3)
	if len(parts) < 2 {
		return Info{}, fmt.Errorf("unexpected version %q from %s", info.Version, exe)
	}
	var err error
	if info.Major, err = strconv.Atoi(parts[0]); err != nil {
		return Info{}, fmt.Errorf("unexpected version %q from %s", info.Version, exe)
	}
	if info.Minor, err = strconv.Atoi(parts[1]); err != nil {
		return Info{}, fmt.Errorf("unexpected version %q from %s", info.Version, exe)
	}
	return info, nil
}
