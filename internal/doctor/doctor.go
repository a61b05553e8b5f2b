// Package doctor orchestrates the diagnostic run: interpreter probe, venv
// and PATH checks, conflict detection, the .env load, reconciliation, and
// the dependency audit, in that order. The ordering matters once: conflicts
// must be observed before the .env file is applied.
package doctor

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/courselab/envcheck/internal/audit"
	"github.com/courselab/envcheck/internal/config"
	"github.com/courselab/envcheck/internal/environ"
	"github.com/courselab/envcheck/internal/envfile"
	"github.com/courselab/envcheck/internal/interpreter"
	"github.com/courselab/envcheck/internal/pymeta"
	"github.com/courselab/envcheck/internal/pyproject"
	"github.com/courselab/envcheck/internal/reconcile"
	"github.com/courselab/envcheck/internal/report"
)

// Supported interpreter range for the early diagnostics. The manifest's
// requires-python is authoritative later; this catches gross mismatches
// before anything else runs.
const (
	minSupportedMinor = 12
	maxSupportedMinor = 14 // exclusive
)

// Options wires the run. Zero-value collaborators get real implementations.
type Options struct {
	ProjectDir string
	Settings   config.Settings

	Env    environ.Provider
	Prober interpreter.Prober
	// Index overrides the site-packages scan, for tests.
	Index pymeta.Index
	// LookPath overrides exec.LookPath, for tests.
	LookPath func(file string) (string, error)
}

// Result summarizes one diagnostic run.
type Result struct {
	RunID       uuid.UUID
	StartedAt   time.Time
	Interpreter interpreter.Info
	Conflicts   []reconcile.Conflict
	Reconciled  reconcile.Result
	Audit       *audit.Report
	Warnings    int
}

// Run executes the full sequence, printing each stage as it completes.
// It returns an error only for the fatal no-interpreter case; warnings
// accumulate in the result and never fail the run.
func Run(ctx context.Context, opts Options, printer *report.Printer) (*Result, error) {
	if opts.Env == nil {
		opts.Env = environ.OS{}
	}
	if opts.LookPath == nil {
		opts.LookPath = exec.LookPath
	}
	if opts.Prober == nil {
		opts.Prober = interpreter.ExecProber{ProjectDir: opts.ProjectDir, Env: opts.Env}
	}

	res := &Result{RunID: uuid.New(), StartedAt: time.Now()}
	slog.Debug("starting diagnostic run", "run_id", res.RunID, "project_dir", opts.ProjectDir)

	interp, err := opts.Prober.Probe(ctx)
	if err != nil {
		printer.Unavailable(err)
		return nil, fmt.Errorf("environment unavailable: %w", err)
	}
	res.Interpreter = interp
	slog.Debug("interpreter probed", "executable", interp.Executable, "version", interp.Version)

	interpIssues := interpreterIssues(interp, opts.ProjectDir)
	printer.Interpreter(interp, interpIssues)
	res.Warnings += len(interpIssues)

	venvIssues := venvIssues(interp, opts.ProjectDir)
	uvAvailable := pathHas(opts.LookPath, "uv")
	printer.Venv(venvIssues, uvAvailable)
	res.Warnings += len(venvIssues)

	examplePath := filepath.Join(opts.ProjectDir, opts.Settings.ExampleFile)
	template, err := envfile.ParseTemplate(examplePath)
	templateMissing := err != nil
	if templateMissing {
		template = envfile.ParseTemplateReader(nil)
	}

	found, missing := probeManualInstalls(opts.LookPath, template.ManualInstalls)
	printer.ManualInstalls(found, missing)
	res.Warnings += len(missing)

	envPath := filepath.Join(opts.ProjectDir, opts.Settings.EnvFile)
	dotenv, err := envfile.ReadDotenv(envPath)
	if err != nil {
		slog.Warn("skipping .env checks", "error", err)
		dotenv = map[string]string{}
	}

	// Conflicts are only visible before the load; order is load-bearing.
	res.Conflicts = reconcile.DetectConflicts(dotenv, opts.Env)
	printer.Conflicts(res.Conflicts, interp.Platform)
	res.Warnings += len(res.Conflicts)

	opts.Env.Apply(dotenv)
	slog.Debug("applied .env file", "path", envPath, "keys", len(dotenv))

	if templateMissing {
		printer.FileMissing(examplePath, "This is used to double check the key settings for the project.")
	} else {
		res.Reconciled = reconcile.Reconcile(template, dotenv, opts.Env, opts.Settings.Pairs())
		printer.Reconciliation(res.Reconciled)
		res.Warnings += res.Reconciled.Issues()
	}

	manifestPath := filepath.Join(opts.ProjectDir, opts.Settings.Manifest)
	doc, err := pyproject.Load(manifestPath)
	if err != nil {
		printer.FileMissing(manifestPath, "This is used to audit the project's declared dependencies.")
		return res, nil
	}

	idx := opts.Index
	if idx == nil {
		idx = pymeta.ScanSitePackages(interp.SitePackages)
	}
	res.Audit = audit.Run(doc, idx, interp)
	printer.Audit(res.Audit, interp.Executable)
	res.Warnings += len(res.Audit.Problems())
	if !res.Audit.PythonOK {
		res.Warnings++
	}

	slog.Debug("diagnostic run complete", "run_id", res.RunID, "warnings", res.Warnings)
	return res, nil
}

// interpreterIssues covers the early checks: venv membership, the expected
// .venv location, and the gross version range.
func interpreterIssues(info interpreter.Info, projectDir string) []string {
	var issues []string

	expected := interpreter.ExpectedVenvPython(projectDir)
	switch {
	case !info.InVirtualEnv():
		issues = append(issues,
			"Not running in a virtual environment",
			"This may cause import errors if required packages are not installed")
	case !samePath(info.Executable, expected):
		issues = append(issues,
			"Python executable is not in the expected .venv location",
			fmt.Sprintf("Expected: %s", expected),
			fmt.Sprintf("Actual:   %s", info.Executable))
	}

	switch {
	case info.Major < 3 || (info.Major == 3 && info.Minor < minSupportedMinor):
		issues = append(issues, fmt.Sprintf("Python %s is below minimum required version 3.%d", info.Version, minSupportedMinor))
	case info.Major == 3 && info.Minor >= maxSupportedMinor:
		issues = append(issues, fmt.Sprintf("Python %s is above maximum supported version (< 3.%d)", info.Version, maxSupportedMinor))
	}

	return issues
}

func venvIssues(info interpreter.Info, projectDir string) []string {
	var issues []string
	if !info.InVirtualEnv() {
		return append(issues,
			"Virtual environment is not activated",
			"Run: source .venv/bin/activate  (or .venv\\Scripts\\activate on Windows)")
	}
	expected, err := filepath.Abs(filepath.Join(projectDir, ".venv"))
	if err == nil && !samePath(info.Prefix, expected) {
		issues = append(issues,
			fmt.Sprintf("Activated venv (%s) doesn't match expected path (%s)", info.Prefix, expected))
	}
	return issues
}

func probeManualInstalls(lookPath func(string) (string, error), apps []string) (found, missing []string) {
	for _, app := range apps {
		if pathHas(lookPath, app) {
			found = append(found, app)
		} else {
			missing = append(missing, app)
		}
	}
	return found, missing
}

func pathHas(lookPath func(string) (string, error), app string) bool {
	_, err := lookPath(app)
	return err == nil
}

func samePath(a, b string) bool {
	ra, err := filepath.EvalSymlinks(a)
	if err != nil {
		ra = filepath.Clean(a)
	}
	rb, err := filepath.EvalSymlinks(b)
	if err != nil {
		rb = filepath.Clean(b)
	}
	return ra == rb
}
