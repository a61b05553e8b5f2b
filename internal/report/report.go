// Package report renders diagnostic results as human-readable text. It
// holds no decision logic: every classification it prints was made by the
// packages that produced the data.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/courselab/envcheck/internal/audit"
	"github.com/courselab/envcheck/internal/interpreter"
	"github.com/courselab/envcheck/internal/mask"
	"github.com/courselab/envcheck/internal/reconcile"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

const bannerWidth = 70

// Printer writes the diagnostic report.
type Printer struct {
	writer      io.Writer
	EnableColor bool
}

// NewPrinter creates a printer. Color is on by default; the caller can
// disable it for files, pipes, or NO_COLOR.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{writer: w, EnableColor: true}
}

func (p *Printer) colorize(text, code string) string {
	if !p.EnableColor {
		return text
	}
	return code + text + colorReset
}

func (p *Printer) printf(format string, args ...any) {
	fmt.Fprintf(p.writer, format, args...)
}

func (p *Printer) println(args ...any) {
	fmt.Fprintln(p.writer, args...)
}

func (p *Printer) ok(text string)   { p.println(p.colorize("✓", colorGreen) + " " + text) }
func (p *Printer) warn(text string) { p.println(p.colorize("⚠", colorYellow) + "  " + text) }
func (p *Printer) info(text string) { p.println(p.colorize("ℹ", colorCyan) + "  " + text) }

// Banner prints a section heading between full-width rules.
func (p *Printer) Banner(title string) {
	rule := p.colorize(strings.Repeat("=", bannerWidth), colorGray)
	p.println(rule)
	p.println(p.colorize(title, colorBold))
	p.println(rule)
}

// Interpreter prints the early interpreter diagnostics.
func (p *Printer) Interpreter(info interpreter.Info, issues []string) {
	p.Banner("PYTHON ENVIRONMENT DIAGNOSTICS")
	p.printf("Python executable: %s\n", info.Executable)
	p.printf("Python version: %s\n", info.Version)
	p.printf("Platform: %s\n", info.Platform)
	p.println()
	p.printf("Environment paths:\n")
	p.printf("  prefix:      %s\n", info.Prefix)
	p.printf("  base prefix: %s\n", info.BasePrefix)
	p.println()

	if len(issues) == 0 {
		p.ok("interpreter checks passed")
		p.println()
		return
	}

	p.println(p.colorize("POTENTIAL ISSUES DETECTED:", colorBold))
	for _, issue := range issues {
		p.warn(issue)
	}
	p.println()
	p.println("RECOMMENDATION:")
	p.println("  Activate the virtual environment first:")
	p.println("    " + activateHint(info.Platform))
	p.println()
}

// Unavailable prints the fatal no-interpreter remediation. Nothing runs
// after this.
func (p *Printer) Unavailable(err error) {
	p.Banner("NO USABLE PYTHON INTERPRETER")
	p.printf("%s\n\n", err)
	p.println("Cannot proceed with the environment check.")
	p.println("SOLUTIONS:")
	p.println("  1. Create the project virtual environment:")
	p.println("       uv sync")
	p.println("  2. Or activate an existing one:")
	p.println("       source .venv/bin/activate  (.venv\\Scripts\\activate on Windows)")
	p.println("  3. Or install Python: https://www.python.org/downloads/")
}

// Venv prints the virtual-environment check.
func (p *Printer) Venv(issues []string, uvAvailable bool) {
	if len(issues) == 0 {
		p.ok("virtual environment is properly activated")
		if uvAvailable {
			p.ok("uv is available")
		}
		p.println()
		return
	}
	p.println("Virtual Environment Check:")
	for _, issue := range issues {
		p.warn(issue)
	}
	if !uvAvailable {
		p.info("'uv' command not found - this project recommends uv for package management")
		p.info("Install uv: https://docs.astral.sh/uv/")
	}
	p.println()
}

// ManualInstalls prints the PATH probes for template-declared executables.
func (p *Printer) ManualInstalls(found, missing []string) {
	if len(found) == 0 && len(missing) == 0 {
		return
	}
	p.println("Manual Installs Check:")
	for _, app := range found {
		p.ok(app)
	}
	for _, app := range missing {
		p.warn(app + " not found in PATH")
	}
	p.println()
}

// FileMissing prints the notice for an absent advisory input file.
func (p *Printer) FileMissing(path, purpose string) {
	p.printf("Did not find file %s.\n", path)
	p.printf("%s\n", purpose)
	p.println("This is just a check and is not required.")
	p.println()
}

// Conflicts prints pre-load environment conflicts with remediation. Secret
// values are masked on both sides.
func (p *Printer) Conflicts(conflicts []reconcile.Conflict, platform string) {
	if len(conflicts) == 0 {
		return
	}
	p.Banner("ENVIRONMENT VARIABLE CONFLICTS DETECTED")
	p.println("The following variables are already set in your system environment")
	p.println("and differ from your .env file. Loading .env does not override")
	p.println("existing variables, so the system values will silently win.")
	p.println()
	for _, c := range conflicts {
		p.printf("Variable: %s\n", p.colorize(c.Key, colorBold))
		p.printf("  System value: %s\n", conflictValue(c.Key, c.SystemValue))
		p.printf("  .env value:   %s\n", conflictValue(c.Key, c.FileValue))
		p.println()
	}
	p.println("SOLUTIONS:")
	p.println("  1. Do nothing and accept the system environment variable value.")
	p.println()
	p.println("  2. Unset the conflicting variables for this shell session:")
	for _, c := range conflicts {
		p.println("       " + unsetHint(c.Key, platform))
	}
	p.println()
	p.println("  3. Load the .env file with override semantics in your own code.")
	p.println()
	p.println("  4. Update your .env file or shell init so the values agree.")
	p.println()
}

// conflictValue masks secrets shown in the conflict report. Unlike the
// reconciliation display, short secrets here collapse to a bare ****.
func conflictValue(key, value string) string {
	if !strings.HasSuffix(key, "API_KEY") {
		return value
	}
	if len(value) > 4 {
		return mask.Secret(value)
	}
	return "****"
}

// Reconciliation prints the per-variable report, extras, and issues.
func (p *Printer) Reconciliation(res reconcile.Result) {
	p.println("Environment Variables:")
	for _, e := range res.Entries {
		p.printf("%s=%s\n", e.Key, e.Display)
	}

	if len(res.Extras) > 0 {
		p.println()
		p.println("Additional variables in .env (not in the example file):")
		for _, e := range res.Extras {
			p.printf("%s=%s\n", e.Key, e.Display)
		}
	}

	for _, note := range res.PairNotes {
		if note.Status == reconcile.PairEnabled {
			p.println()
			p.ok(fmt.Sprintf("%s is enabled and %s is set", note.Pair.Flag, note.Pair.Companion))
		}
	}

	issues := reconcileIssues(res)
	if len(issues) > 0 {
		p.println()
		p.println("Issues found:")
		for _, issue := range issues {
			p.warn("  " + issue)
		}
	}
	p.println()
}

func reconcileIssues(res reconcile.Result) []string {
	var issues []string
	for _, e := range res.Entries {
		switch e.Issue {
		case reconcile.IssueMissingRequired:
			issues = append(issues, fmt.Sprintf("%s is required but not set", e.Key))
		case reconcile.IssueStillPlaceholder:
			issues = append(issues, fmt.Sprintf("%s still has the example/placeholder value", e.Key))
		}
	}
	for _, note := range res.PairNotes {
		switch note.Status {
		case reconcile.PairKeyMissing:
			issues = append(issues, fmt.Sprintf("%s is enabled but %s is not set", note.Pair.Flag, note.Pair.Companion))
		case reconcile.PairKeyPlaceholder:
			issues = append(issues, fmt.Sprintf("%s is enabled but %s still has the example/placeholder value", note.Pair.Flag, note.Pair.Companion))
		case reconcile.PairFlagDisabled:
			issues = append(issues, fmt.Sprintf("%s is set, but %s is disabled", note.Pair.Companion, note.Pair.Flag))
		}
	}
	return issues
}

// Audit prints the dependency table and its problem list.
func (p *Printer) Audit(rep *audit.Report, executable string) {
	verdict := "satisfies"
	if !rep.PythonOK {
		verdict = p.colorize("DOES NOT satisfy", colorRed)
	}
	p.printf("Python %s %s requires-python: %s\n", rep.PythonVersion, verdict, rep.RequiresPython)

	if len(rep.Records) == 0 {
		p.println("No [project].dependencies found in the manifest.")
		p.printf("Executable: %s\n", executable)
		p.println()
		return
	}

	headers := []string{"package", "required", "installed", "status", "path"}
	rows := make([][]string, 0, len(rep.Records))
	for _, r := range rep.Records {
		rows = append(rows, []string{r.Package, r.Specifier, r.Installed, r.Status.String(), shortPath(r.Path, 80)})
	}
	p.table(headers, rows)

	if problems := rep.Problems(); len(problems) > 0 {
		p.println()
		p.println("Issues detected:")
		for _, r := range problems {
			p.warn(fmt.Sprintf("%s: %s (required %s, installed %s, path %s)",
				r.Package, r.Status, r.Specifier, r.Installed, r.Path))
		}
	}

	p.println()
	p.println("Environment:")
	p.printf("- Executable: %s\n", executable)
	p.println()
}

// table prints an aligned column table with a separator under the header.
func (p *Printer) table(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	p.println(formatRow(headers, widths))
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	p.println(formatRow(sep, widths))
	for _, row := range rows {
		p.println(formatRow(row, widths))
	}
}

func formatRow(cols []string, widths []int) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c + strings.Repeat(" ", widths[i]-len(c))
	}
	return strings.TrimRight(strings.Join(parts, " | "), " ")
}

// shortPath keeps the tail of long paths, which is the informative end.
func shortPath(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "…" + s[len(s)-(max-1):]
}

func activateHint(platform string) string {
	if platform == "win32" {
		return `.venv\Scripts\activate`
	}
	return "source .venv/bin/activate"
}

func unsetHint(key, platform string) string {
	if platform == "win32" {
		return "set " + key + "="
	}
	return "unset " + key
}
