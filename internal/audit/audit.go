// Package audit checks a manifest's declared dependencies against the
// metadata of what is actually installed.
package audit

import (
	"regexp"
	"strings"

	"github.com/courselab/envcheck/internal/interpreter"
	"github.com/courselab/envcheck/internal/pymeta"
	"github.com/courselab/envcheck/internal/pyproject"
)

// Status classifies the audit outcome for one dependency.
type Status int

const (
	StatusOK Status = iota
	StatusMissing
	StatusVersionMismatch
	// StatusWrongInterpreter: the package is installed, but its path is
	// tagged with a different interpreter's major.minor. It is visible now
	// but belongs to another Python.
	StatusWrongInterpreter
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusMissing:
		return "Missing"
	case StatusVersionMismatch:
		return "Version mismatch"
	case StatusWrongInterpreter:
		return "Wrong Python version"
	default:
		return "Unknown"
	}
}

// Sentinel specifier values for dependencies without a usable one.
const (
	SpecifierAny      = "(any)"
	SpecifierUnparsed = "(unparsed)"
)

// Absent fills the installed/path columns when nothing was found.
const Absent = "-"

// Record is the audit outcome for one declared dependency.
type Record struct {
	Package   string
	Specifier string
	Installed string
	Path      string
	Status    Status
}

// Report bundles the per-dependency records with the interpreter-range
// verdict.
type Report struct {
	RequiresPython string
	PythonVersion  string
	PythonOK       bool
	Records        []Record
}

// Problems returns the records that need attention.
func (r *Report) Problems() []Record {
	var out []Record
	for _, rec := range r.Records {
		if rec.Status != StatusOK {
			out = append(out, rec)
		}
	}
	return out
}

var pathVersionTag = regexp.MustCompile(`python\d+\.\d+`)

// Run audits every declared dependency. A malformed requirement never
// aborts the batch; it is recorded with sentinel values instead.
func Run(doc *pyproject.Document, idx pymeta.Index, interp interpreter.Info) *Report {
	report := &Report{
		RequiresPython: doc.RequiresPython(),
		PythonVersion:  interp.Version,
		PythonOK:       satisfiesLeniently(interp.Version, doc.RequiresPython()),
	}

	for _, raw := range doc.Project.Dependencies {
		report.Records = append(report.Records, auditOne(raw, idx, interp))
	}
	return report
}

func auditOne(raw string, idx pymeta.Index, interp interpreter.Info) Record {
	rec := Record{Installed: Absent, Path: Absent, Status: StatusMissing}

	req, err := pyproject.ParseRequirement(raw)
	if err != nil {
		rec.Package = strings.TrimSpace(raw)
		rec.Specifier = SpecifierUnparsed
	} else {
		rec.Package = req.Name
		rec.Specifier = req.Specifier
		if rec.Specifier == "" {
			rec.Specifier = SpecifierAny
		}
	}

	dist, ok := idx.Lookup(rec.Package)
	if !ok {
		return rec
	}
	rec.Installed = dist.Version
	rec.Path = dist.Location
	if rec.Path == "" {
		rec.Path = "(unknown)"
	}

	// The path check takes priority over specifier checks: a right version
	// under the wrong interpreter is still broken.
	if wrongInterpreter(rec.Path, interp) {
		rec.Status = StatusWrongInterpreter
		return rec
	}

	rec.Status = StatusOK
	if rec.Specifier != SpecifierAny && rec.Specifier != SpecifierUnparsed &&
		strings.ContainsAny(rec.Specifier, "<>=") &&
		!satisfiesLeniently(dist.Version, rec.Specifier) {
		rec.Status = StatusVersionMismatch
	}
	return rec
}

// wrongInterpreter reports whether the install path carries pythonN.M tags
// and none of them match the running interpreter.
func wrongInterpreter(path string, interp interpreter.Info) bool {
	tags := pathVersionTag.FindAllString(strings.ToLower(path), -1)
	if len(tags) == 0 {
		return false
	}
	for _, tag := range tags {
		if tag == interp.VersionTag() {
			return false
		}
	}
	return true
}

// satisfiesLeniently gives the benefit of the doubt: a specifier or version
// the translator cannot handle is not reported as a mismatch. This is a
// diagnostic, not a resolver.
func satisfiesLeniently(version, specifier string) bool {
	ok, err := pyproject.Satisfies(version, specifier)
	if err != nil {
		return true
	}
	return ok
}
