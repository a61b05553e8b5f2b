// Package pyproject reads the dependency declarations of a pyproject.toml
// and evaluates version specifiers against installed versions.
package pyproject

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// defaultRequiresPython applies when the manifest declares no interpreter
// range of its own.
const defaultRequiresPython = ">=3.11"

// Document is the subset of pyproject.toml the audit consumes (PEP 621).
type Document struct {
	Project struct {
		Name           string   `toml:"name"`
		RequiresPython string   `toml:"requires-python"`
		Dependencies   []string `toml:"dependencies"`
	} `toml:"project"`
}

// Load decodes a pyproject.toml. A missing file surfaces as fs.ErrNotExist
// for the caller to turn into a notice.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &doc, nil
}

// RequiresPython returns the declared interpreter range, defaulted.
func (d *Document) RequiresPython() string {
	if d.Project.RequiresPython == "" {
		return defaultRequiresPython
	}
	return d.Project.RequiresPython
}

// Requirement is a parsed PEP 508-style dependency string: a project name
// and an optional version specifier. Extras and environment markers are
// accepted on input and discarded.
type Requirement struct {
	Name      string
	Specifier string
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?`)

// ParseRequirement splits a dependency string into name and specifier.
func ParseRequirement(raw string) (Requirement, error) {
	s := strings.TrimSpace(raw)
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}

	name := namePattern.FindString(s)
	if name == "" {
		return Requirement{}, fmt.Errorf("no project name in %q", raw)
	}
	rest := s[len(name):]

	if strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return Requirement{}, fmt.Errorf("unterminated extras in %q", raw)
		}
		rest = rest[end+1:]
	}

	spec := strings.TrimSpace(rest)
	spec = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(spec, "("), ")"))
	if spec != "" && !strings.ContainsAny(spec, "<>=!~") {
		return Requirement{}, fmt.Errorf("unrecognized specifier %q in %q", spec, raw)
	}
	return Requirement{Name: name, Specifier: spec}, nil
}
