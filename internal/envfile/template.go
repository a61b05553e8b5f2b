// Package envfile parses example-env templates and .env files.
//
// A template (conventionally example.env) declares the variables a project
// expects, with placeholder values. Comment lines double as lightweight
// section markers: a comment containing "required" (case-insensitive) opens
// a required section and any other comment closes it.
package envfile

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// manualInstallsPrefix introduces the comma-separated list of executables
// the template asks the checker to look up on PATH.
const manualInstallsPrefix = "# Manual installs for checking:"

// sectionState drives the required-section automaton. Sections do not nest
// and do not survive an unrelated comment line.
type sectionState int

const (
	outsideRequired sectionState = iota
	insideRequired
)

// Variable is one KEY=value declaration from a template, in file order.
type Variable struct {
	Name     string
	Example  string
	Required bool
}

// Template is the parsed form of an example-env file.
type Template struct {
	// Variables in declaration order. A duplicated name keeps its first
	// position but the last declaration wins for value and required flag.
	Variables []Variable

	// ManualInstalls lists executables to probe on PATH, taken from the
	// first "# Manual installs for checking: a, b" comment.
	ManualInstalls []string

	index map[string]int
}

// ParseTemplate reads a template file. A missing file is expected for
// projects that ship no template; it yields (nil, fs.ErrNotExist) for the
// caller to turn into a notice.
func ParseTemplate(path string) (*Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTemplateReader(f), nil
}

// ParseTemplateReader parses template content from r. Blank and malformed
// lines are ignored; parsing never fails. A nil reader yields an empty
// template, the neutral result for a project without one.
func ParseTemplateReader(r io.Reader) *Template {
	t := &Template{index: make(map[string]int)}
	if r == nil {
		return t
	}
	state := outsideRequired

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "#"):
			if t.ManualInstalls == nil && strings.HasPrefix(line, manualInstallsPrefix) {
				t.ManualInstalls = splitManualInstalls(line)
			}
			if strings.Contains(strings.ToLower(line), "required") {
				state = insideRequired
			} else {
				state = outsideRequired
			}
		case strings.Contains(line, "="):
			name, value, _ := strings.Cut(line, "=")
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			t.record(Variable{
				Name:     name,
				Example:  unquote(strings.TrimSpace(value)),
				Required: state == insideRequired,
			})
		}
	}
	return t
}

// record keeps declaration order while letting the last duplicate win.
func (t *Template) record(v Variable) {
	if i, ok := t.index[v.Name]; ok {
		t.Variables[i] = v
		return
	}
	t.index[v.Name] = len(t.Variables)
	t.Variables = append(t.Variables, v)
}

// Lookup returns the declared variable for name.
func (t *Template) Lookup(name string) (Variable, bool) {
	if t == nil {
		return Variable{}, false
	}
	i, ok := t.index[name]
	if !ok {
		return Variable{}, false
	}
	return t.Variables[i], true
}

// Example returns the placeholder value for name, or "" when undeclared.
func (t *Template) Example(name string) string {
	v, _ := t.Lookup(name)
	return v.Example
}

// Declares reports whether name appears in the template.
func (t *Template) Declares(name string) bool {
	_, ok := t.Lookup(name)
	return ok
}

// Declared returns name -> placeholder for every declared variable.
func (t *Template) Declared() map[string]string {
	out := make(map[string]string, len(t.Variables))
	for _, v := range t.Variables {
		out[v.Name] = v.Example
	}
	return out
}

// RequiredValues returns name -> placeholder for the required subset.
func (t *Template) RequiredValues() map[string]string {
	out := make(map[string]string)
	for _, v := range t.Variables {
		if v.Required {
			out[v.Name] = v.Example
		}
	}
	return out
}

// unquote strips exactly one layer of matching single or double quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func splitManualInstalls(line string) []string {
	_, list, _ := strings.Cut(line, ":")
	var apps []string
	for _, app := range strings.Split(list, ",") {
		if app = strings.TrimSpace(app); app != "" {
			apps = append(apps, app)
		}
	}
	return apps
}
