package pyproject

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Satisfies reports whether an installed version falls inside a PEP 440
// specifier set. Evaluation is delegated to semver constraints after a
// syntax translation; versions are coerced to a numeric core first since
// PEP 440 allows segments (post/dev/local) semver has no notion of.
func Satisfies(version, specifier string) (bool, error) {
	constraint, err := translate(specifier)
	if err != nil {
		return false, err
	}
	v, err := coerce(version)
	if err != nil {
		return false, err
	}
	return constraint.Check(v), nil
}

// translate rewrites a comma-joined PEP 440 specifier set into constraint
// syntax: "~=" becomes an explicit bounded range, "==X.Y.*" wildcards map
// to x-ranges, and "===" degrades to plain equality on the numeric core.
func translate(specifier string) (*semver.Constraints, error) {
	var clauses []string
	for _, clause := range strings.Split(specifier, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		translated, err := translateClause(clause)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, translated...)
	}
	if len(clauses) == 0 {
		return nil, fmt.Errorf("empty specifier %q", specifier)
	}
	return semver.NewConstraint(strings.Join(clauses, ", "))
}

func translateClause(clause string) ([]string, error) {
	switch {
	case strings.HasPrefix(clause, "~="):
		return translateCompatible(strings.TrimSpace(clause[2:]))
	case strings.HasPrefix(clause, "==="):
		return []string{"=" + strings.TrimSpace(clause[3:])}, nil
	case strings.HasPrefix(clause, "=="):
		v := strings.TrimSpace(clause[2:])
		if strings.HasSuffix(v, ".*") {
			return []string{strings.TrimSuffix(v, ".*") + ".x"}, nil
		}
		return []string{"=" + v}, nil
	case strings.HasPrefix(clause, "!="):
		v := strings.TrimSpace(clause[2:])
		if strings.HasSuffix(v, ".*") {
			return []string{"!=" + strings.TrimSuffix(v, ".*") + ".x"}, nil
		}
		return []string{"!=" + v}, nil
	case strings.HasPrefix(clause, ">="), strings.HasPrefix(clause, "<="):
		return []string{clause[:2] + strings.TrimSpace(clause[2:])}, nil
	case strings.HasPrefix(clause, ">"), strings.HasPrefix(clause, "<"):
		return []string{clause[:1] + strings.TrimSpace(clause[1:])}, nil
	default:
		return nil, fmt.Errorf("unsupported clause %q", clause)
	}
}

// translateCompatible expands "~=X.Y[.Z]" to ">=X.Y[.Z], <upper" where the
// upper bound bumps the second-to-last declared component, per PEP 440.
func translateCompatible(base string) ([]string, error) {
	parts := strings.Split(base, ".")
	if len(parts) < 2 {
		return nil, fmt.Errorf("compatible release needs at least two components: ~=%s", base)
	}
	head := parts[:len(parts)-1]
	last, err := strconv.Atoi(head[len(head)-1])
	if err != nil {
		return nil, fmt.Errorf("compatible release bound in ~=%s: %w", base, err)
	}
	upper := append(append([]string{}, head[:len(head)-1]...), strconv.Itoa(last+1))
	return []string{">=" + base, "<" + strings.Join(upper, ".")}, nil
}

var versionCore = regexp.MustCompile(`^\d+(?:\.\d+){0,2}`)

// coerce parses a version, falling back to its leading numeric components
// when the full string is not valid semver (e.g. "1.26.4.post1").
func coerce(version string) (*semver.Version, error) {
	if v, err := semver.NewVersion(version); err == nil {
		return v, nil
	}
	core := versionCore.FindString(strings.TrimSpace(version))
	if core == "" {
		return nil, fmt.Errorf("unparseable version %q", version)
	}
	return semver.NewVersion(core)
}
