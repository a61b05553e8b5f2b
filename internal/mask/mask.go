// Package mask decides how environment values are displayed in reports.
package mask

import "strings"

// secretSuffix marks variable names whose values are redacted in output.
const secretSuffix = "API_KEY"

// Value returns the display form of an environment value.
//
// Boolean-ish values come back lowercased and are never masked. Values whose
// name does not end in API_KEY are shown in full. A secret that still equals
// its template placeholder is also shown in full, so an unedited placeholder
// is visibly obvious. Everything else keeps only its last four characters
// behind a **** prefix.
func Value(name, value, placeholder string) string {
	lower := strings.ToLower(value)
	if lower == "true" || lower == "false" {
		return lower
	}
	if !strings.HasSuffix(name, secretSuffix) {
		return value
	}
	if placeholder != "" && value == placeholder {
		return value
	}
	return Secret(value)
}

// Secret masks a value unconditionally, keeping the last four characters
// when there are more than four. Shorter values are kept whole behind the
// prefix rather than pretending four characters were hidden, which does
// leak short secrets entirely.
func Secret(value string) string {
	if len(value) > 4 {
		return "****" + value[len(value)-4:]
	}
	return "****" + value
}
