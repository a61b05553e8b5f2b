package reconcile

import (
	"sort"

	"github.com/courselab/envcheck/internal/environ"
)

// Conflict records a key whose live environment value disagrees with the
// value declared in the .env file. The loader never overrides existing
// keys, so the system value silently wins unless the user intervenes.
type Conflict struct {
	Key         string
	SystemValue string
	FileValue   string
}

// DetectConflicts compares the .env file's declarations against the live
// environment. It must run before the file is applied; afterwards the
// pre-load state it reports on is gone.
func DetectConflicts(fileVars map[string]string, env environ.Provider) []Conflict {
	keys := make([]string, 0, len(fileVars))
	for k := range fileVars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var conflicts []Conflict
	for _, k := range keys {
		sys, ok := env.Lookup(k)
		if ok && sys != fileVars[k] {
			conflicts = append(conflicts, Conflict{Key: k, SystemValue: sys, FileValue: fileVars[k]})
		}
	}
	return conflicts
}
