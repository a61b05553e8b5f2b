// Package reconcile compares the three sources of environment truth: the
// template's declarations, the .env file on disk, and the live process
// environment.
package reconcile

import (
	"sort"
	"strings"

	"github.com/courselab/envcheck/internal/environ"
	"github.com/courselab/envcheck/internal/envfile"
	"github.com/courselab/envcheck/internal/mask"
)

// NotSet is the display string for a declared variable with no value.
const NotSet = "<not set>"

// Issue classifies a reconciliation finding for a required variable.
type Issue int

const (
	IssueNone Issue = iota
	// IssueMissingRequired: the variable is required but has no value.
	IssueMissingRequired
	// IssueStillPlaceholder: the variable is required and still equals the
	// template's placeholder value.
	IssueStillPlaceholder
)

// Entry is the reconciled view of one variable: what to show and, for
// required variables, what is wrong with it.
type Entry struct {
	Key     string
	Display string
	Issue   Issue
}

// Result is the full reconciliation of a template against the environment.
type Result struct {
	// Entries for declared variables, in the template's declaration order.
	Entries []Entry
	// Extras are variables the .env file defines that the template never
	// mentioned, sorted by key. They have no placeholder to compare
	// against, so they carry no issue.
	Extras []Entry
	// PairNotes are the flag/companion findings, one per pair with
	// something to report.
	PairNotes []PairNote
}

// Issues reports how many entries and pair notes describe a problem.
func (r Result) Issues() int {
	n := 0
	for _, e := range r.Entries {
		if e.Issue != IssueNone {
			n++
		}
	}
	for _, p := range r.PairNotes {
		if p.Status != PairEnabled {
			n++
		}
	}
	return n
}

// Reconcile classifies every declared variable against the environment,
// collects .env extras, and evaluates the flag/companion pairs. It runs
// after the .env file has been applied, so the provider holds the merged
// view the project's code will actually see.
func Reconcile(tmpl *envfile.Template, dotenv map[string]string, env environ.Provider, pairs []FlagPair) Result {
	var res Result

	for _, v := range tmpl.Variables {
		entry := Entry{Key: v.Name}
		current, ok := env.Lookup(v.Name)
		switch {
		case !ok:
			entry.Display = NotSet
			if v.Required {
				entry.Issue = IssueMissingRequired
			}
		default:
			entry.Display = mask.Value(v.Name, current, v.Example)
			if v.Required && current == v.Example {
				entry.Issue = IssueStillPlaceholder
			}
		}
		res.Entries = append(res.Entries, entry)
	}

	for _, key := range sortedKeys(dotenv) {
		if tmpl.Declares(key) {
			continue
		}
		entry := Entry{Key: key, Display: NotSet}
		if current, ok := env.Lookup(key); ok {
			entry.Display = mask.Value(key, current, "")
		}
		res.Extras = append(res.Extras, entry)
	}

	for _, pair := range pairs {
		if note, ok := checkPair(pair, tmpl, env); ok {
			res.PairNotes = append(res.PairNotes, note)
		}
	}

	return res
}

// checkPair applies the flag-gates-companion rule for a single pair.
func checkPair(pair FlagPair, tmpl *envfile.Template, env environ.Provider) (PairNote, bool) {
	flag := strings.ToLower(environ.Get(env, pair.Flag))
	key := environ.Get(env, pair.Companion)
	placeholder := tmpl.Example(pair.Companion)

	if flag == "true" {
		switch {
		case key == "":
			return PairNote{Pair: pair, Status: PairKeyMissing}, true
		case key == placeholder:
			return PairNote{Pair: pair, Status: PairKeyPlaceholder}, true
		default:
			return PairNote{Pair: pair, Status: PairEnabled}, true
		}
	}
	if key != "" && key != placeholder {
		return PairNote{Pair: pair, Status: PairFlagDisabled}, true
	}
	return PairNote{}, false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
