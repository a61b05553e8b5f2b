// Package environ abstracts process-environment access so the diagnostic
// core can run against synthetic environments in tests without mutating
// the real one.
package environ

import "os"

// Provider is a read view over an environment plus the single conventional
// write the tool performs: applying a .env file without overriding keys
// that are already set.
type Provider interface {
	Lookup(key string) (string, bool)
	Apply(vars map[string]string)
}

// Get returns the value for key or "" when unset.
func Get(p Provider, key string) string {
	v, _ := p.Lookup(key)
	return v
}

// OS is the Provider backed by the real process environment.
type OS struct{}

func (OS) Lookup(key string) (string, bool) { return os.LookupEnv(key) }

// Apply sets only keys that are not already present, matching the
// convention of dotenv loaders: a pre-existing system value wins.
func (OS) Apply(vars map[string]string) {
	for k, v := range vars {
		if _, ok := os.LookupEnv(k); !ok {
			os.Setenv(k, v)
		}
	}
}

// Map is an in-memory Provider for tests.
type Map map[string]string

func (m Map) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m Map) Apply(vars map[string]string) {
	for k, v := range vars {
		if _, ok := m[k]; !ok {
			m[k] = v
		}
	}
}
