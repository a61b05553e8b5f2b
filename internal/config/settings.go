// Package config loads the optional project-local settings file.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/courselab/envcheck/internal/reconcile"
)

// DefaultFileName is looked up in the project directory.
const DefaultFileName = ".envcheck.yaml"

// Settings tunes where the checker looks and what it checks. Every field
// has a default; the file exists so course templates can ship overrides.
type Settings struct {
	EnvFile     string `yaml:"env_file"`
	ExampleFile string `yaml:"example_file"`
	Manifest    string `yaml:"manifest"`
	NoColor     bool   `yaml:"no_color"`

	// FlagPairs are checked in addition to the built-in
	// LANGSMITH_TRACING / LANGSMITH_API_KEY pair.
	FlagPairs []reconcile.FlagPair `yaml:"flag_pairs"`
}

// Default returns the conventional file names.
func Default() Settings {
	return Settings{
		EnvFile:     ".env",
		ExampleFile: "example.env",
		Manifest:    "pyproject.toml",
	}
}

// Load reads settings from path. A missing file is the normal case and
// returns defaults without error.
func Load(path string) (Settings, error) {
	settings := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("failed to read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("failed to parse settings: %w", err)
	}

	if settings.EnvFile == "" {
		settings.EnvFile = ".env"
	}
	if settings.ExampleFile == "" {
		settings.ExampleFile = "example.env"
	}
	if settings.Manifest == "" {
		settings.Manifest = "pyproject.toml"
	}
	return settings, nil
}

// Pairs returns the built-in flag/companion pair followed by any declared
// in the settings file.
func (s Settings) Pairs() []reconcile.FlagPair {
	return append(reconcile.DefaultFlagPairs(), s.FlagPairs...)
}
