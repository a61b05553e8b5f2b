package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/courselab/envcheck/internal/config"
	"github.com/courselab/envcheck/internal/doctor"
	"github.com/courselab/envcheck/internal/report"
)

var (
	cfgFile string
	verbose bool

	projectDir  string
	envFile     string
	exampleFile string
	manifest    string
	noColor     bool
)

// rootCmd runs the whole diagnostic sequence; there are no subcommands to
// remember beyond "version".
var rootCmd = &cobra.Command{
	Use:   "envcheck",
	Short: "Diagnose a local Python project environment",
	Long: `envcheck verifies a project's local setup against its declared sources of
truth: the pyproject.toml manifest and the example.env template. It checks
the interpreter, virtual environment, declared dependencies, and .env
values, reports every mismatch with secrets masked, and never modifies
anything. Warnings do not affect the exit code; only a missing interpreter
does.`,
	Args: cobra.NoArgs,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		setupLogging()
	},
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runDiagnostics(cmd)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.envcheck.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.Flags().StringVar(&projectDir, "project-dir", ".", "project directory to diagnose")
	rootCmd.Flags().StringVar(&envFile, "env-file", "", "path of the .env file, relative to the project directory")
	rootCmd.Flags().StringVar(&exampleFile, "example-file", "", "path of the example-env template, relative to the project directory")
	rootCmd.Flags().StringVar(&manifest, "manifest", "", "path of the dependency manifest, relative to the project directory")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable ANSI colors in the report")
}

// initConfig loads configuration from the config file and environment.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			slog.Error("failed to find home directory", "error", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".envcheck")
	}

	viper.SetEnvPrefix("ENVCHECK")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("using config file", "file", viper.ConfigFileUsed())
	}
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	// TextHandler for CLI friendliness
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}

// runDiagnostics resolves settings and executes the run. Precedence, low
// to high: built-in defaults, the project's .envcheck.yaml, the home
// config / ENVCHECK_* environment, then flags given on the command line.
func runDiagnostics(cmd *cobra.Command) error {
	settings, err := config.Load(filepath.Join(projectDir, config.DefaultFileName))
	if err != nil {
		slog.Warn("ignoring project settings file", "error", err)
	}

	if viper.IsSet("env_file") {
		settings.EnvFile = viper.GetString("env_file")
	}
	if viper.IsSet("example_file") {
		settings.ExampleFile = viper.GetString("example_file")
	}
	if viper.IsSet("manifest") {
		settings.Manifest = viper.GetString("manifest")
	}
	if viper.IsSet("no_color") {
		settings.NoColor = viper.GetBool("no_color")
	}

	if cmd.Flags().Changed("env-file") {
		settings.EnvFile = envFile
	}
	if cmd.Flags().Changed("example-file") {
		settings.ExampleFile = exampleFile
	}
	if cmd.Flags().Changed("manifest") {
		settings.Manifest = manifest
	}
	if cmd.Flags().Changed("no-color") {
		settings.NoColor = noColor
	}

	printer := report.NewPrinter(os.Stdout)
	if settings.NoColor || os.Getenv("NO_COLOR") != "" {
		printer.EnableColor = false
	}

	res, err := doctor.Run(cmd.Context(), doctor.Options{
		ProjectDir: projectDir,
		Settings:   settings,
	}, printer)
	if err != nil {
		// The only fatal case: no usable interpreter. Remediation has
		// already been printed; exit non-zero without re-logging it.
		return err
	}

	slog.Debug("diagnostics finished", "run_id", res.RunID, "warnings", res.Warnings)
	return nil
}
