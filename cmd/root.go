package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bugtrackhq/bugtrack/internal/directory"
	"github.com/bugtrackhq/bugtrack/internal/models"
	"github.com/bugtrackhq/bugtrack/internal/output"
	"github.com/bugtrackhq/bugtrack/internal/session"
	"github.com/bugtrackhq/bugtrack/internal/storage"
	"github.com/bugtrackhq/bugtrack/internal/tracker"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui    *output.UI
	kv    storage.KV
	dir   *directory.Directory
	sess  *session.Manager
	track *tracker.Store

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "bugtrack",
	Short: "Bug tracker - issues, assignments, and time logging",
	Long: `bugtrack is a local issue tracker for a small team.
Log in as a known user, manage bugs and their workflow, log work
sessions against them, and review dashboards and time summaries.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardRun()
	},
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/bugtrack/config.yaml)")
}

func initConfig() {
	// If --config is explicitly set, use that file
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "bugtrack")
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("BUGTRACK")
	viper.AutomaticEnv()

	// Defaults via viper.SetDefault()
	home, _ := os.UserHomeDir()
	defaultConfigDir := filepath.Join(home, ".config", "bugtrack")

	viper.SetDefault("data_dir", defaultConfigDir)
	viper.SetDefault("db_path", filepath.Join(defaultConfigDir, "bugtrack.db"))
	viper.SetDefault("storage.backend", "sqlite")
	viper.SetDefault("auth.secret", "password")

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose
	dir = directory.Default()

	// Storage, session, and tracker initialize lazily so config and
	// version commands run without touching the data directory.
}

// getKV returns the shared snapshot store, initializing it on first call.
func getKV() (storage.KV, error) {
	if kv != nil {
		return kv, nil
	}

	switch backend := viper.GetString("storage.backend"); backend {
	case "sqlite":
		s, err := storage.NewSQLiteKV(viper.GetString("db_path"))
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		kv = s
	case "file":
		s, err := storage.NewFileKV(viper.GetString("data_dir"))
		if err != nil {
			return nil, fmt.Errorf("open data directory: %w", err)
		}
		kv = s
	default:
		return nil, fmt.Errorf("unknown storage backend: %s (use: sqlite, file)", backend)
	}
	return kv, nil
}

// getSession returns the shared session manager, restoring any persisted
// login on first call.
func getSession() (*session.Manager, error) {
	if sess != nil {
		return sess, nil
	}

	store, err := getKV()
	if err != nil {
		return nil, err
	}
	m, err := session.New(context.Background(), dir, store, viper.GetString("auth.secret"))
	if err != nil {
		return nil, err
	}
	sess = m
	return sess, nil
}

// getTracker returns the shared issue store, loading collections on first
// call.
func getTracker() (*tracker.Store, error) {
	if track != nil {
		return track, nil
	}

	store, err := getKV()
	if err != nil {
		return nil, err
	}
	t, err := tracker.New(context.Background(), store, dir)
	if err != nil {
		return nil, err
	}
	track = t
	return track, nil
}

// requireUser returns the active identity or an actionable error.
func requireUser() (models.User, error) {
	m, err := getSession()
	if err != nil {
		return models.User{}, err
	}
	u, ok := m.Current()
	if !ok {
		return models.User{}, fmt.Errorf("%w (run 'bugtrack login --user <username>')", session.ErrNotAuthenticated)
	}
	return u, nil
}
