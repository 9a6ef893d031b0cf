package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pders01/homepage/internal/config"
	"github.com/pders01/homepage/internal/debuglog"
	"github.com/pders01/homepage/internal/storage"
)

type rootOptions struct {
	configPath string
	dbPath     string
	logLevel   string
	ephemeral  bool
	quiet      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "homepage",
		Short:         "Footer ticker and tooltip surface of a personal homepage",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flags.StringVar(&opts.dbPath, "db", "", "Path to cache database (overrides config)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error, off")
	flags.BoolVar(&opts.ephemeral, "ephemeral", false, "Keep the feed cache in memory only")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Skip startup banner")

	root.AddCommand(
		newTickerCmd(opts),
		newPreviewCmd(opts),
		newConfigCmd(),
		newCacheCmd(opts),
		newVersionCmd(),
	)
	return root
}

// loadConfig reads the configuration, applies flag overrides, validates
// it and starts logging.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.dbPath != "" {
		cfg.Database.Path = o.dbPath
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	level := debuglog.ParseLogLevel(cfg.Log.Level)
	if level != debuglog.LevelOff {
		if err := debuglog.Setup(level, cfg.Log.Path); err != nil {
			return nil, fmt.Errorf("setting up log: %w", err)
		}
	}
	return cfg, nil
}

// openKV returns the cache backend and a function that releases it.
func (o *rootOptions) openKV(cfg *config.Config) (storage.KV, func(), error) {
	if o.ephemeral {
		return storage.NewMemoryKV(), func() {}, nil
	}
	store, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

func openStore(cfg *config.Config) (*storage.Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	return storage.NewStoreWithTimeout(cfg.Database.Path, cfg.Database.Timeout)
}
