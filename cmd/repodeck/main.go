// Package main implements the repodeck CLI for scanning and managing
// local repository collections.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/repodeck/internal/cache"
	"github.com/fyrsmithlabs/repodeck/internal/config"
	"github.com/fyrsmithlabs/repodeck/internal/logging"
	"github.com/fyrsmithlabs/repodeck/internal/scan"
	"github.com/fyrsmithlabs/repodeck/internal/scanner"
)

var (
	configPath string
	verbose    bool
	version    = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "repodeck",
	Short: "Scan and manage local repository collections",
	Long: `repodeck scans directory trees for git repositories and code projects,
keeps an aggregate view of their state, and runs bulk git operations
across them.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/repodeck/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// app bundles the wired components every command starts from.
type app struct {
	cfg         *config.Config
	logger      *zap.Logger
	cache       *cache.Service
	state       *scan.State
	coordinator *scan.Coordinator
}

// newApp loads configuration, builds the component graph, and hydrates the
// in-memory state from the cache.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	cacheDir, err := cfg.CacheDir()
	if err != nil {
		return nil, err
	}
	cacheSvc, err := cache.NewService(cacheDir, cfg.Cache.MaxHistory, logger.Named("cache"))
	if err != nil {
		return nil, fmt.Errorf("initializing cache: %w", err)
	}

	backend := scanner.New(scanner.Options{
		MaxDepth:  cfg.Scan.MaxDepth,
		SizeDepth: cfg.Scan.SizeDepth,
		SkipDirs:  cfg.Scan.SkipDirs,
	}, logger.Named("scanner"))

	state := scan.NewState()
	scan.Hydrate(ctx, state, cacheSvc, logger.Named("hydrate"))

	coordinator := scan.NewCoordinator(state, backend,
		scan.WithLogger(logger.Named("scan")),
		scan.WithSaver(cacheSvc),
	)

	return &app{
		cfg:         cfg,
		logger:      logger,
		cache:       cacheSvc,
		state:       state,
		coordinator: coordinator,
	}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}
