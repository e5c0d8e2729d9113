package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"burgerlog/config"
	"burgerlog/database"
	"burgerlog/media"
	"burgerlog/store"
)

// app is the state shared by every command once the config is loaded.
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "burgerlog",
		Short: "Personal hamburger review log",
		Long: `burgerlog serves a small web app for recording and browsing hamburger
reviews, and moves the review collection in and out as JSON.

Run without a subcommand to start the server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (json, yaml or toml)")

	root.AddCommand(
		a.serveCmd(),
		a.exportCmd(),
		a.importCmd(),
		a.seedCmd(),
		a.thumbnailsCmd(),
	)
	return root
}

func (a *app) load() error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	zc := zap.NewProductionConfig()
	if cfg.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}
	zc.Level = level
	a.logger, err = zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// openStore connects to and migrates the configured database.
func (a *app) openStore(ctx context.Context) (*sql.DB, *store.ReviewStore, error) {
	db, err := database.Connect(a.cfg.Database.Driver, a.cfg.Database.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(ctx, db, a.cfg.Database.Driver); err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, store.NewReviewStore(db, a.cfg.Database.Driver), nil
}

// openImages builds the image store for the configured backend.
func (a *app) openImages(ctx context.Context) (*media.Store, error) {
	var backend media.Backend
	switch a.cfg.Uploads.Backend {
	case config.BackendS3:
		s3, err := media.NewS3Backend(ctx, a.cfg.S3.Region, a.cfg.S3.Bucket, a.cfg.S3.Prefix, a.cfg.S3.PublicURL)
		if err != nil {
			return nil, err
		}
		backend = s3
	default:
		local, err := media.NewLocalBackend(a.cfg.Uploads.Dir, "/uploads/")
		if err != nil {
			return nil, err
		}
		backend = local
	}
	return media.NewStore(backend, a.cfg.Uploads.MaxBytes, a.logger.Named("media")), nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
