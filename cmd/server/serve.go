package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"burgerlog/handlers"
	"burgerlog/worker"
)

const shutdownTimeout = 10 * time.Second

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, reviews, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	images, err := a.openImages(ctx)
	if err != nil {
		return err
	}

	handler, err := handlers.NewRouter(handlers.Deps{
		Reviews: reviews,
		Images:  images,
		Logger:  a.logger,
		Pages: handlers.PageOptions{
			APIBase:     a.cfg.UI.APIBase,
			DefaultLang: a.cfg.UI.DefaultLang,
		},
		AllowedOrigins: a.cfg.CORS.AllowedOrigins,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("server starting", zap.String("addr", srv.Addr), zap.String("driver", a.cfg.Database.Driver))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	if a.cfg.Worker.Enabled {
		g.Go(func() error {
			return worker.StartThumbnailWorker(gctx, reviews, images, worker.Options{
				Interval:    a.cfg.Worker.Interval,
				BatchSize:   a.cfg.Worker.BatchSize,
				Concurrency: a.cfg.Worker.Concurrency,
			}, a.logger.Named("worker"))
		})
	}
	return g.Wait()
}
