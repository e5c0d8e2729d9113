// Package worker backfills thumbnails for review photos stored before
// thumbnails existed or whose thumbnail was lost.
package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"burgerlog/media"
	"burgerlog/models"
)

const (
	DefaultBatchSize   = 200
	DefaultConcurrency = 4
	DefaultInterval    = time.Minute
)

// ReviewSource pages through reviews carrying an image.
type ReviewSource interface {
	ListWithImages(ctx context.Context, afterID int64, limit int) ([]models.Review, error)
}

// Thumbnailer creates a missing thumbnail for an image address.
type Thumbnailer interface {
	EnsureThumbnail(ctx context.Context, url string) (bool, error)
}

// Options tunes the worker. Zero values fall back to the defaults.
type Options struct {
	Interval    time.Duration
	BatchSize   int
	Concurrency int
}

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	return o
}

// StartThumbnailWorker runs a backfill pass immediately and then once every
// interval until ctx is cancelled. It blocks; callers run it in its own
// goroutine or errgroup.
func StartThumbnailWorker(ctx context.Context, reviews ReviewSource, thumbs Thumbnailer, opts Options, logger *zap.Logger) error {
	opts = opts.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("starting thumbnail worker",
		zap.Int("batch", opts.BatchSize),
		zap.Int("concurrency", opts.Concurrency),
		zap.Duration("interval", opts.Interval))

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	for {
		created, err := Backfill(ctx, reviews, thumbs, opts, logger)
		switch {
		case ctx.Err() != nil:
			logger.Info("thumbnail worker stopped")
			return nil
		case err != nil:
			logger.Error("thumbnail pass failed", zap.Error(err))
		case created > 0:
			logger.Info("thumbnails created", zap.Int("count", created))
		}

		select {
		case <-ctx.Done():
			logger.Info("thumbnail worker stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Backfill makes one pass over every review with an image and creates the
// thumbnails that are missing. It returns how many were written. Failures on
// single images are logged and skipped; only listing errors abort the pass.
func Backfill(ctx context.Context, reviews ReviewSource, thumbs Thumbnailer, opts Options, logger *zap.Logger) (int, error) {
	opts = opts.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	total := 0
	var afterID int64
	for {
		batch, err := reviews.ListWithImages(ctx, afterID, opts.BatchSize)
		if err != nil {
			return total, err
		}
		if len(batch) == 0 {
			return total, nil
		}

		created := make([]bool, len(batch))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Concurrency)
		for i, r := range batch {
			g.Go(func() error {
				ok, err := thumbs.EnsureThumbnail(gctx, r.ImageURL)
				switch {
				case errors.Is(err, media.ErrNoEncoder):
					logger.Debug("thumbnail format not writable", zap.Int64("review", r.ID), zap.String("image", r.ImageURL))
				case err != nil:
					logger.Warn("thumbnail failed", zap.Int64("review", r.ID), zap.String("image", r.ImageURL), zap.Error(err))
				}
				created[i] = ok
				return nil
			})
		}
		_ = g.Wait()

		for _, ok := range created {
			if ok {
				total++
			}
		}
		if err := ctx.Err(); err != nil {
			return total, err
		}
		afterID = batch[len(batch)-1].ID
		if len(batch) < opts.BatchSize {
			return total, nil
		}
	}
}
