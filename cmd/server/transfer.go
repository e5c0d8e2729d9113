package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jaswdr/faker"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"burgerlog/handlers"
	"burgerlog/models"
	"burgerlog/store"
	"burgerlog/worker"
)

func newBar(w io.Writer, max int64, desc string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(max,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (a *app) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write every review to a JSON file",
		Long: `Write every review to a JSON file. The file defaults to
burger_reviews_YYYY-MM-DD.json in the current directory; "-" writes to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := handlers.ExportFilename(time.Now())
			if len(args) == 1 {
				name = args[0]
			}

			db, reviews, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			if name == "-" {
				return reviews.ExportAll(cmd.Context(), cmd.OutOrStdout())
			}

			f, err := os.Create(name)
			if err != nil {
				return err
			}
			bar := progressbar.NewOptions64(-1,
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionSetDescription("exporting"),
				progressbar.OptionShowBytes(true),
				progressbar.OptionClearOnFinish(),
			)
			if err := reviews.ExportAll(cmd.Context(), io.MultiWriter(f, bar)); err != nil {
				f.Close()
				return err
			}
			_ = bar.Finish()
			if err := f.Close(); err != nil {
				return err
			}
			a.logger.Info("export written", zap.String("file", name))
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Append the reviews of a JSON export",
		Long: `Append the reviews of a JSON export. Identifiers in the file are
discarded. Nothing is written unless every record is valid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			db, reviews, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			var bar *progressbar.ProgressBar
			n, err := reviews.ImportAll(cmd.Context(), f, store.ImportOptions{
				Progress: func(done, total int) {
					if bar == nil {
						bar = newBar(cmd.ErrOrStderr(), int64(total), "importing")
					}
					_ = bar.Set(done)
				},
			})
			if bar != nil {
				_ = bar.Finish()
			}
			if err != nil {
				return err
			}
			a.logger.Info("import finished", zap.String("file", args[0]), zap.Int("imported", n))
			fmt.Fprintf(cmd.OutOrStdout(), "Successfully imported %d reviews\n", n)
			return nil
		},
	}
}

func (a *app) seedCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert randomly generated reviews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("--count must be positive")
			}
			db, reviews, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			bar := newBar(cmd.ErrOrStderr(), int64(count), "seeding")
			for _, r := range fakeReviews(faker.New(), count, time.Now()) {
				if _, err := reviews.Create(cmd.Context(), r); err != nil {
					return err
				}
				_ = bar.Add(1)
			}
			_ = bar.Finish()
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d reviews\n", count)
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 20, "number of reviews to insert")
	return cmd
}

// fakeReviews generates reviews visited within the year before now. Every
// third one is left undated.
func fakeReviews(fake faker.Faker, n int, now time.Time) []models.Review {
	out := make([]models.Review, 0, n)
	for i := 0; i < n; i++ {
		r := models.Review{
			ShopName:     fake.Company().Name(),
			BurgerName:   fake.Lorem().Word() + " burger",
			Rating:       fake.IntBetween(1, 5),
			RatingStyle:  fake.IntBetween(1, 5),
			RatingVolume: fake.IntBetween(1, 5),
			RatingPatty:  fake.IntBetween(1, 5),
			RatingBuns:   fake.IntBetween(1, 5),
			RatingSauce:  fake.IntBetween(1, 5),
			Price:        fake.IntBetween(5, 30) * 100,
			Comment:      fake.Lorem().Sentence(8),
			Tags:         fake.Lorem().Word() + ", " + fake.Lorem().Word(),
		}
		if i%3 != 2 {
			visit := fake.Time().TimeBetween(now.AddDate(-1, 0, 0), now)
			d := models.NewDate(visit.Year(), visit.Month(), visit.Day())
			r.VisitDate = &d
		}
		out = append(out, r)
	}
	return out
}

func (a *app) thumbnailsCmd() *cobra.Command {
	var opts worker.Options
	cmd := &cobra.Command{
		Use:   "thumbnails",
		Short: "Create missing thumbnails for every stored image once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, reviews, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			images, err := a.openImages(cmd.Context())
			if err != nil {
				return err
			}
			n, err := worker.Backfill(cmd.Context(), reviews, images, opts, a.logger.Named("worker"))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d thumbnails\n", n)
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.BatchSize, "batch", worker.DefaultBatchSize, "reviews per page")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", worker.DefaultConcurrency, "parallel thumbnail encoders")
	return cmd
}
