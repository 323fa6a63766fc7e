package application

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"listing-dupes/config"
	"listing-dupes/internal/domain"
	"listing-dupes/scraper/homes"
	"listing-dupes/service"
)

func NewApp(cfg *config.Config, logger *zap.Logger, out io.Writer) *App {
	return &App{cfg: cfg, logger: logger, out: out}
}

type App struct {
	cfg    *config.Config
	logger *zap.Logger
	out    io.Writer
}

// Report prints the duplicate analysis for the configured source to out.
func (a *App) Report(ctx context.Context) error {
	src, closeFn, err := a.source(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	a.logger.Debug("report config",
		zap.String("source", a.cfg.Report.Source),
		zap.String("path", a.cfg.Report.Path),
		zap.Int("threshold", a.cfg.Report.Threshold))

	svc := service.NewDuplicateService(nil, a.logger)
	_, err = svc.Analyze(ctx, src, a.out, a.cfg.Report.Threshold)
	return err
}

func (a *App) source(ctx context.Context) (domain.PropertySource, func(), error) {
	noop := func() {}

	switch a.cfg.Report.Source {
	case config.SourceSample:
		return domain.NewSampleSource(), noop, nil
	case config.SourceCSV:
		return domain.NewCSVRepository(a.cfg.Report.Path), noop, nil
	case config.SourceMCP:
		return domain.NewMCPResponseSource(a.cfg.Report.Path), noop, nil
	case config.SourcePostgres:
		db, err := domain.OpenPostgres(ctx, a.cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, noop, err
		}
		return domain.NewPostgresRepository(db), func() { db.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("%w: %q", config.ErrUnknownSource, a.cfg.Report.Source)
	}
}

// ScrapeOptions selects where scraped listings go.
type ScrapeOptions struct {
	URL      string
	CSVPath  string
	Postgres bool
	Dedupe   bool
}

func (a *App) Scrape(ctx context.Context, opts ScrapeOptions) error {
	a.logger.Debug("scraper config",
		zap.Int("max_retries", a.cfg.Retry.MaxRetries),
		zap.Duration("initial_backoff", a.cfg.Retry.InitialBackoff),
		zap.Duration("max_backoff", a.cfg.Retry.MaxBackoff))

	var repos []domain.PropertyRepository
	if opts.CSVPath != "" {
		repos = append(repos, domain.NewCSVRepository(opts.CSVPath))
	}

	if opts.Postgres {
		db, err := domain.OpenPostgres(ctx, a.cfg.Storage.PostgresDSN)
		if err != nil {
			return err
		}
		defer db.Close()

		a.logger.Info("db connection successful")

		repo := domain.NewPostgresRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		repos = append(repos, repo)
	}

	homesScraper := homes.NewChromedpScraper(ctx, a.cfg, a.logger)
	defer homesScraper.Close()

	svc := service.NewDuplicateService(homesScraper, a.logger, repos...)
	properties, err := svc.ScrapeAndStore(ctx, opts.URL, opts.Dedupe)
	if err != nil {
		return fmt.Errorf("scraping failed: %w", err)
	}

	fmt.Fprintf(a.out, "✓ Scraping completed successfully: %d properties saved\n", len(properties))
	return nil
}
