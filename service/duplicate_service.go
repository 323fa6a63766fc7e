package service

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"listing-dupes/internal/domain"
	"listing-dupes/internal/report"
	"listing-dupes/internal/tally"
	"listing-dupes/models"
)

type DuplicateService struct {
	scraper domain.Scraper
	repos   []domain.PropertyRepository
	logger  *zap.Logger
}

// NewDuplicateService wires the optional scraper and repositories used by
// ScrapeAndStore. Analyze needs neither.
func NewDuplicateService(
	s domain.Scraper,
	logger *zap.Logger,
	repos ...domain.PropertyRepository,
) *DuplicateService {
	return &DuplicateService{
		scraper: s,
		repos:   repos,
		logger:  logger,
	}
}

// Analyze loads listings from src and writes the duplicate report to w.
func (s *DuplicateService) Analyze(ctx context.Context, src domain.PropertySource, w io.Writer, threshold int) (report.Summary, error) {
	properties, err := src.Load(ctx)
	if err != nil {
		return report.Summary{}, fmt.Errorf("load listings: %w", err)
	}

	if err := report.Write(w, properties, threshold); err != nil {
		return report.Summary{}, fmt.Errorf("write report: %w", err)
	}

	summary := report.Summarize(properties, threshold)
	s.logger.Info("duplicate analysis complete",
		zap.Int("records", summary.Records),
		zap.Int("distinct", summary.Distinct),
		zap.Int("duplicated", summary.Duplicated),
		zap.Int("surplus", summary.Surplus))

	return summary, nil
}

// ScrapeAndStore scrapes url and saves the listings to every repository.
// With dedupe set only the first listing per id is kept.
func (s *DuplicateService) ScrapeAndStore(ctx context.Context, url string, dedupe bool) ([]models.Property, error) {
	if s.scraper == nil {
		return nil, fmt.Errorf("no scraper configured")
	}

	properties, err := s.scraper.Scrape(ctx, url)
	if err != nil {
		return nil, err
	}

	if dedupe {
		before := len(properties)
		properties = tally.Dedupe(properties)
		s.logger.Info("deduplicated listings", zap.Int("before", before), zap.Int("after", len(properties)))
	}

	for _, repo := range s.repos {
		if err := repo.Save(ctx, properties); err != nil {
			return nil, fmt.Errorf("save listings: %w", err)
		}
	}

	return properties, nil
}
