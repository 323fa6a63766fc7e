package domain

import (
	"context"

	"listing-dupes/models"
)

type Scraper interface {
	Scrape(ctx context.Context, baseURL string) ([]models.Property, error)
}
