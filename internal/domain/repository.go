package domain

import (
	"context"
	"errors"

	"listing-dupes/models"
)

var (
	ErrNoHeader  = errors.New("missing csv header")
	ErrToolError = errors.New("tool call reported an error")
)

type PropertyRepository interface {
	Save(ctx context.Context, properties []models.Property) error
}

// PropertySource yields listings in a stable order.
type PropertySource interface {
	Load(ctx context.Context) ([]models.Property, error)
}
