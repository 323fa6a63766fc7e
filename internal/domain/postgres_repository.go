package domain

import (
	"context"
	"database/sql"
	"fmt"

	"listing-dupes/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS properties (
	seq         BIGSERIAL PRIMARY KEY,
	id          TEXT NOT NULL,
	address     TEXT NOT NULL,
	city        TEXT NOT NULL DEFAULT '',
	state       TEXT NOT NULL DEFAULT '',
	zip_code    TEXT NOT NULL DEFAULT '',
	price       BIGINT NOT NULL,
	url         TEXT NOT NULL DEFAULT '',
	platform    TEXT NOT NULL DEFAULT '',
	scraped_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresRepository keeps every scraped row, duplicates included; seq
// preserves insertion order.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create properties table: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Save(ctx context.Context, properties []models.Property) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO properties (id, address, city, state, zip_code, price, url, platform)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range properties {
		_, err := stmt.ExecContext(
			ctx,
			p.ID,
			p.Address,
			p.City,
			p.State,
			p.ZipCode,
			p.Price,
			p.URL,
			p.Platform,
		)
		if err != nil {
			return fmt.Errorf("insert %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) Load(ctx context.Context) ([]models.Property, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, address, city, state, zip_code, price, url, platform
	FROM properties
	ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("select properties: %w", err)
	}
	defer rows.Close()

	var properties []models.Property
	for rows.Next() {
		var p models.Property
		if err := rows.Scan(&p.ID, &p.Address, &p.City, &p.State, &p.ZipCode, &p.Price, &p.URL, &p.Platform); err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}
