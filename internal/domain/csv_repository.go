package domain

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"listing-dupes/models"
)

var csvHeader = []string{"ID", "Address", "City", "State", "ZipCode", "Price", "URL", "Platform"}

type CSVRepository struct {
	filePath string
}

func NewCSVRepository(filePath string) *CSVRepository {
	return &CSVRepository{
		filePath: filePath,
	}
}

func (r *CSVRepository) Save(ctx context.Context, properties []models.Property) error {
	file, err := os.Create(r.filePath)
	if err != nil {
		return fmt.Errorf("create %s: %w", r.filePath, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, p := range properties {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := writer.Write([]string{
			p.ID,
			p.Address,
			p.City,
			p.State,
			p.ZipCode,
			strconv.Itoa(p.Price),
			p.URL,
			p.Platform,
		})
		if err != nil {
			return fmt.Errorf("write %s: %w", p.ID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", r.filePath, err)
	}
	return file.Close()
}

// Load reads listings back in file order.
func (r *CSVRepository) Load(ctx context.Context) ([]models.Property, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", r.filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(csvHeader)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", r.filePath, ErrNoHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", r.filePath, err)
	}
	if header[0] != csvHeader[0] {
		return nil, fmt.Errorf("%s: %w", r.filePath, ErrNoHeader)
	}

	var properties []models.Property
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.filePath, err)
		}
		line, _ := reader.FieldPos(5)

		price, err := strconv.Atoi(row[5])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: price %q: %w", r.filePath, line, row[5], err)
		}

		properties = append(properties, models.Property{
			ID:       row[0],
			Address:  row[1],
			City:     row[2],
			State:    row[3],
			ZipCode:  row[4],
			Price:    price,
			URL:      row[6],
			Platform: row[7],
		})
	}

	return properties, nil
}
