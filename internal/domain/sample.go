package domain

import (
	"context"

	"listing-dupes/models"
)

// SampleSource serves the six Honolulu listings captured from an early
// three-page scrape. Every listing appears exactly twice.
type SampleSource struct{}

func NewSampleSource() *SampleSource {
	return &SampleSource{}
}

func (SampleSource) Load(ctx context.Context) ([]models.Property, error) {
	return SampleProperties(), nil
}

// SampleProperties returns a fresh copy of the embedded sample.
func SampleProperties() []models.Property {
	return []models.Property{
		{ID: "prop_2714hipawaiplacehono", Address: "2714 Hipawai Place", Price: 1600000},
		{ID: "prop_2714hipawaiplacehono", Address: "2714 Hipawai Place", Price: 1600000},
		{ID: "prop_2772kalawaostunit29h", Address: "2772 Kalawao St Unit 29", Price: 1942000},
		{ID: "prop_2772kalawaostunit29h", Address: "2772 Kalawao St Unit 29", Price: 1942000},
		{ID: "prop_3122kaloaluikisthono", Address: "3122 Kaloaluiki St", Price: 1850000},
		{ID: "prop_3122kaloaluikisthono", Address: "3122 Kaloaluiki St", Price: 1850000},
	}
}
