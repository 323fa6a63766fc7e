package homes

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"listing-dupes/models"
	"listing-dupes/utils"
)

// ParseListings extracts listing cards from a results page in document
// order. Cards without an address or a price are dropped.
func ParseListings(html, defaultCity, platform string) ([]models.Property, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse results page: %w", err)
	}

	var properties []models.Property
	doc.Find(cardSelector).Each(func(_ int, card *goquery.Selection) {
		p := parseCard(card, defaultCity)
		if p.Address == "" || p.Price <= 0 {
			return
		}
		p.Platform = platform
		properties = append(properties, p)
	})

	return properties, nil
}

func parseCard(card *goquery.Selection, defaultCity string) models.Property {
	var p models.Property

	addressText := strings.TrimSpace(card.Find(addressSelector).First().Text())
	p.Address, p.City, p.State, p.ZipCode = splitAddress(addressText)
	if p.City == "" {
		p.City = defaultCity
	}

	p.Price = utils.ParsePrice(card.Find(priceSelector).First().Text())
	p.URL, _ = card.Find(linkSelector).First().Attr("href")

	if p.Address != "" {
		p.ID = utils.GeneratePropertyID(p.Address, p.City)
	}
	return p
}

// splitAddress breaks "2714 Hipawai Place, Honolulu, HI 96822" into parts.
// Anything short of three comma-separated parts is treated as a bare street.
func splitAddress(s string) (street, city, state, zip string) {
	parts := strings.Split(s, ",")
	street = strings.TrimSpace(parts[0])
	if len(parts) < 3 {
		return street, "", "", ""
	}

	city = strings.TrimSpace(parts[1])
	fields := strings.Fields(parts[2])
	if len(fields) >= 1 {
		state = fields[0]
	}
	if len(fields) >= 2 {
		zip = fields[1]
	}
	return street, city, state, zip
}
