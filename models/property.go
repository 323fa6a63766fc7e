package models

// Property is a single listing. ID is derived from the address and is not
// guaranteed unique across scraped pages.
type Property struct {
	ID       string `json:"id"`
	Platform string `json:"platform,omitempty"`
	Address  string `json:"address"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	ZipCode  string `json:"zipCode,omitempty"`
	Price    int    `json:"price"`
	URL      string `json:"url,omitempty"`
}
