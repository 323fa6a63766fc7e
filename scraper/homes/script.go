package homes

import (
	"fmt"
	"strings"
)

// ── Results page selectors ────────────────────────────────────────────────────
// Each list tries the current homes.com markup first, then older layouts.

// cardSelector matches one listing card on a search results page.
const cardSelector = `li.placard-container, article.search-placard, div.property-card`

// addressSelector matches the full "street, city, ST zip" line inside a card.
const addressSelector = `.property-name, p.address, h3`

// priceSelector matches the list or sold price inside a card.
const priceSelector = `.price-container, .property-price, .price`

// linkSelector matches the anchor to the listing detail page.
const linkSelector = `a[href*="/property/"], a`

// resultCountSelector holds the "243 Homes" banner above the results.
const resultCountSelector = `.result-count, .results-header h1`

// ── Page JS ───────────────────────────────────────────────────────────────────

// readyJS reports whether listing cards have rendered.
var readyJS = fmt.Sprintf(`document.querySelectorAll(%q).length > 0`, cardSelector)

// PageURL returns the URL of the 1-based results page n. Page 1 is baseURL
// itself; later pages append "p<n>/".
func PageURL(baseURL string, n int) string {
	if n <= 1 {
		return baseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return fmt.Sprintf("%sp%d/", baseURL, n)
}
