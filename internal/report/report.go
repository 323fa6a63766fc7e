// Package report renders the duplicate analysis as plain text.
package report

import (
	"bufio"
	"fmt"
	"io"

	"listing-dupes/internal/tally"
	"listing-dupes/models"
)

const header = "Duplicate Analysis:\n==================\n"

// Footer is printed after every report. Its figures come from a manual look
// at a 243-listing MCP response and are not computed from the input.
const Footer = `
From the MCP response, I observed:
- Total properties returned: 243
- Pages scraped: 3 (116 + 118 + 9)
- Many properties appear exactly twice
- This suggests pages have overlapping content or parsing issues
`

// DefaultThreshold reports identifiers seen more than once.
const DefaultThreshold = 1

// Summary describes a run for logging; it is never part of the report text.
type Summary struct {
	Records    int
	Distinct   int
	Duplicated int
	// Surplus is the number of records beyond the first for each duplicated id.
	Surplus int
}

// Write prints the header, one block per duplicate and the footer.
func Write(w io.Writer, records []models.Property, threshold int) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(header)
	for _, d := range tally.Duplicates(records, threshold) {
		fmt.Fprintf(bw, "ID: %s\nAddress: %s\nCount: %d\n---\n", d.ID, d.Address, d.Count)
	}
	bw.WriteString(Footer)

	return bw.Flush()
}

func Summarize(records []models.Property, threshold int) Summary {
	t := tally.Build(records)
	s := Summary{
		Records:  t.Total(),
		Distinct: t.Len(),
	}
	for _, id := range t.IDs() {
		if n := t.Count(id); n > threshold {
			s.Duplicated++
			s.Surplus += n - 1
		}
	}
	return s
}
