package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"listing-dupes/internal/domain"
	"listing-dupes/models"
)

const sampleReport = `Duplicate Analysis:
==================
ID: prop_2714hipawaiplacehono
Address: 2714 Hipawai Place
Count: 2
---
ID: prop_2772kalawaostunit29h
Address: 2772 Kalawao St Unit 29
Count: 2
---
ID: prop_3122kaloaluikisthono
Address: 3122 Kaloaluiki St
Count: 2
---

From the MCP response, I observed:
- Total properties returned: 243
- Pages scraped: 3 (116 + 118 + 9)
- Many properties appear exactly twice
- This suggests pages have overlapping content or parsing issues
`

func TestWrite_Sample(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, domain.SampleProperties(), DefaultThreshold))
	require.Equal(t, sampleReport, buf.String())
	require.Equal(t, 3, strings.Count(buf.String(), "Count: 2\n---\n"))
}

func TestWrite_NoDuplicates(t *testing.T) {
	for _, records := range [][]models.Property{
		nil,
		{{ID: "a", Address: "1 A St"}, {ID: "b", Address: "2 B St"}},
	} {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, records, DefaultThreshold))
		require.Equal(t, header+Footer, buf.String())
	}
}

func TestWrite_FooterUnconditional(t *testing.T) {
	var buf bytes.Buffer
	records := []models.Property{{ID: "z", Address: "9 Z St"}, {ID: "z", Address: "9 Z St"}}
	require.NoError(t, Write(&buf, records, DefaultThreshold))
	require.True(t, strings.HasSuffix(buf.String(), Footer))
	require.NotContains(t, buf.String(), "prop_")
}

func TestSummarize(t *testing.T) {
	s := Summarize(domain.SampleProperties(), DefaultThreshold)
	require.Equal(t, Summary{Records: 6, Distinct: 3, Duplicated: 3, Surplus: 3}, s)

	require.Equal(t, Summary{}, Summarize(nil, DefaultThreshold))
}
