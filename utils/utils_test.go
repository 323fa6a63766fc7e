package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeneratePropertyID(t *testing.T) {
	for _, tc := range []struct {
		address, city string
		expected      string
	}{
		{address: "2714 Hipawai Place", city: "Honolulu", expected: "prop_2714hipawaiplacehono"},
		{address: "2772 Kalawao St Unit 29", city: "Honolulu", expected: "prop_2772kalawaostunit29h"},
		{address: "3122 Kaloaluiki St", city: "Honolulu", expected: "prop_3122kaloaluikisthono"},
		{address: "1 A St", city: "Hilo", expected: "prop_1asthilo"},
		{address: "", city: "", expected: "prop_unknown"},
		{address: "---", city: "!!", expected: "prop_unknown"},
	} {
		t.Run(tc.expected, func(t *testing.T) {
			require.Equal(t, tc.expected, GeneratePropertyID(tc.address, tc.city))
		})
	}
}

func TestParsePrice(t *testing.T) {
	for _, tc := range []struct {
		input    string
		expected int
	}{
		{input: "$1,600,000", expected: 1600000},
		{input: "Sold for $1,942,000 on Jan 5", expected: 1942000},
		{input: "1850000", expected: 1850000},
		{input: "", expected: 0},
		{input: "Contact agent", expected: 0},
	} {
		t.Run(tc.input, func(t *testing.T) {
			require.Equal(t, tc.expected, ParsePrice(tc.input))
		})
	}
}
