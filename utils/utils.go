package utils

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/chromedp/chromedp"
)

const (
	idPrefix = "prop_"
	idMaxLen = 25
)

var (
	digitsRe  = regexp.MustCompile(`[0-9][0-9,]*`)
	nonAlnums = regexp.MustCompile(`[^a-z0-9]+`)
)

// SafeText reads the text of sel if it is present and leaves val untouched
// otherwise. It never waits for the node to appear.
func SafeText(sel string, val *string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		_ = chromedp.Text(sel, val, chromedp.ByQuery, chromedp.AtLeast(0)).Do(ctx)
		return nil
	})
}

// ParsePrice extracts the first number from text such as "$1,600,000".
func ParsePrice(price string) int {
	match := digitsRe.FindString(price)
	if match == "" {
		return 0
	}

	v, _ := strconv.Atoi(strings.ReplaceAll(match, ",", ""))

	return v
}

// GeneratePropertyID builds a stable listing key from address and city:
// lowercased, stripped to [a-z0-9], prefixed and cut to 25 characters.
func GeneratePropertyID(address, city string) string {
	cleaned := nonAlnums.ReplaceAllString(strings.ToLower(address+city), "")
	if cleaned == "" {
		cleaned = "unknown"
	}

	id := idPrefix + cleaned
	if len(id) > idMaxLen {
		id = id[:idMaxLen]
	}
	return id
}
