package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"listing-dupes/config"
)

// NewAllocator creates a shared Chrome process from the given browser config.
// All tabs (contexts) must be created from the returned context.
func NewAllocator(parent context.Context, cfg *config.BrowserConfig) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", cfg.DisableGPU),
		chromedp.Flag("no-sandbox", cfg.NoSandbox),
		chromedp.Flag("disable-setuid-sandbox", cfg.NoSandbox),
		chromedp.Flag("disable-dev-shm-usage", cfg.DisableShm),
		chromedp.UserAgent(cfg.UserAgent),
	)
	return chromedp.NewExecAllocator(parent, opts...)
}

// NewTab opens a new browser tab from the allocator context.
func NewTab(allocCtx context.Context) (context.Context, context.CancelFunc) {
	return chromedp.NewContext(allocCtx)
}

// NewTabWithTimeout opens a browser tab whose operations are cancelled after
// the given duration.
func NewTabWithTimeout(allocCtx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	bCtx, bCancel := chromedp.NewContext(allocCtx)
	tCtx, tCancel := context.WithTimeout(bCtx, timeout)
	return tCtx, func() {
		tCancel()
		bCancel()
	}
}

// BrowserHeaders sends the headers a desktop browser would, plus the chosen
// user agent, on every request made by the tab.
func BrowserHeaders(userAgent string) chromedp.Action {
	return chromedp.Tasks{
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
			"User-Agent":      userAgent,
		}),
	}
}

// ScrollToBottom incrementally scrolls the page so lazy-loaded content renders.
// Using ActionFunc (not async JS) ensures each step actually blocks.
func ScrollToBottom(cfg *config.TimingConfig, scrollStep int) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		var height int
		if err := chromedp.Evaluate(`document.body.scrollHeight`, &height).Do(ctx); err != nil {
			return fmt.Errorf("scrollToBottom: get height: %w", err)
		}

		for y := 0; y <= height; y += scrollStep {
			if err := chromedp.Evaluate(
				fmt.Sprintf(`window.scrollTo(0, %d)`, y), nil,
			).Do(ctx); err != nil {
				return fmt.Errorf("scrollToBottom: scroll to %d: %w", y, err)
			}
			if err := sleep(ctx, cfg.ScrollStepDelay); err != nil {
				return err
			}
		}

		// Final pause so last lazy-loaded items have time to render
		return sleep(ctx, cfg.ScrollBottomWait)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
