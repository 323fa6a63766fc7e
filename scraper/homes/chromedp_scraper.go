package homes

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"listing-dupes/config"
	"listing-dupes/models"
	"listing-dupes/scraper"
	"listing-dupes/utils"
)

var ErrNoPages = errors.New("no results page could be fetched")

// pageFetcher returns the rendered HTML of one results page.
type pageFetcher func(ctx context.Context, url string) (string, error)

type ChromedpScraper struct {
	allocatorCtx context.Context
	cancel       context.CancelFunc
	cfg          *config.Config
	logger       *zap.Logger
	rateLimiter  *time.Ticker
	requestMutex sync.Mutex
	userAgents   []string
	fetch        pageFetcher
}

// NewChromedpScraper starts a browser allocator bound to parent. Call Close
// to shut Chrome down.
func NewChromedpScraper(parent context.Context, cfg *config.Config, logger *zap.Logger) *ChromedpScraper {
	var ticker *time.Ticker
	if cfg.Stealth.MaxRequestsPerSecond > 0 {
		interval := time.Duration(float64(time.Second) / cfg.Stealth.MaxRequestsPerSecond)
		ticker = time.NewTicker(interval)
	}

	allocCtx, cancel := scraper.NewAllocator(parent, &cfg.Browser)

	s := &ChromedpScraper{
		allocatorCtx: allocCtx,
		cancel:       cancel,
		cfg:          cfg,
		logger:       logger.Named("homes"),
		rateLimiter:  ticker,
		userAgents:   config.DefaultUserAgents(),
	}
	s.fetch = s.fetchPage

	if cfg.Stealth.RandomDelayEnabled {
		s.logger.Debug("stealth: random delays enabled",
			zap.Duration("min", cfg.Stealth.RandomDelayMin), zap.Duration("max", cfg.Stealth.RandomDelayMax))
	}
	if cfg.Stealth.MaxRequestsPerSecond > 0 {
		s.logger.Debug("stealth: rate limit enabled", zap.Float64("rps", cfg.Stealth.MaxRequestsPerSecond))
	}

	return s
}

func (s *ChromedpScraper) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.cancel != nil {
		s.cancel()
	}
}

// Scrape fetches result pages 1..MaxPages and returns their listings in page
// order. Listings repeated across pages are kept so overlap can be measured.
func (s *ChromedpScraper) Scrape(ctx context.Context, baseURL string) ([]models.Property, error) {
	start := time.Now()
	s.logger.Info("scrape: start", zap.String("url", baseURL), zap.Int("pages", s.cfg.Scraper.MaxPages))

	urls := make([]string, s.cfg.Scraper.MaxPages)
	for i := range urls {
		urls[i] = PageURL(baseURL, i+1)
	}

	pages := s.fetchPagesWorkerPool(ctx, urls, s.cfg.Concurrency.PageWorkers)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		properties []models.Property
		fetched    int
	)
	for i, page := range pages {
		if page.err != nil {
			s.logger.Warn("scrape: page failed", zap.Int("page", i+1), zap.Error(page.err))
			continue
		}
		fetched++

		listings, err := ParseListings(page.html, s.cfg.Scraper.DefaultCity, s.cfg.Scraper.Platform)
		if err != nil {
			s.logger.Warn("scrape: page unparseable", zap.Int("page", i+1), zap.Error(err))
			continue
		}
		s.logger.Info("scrape: page parsed", zap.Int("page", i+1), zap.Int("listings", len(listings)))
		properties = append(properties, listings...)
	}

	if fetched == 0 {
		return nil, fmt.Errorf("scrape %s: %w", baseURL, ErrNoPages)
	}

	s.logger.Info("scrape: finished",
		zap.Int("pages", len(urls)),
		zap.Int("fetched", fetched),
		zap.Int("listings", len(properties)),
		zap.Duration("duration", time.Since(start)))

	return properties, nil
}

type pageResult struct {
	html string
	err  error
}

// fetchPagesWorkerPool fetches urls with workerCount goroutines. Results are
// indexed like urls.
func (s *ChromedpScraper) fetchPagesWorkerPool(ctx context.Context, urls []string, workerCount int) []pageResult {
	results := make([]pageResult, len(urls))
	jobs := make(chan int, len(urls))

	var wg sync.WaitGroup

	s.logger.Debug("workerpool: starting", zap.Int("workers", workerCount), zap.Int("jobs", len(urls)))

	var fetchedCount int32
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					results[idx] = pageResult{err: err}
					continue
				}
				html, err := s.fetch(ctx, urls[idx])
				if err != nil {
					results[idx] = pageResult{err: err}
					continue
				}
				n := atomic.AddInt32(&fetchedCount, 1)
				s.logger.Debug("[page] fetched", zap.Int("worker", id), zap.Int32("n", n), zap.String("url", urls[idx]))
				results[idx] = pageResult{html: html}
			}
		}(i)
	}

	for i := range urls {
		jobs <- i
	}
	close(jobs)

	wg.Wait()

	return results
}

func (s *ChromedpScraper) fetchPage(ctx context.Context, url string) (string, error) {
	if err := s.applyRateLimit(ctx); err != nil {
		return "", err
	}
	if err := s.randomDelay(ctx); err != nil {
		return "", err
	}

	tab, cancel := scraper.NewTabWithTimeout(s.allocatorCtx, s.cfg.Timing.PageTimeout)
	defer cancel()

	var (
		html      string
		countText string
		ready     bool
	)

	err := s.runWithRetry(tab,
		scraper.BrowserHeaders(s.getRandomUserAgent()),
		chromedp.Navigate(url),
		chromedp.Sleep(s.cfg.Timing.PageLoadWait),
		scraper.ScrollToBottom(&s.cfg.Timing, s.cfg.Scraper.ScrollStep),
		chromedp.Evaluate(readyJS, &ready),
		utils.SafeText(resultCountSelector, &countText),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("fetchPage %s: %w", url, err)
	}

	s.logger.Debug("[page] rendered",
		zap.String("url", url), zap.Bool("cards", ready), zap.String("banner", countText))
	return html, nil
}

// runWithRetry executes chromedp.Run with exponential backoff retries.
func (s *ChromedpScraper) runWithRetry(ctx context.Context, actions ...chromedp.Action) error {
	return s.retryWithBackoff(ctx, func() error {
		return chromedp.Run(ctx, actions...)
	})
}

// retryWithBackoff executes fn with exponential backoff.
func (s *ChromedpScraper) retryWithBackoff(ctx context.Context, fn func() error) error {
	maxRetries := s.cfg.Retry.MaxRetries
	initialBackoff := s.cfg.Retry.InitialBackoff
	maxBackoff := s.cfg.Retry.MaxBackoff

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			s.logger.Debug("[retry] attempt", zap.Int("n", attempt+1), zap.Int("of", maxRetries+1))
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt < maxRetries {
			backoff := time.Duration(float64(initialBackoff) * math.Pow(2, float64(attempt)))
			if backoff > maxBackoff {
				backoff = maxBackoff
			}

			s.logger.Debug("[retry] attempt failed",
				zap.Int("n", attempt+1), zap.Error(lastErr), zap.Duration("backoff", backoff))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", maxRetries+1, lastErr)
}

// applyRateLimit waits if necessary to respect the configured max requests per second.
func (s *ChromedpScraper) applyRateLimit(ctx context.Context) error {
	if s.rateLimiter == nil {
		return nil
	}
	s.requestMutex.Lock()
	defer s.requestMutex.Unlock()
	select {
	case <-s.rateLimiter.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// randomDelay sleeps for a random duration if stealth mode is enabled.
func (s *ChromedpScraper) randomDelay(ctx context.Context) error {
	if !s.cfg.Stealth.RandomDelayEnabled {
		return nil
	}
	minMs := s.cfg.Stealth.RandomDelayMin.Milliseconds()
	maxMs := s.cfg.Stealth.RandomDelayMax.Milliseconds()
	if minMs >= maxMs {
		return nil
	}
	d := time.Duration(rand.Int63n(maxMs-minMs)+minMs) * time.Millisecond
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// getRandomUserAgent returns a random user agent from the pool if enabled.
func (s *ChromedpScraper) getRandomUserAgent() string {
	if !s.cfg.Stealth.RandomUserAgentEnabled || len(s.userAgents) == 0 {
		return s.cfg.Browser.UserAgent
	}
	return s.userAgents[rand.Intn(len(s.userAgents))]
}
