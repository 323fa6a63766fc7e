package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

var ErrUnknownSource = errors.New("unknown source")

// Source kinds accepted by ReportConfig.Source.
const (
	SourceSample   = "sample"
	SourceCSV      = "csv"
	SourceMCP      = "mcp"
	SourcePostgres = "postgres"
)

// BrowserConfig controls headless Chrome flags.
type BrowserConfig struct {
	Headless   bool   `yaml:"headless"`
	DisableGPU bool   `yaml:"disable_gpu"`
	NoSandbox  bool   `yaml:"no_sandbox"`
	DisableShm bool   `yaml:"disable_shm"`
	UserAgent  string `yaml:"user_agent"`
}

// TimingConfig controls all wait/sleep durations throughout the scraper.
type TimingConfig struct {
	// How long to wait after navigation before reading the page
	PageLoadWait time.Duration `yaml:"page_load_wait"`
	// Delay between each scroll step
	ScrollStepDelay time.Duration `yaml:"scroll_step_delay"`
	// Extra wait after reaching the bottom so lazy content can render
	ScrollBottomWait time.Duration `yaml:"scroll_bottom_wait"`
	// Hard timeout for a single results page
	PageTimeout time.Duration `yaml:"page_timeout"`
}

// ConcurrencyConfig controls goroutine and worker pool limits.
type ConcurrencyConfig struct {
	// Worker pool size when fetching result pages
	PageWorkers int `yaml:"page_workers"`
}

// ScraperConfig controls extraction limits.
type ScraperConfig struct {
	// Result pages to fetch per search, starting at page 1
	MaxPages int `yaml:"max_pages"`
	// Pixels to advance per scroll step
	ScrollStep int `yaml:"scroll_step"`
	// City assumed when a card address carries none
	DefaultCity string `yaml:"default_city"`
	Platform    string `yaml:"platform"`
}

// RetryConfig controls retry behavior for resilience.
type RetryConfig struct {
	MaxRetries     int           `yaml:"max_retries"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
}

// StealthConfig controls anti-detection behavior.
type StealthConfig struct {
	RandomDelayEnabled     bool          `yaml:"random_delay_enabled"`
	RandomDelayMin         time.Duration `yaml:"random_delay_min"`
	RandomDelayMax         time.Duration `yaml:"random_delay_max"`
	RandomUserAgentEnabled bool          `yaml:"random_user_agent_enabled"`
	// 0 = unlimited
	MaxRequestsPerSecond float64 `yaml:"max_requests_per_second"`
}

// ReportConfig selects the listings to analyze.
type ReportConfig struct {
	Source string `yaml:"source"`
	// File read by the csv and mcp sources
	Path string `yaml:"path"`
	// Identifiers seen more than Threshold times are reported
	Threshold int `yaml:"threshold"`
}

type StorageConfig struct {
	CSVPath string `yaml:"csv_path"`
	// Read from PG_DSN when empty
	PostgresDSN string `yaml:"postgres_dsn"`
}

// Config is the root configuration.
type Config struct {
	Browser     BrowserConfig     `yaml:"browser"`
	Timing      TimingConfig      `yaml:"timing"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Scraper     ScraperConfig     `yaml:"scraper"`
	Retry       RetryConfig       `yaml:"retry"`
	Stealth     StealthConfig     `yaml:"stealth"`
	Report      ReportConfig      `yaml:"report"`
	Storage     StorageConfig     `yaml:"storage"`
}

// Default returns a conservative production-ready configuration.
func Default() *Config {
	return &Config{
		Browser: BrowserConfig{
			Headless:   true,
			DisableGPU: true,
			NoSandbox:  true,
			DisableShm: true,
			UserAgent:  "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		},
		Timing: TimingConfig{
			PageLoadWait:     5 * time.Second,
			ScrollStepDelay:  400 * time.Millisecond,
			ScrollBottomWait: 4 * time.Second,
			PageTimeout:      70 * time.Second,
		},
		Concurrency: ConcurrencyConfig{
			PageWorkers: 3,
		},
		Scraper: ScraperConfig{
			MaxPages:    3,
			ScrollStep:  400,
			DefaultCity: "Honolulu",
			Platform:    "homes.com",
		},
		Retry: RetryConfig{
			MaxRetries:     3,
			InitialBackoff: 2 * time.Second,
			MaxBackoff:     10 * time.Second,
		},
		Stealth: StealthConfig{
			RandomDelayEnabled:     true,
			RandomDelayMin:         4 * time.Second,
			RandomDelayMax:         6 * time.Second,
			RandomUserAgentEnabled: true,
			MaxRequestsPerSecond:   4.0,
		},
		Report: ReportConfig{
			Source:    SourceSample,
			Threshold: 1,
		},
		Storage: StorageConfig{
			CSVPath: "properties.csv",
		},
	}
}

// Dev returns a faster config suited for local development and testing.
func Dev() *Config {
	cfg := Default()
	cfg.Timing.ScrollBottomWait = 2 * time.Second
	cfg.Timing.PageLoadWait = 4 * time.Second
	cfg.Concurrency.PageWorkers = 1
	cfg.Stealth.RandomDelayMin = 2 * time.Second
	cfg.Stealth.RandomDelayMax = 4 * time.Second
	cfg.Stealth.MaxRequestsPerSecond = 10.0
	return cfg
}

// Load overlays the YAML file at path (if any) onto base, then fills the
// Postgres DSN from .env / PG_DSN when the file leaves it empty.
func Load(base *Config, path string) (*Config, error) {
	cfg := *base

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// .env is optional
	_ = godotenv.Load()
	if cfg.Storage.PostgresDSN == "" {
		cfg.Storage.PostgresDSN = os.Getenv("PG_DSN")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Report.Source {
	case SourceSample, SourcePostgres:
	case SourceCSV, SourceMCP:
		if c.Report.Path == "" {
			return fmt.Errorf("source %s requires a path", c.Report.Source)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSource, c.Report.Source)
	}
	if c.Report.Threshold < 1 {
		return fmt.Errorf("threshold must be at least 1, got %d", c.Report.Threshold)
	}
	if c.Scraper.MaxPages < 1 {
		return fmt.Errorf("max_pages must be at least 1, got %d", c.Scraper.MaxPages)
	}
	if c.Concurrency.PageWorkers < 1 {
		return fmt.Errorf("page_workers must be at least 1, got %d", c.Concurrency.PageWorkers)
	}
	return nil
}

// DefaultUserAgents returns a pool of realistic desktop browser user agents.
func DefaultUserAgents() []string {
	return []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
}
