package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, SourceSample, cfg.Report.Source)
	require.Equal(t, 1, cfg.Report.Threshold)
	require.Equal(t, 3, cfg.Scraper.MaxPages)
}

func TestDev(t *testing.T) {
	cfg := Dev()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 1, cfg.Concurrency.PageWorkers)
	require.Less(t, cfg.Stealth.RandomDelayMax, Default().Stealth.RandomDelayMax)
}

func TestLoad_YAMLOverlay(t *testing.T) {
	t.Setenv("PG_DSN", "")
	path := filepath.Join(t.TempDir(), "dupes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
report:
  source: csv
  path: listings.csv
  threshold: 2
timing:
  page_timeout: 15s
scraper:
  max_pages: 5
`), 0o644))

	cfg, err := Load(Default(), path)
	require.NoError(t, err)
	require.Equal(t, SourceCSV, cfg.Report.Source)
	require.Equal(t, "listings.csv", cfg.Report.Path)
	require.Equal(t, 2, cfg.Report.Threshold)
	require.Equal(t, 15*time.Second, cfg.Timing.PageTimeout)
	require.Equal(t, 5, cfg.Scraper.MaxPages)
	// untouched sections keep their defaults
	require.Equal(t, 3, cfg.Concurrency.PageWorkers)
	require.True(t, cfg.Browser.Headless)
}

func TestLoad_DSNFromEnv(t *testing.T) {
	t.Setenv("PG_DSN", "postgres://dupes@localhost/dupes?sslmode=disable")

	cfg, err := Load(Default(), "")
	require.NoError(t, err)
	require.Equal(t, "postgres://dupes@localhost/dupes?sslmode=disable", cfg.Storage.PostgresDSN)
}

func TestLoad_DoesNotMutateBase(t *testing.T) {
	base := Default()
	path := filepath.Join(t.TempDir(), "dupes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("report:\n  threshold: 4\n"), 0o644))

	_, err := Load(base, path)
	require.NoError(t, err)
	require.Equal(t, 1, base.Report.Threshold)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(Default(), filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("report: [\n"), 0o644))
	_, err = Load(Default(), bad)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(*Config)
		isErr  bool
	}{
		{name: "default", mutate: func(*Config) {}},
		{name: "postgres", mutate: func(c *Config) { c.Report.Source = SourcePostgres }},
		{name: "csv with path", mutate: func(c *Config) { c.Report.Source = SourceCSV; c.Report.Path = "a.csv" }},
		{name: "csv without path", mutate: func(c *Config) { c.Report.Source = SourceCSV }, isErr: true},
		{name: "mcp without path", mutate: func(c *Config) { c.Report.Source = SourceMCP }, isErr: true},
		{name: "unknown source", mutate: func(c *Config) { c.Report.Source = "redis" }, isErr: true},
		{name: "zero threshold", mutate: func(c *Config) { c.Report.Threshold = 0 }, isErr: true},
		{name: "zero pages", mutate: func(c *Config) { c.Scraper.MaxPages = 0 }, isErr: true},
		{name: "zero workers", mutate: func(c *Config) { c.Concurrency.PageWorkers = 0 }, isErr: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.isErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}

	err := (&Config{Report: ReportConfig{Source: "redis", Threshold: 1}}).Validate()
	require.ErrorIs(t, err, ErrUnknownSource)
}
