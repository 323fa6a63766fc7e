package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	application "listing-dupes/cmd/dupes"
	"listing-dupes/config"
)

var (
	// Global flags
	configPath string
	verbose    bool
	devMode    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "dupes",
	Short: "Find property listings that appear more than once",
	Long: `dupes tallies listing identifiers and reports every identifier seen
more than once, with the address of its first occurrence.

Run without arguments to analyze the embedded Honolulu sample.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		base := config.Default()
		if devMode {
			base = config.Dev()
		}
		cfg, err = config.Load(base, configPath)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return application.NewApp(cfg, logger, cmd.OutOrStdout()).Report(cmd.Context())
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the duplicate report for a listing source",
	Example: `  dupes report
  dupes report --source csv --path properties.csv
  dupes report --source mcp --path response.json --threshold 2
  PG_DSN=postgres://... dupes report --source postgres`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if flags.Changed("source") {
			cfg.Report.Source, _ = flags.GetString("source")
		}
		if flags.Changed("path") {
			cfg.Report.Path, _ = flags.GetString("path")
		}
		if flags.Changed("threshold") {
			cfg.Report.Threshold, _ = flags.GetInt("threshold")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		return application.NewApp(cfg, logger, cmd.OutOrStdout()).Report(cmd.Context())
	},
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape paginated search results and store every listing",
	Example: `  dupes scrape --url https://www.homes.com/honolulu-hi/manoa-neighborhood/sold/
  dupes scrape --url ... --out manoa.csv --postgres --dedupe`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		opts := application.ScrapeOptions{CSVPath: cfg.Storage.CSVPath}
		opts.URL, _ = flags.GetString("url")
		if flags.Changed("out") {
			opts.CSVPath, _ = flags.GetString("out")
		}
		opts.Postgres, _ = flags.GetBool("postgres")
		opts.Dedupe, _ = flags.GetBool("dedupe")
		if flags.Changed("pages") {
			cfg.Scraper.MaxPages, _ = flags.GetInt("pages")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		return application.NewApp(cfg, logger, cmd.OutOrStdout()).Scrape(cmd.Context(), opts)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&devMode, "dev", false, "Use faster development timings")

	reportCmd.Flags().String("source", config.SourceSample, "Listing source: sample, csv, mcp or postgres")
	reportCmd.Flags().String("path", "", "File read by the csv and mcp sources")
	reportCmd.Flags().Int("threshold", 1, "Report identifiers seen more than this many times")

	scrapeCmd.Flags().String("url", "", "First results page to scrape")
	scrapeCmd.Flags().String("out", "", "CSV file to write (default from config)")
	scrapeCmd.Flags().Bool("postgres", false, "Also store listings in Postgres (PG_DSN)")
	scrapeCmd.Flags().Bool("dedupe", false, "Keep only the first listing per id")
	scrapeCmd.Flags().Int("pages", 3, "Number of results pages to fetch")
	_ = scrapeCmd.MarkFlagRequired("url")

	rootCmd.AddCommand(reportCmd, scrapeCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
