package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/grahampellegrini/pb-tracker/internal/config"
	"github.com/grahampellegrini/pb-tracker/internal/fetch"
	"github.com/grahampellegrini/pb-tracker/internal/logger"
	"github.com/grahampellegrini/pb-tracker/internal/metrics"
	"github.com/grahampellegrini/pb-tracker/internal/printer"
	"github.com/grahampellegrini/pb-tracker/internal/readme"
	"github.com/grahampellegrini/pb-tracker/internal/scraper"
	"github.com/grahampellegrini/pb-tracker/internal/storage"
	"github.com/grahampellegrini/pb-tracker/internal/tracker"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig       string
	flagReadme       string
	flagWidgetOut    string
	flagReport       string
	flagMetricsFile  string
	flagFormat       string
	flagDryRun       bool
	flagNoBrowser    bool
	flagSkipRankings bool
	flagVerbose      bool
)

// reportedError has already been printed with remediation advice
type reportedError struct {
	error
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pb-tracker",
		Short: "Update a README with an athlete's personal bests",
		Long: `Scrape personal bests from OpenTrack, World Athletics and Athletics Malta,
merge them with a curated fallback table, annotate national records and
all-time positions, and write the result between the
<!-- START_PB --> and <!-- END_PB --> markers of a README.`,
		RunE:          runTrack,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&flagConfig, "config", "", "YAML config file (or env: "+config.EnvConfigFile+")")
	cmd.Flags().StringVar(&flagReadme, "readme", "", "README to update (default from config: README.md)")
	cmd.Flags().StringVar(&flagWidgetOut, "widget-out", "", "Widget backup file name in the output directory")
	cmd.Flags().StringVar(&flagReport, "report", "", "Write a JSON run report with this name to the output directory")
	cmd.Flags().StringVar(&flagMetricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this path")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Render and save the widget without modifying the README")
	cmd.Flags().BoolVar(&flagNoBrowser, "no-browser", false, "Never fall back to headless Chrome")
	cmd.Flags().BoolVar(&flagSkipRankings, "skip-rankings", false, "Skip all-time list position lookups")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	return cmd
}

// runTrack is the main command logic
func runTrack(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx, flagConfig)
	if err != nil {
		return err
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	runID := uuid.NewString()
	log := logger.New(level, cmd.ErrOrStderr()).With(logger.Fields{"run_id": runID})
	logger.SetDefault(log)
	out := printer.New(cmd.ErrOrStderr())

	log.Debug("Starting run", logger.Fields{
		"athlete": cfg.Athlete.Name,
		"readme":  cfg.Output.Readme,
		"dry_run": flagDryRun,
	})

	rec := metrics.New()
	opts := fetch.Options{
		Timeout:           cfg.Fetch.Timeout,
		Attempts:          cfg.Fetch.Attempts,
		RetryMinDelay:     cfg.Fetch.RetryMinDelay,
		RetryMaxDelay:     cfg.Fetch.RetryMaxDelay,
		Browser:           cfg.Fetch.Browser,
		BrowserPath:       cfg.Fetch.BrowserPath,
		NavigationTimeout: cfg.Fetch.NavigationTimeout,
		RenderDelay:       cfg.Fetch.RenderDelay,
	}
	sc := scraper.New(cfg,
		fetch.Standard(opts, log, rec.ObserveFetch),
		fetch.Lightweight(opts, log, rec.ObserveFetch),
		log,
	)

	store, err := storage.New(cfg.Output.Dir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	tr, err := tracker.New(cfg, sc, tracker.Options{
		RunID:        runID,
		SkipRankings: flagSkipRankings,
		Store:        store,
		Metrics:      rec,
		Logger:       log,
	})
	if err != nil {
		return err
	}

	res, err := tr.Run(ctx)
	if err != nil {
		return fmt.Errorf("running tracker: %w", err)
	}

	failed := 0
	for _, s := range res.Sources {
		if s.Error != "" {
			failed++
		}
	}
	if failed == len(res.Sources) {
		out.Warning("No source could be scraped, using the curated baseline")
	} else if failed > 0 {
		out.Warning("%d of %d sources failed, see logs", failed, len(res.Sources))
	}

	pub, err := tr.Publish(res, flagDryRun)
	if err != nil {
		return publishError(out, cfg.Output.Readme, err)
	}

	result := &OutputResult{
		RunID:           res.RunID,
		CheckedAt:       res.FinishedAt,
		Rows:            res.Rows,
		Sources:         res.Sources,
		NationalRecords: countRecords(res),
		Publication:     pub,
	}
	if err := WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	switch {
	case pub.DryRun:
		out.Step("Dry run: README not modified, widget saved to %s", pub.WidgetPath)
	case pub.ReadmeChanged:
		out.Success("README updated: %s (%s)", pub.Readme, res.Describe())
	default:
		out.Success("README already up to date: %s", pub.Readme)
	}
	return nil
}

// applyFlags lets command-line flags override loaded configuration
func applyFlags(cfg *config.Config) {
	if flagReadme != "" {
		cfg.Output.Readme = flagReadme
	}
	if flagWidgetOut != "" {
		cfg.Output.WidgetFile = flagWidgetOut
	}
	if flagReport != "" {
		cfg.Output.ReportFile = flagReport
	}
	if flagMetricsFile != "" {
		cfg.Output.MetricsFile = flagMetricsFile
	}
	if flagNoBrowser {
		cfg.Fetch.Browser = false
	}
	if flagVerbose {
		cfg.LogLevel = "debug"
	}
}

// publishError prints remediation for README failures
func publishError(out *printer.Printer, path string, err error) error {
	switch {
	case errors.Is(err, readme.ErrMarkersMissing), errors.Is(err, readme.ErrMarkerOrder):
		return reportedError{out.Error(
			"README not updated: markers missing",
			fmt.Sprintf("%s must contain the start marker followed by the end marker.", path),
			[]string{"Add this block where the table should appear:\n\n" + readme.MarkerBlock()},
		)}
	case errors.Is(err, os.ErrNotExist):
		return reportedError{out.Error(
			"README not found",
			fmt.Sprintf("%s does not exist.", path),
			[]string{
				"Create it with this block where the table should appear:\n\n" + readme.MarkerBlock(),
				"Point --readme at an existing README",
			},
		)}
	default:
		return err
	}
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
