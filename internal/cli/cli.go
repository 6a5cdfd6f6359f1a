package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/dp-monitor/internal/config"
	"github.com/pfrederiksen/dp-monitor/internal/journal"
	"github.com/pfrederiksen/dp-monitor/internal/logger"
	"github.com/pfrederiksen/dp-monitor/internal/monitor"
	"github.com/pfrederiksen/dp-monitor/internal/scraper"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var flagConfig string

// app is everything a command needs after setup
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	closer  io.Closer
	monitor *monitor.Monitor
}

func (a *app) Close() {
	if a.closer != nil {
		a.closer.Close() // nolint:errcheck
	}
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dp-monitor",
		Short: "Record The Daily Pennsylvanian headlines day by day",
		Long: `A scraper that fetches The Daily Pennsylvanian front page and academics
section, extracts the main headline and the first academics article title,
and records each in a date-indexed JSON journal at most once per day.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:         runOnce,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	pf.String("data-dir", "data", "Directory holding the journal files")
	pf.String("log-file", "scrape.log", "Log file (rotated on --log-rotation)")
	pf.String("log-level", "info", "Log level: debug, info, warn or error")
	pf.Duration("log-rotation", 24*time.Hour, "Log rotation interval")
	pf.String("user-agent", "", "User-Agent header for requests")
	pf.Duration("timeout", scraper.Timeout, "Per-request timeout")
	pf.Bool("record-empty", false, "Record an empty value when a selector matches nothing")
	pf.Bool("verbose", false, "Mirror log output to stderr")

	watch := &cobra.Command{
		Use:   "watch",
		Short: "Scrape now and then on a fixed interval until interrupted",
		RunE:  runWatch,
	}
	watch.Flags().Duration("interval", 24*time.Hour, "Time between runs")

	show := &cobra.Command{
		Use:   "show [main|academics]",
		Short: "Print a journal",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
	show.Flags().String("format", "text", "Output format: text or json")

	run := &cobra.Command{
		Use:   "run",
		Short: "Scrape both sources once (default)",
		RunE:  runOnce,
	}

	cmd.AddCommand(run, watch, show)
	return cmd
}

// loadConfig resolves configuration for cmd. Only flags the user set override
// the file and environment.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(flagConfig, cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// setup loads config, opens the log and creates the data directory
func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	log, closer, err := logger.Open(logger.FileOptions{
		Path:     cfg.LogFile,
		Rotation: cfg.LogRotation,
		MaxAge:   cfg.LogMaxAge,
		Level:    level,
		Stderr:   cfg.Verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("opening log: %w", err)
	}
	a := &app{cfg: cfg, log: log, closer: closer}

	log.Info("Creating data directory if it does not exist", logger.Fields{"data_dir": cfg.DataDir})
	if err := monitor.EnsureDataDir(cfg.DataDir); err != nil {
		log.Error("Failed to create data directory", nil, err)
		a.Close()
		return nil, err
	}

	fetcher := scraper.New(
		scraper.WithTimeout(cfg.Timeout),
		scraper.WithUserAgent(cfg.UserAgent),
	)
	a.monitor = monitor.New(fetcher, monitor.DefaultSources(cfg.DataDir),
		monitor.WithLogger(log),
		monitor.WithRecordEmpty(cfg.RecordEmpty),
	)

	return a, nil
}

// runOnce performs a single scrape of both sources. Per-source failures are
// reported but do not change the exit status.
func runOnce(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	report := a.monitor.Run(cmd.Context())
	a.log.Info("Exiting", nil)

	return WriteReport(cmd.OutOrStdout(), report)
}

// runWatch scrapes on a schedule until SIGINT or SIGTERM
func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.ValidateWatch(); err != nil {
		return err
	}

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.monitor.Watch(ctx, a.cfg.Interval)
}

// runShow prints one journal
func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var path string
	switch args[0] {
	case "main":
		path = cfg.MainJournalPath()
	case "academics":
		path = cfg.AcademicsJournalPath()
	default:
		return fmt.Errorf("unknown journal: %s (must be 'main' or 'academics')", args[0])
	}

	formatFlag, _ := cmd.Flags().GetString("format")
	format := OutputFormat(formatFlag)
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", formatFlag)
	}

	j, err := journal.Load(path, nil)
	if err != nil {
		return fmt.Errorf("loading journal: %w", err)
	}

	return WriteJournal(cmd.OutOrStdout(), j, format)
}

// Execute runs the CLI
func Execute() {
	ctx := context.Background()
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(ExitError)
	}
}
