package monitor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/samber/lo"

	"github.com/pfrederiksen/dp-monitor/internal/journal"
	"github.com/pfrederiksen/dp-monitor/internal/logger"
	"github.com/pfrederiksen/dp-monitor/internal/scraper"
)

// Fetcher retrieves a page
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*scraper.Page, error)
}

// Monitor runs sources against their journals
type Monitor struct {
	fetcher     Fetcher
	sources     []Source
	clock       clockwork.Clock
	log         *logger.Logger
	recordEmpty bool
}

// Option configures a Monitor
type Option func(*Monitor)

// WithClock sets the time source used for journal dates
func WithClock(c clockwork.Clock) Option {
	return func(m *Monitor) {
		m.clock = c
	}
}

// WithLogger sets the logger
func WithLogger(l *logger.Logger) Option {
	return func(m *Monitor) {
		m.log = l
	}
}

// WithRecordEmpty stores an empty value when a selector misses instead of skipping the day
func WithRecordEmpty(enabled bool) Option {
	return func(m *Monitor) {
		m.recordEmpty = enabled
	}
}

// New creates a Monitor for sources
func New(fetcher Fetcher, sources []Source, opts ...Option) *Monitor {
	m := &Monitor{
		fetcher: fetcher,
		sources: sources,
		clock:   clockwork.NewRealClock(),
		log:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Report summarizes one run over all sources
type Report struct {
	RunID    string        `json:"run_id"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
	Outcomes []Outcome     `json:"outcomes"`
}

// Recorded returns the number of journals that gained an entry
func (r *Report) Recorded() int {
	return lo.CountBy(r.Outcomes, func(o Outcome) bool {
		return o.Recorded
	})
}

// Failed returns the outcomes that did not extract a value
func (r *Report) Failed() []Outcome {
	return lo.Filter(r.Outcomes, func(o Outcome, _ int) bool {
		return !o.OK()
	})
}

// Run executes every source once, sequentially. It never fails as a whole;
// per-source problems are logged and reported in the outcomes.
func (m *Monitor) Run(ctx context.Context) *Report {
	report := &Report{
		RunID:   uuid.NewString(),
		Started: m.clock.Now(),
	}
	log := m.log.With(logger.Fields{"run_id": report.RunID})
	metrics := logger.NewMetrics()

	for _, src := range m.sources {
		srcLog := log.With(logger.Fields{"source": src.Name})
		srcLog.Info("Starting scrape", nil)

		out := m.runSource(ctx, src, srcLog, metrics)
		metrics.IncrCounter("outcome." + string(out.Reason))
		if out.Recorded {
			metrics.IncrCounter("journal.recorded")
		}
		report.Outcomes = append(report.Outcomes, out)
	}

	report.Duration = m.clock.Since(report.Started)
	log.Info("Scrape complete", logger.Fields{
		"recorded": report.Recorded(),
		"failed":   len(report.Failed()),
		"metrics":  metrics.GetSnapshot(),
	})

	return report
}

func (m *Monitor) runSource(ctx context.Context, src Source, log *logger.Logger, metrics *logger.Metrics) Outcome {
	// The journal is loaded before fetching so a broken file is reported on every run
	j, err := journal.Load(src.Journal, m.clock)
	if err != nil {
		log.Error("Failed to load journal", logger.Fields{"path": src.Journal}, err)
		return Outcome{
			Source: src.Name,
			URL:    src.URL,
			Reason: ReasonJournalFailed,
			Err:    err,
		}
	}

	out := m.scrape(ctx, src, log, metrics)

	persist := out.OK() || (out.Reason == ReasonNoMatch && m.recordEmpty)
	if !persist {
		return out
	}

	if !j.AddToday(out.Value) {
		existing, _ := j.Get(j.Today())
		log.Info("Journal already has an entry for today", logger.Fields{
			"date":     j.Today(),
			"existing": existing,
		})
		return out
	}

	if err := j.Save(); err != nil {
		log.Error("Failed to save journal", logger.Fields{"path": src.Journal}, err)
		out.Reason = ReasonJournalFailed
		out.Err = err
		return out
	}

	out.Recorded = true
	log.Info("Saved daily event journal", logger.Fields{
		"path":    src.Journal,
		"date":    j.Today(),
		"entries": j.Len(),
	})
	return out
}

// scrape fetches and extracts one source without touching its journal
func (m *Monitor) scrape(ctx context.Context, src Source, log *logger.Logger, metrics *logger.Metrics) Outcome {
	out := Outcome{Source: src.Name, URL: src.URL}

	start := m.clock.Now()
	page, err := m.fetcher.Fetch(ctx, src.URL)
	metrics.RecordTiming("fetch", m.clock.Since(start))

	if page != nil {
		out.URL = page.URL
		out.StatusCode = page.StatusCode
		log.Info("Request complete", logger.Fields{
			"url":         page.URL,
			"status_code": page.StatusCode,
		})
	}

	if err != nil {
		var statusErr *scraper.StatusError
		if errors.As(err, &statusErr) {
			out.Reason = ReasonBadStatus
		} else {
			out.Reason = ReasonFetchFailed
		}
		out.Err = err
		log.Error(fmt.Sprintf("Failed to scrape %s", src.Name), logger.Fields{"url": src.URL}, err)
		return out
	}

	doc, err := scraper.Parse(page.Body)
	if err != nil {
		out.Reason = ReasonParseFailed
		out.Err = err
		log.Error(fmt.Sprintf("Failed to scrape %s", src.Name), logger.Fields{"url": out.URL}, err)
		return out
	}

	value, ok := src.Rule.Find(doc)
	if !ok {
		out.Reason = ReasonNoMatch
		log.Warn("Selector matched nothing", logger.Fields{"rule": src.Rule.String()})
		return out
	}

	out.Reason = ReasonOK
	out.Value = value
	log.Info("Data point", logger.Fields{"value": value})
	return out
}

// EnsureDataDir creates the data directory. Failure here is fatal for the process.
func EnsureDataDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return nil
}
