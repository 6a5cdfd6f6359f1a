package monitor

import (
	"path/filepath"

	"github.com/pfrederiksen/dp-monitor/internal/config"
	"github.com/pfrederiksen/dp-monitor/internal/scraper"
)

// Source is one independently scraped page
type Source struct {
	Name    string
	URL     string
	Rule    scraper.Rule
	Journal string // journal file path
}

// DefaultSources returns the main headline and academics article sources
// with their journals under dataDir.
func DefaultSources(dataDir string) []Source {
	return []Source{
		{
			Name:    "main headline",
			URL:     scraper.HomeURL,
			Rule:    scraper.HeadlineRule,
			Journal: filepath.Join(dataDir, config.MainJournalFile),
		},
		{
			Name:    "academics article title",
			URL:     scraper.AcademicsURL,
			Rule:    scraper.AcademicsRule,
			Journal: filepath.Join(dataDir, config.AcademicsJournalFile),
		},
	}
}
