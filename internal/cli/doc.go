// Package cli implements the command-line interface for dp-monitor.
//
// The cli package provides the Cobra-based CLI: a single-shot scrape of both
// sources (the default), a scheduled watch mode, and a command to print a
// journal. It wires configuration, logging, the scraper and the journals
// together and maps fatal setup failures to a non-zero exit status.
package cli
