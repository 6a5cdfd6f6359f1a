// Package journal provides JSON-based persistence for date-indexed event histories.
//
// A Journal records at most one value per calendar day. Journals are stored as
// pretty-printed JSON objects keyed by date (2006-01-02), preserving the order
// of entries on disk so that a load followed by a save leaves the file unchanged.
// The current day is taken from an injected clock so callers can pin it in tests.
package journal
