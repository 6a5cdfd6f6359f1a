// Package monitor runs the scrape pipelines for dp-monitor.
//
// A Source pairs a page URL with a selector rule and a journal file. Running a
// source fetches the page, extracts the text fragment and records it in the
// journal for today, producing an Outcome that classifies what happened. Sources
// are independent: one failing never prevents the next from running. Watch runs
// the whole set on a fixed interval.
package monitor
