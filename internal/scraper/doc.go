// Package scraper provides HTTP fetching and HTML text extraction for The Daily Pennsylvanian.
//
// The scraper package fetches public pages from thedp.com and locates single text
// fragments in them using fixed selector rules: the front page headline link and the
// first article title in the academics section. A rule that matches nothing yields an
// empty string rather than an error.
package scraper
