package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Rule locates one text fragment: the first Tag element carrying Class,
// optionally narrowed to its first Nested descendant.
type Rule struct {
	Tag    string
	Class  string
	Nested string
}

var (
	// HeadlineRule picks the front page headline link
	HeadlineRule = Rule{Tag: "a", Class: "frontpage-link"}

	// AcademicsRule picks the title link of the first academics article
	AcademicsRule = Rule{Tag: "h3", Class: "standard-link", Nested: "a"}
)

// Selector returns the CSS selector for the outer element
func (r Rule) Selector() string {
	if r.Class == "" {
		return r.Tag
	}
	return r.Tag + "." + r.Class
}

func (r Rule) String() string {
	if r.Nested == "" {
		return r.Selector()
	}
	return r.Selector() + " " + r.Nested
}

// Find applies the rule to doc. It reports false when nothing matched.
func (r Rule) Find(doc *goquery.Document) (string, bool) {
	sel := doc.Find(r.Selector()).First()
	if sel.Length() == 0 {
		return "", false
	}

	// Only the first outer match is considered, even if a later one has the nested element
	if r.Nested != "" {
		sel = sel.Find(r.Nested).First()
		if sel.Length() == 0 {
			return "", false
		}
	}

	return strings.TrimSpace(sel.Text()), true
}

// Parse builds a document from raw markup
func Parse(markup string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// Extract returns the trimmed text selected by rule, or "" when nothing matches
func Extract(markup string, rule Rule) string {
	doc, err := Parse(markup)
	if err != nil {
		return ""
	}
	text, _ := rule.Find(doc)
	return text
}
