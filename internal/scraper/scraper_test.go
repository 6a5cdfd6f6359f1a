package scraper

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		rule   Rule
		want   string
	}{
		{
			name:   "headline hit",
			markup: `<a class="frontpage-link">Big News</a>`,
			rule:   HeadlineRule,
			want:   "Big News",
		},
		{
			name:   "headline trimmed",
			markup: `<div><a class="frontpage-link" href="/x">  Big News 
</a></div>`,
			rule: HeadlineRule,
			want: "Big News",
		},
		{
			name:   "headline first match wins",
			markup: `<a class="frontpage-link">One</a><a class="frontpage-link">Two</a>`,
			rule:   HeadlineRule,
			want:   "One",
		},
		{
			name:   "headline among several classes",
			markup: `<a class="link frontpage-link big">Multi</a>`,
			rule:   HeadlineRule,
			want:   "Multi",
		},
		{
			name:   "headline miss",
			markup: `<a class="other-link">Nope</a>`,
			rule:   HeadlineRule,
			want:   "",
		},
		{
			name:   "headline wrong tag",
			markup: `<span class="frontpage-link">Nope</span>`,
			rule:   HeadlineRule,
			want:   "",
		},
		{
			name:   "academics nested hit",
			markup: `<h3 class="standard-link"><a>  Title Here  </a></h3>`,
			rule:   AcademicsRule,
			want:   "Title Here",
		},
		{
			name:   "academics deeper anchor",
			markup: `<h3 class="standard-link"><span><a href="/a">Deep Title</a></span></h3>`,
			rule:   AcademicsRule,
			want:   "Deep Title",
		},
		{
			name:   "academics heading without anchor",
			markup: `<h3 class="standard-link">No link</h3><h3 class="standard-link"><a>Later</a></h3>`,
			rule:   AcademicsRule,
			want:   "",
		},
		{
			name:   "academics miss",
			markup: `<h3 class="other"><a>Title</a></h3>`,
			rule:   AcademicsRule,
			want:   "",
		},
		{
			name:   "empty markup",
			markup: "",
			rule:   AcademicsRule,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.markup, tt.rule))
		})
	}
}

func TestRuleFind(t *testing.T) {
	doc, err := Parse(`<h3 class="standard-link"><a></a></h3>`)
	require.NoError(t, err)

	// An empty anchor is still a match
	text, ok := AcademicsRule.Find(doc)
	assert.True(t, ok)
	assert.Equal(t, "", text)

	_, ok = HeadlineRule.Find(doc)
	assert.False(t, ok, "headline rule should report a miss")
}

func TestRuleString(t *testing.T) {
	assert.Equal(t, "a.frontpage-link", HeadlineRule.String())
	assert.Equal(t, "h3.standard-link a", AcademicsRule.String())
}

func TestExtractFixtures(t *testing.T) {
	tests := []struct {
		fixture string
		rule    Rule
		want    string
	}{
		{"testdata/home.html", HeadlineRule, "Penn announces record budget for research"},
		{"testdata/academics.html", AcademicsRule, "College introduces data science major"},
	}

	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			data, err := os.ReadFile(tt.fixture)
			require.NoError(t, err, "failed to load test fixture")
			assert.Equal(t, tt.want, Extract(string(data), tt.rule))
		})
	}
}
