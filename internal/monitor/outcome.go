package monitor

import "fmt"

// Reason classifies the result of running one source
type Reason string

const (
	ReasonOK            Reason = "ok"
	ReasonFetchFailed   Reason = "fetch_failed"
	ReasonBadStatus     Reason = "bad_status"
	ReasonParseFailed   Reason = "parse_failed"
	ReasonNoMatch       Reason = "no_match"
	ReasonJournalFailed Reason = "journal_failed"
)

// Outcome is the result of one source pipeline
type Outcome struct {
	Source     string `json:"source"`
	URL        string `json:"url"`
	StatusCode int    `json:"status_code,omitempty"`
	Value      string `json:"value"`
	Reason     Reason `json:"reason"`
	Recorded   bool   `json:"recorded"` // a new entry was added for today
	Err        error  `json:"-"`
}

// OK reports whether a value was extracted
func (o Outcome) OK() bool {
	return o.Reason == ReasonOK
}

func (o Outcome) String() string {
	if o.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", o.Source, o.Reason, o.Err)
	}
	if o.Reason == ReasonOK {
		return fmt.Sprintf("%s: %q", o.Source, o.Value)
	}
	return fmt.Sprintf("%s: %s", o.Source, o.Reason)
}
