package journal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"
)

// DateLayout is the key format used for journal entries
const DateLayout = "2006-01-02"

// ErrMalformed is returned when an existing journal file cannot be decoded
var ErrMalformed = errors.New("malformed journal")

// Clock supplies the current time used to determine "today"
type Clock = clockwork.Clock

// Entry is a single recorded day
type Entry struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

// Journal is an ordered date -> value mapping bound to one file
type Journal struct {
	path    string
	clock   Clock
	entries []Entry
	index   map[string]int
}

// New creates an empty journal bound to path. A nil clock uses the wall clock.
func New(path string, clock Clock) *Journal {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Journal{
		path:  path,
		clock: clock,
		index: make(map[string]int),
	}
}

// Load reads the journal at path. A missing file yields an empty journal.
func Load(path string, clock Clock) (*Journal, error) {
	j := New(path, clock)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return j, nil
		}
		return nil, fmt.Errorf("reading journal: %w", err)
	}

	if err := j.decode(data); err != nil {
		return nil, fmt.Errorf("parsing journal %s: %w", path, err)
	}

	return j, nil
}

// decode reads a JSON object token by token so file order is kept
func (j *Journal) decode(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: expected object, got %v", ErrMalformed, tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		date := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("%w: value for %q: %v", ErrMalformed, date, err)
		}
		var value string
		if len(raw) == 0 || raw[0] != '"' {
			return fmt.Errorf("%w: value for %q is not a string", ErrMalformed, date)
		}
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("%w: value for %q: %v", ErrMalformed, date, err)
		}

		if _, exists := j.index[date]; exists {
			return fmt.Errorf("%w: duplicate date %q", ErrMalformed, date)
		}
		j.put(date, value)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("%w: trailing data after object", ErrMalformed)
	}

	return nil
}

func (j *Journal) put(date, value string) {
	j.index[date] = len(j.entries)
	j.entries = append(j.entries, Entry{Date: date, Value: value})
}

// Today returns the date key for the clock's current local day
func (j *Journal) Today() string {
	return j.clock.Now().Local().Format(DateLayout)
}

// AddToday records value under today's date unless the day already has an entry.
// It reports whether the value was inserted.
func (j *Journal) AddToday(value string) bool {
	today := j.Today()
	if _, exists := j.index[today]; exists {
		return false
	}
	j.put(today, value)
	return true
}

// Get returns the value recorded for date
func (j *Journal) Get(date string) (string, bool) {
	i, ok := j.index[date]
	if !ok {
		return "", false
	}
	return j.entries[i].Value, true
}

// Len returns the number of recorded days
func (j *Journal) Len() int {
	return len(j.entries)
}

// Entries returns a copy of all entries in journal order
func (j *Journal) Entries() []Entry {
	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

// Path returns the file the journal is bound to
func (j *Journal) Path() string {
	return j.path
}

// MarshalJSON encodes the journal as an object keyed by date, in journal order
func (j *Journal) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range j.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(&buf, e.Date); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeString(&buf, e.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeString encodes s as a JSON string without escaping HTML characters
func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode appends a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}

// Save writes the whole journal to its path, creating parent directories
func (j *Journal) Save() error {
	if dir := filepath.Dir(j.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating journal directory: %w", err)
		}
	}

	raw, err := j.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encoding journal: %w", err)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return fmt.Errorf("encoding journal: %w", err)
	}
	out.WriteByte('\n')

	if err := os.WriteFile(j.path, out.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing journal: %w", err)
	}

	return nil
}
