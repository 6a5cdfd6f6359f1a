package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_Log(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelInfo, &buf)

	tests := []struct {
		name    string
		level   Level
		message string
		fields  Fields
		err     error
		want    bool // should log
	}{
		{
			name:    "info message",
			level:   LevelInfo,
			message: "test message",
			fields:  Fields{"key": "value"},
			want:    true,
		},
		{
			name:    "debug below threshold",
			level:   LevelDebug,
			message: "debug message",
			want:    false, // won't log (below INFO)
		},
		{
			name:    "error with err",
			level:   LevelError,
			message: "error occurred",
			err:     errors.New("test error"),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := buf.Len()

			logger.log(tt.level, tt.message, tt.fields, tt.err)

			assert.Equal(t, tt.want, buf.Len() > before)
		})
	}
}

func TestLogger_EntryFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelDebug, &buf)
	logger.now = func() time.Time {
		return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	}

	logger.Error("Failed to scrape", Fields{"source": "main"}, errors.New("connection refused"))

	var entry LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "2026-10-19T12:00:00Z", entry.Timestamp)
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "main", entry.Fields["source"])
	assert.Equal(t, "connection refused", entry.Error)
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	parent := New(LevelInfo, &buf)
	child := parent.With(Fields{"run_id": "abc"})

	child.Info("scrape started", Fields{"source": "academics"})

	var entry LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "abc", entry.Fields["run_id"])
	assert.Equal(t, "academics", entry.Fields["source"])

	// Parent is unaffected
	buf.Reset()
	parent.Info("plain", nil)
	assert.NotContains(t, buf.String(), "run_id")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"info", LevelInfo, false},
		{" DEBUG ", LevelDebug, false},
		{"Warn", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		minLevel  Level
		logLevel  Level
		shouldLog bool
	}{
		{"debug logs at debug", LevelDebug, LevelDebug, true},
		{"info logs at debug", LevelDebug, LevelInfo, true},
		{"debug doesn't log at info", LevelInfo, LevelDebug, false},
		{"error always logs", LevelDebug, LevelError, true},
		{"warn doesn't log at error", LevelError, LevelWarn, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(tt.minLevel, &buf)

			logger.log(tt.logLevel, "test", nil, nil)

			assert.Equal(t, tt.shouldLog, buf.Len() > 0)
		})
	}
}

func TestMetrics_Counter(t *testing.T) {
	m := NewMetrics()

	m.IncrCounter("journal.recorded")
	m.IncrCounter("journal.recorded")
	m.IncrCounter("journal.recorded")

	snapshot := m.GetSnapshot()
	counters := snapshot["counters"].(map[string]int64)

	assert.Equal(t, int64(3), counters["journal.recorded"])
}

func TestMetrics_Timing(t *testing.T) {
	m := NewMetrics()

	m.RecordTiming("fetch", 100*time.Millisecond)
	m.RecordTiming("fetch", 200*time.Millisecond)
	m.RecordTiming("fetch", 150*time.Millisecond)

	snapshot := m.GetSnapshot()
	timings := snapshot["timings"].(map[string]map[string]interface{})

	fetch := timings["fetch"]
	assert.Equal(t, 3, fetch["count"])
	assert.Equal(t, "100ms", fetch["min"])
	assert.Equal(t, "200ms", fetch["max"])
	assert.Equal(t, "150ms", fetch["average"])
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "scrape.log")

	log, closer, err := Open(FileOptions{Path: path, Rotation: 24 * time.Hour})
	require.NoError(t, err)

	log.Info("Scrape complete", Fields{"updated": 2})
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err, "reading log through link")
	assert.Contains(t, string(data), "Scrape complete")
}

func TestOpen_KeepsExistingLogFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scrape.log")
	require.NoError(t, os.WriteFile(path, []byte("OLD HISTORY\n"), 0644))

	mtime := time.Date(2025, time.March, 4, 10, 0, 0, 0, time.Local)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	log, closer, err := Open(FileOptions{Path: path, Rotation: 24 * time.Hour})
	require.NoError(t, err)
	log.Info("hello", nil)
	require.NoError(t, closer.Close())

	old, err := os.ReadFile(filepath.Join(dir, "scrape.2025-03-04.log"))
	require.NoError(t, err, "previous log should be moved to its rotated name")
	assert.Equal(t, "OLD HISTORY\n", string(old))

	info, err := os.Lstat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink, "log path should now be a link")

	current, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(current), "hello")
	assert.NotContains(t, string(current), "OLD HISTORY")
}

func TestOpen_ExistingLogFileNameTaken(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scrape.log")
	require.NoError(t, os.WriteFile(path, []byte("OLD HISTORY\n"), 0644))
	mtime := time.Date(2025, time.March, 4, 10, 0, 0, 0, time.Local)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	taken := filepath.Join(dir, "scrape.2025-03-04.log")
	require.NoError(t, os.WriteFile(taken, []byte("OTHER\n"), 0644))

	_, _, err := Open(FileOptions{Path: path, Rotation: 24 * time.Hour})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// Nothing is overwritten
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "OLD HISTORY\n", string(data))
	data, err = os.ReadFile(taken)
	require.NoError(t, err)
	assert.Equal(t, "OTHER\n", string(data))
}

func TestOpen_ReusesExistingLink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scrape.log")

	for _, msg := range []string{"first run", "second run"} {
		log, closer, err := Open(FileOptions{Path: path, Rotation: 24 * time.Hour})
		require.NoError(t, err)
		log.Info(msg, nil)
		require.NoError(t, closer.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first run")
	assert.Contains(t, string(data), "second run")
}

func TestOpen_RequiresPath(t *testing.T) {
	_, _, err := Open(FileOptions{})
	assert.Error(t, err)
}

func TestRotationPattern(t *testing.T) {
	tests := []struct {
		path     string
		rotation time.Duration
		want     string
	}{
		{"scrape.log", 24 * time.Hour, "scrape.%Y-%m-%d.log"},
		{"logs/scrape.log", 6 * time.Hour, "logs/scrape.%Y-%m-%d_%H.log"},
		{"scrape", 15 * time.Minute, "scrape.%Y-%m-%d_%H%M"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, rotationPattern(tt.path, tt.rotation))
		})
	}
}

func TestRotatedName(t *testing.T) {
	at := time.Date(2026, time.October, 19, 7, 5, 0, 0, time.Local)

	assert.Equal(t, "scrape.2026-10-19.log", rotatedName("scrape.log", 24*time.Hour, at))
	assert.Equal(t, "scrape.2026-10-19_07.log", rotatedName("scrape.log", 6*time.Hour, at))
	assert.Equal(t, "scrape.2026-10-19_0705", rotatedName("scrape", 15*time.Minute, at))
}
