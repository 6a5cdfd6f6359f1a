package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
)

// FileOptions controls the rotating log file
type FileOptions struct {
	Path     string        // base log file, e.g. "scrape.log"
	Rotation time.Duration // interval between rotations
	MaxAge   time.Duration // rotated files older than this are removed
	Level    Level
	Stderr   bool // mirror entries to stderr
}

// Open creates a logger writing to a time-rotated file. Rotated files are named
// after Path with a timestamp suffix, and Path itself is kept as a symlink to the
// current file. The returned closer releases the file handle.
func Open(opts FileOptions) (*Logger, io.Closer, error) {
	if opts.Path == "" {
		return nil, nil, fmt.Errorf("log file path is required")
	}
	if opts.Rotation <= 0 {
		opts.Rotation = 24 * time.Hour
	}
	if opts.Level == "" {
		opts.Level = LevelInfo
	}

	if dir := filepath.Dir(opts.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
	}

	// rotatelogs replaces Path with a symlink, so a plain log file left there
	// must be moved out of the way first
	if err := preserveExisting(opts.Path, opts.Rotation); err != nil {
		return nil, nil, err
	}

	rotOpts := []rotatelogs.Option{
		rotatelogs.WithRotationTime(opts.Rotation),
		rotatelogs.WithLinkName(opts.Path),
	}
	if opts.MaxAge > 0 {
		rotOpts = append(rotOpts, rotatelogs.WithMaxAge(opts.MaxAge))
	}

	rl, err := rotatelogs.New(rotationPattern(opts.Path, opts.Rotation), rotOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	var w io.Writer = rl
	if opts.Stderr {
		w = io.MultiWriter(rl, os.Stderr)
	}

	return New(opts.Level, w), rl, nil
}

// preserveExisting renames a regular file at path to the rotated name for its
// modification time. Symlinks (from earlier runs) and missing files are left alone.
func preserveExisting(path string, rotation time.Duration) error {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking log file: %w", err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return nil
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("log path %s is not a regular file", path)
	}

	target := rotatedName(path, rotation, info.ModTime())
	if _, err := os.Lstat(target); err == nil {
		return fmt.Errorf("moving existing log %s aside: %s already exists", path, target)
	}
	if err := os.Rename(path, target); err != nil {
		return fmt.Errorf("moving existing log aside: %w", err)
	}
	return nil
}

// stampFormats returns the strftime and Go layouts for rotated file names.
// Sub-daily rotation needs the hour (and minute) in the name to avoid collisions.
func stampFormats(rotation time.Duration) (strftime, layout string) {
	switch {
	case rotation < time.Hour:
		return "%Y-%m-%d_%H%M", "2006-01-02_1504"
	case rotation < 24*time.Hour:
		return "%Y-%m-%d_%H", "2006-01-02_15"
	default:
		return "%Y-%m-%d", "2006-01-02"
	}
}

func splitExt(path string) (base, ext string) {
	ext = filepath.Ext(path)
	return strings.TrimSuffix(path, ext), ext
}

// rotationPattern derives the strftime pattern for rotated files from the base path
func rotationPattern(path string, rotation time.Duration) string {
	base, ext := splitExt(path)
	stamp, _ := stampFormats(rotation)
	return base + "." + stamp + ext
}

// rotatedName is the rotated file name for t, matching rotationPattern
func rotatedName(path string, rotation time.Duration, t time.Time) string {
	base, ext := splitExt(path)
	_, layout := stampFormats(rotation)
	return base + "." + t.Format(layout) + ext
}
