// Package combatlog keeps the human-readable combat log fed by the
// combat manager and stores it as timestamped text files.
package combatlog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	filePrefix = "combat_log_"
	fileExt    = ".txt"
	fileStamp  = "20060102_150405"
	headStamp  = "2006-01-02 15:04:05"
)

// rule separates the header and appended logs.
var rule = strings.Repeat("=", 60)

var (
	// ErrEmptyLog is returned by Save when there is nothing to write.
	ErrEmptyLog = errors.New("combat log is empty")
	// ErrNoLogs is returned by Latest when the folder holds no log files.
	ErrNoLogs = errors.New("no combat logs found")
)

// Log is an append-only list of log lines. Not safe for concurrent use.
type Log struct {
	lines []string
	now   func() time.Time
}

// New creates an empty log.
func New() *Log {
	return &Log{now: time.Now}
}

// SetClock replaces the time source used for file names and headers.
func (l *Log) SetClock(fn func() time.Time) {
	l.now = fn
}

// Append adds one message. Its signature matches CombatManager.SetLogFunc.
func (l *Log) Append(msg string) {
	l.lines = append(l.lines, msg)
}

// Lines returns a copy of the log lines.
func (l *Log) Lines() []string {
	return append([]string(nil), l.lines...)
}

// Text returns the log joined by newlines.
func (l *Log) Text() string {
	return strings.Join(l.lines, "\n")
}

// Empty reports whether the log holds only whitespace.
func (l *Log) Empty() bool {
	return strings.TrimSpace(l.Text()) == ""
}

// Clear drops every line.
func (l *Log) Clear() {
	l.lines = nil
}

// Save writes the log to dir as combat_log_YYYYMMDD_HHMMSS.txt, creating
// dir if needed, and returns the file path.
func (l *Log) Save(dir string) (string, error) {
	if l.Empty() {
		return "", ErrEmptyLog
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating log folder %s: %w", dir, err)
	}

	ts := l.now()
	path := filepath.Join(dir, filePrefix+ts.Format(fileStamp)+fileExt)

	var b strings.Builder
	fmt.Fprintf(&b, "Combat Log - Saved %s\n", ts.Format(headStamp))
	b.WriteString(rule + "\n\n")
	b.WriteString(l.Text())

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing combat log %s: %w", path, err)
	}
	return path, nil
}

// Load reads a saved log. With appendMode and a non-empty log, the file
// follows the current lines after a separator naming it; otherwise it
// replaces them.
func (l *Log) Load(path string, appendMode bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading combat log %s: %w", path, err)
	}
	content := strings.Split(strings.TrimRight(string(data), "\n"), "\n")

	if !appendMode || l.Empty() {
		l.lines = content
		return nil
	}

	l.lines = append(l.lines, "", rule, "Loaded from "+filepath.Base(path), "")
	l.lines = append(l.lines, content...)
	return nil
}

// Latest returns the most recently modified combat log in dir.
func Latest(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, filePrefix+"*"+fileExt))
	if err != nil {
		return "", fmt.Errorf("listing %s: %w", dir, err)
	}

	var (
		latest  string
		latestT time.Time
	)
	for _, p := range matches {
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if latest == "" || info.ModTime().After(latestT) {
			latest, latestT = p, info.ModTime()
		}
	}
	if latest == "" {
		return "", fmt.Errorf("%w in %s", ErrNoLogs, dir)
	}
	return latest, nil
}
