// Package reports serves the daily report archives. Reports are named
// for the day they cover (YYYYMMDD.zip) and live in object storage.
package reports

import (
	"context"
	"errors"
	"io"
	"regexp"
	"time"
)

var ErrNotFound = errors.New("report not found")

var fileNamePattern = regexp.MustCompile(`^\d{8}\.zip$`)

type File struct {
	Name         string
	Size         int64
	LastModified time.Time
}

type Store interface {
	// TodaysFile returns metadata for today's report, or nil if it has
	// not been published yet.
	TodaysFile(ctx context.Context) (*File, error)

	// Download opens the named report for reading. Returns ErrNotFound
	// if no such report exists.
	Download(ctx context.Context, name string) (io.ReadCloser, int64, error)

	// List returns all published reports, newest first.
	List(ctx context.Context) ([]File, error)
}

// FileNameForDate returns the report name covering the given instant,
// in UTC.
func FileNameForDate(t time.Time) string {
	return t.UTC().Format("20060102") + ".zip"
}

// ValidFileName reports whether name looks like a report archive name.
// Anything else is rejected before it gets near the object store.
func ValidFileName(name string) bool {
	return fileNamePattern.MatchString(name)
}
