// Package feed drives message files through a tracker: it discovers files in
// timestamp order, decodes each one, and applies every flight element of
// interest.
package feed

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"

	"github.com/hpungsan/fpwatch/internal/errors"
	"github.com/hpungsan/fpwatch/internal/flightplan"
	"github.com/hpungsan/fpwatch/internal/nasxml"
	"github.com/hpungsan/fpwatch/internal/record"
	"github.com/hpungsan/fpwatch/internal/tracker"
)

// Filter selects the flight elements to apply.
type Filter func(flight record.Record) bool

// All accepts every flight element.
func All(record.Record) bool { return true }

// ByCallsign accepts flight elements whose aircraft identification is acid.
func ByCallsign(acid string) Filter {
	return func(flight record.Record) bool {
		cs, err := flightplan.Callsign(flight)
		return err == nil && cs == acid
	}
}

// UpdateFunc receives every applied update with the file it came from.
type UpdateFunc func(source string, u tracker.Update) error

// Stats counts what a run processed.
type Stats struct {
	Files    int `json:"files"`
	Skipped  int `json:"skipped_files"`
	Messages int `json:"messages"`
	Resumed  int `json:"resumed"`
	Updates  int `json:"updates"`
	Changes  int `json:"changes"`
}

func (s *Stats) add(o Stats) {
	s.Files += o.Files
	s.Skipped += o.Skipped
	s.Messages += o.Messages
	s.Resumed += o.Resumed
	s.Updates += o.Updates
	s.Changes += o.Changes
}

// Runner applies message files to a tracker in order.
type Runner struct {
	Tracker *tracker.Tracker
	Key     tracker.KeyFunc // nil keys by call sign
	Filter  Filter          // nil accepts every flight
	// OnUpdate is called after each applied flight element; an error stops
	// the run.
	OnUpdate UpdateFunc
	// Log receives progress notices. Nil keeps the run quiet.
	Log *log.Logger
	// Resume maps a key to the message file its tracked state came from.
	// Flight elements of that key in files whose names sort at or before it
	// are skipped.
	Resume map[string]string
}

// Discover returns the files matching pattern in lexical order. Message file
// names are millisecond timestamps, so lexical order is arrival order.
func Discover(pattern string) ([]string, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.NewInvalidRequest("invalid message glob " + pattern + ": " + err.Error())
	}
	slices.Sort(paths)
	return paths, nil
}

// Run processes paths in order, stopping at the first error or when ctx is
// cancelled between files.
func (r *Runner) Run(ctx context.Context, paths []string) (Stats, error) {
	var total Stats
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		st, err := r.ProcessFile(ctx, p)
		total.add(st)
		if err != nil {
			return total, err
		}
	}
	r.Logf("processed %d files (%d skipped), %d messages, %d updates (%d already applied), %d changes",
		total.Files, total.Skipped, total.Messages, total.Updates, total.Resumed, total.Changes)
	return total, nil
}

// ProcessFile decodes one message file and applies its flight elements.
func (r *Runner) ProcessFile(ctx context.Context, path string) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, errors.WithSource(err, path)
	}
	defer f.Close()
	return r.ProcessReader(ctx, path, f)
}

// ProcessReader decodes one document read from rd. source names the document
// in errors and in update callbacks.
func (r *Runner) ProcessReader(ctx context.Context, source string, rd io.Reader) (Stats, error) {
	st := Stats{Files: 1}

	doc, err := nasxml.Decode(rd)
	if err != nil {
		return st, errors.WithSource(err, source)
	}

	messages, ok := nasxml.Messages(doc)
	if !ok {
		r.Logf("skipping %s: not a message collection", source)
		st.Skipped = 1
		return st, nil
	}

	keyFn := r.Key
	if keyFn == nil {
		keyFn = tracker.DefaultKey
	}
	filter := r.Filter
	if filter == nil {
		filter = All
	}

	for _, msg := range messages {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		st.Messages++

		for _, flight := range msg.All("flight") {
			if !filter(flight) {
				continue
			}
			key, err := keyFn(flight)
			if err != nil {
				return st, errors.WithSource(err, source)
			}
			u, err := r.Tracker.Apply(key, flight)
			if err != nil {
				return st, errors.WithSource(err, source)
			}
			st.Updates++
			st.Changes += len(u.Changes)

			if r.OnUpdate != nil {
				if err := r.OnUpdate(source, u); err != nil {
					return st, errors.WithSource(err, source)
				}
			}
		}
	}
	return st, nil
}

// alreadyApplied reports whether source sorts at or before the file the
// tracked state of key came from.
func (r *Runner) alreadyApplied(key, source string) bool {
	last, ok := r.Resume[key]
	if !ok || last == "" {
		return false
	}
	return filepath.Base(source) <= filepath.Base(last)
}

// Logf writes a progress notice when the runner has a logger.
func (r *Runner) Logf(format string, args ...any) {
	if r.Log != nil {
		r.Log.Printf(format, args...)
	}
}
