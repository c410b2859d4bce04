// Package tracker keeps the latest flight-plan snapshot of each tracked flight
// and merges incoming partial updates against it.
package tracker

import (
	"slices"

	"github.com/hpungsan/fpwatch/internal/flightplan"
	"github.com/hpungsan/fpwatch/internal/record"
)

// KeyFunc derives the entity key of a flight element.
type KeyFunc func(rec record.Record) (string, error)

// DefaultKey keys flights by aircraft call sign.
var DefaultKey KeyFunc = flightplan.Callsign

// Update is the outcome of applying one flight element.
type Update struct {
	Key      string
	Previous *flightplan.Snapshot // nil on first sight
	Current  *flightplan.Snapshot
	Changes  flightplan.ChangeSet
}

// Tracker holds one latest snapshot per key. Updates are applied one at a
// time in arrival order; a Tracker is not safe for concurrent use.
type Tracker struct {
	latest map[string]*flightplan.Snapshot
	ignore flightplan.IgnoreSet
}

// New returns an empty tracker reporting changes outside the default ignore set.
func New() *Tracker {
	return NewWithIgnore(flightplan.DefaultIgnored())
}

// NewWithIgnore returns an empty tracker that never reports the given fields.
func NewWithIgnore(ignore flightplan.IgnoreSet) *Tracker {
	return &Tracker{
		latest: make(map[string]*flightplan.Snapshot),
		ignore: ignore,
	}
}

// Seed installs a previously stored snapshot as the latest state of key.
func (t *Tracker) Seed(key string, s *flightplan.Snapshot) {
	t.latest[key] = s
}

// Apply merges rec over the latest snapshot of key and records the result.
// On error the stored state is left untouched.
func (t *Tracker) Apply(key string, rec record.Record) (Update, error) {
	prev := t.latest[key]
	next, err := flightplan.Extract(rec, prev)
	if err != nil {
		return Update{}, err
	}
	t.latest[key] = next

	return Update{
		Key:      key,
		Previous: prev,
		Current:  next,
		Changes:  flightplan.Diff(prev, next, t.ignore),
	}, nil
}

// Latest returns the most recent snapshot of key.
func (t *Tracker) Latest(key string) (*flightplan.Snapshot, bool) {
	s, ok := t.latest[key]
	return s, ok
}

// Keys returns every tracked key in sorted order.
func (t *Tracker) Keys() []string {
	keys := make([]string, 0, len(t.latest))
	for k := range t.latest {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of tracked keys.
func (t *Tracker) Len() int {
	return len(t.latest)
}
