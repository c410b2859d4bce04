package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/fpwatch/internal/db"
	"github.com/hpungsan/fpwatch/internal/errors"
	"github.com/hpungsan/fpwatch/internal/tracker"
)

// entropy keeps ids generated within the same millisecond ordered.
var entropy = &ulid.LockedMonotonicReader{MonotonicReader: ulid.Monotonic(rand.Reader, 0)}

// SaveInput contains parameters for the Save operation.
type SaveInput struct {
	Update tracker.Update
	Source string // message file the update came from
}

// SaveOutput contains the result of the Save operation.
type SaveOutput struct {
	ID      string `json:"id"`
	Changes int    `json:"changes"`
}

// Save replaces the stored snapshot of the update's flight with its current
// snapshot. The change set is counted, not stored.
func Save(ctx context.Context, database *sql.DB, input SaveInput) (*SaveOutput, error) {
	u := input.Update
	if u.Current == nil {
		return nil, errors.NewInvalidRequest("update has no current snapshot")
	}
	callsign, err := ValidateCallsign(u.Key)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	id, err := generateULID(now)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	row := &db.SnapshotRow{
		ID:        id,
		Callsign:  callsign,
		Snapshot:  u.Current,
		Source:    input.Source,
		CreatedAt: now.Unix(),
		UpdatedAt: now.Unix(),
	}
	if err := db.SaveSnapshot(database, row); err != nil {
		return nil, err
	}

	return &SaveOutput{ID: id, Changes: len(u.Changes)}, nil
}

// Seed loads every stored snapshot into t. It returns, per call sign, the
// message file that produced the stored state, so a run can resume after it.
func Seed(ctx context.Context, database *sql.DB, t *tracker.Tracker) (map[string]string, error) {
	rows, err := db.AllSnapshots(database)
	if err != nil {
		return nil, err
	}
	resume := make(map[string]string, len(rows))
	for _, r := range rows {
		t.Seed(r.Callsign, r.Snapshot)
		resume[r.Callsign] = r.Source
	}
	return resume, nil
}

// generateULID generates a new ULID.
func generateULID(at time.Time) (string, error) {
	id, err := ulid.New(ulid.Timestamp(at), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
