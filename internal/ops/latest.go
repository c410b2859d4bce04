package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/fpwatch/internal/db"
	"github.com/hpungsan/fpwatch/internal/flightplan"
)

// LatestInput contains parameters for the Latest operation.
type LatestInput struct {
	Callsign string // required
}

// LatestOutput contains the stored latest snapshot of a flight.
type LatestOutput struct {
	Callsign  string               `json:"callsign"`
	ID        string               `json:"id"`
	Source    string               `json:"source,omitempty"`
	UpdatedAt int64                `json:"updated_at"`
	Snapshot  *flightplan.Snapshot `json:"snapshot"`
}

// Latest retrieves the stored latest snapshot of a flight.
func Latest(ctx context.Context, database *sql.DB, input LatestInput) (*LatestOutput, error) {
	callsign, err := ValidateCallsign(input.Callsign)
	if err != nil {
		return nil, err
	}

	row, err := db.GetSnapshot(database, callsign)
	if err != nil {
		return nil, err
	}

	return &LatestOutput{
		Callsign:  row.Callsign,
		ID:        row.ID,
		Source:    row.Source,
		UpdatedAt: row.UpdatedAt,
		Snapshot:  row.Snapshot,
	}, nil
}
