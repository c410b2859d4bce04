package ops

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hpungsan/fpwatch/internal/db"
)

// PurgeInput contains parameters for the Purge operation.
type PurgeInput struct {
	Callsign *string // optional; nil purges every flight
}

// PurgeOutput contains the result of the Purge operation.
type PurgeOutput struct {
	Purged  int    `json:"purged"`
	Message string `json:"message"`
}

// Purge permanently deletes stored snapshots.
func Purge(ctx context.Context, database *sql.DB, input PurgeInput) (*PurgeOutput, error) {
	if input.Callsign != nil {
		callsign, err := ValidateCallsign(*input.Callsign)
		if err != nil {
			return nil, err
		}
		if err := db.DeleteSnapshot(database, callsign); err != nil {
			return nil, err
		}
		return &PurgeOutput{
			Purged:  1,
			Message: formatPurgeMessage(1, &callsign),
		}, nil
	}

	count, err := db.DeleteAll(database)
	if err != nil {
		return nil, err
	}
	return &PurgeOutput{
		Purged:  count,
		Message: formatPurgeMessage(count, nil),
	}, nil
}

// formatPurgeMessage creates a human-readable message for the purge result.
func formatPurgeMessage(count int, callsign *string) string {
	if count == 0 {
		return "No stored flights to purge"
	}

	if callsign != nil {
		return fmt.Sprintf("Permanently deleted stored state of %s", *callsign)
	}

	flightWord := "flight"
	if count > 1 {
		flightWord = "flights"
	}
	return fmt.Sprintf("Permanently deleted %d stored %s", count, flightWord)
}
