package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/fpwatch/internal/db"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Limit  int // default: 20, max: 100
	Offset int // default: 0
}

// FlightSummary is one stored flight without its full snapshot.
type FlightSummary struct {
	Callsign  string `json:"callsign"`
	CID       string `json:"cid"`
	Departure string `json:"departure_airport"`
	Arrival   string `json:"arrival_airport"`
	Owner     string `json:"owner,omitempty"`
	Status    string `json:"status,omitempty"`
	Source    string `json:"source,omitempty"`
	UpdatedAt int64  `json:"updated_at"`
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []FlightSummary `json:"items"`
	Pagination Pagination      `json:"pagination"`
	Sort       string          `json:"sort"`
}

// List retrieves stored flight summaries with pagination.
func List(ctx context.Context, database *sql.DB, input ListInput) (*ListOutput, error) {
	limit, offset := clampPage(input.Limit, input.Offset, DefaultListLimit, MaxListLimit)

	rows, total, err := db.ListSnapshots(database, limit, offset)
	if err != nil {
		return nil, err
	}

	// Ensure we return an empty array rather than nil
	items := make([]FlightSummary, 0, len(rows))
	for _, r := range rows {
		items = append(items, summarize(r))
	}

	return &ListOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < total,
			Total:   total,
		},
		Sort: "updated_at_desc",
	}, nil
}

func summarize(r db.SnapshotRow) FlightSummary {
	s := r.Snapshot
	sum := FlightSummary{
		Callsign:  r.Callsign,
		CID:       s.CID,
		Departure: s.Departure,
		Arrival:   s.Arrival,
		Source:    r.Source,
		UpdatedAt: r.UpdatedAt,
	}
	if s.Owner.IsSet() {
		sum.Owner = s.Owner.Get().String()
	}
	if s.Status.IsSet() {
		sum.Status = s.Status.Get()
	}
	return sum
}
