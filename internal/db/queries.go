package db

import (
	"database/sql"
	"encoding/json"

	"github.com/hpungsan/fpwatch/internal/errors"
	"github.com/hpungsan/fpwatch/internal/flightplan"
)

// SnapshotRow is the stored latest snapshot of one flight.
type SnapshotRow struct {
	ID        string // ULID of the write that produced this state
	Callsign  string
	Snapshot  *flightplan.Snapshot
	Source    string // message file that produced this state
	CreatedAt int64
	UpdatedAt int64
}

// SaveSnapshot upserts the latest snapshot of a flight, replacing the previous
// one. CreatedAt is kept from the first write.
func SaveSnapshot(db *sql.DB, row *SnapshotRow) error {
	data, err := json.Marshal(row.Snapshot)
	if err != nil {
		return errors.NewInternal(err)
	}

	_, err = db.Exec(`
		INSERT INTO snapshots (callsign, id, snapshot_json, source, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(callsign) DO UPDATE SET
			id = excluded.id,
			snapshot_json = excluded.snapshot_json,
			source = excluded.source,
			updated_at = excluded.updated_at
	`, row.Callsign, row.ID, string(data), toNullString(row.Source), row.CreatedAt, row.UpdatedAt)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// GetSnapshot retrieves the stored snapshot of a flight.
func GetSnapshot(db *sql.DB, callsign string) (*SnapshotRow, error) {
	row := db.QueryRow(`
		SELECT callsign, id, snapshot_json, source, created_at, updated_at
		FROM snapshots
		WHERE callsign = ?
	`, callsign)

	r, err := scanSnapshot(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(callsign)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return r, nil
}

// ListSnapshots returns stored snapshots, most recently updated first, with
// the total count for pagination.
func ListSnapshots(db *sql.DB, limit, offset int) ([]SnapshotRow, int, error) {
	var total int
	if err := db.QueryRow(`SELECT COUNT(*) FROM snapshots`).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	rows, err := db.Query(`
		SELECT callsign, id, snapshot_json, source, created_at, updated_at
		FROM snapshots
		ORDER BY updated_at DESC, callsign ASC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	out, err := collectSnapshots(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// AllSnapshots returns every stored snapshot ordered by call sign.
func AllSnapshots(db *sql.DB) ([]SnapshotRow, error) {
	rows, err := db.Query(`
		SELECT callsign, id, snapshot_json, source, created_at, updated_at
		FROM snapshots
		ORDER BY callsign ASC
	`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	return collectSnapshots(rows)
}

// DeleteSnapshot removes a flight's stored snapshot.
// Returns NotFound when nothing is stored for the call sign.
func DeleteSnapshot(db *sql.DB, callsign string) error {
	result, err := db.Exec(`DELETE FROM snapshots WHERE callsign = ?`, callsign)
	if err != nil {
		return errors.NewInternal(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(callsign)
	}
	return nil
}

// DeleteAll removes every stored snapshot, returning how many were removed.
func DeleteAll(db *sql.DB) (int, error) {
	result, err := db.Exec(`DELETE FROM snapshots`)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return int(count), nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanSnapshot scans a single row into a SnapshotRow.
func scanSnapshot(row scanner) (*SnapshotRow, error) {
	var (
		r      SnapshotRow
		data   string
		source sql.NullString
	)
	if err := row.Scan(&r.Callsign, &r.ID, &data, &source, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.Source = source.String

	r.Snapshot = &flightplan.Snapshot{}
	if err := json.Unmarshal([]byte(data), r.Snapshot); err != nil {
		return nil, err
	}
	return &r, nil
}

func collectSnapshots(rows *sql.Rows) ([]SnapshotRow, error) {
	var out []SnapshotRow
	for rows.Next() {
		r, err := scanSnapshot(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return out, nil
}

// toNullString stores empty strings as NULL.
func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
