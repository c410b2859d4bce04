package db

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/hpungsan/fpwatch/internal/errors"
	"github.com/hpungsan/fpwatch/internal/flightplan"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestRow(id, callsign string, updatedAt int64) *SnapshotRow {
	return &SnapshotRow{
		ID:       id,
		Callsign: callsign,
		Snapshot: &flightplan.Snapshot{
			ACID:             callsign,
			CID:              "1234",
			Arrival:          "KATL",
			Departure:        "KMCO",
			Owner:            flightplan.Some(flightplan.Position{Facility: "ZJX", Sector: "42"}),
			AssignedAltitude: flightplan.Absent[float64](),
			Status:           flightplan.Some("ACTIVE"),
		},
		Source:    "1000.xml",
		CreatedAt: updatedAt,
		UpdatedAt: updatedAt,
	}
}

func TestSaveAndGetSnapshot(t *testing.T) {
	db := openTestDB(t)

	row := newTestRow("01SNAP001", "DAL123", 1000)
	if err := SaveSnapshot(db, row); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	got, err := GetSnapshot(db, "DAL123")
	if err != nil {
		t.Fatalf("GetSnapshot() error = %v", err)
	}
	if got.ID != "01SNAP001" || got.Source != "1000.xml" || got.UpdatedAt != 1000 {
		t.Errorf("row = %+v", got)
	}
	if *got.Snapshot != *row.Snapshot {
		t.Errorf("Snapshot = %+v, want %+v", got.Snapshot, row.Snapshot)
	}
}

func TestGetSnapshot_NotFound(t *testing.T) {
	db := openTestDB(t)

	_, err := GetSnapshot(db, "NOPE")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("GetSnapshot() error = %v, want NOT_FOUND", err)
	}
}

func TestSaveSnapshot_UpsertKeepsCreatedAt(t *testing.T) {
	db := openTestDB(t)

	if err := SaveSnapshot(db, newTestRow("01SNAP001", "DAL123", 1000)); err != nil {
		t.Fatalf("first SaveSnapshot() error = %v", err)
	}

	second := newTestRow("01SNAP002", "DAL123", 2000)
	second.Snapshot.Status = flightplan.Some("DROPPED")
	second.Source = ""
	if err := SaveSnapshot(db, second); err != nil {
		t.Fatalf("second SaveSnapshot() error = %v", err)
	}

	got, err := GetSnapshot(db, "DAL123")
	if err != nil {
		t.Fatalf("GetSnapshot() error = %v", err)
	}
	if got.ID != "01SNAP002" {
		t.Errorf("ID = %q, want 01SNAP002", got.ID)
	}
	if got.CreatedAt != 1000 || got.UpdatedAt != 2000 {
		t.Errorf("CreatedAt/UpdatedAt = %d/%d, want 1000/2000", got.CreatedAt, got.UpdatedAt)
	}
	if got.Source != "" {
		t.Errorf("Source = %q, want empty", got.Source)
	}
	if got.Snapshot.Status.Get() != "DROPPED" {
		t.Errorf("Status = %v, want DROPPED", got.Snapshot.Status)
	}
}

func TestListSnapshots_OrderAndPagination(t *testing.T) {
	db := openTestDB(t)

	for i, cs := range []string{"AAL1", "DAL123", "UAL9"} {
		row := newTestRow(fmt.Sprintf("01SNAP%03d", i), cs, int64(1000+i))
		if err := SaveSnapshot(db, row); err != nil {
			t.Fatalf("SaveSnapshot(%s) error = %v", cs, err)
		}
	}

	rows, total, err := ListSnapshots(db, 2, 0)
	if err != nil {
		t.Fatalf("ListSnapshots() error = %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(rows) != 2 || rows[0].Callsign != "UAL9" || rows[1].Callsign != "DAL123" {
		t.Errorf("rows = %+v, want UAL9, DAL123", rows)
	}

	all, err := AllSnapshots(db)
	if err != nil {
		t.Fatalf("AllSnapshots() error = %v", err)
	}
	if len(all) != 3 || all[0].Callsign != "AAL1" || all[2].Callsign != "UAL9" {
		t.Errorf("AllSnapshots() = %+v", all)
	}
}

func TestListSnapshots_Empty(t *testing.T) {
	db := openTestDB(t)

	rows, total, err := ListSnapshots(db, 10, 0)
	if err != nil {
		t.Fatalf("ListSnapshots() error = %v", err)
	}
	if total != 0 || len(rows) != 0 {
		t.Errorf("ListSnapshots() = %d rows (total %d), want none", len(rows), total)
	}
}

func TestDeleteSnapshot(t *testing.T) {
	db := openTestDB(t)

	if err := SaveSnapshot(db, newTestRow("01SNAP001", "DAL123", 1000)); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}
	if err := SaveSnapshot(db, newTestRow("01SNAP002", "AAL1", 1000)); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	if err := DeleteSnapshot(db, "DAL123"); err != nil {
		t.Fatalf("DeleteSnapshot() error = %v", err)
	}
	if _, err := GetSnapshot(db, "DAL123"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("GetSnapshot() after delete error = %v, want NOT_FOUND", err)
	}
	if _, err := GetSnapshot(db, "AAL1"); err != nil {
		t.Errorf("other flight removed: %v", err)
	}

	if err := DeleteSnapshot(db, "DAL123"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("second DeleteSnapshot() error = %v, want NOT_FOUND", err)
	}
}

func TestDeleteAll(t *testing.T) {
	db := openTestDB(t)

	for i, cs := range []string{"AAL1", "DAL123"} {
		if err := SaveSnapshot(db, newTestRow(fmt.Sprintf("01SNAP%03d", i), cs, 1000)); err != nil {
			t.Fatalf("SaveSnapshot() error = %v", err)
		}
	}

	count, err := DeleteAll(db)
	if err != nil {
		t.Fatalf("DeleteAll() error = %v", err)
	}
	if count != 2 {
		t.Errorf("DeleteAll() = %d, want 2", count)
	}

	count, err = DeleteAll(db)
	if err != nil || count != 0 {
		t.Errorf("second DeleteAll() = %d, %v; want 0, nil", count, err)
	}
}
