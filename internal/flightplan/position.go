package flightplan

import "github.com/hpungsan/fpwatch/internal/record"

// Position identifies a controlling facility and sector.
type Position struct {
	Facility string `json:"facility"`
	Sector   string `json:"sector"`
}

// String renders the position as facility followed by sector, e.g. ZJX42.
func (p Position) String() string {
	return p.Facility + p.Sector
}

// PositionFrom builds a Position from a unit reference element carrying
// unitIdentifier and sectorIdentifier attributes.
func PositionFrom(unit record.Record) Position {
	facility, _ := unit.Text(record.Attr("unitIdentifier"))
	sector, _ := unit.Text(record.Attr("sectorIdentifier"))
	return Position{Facility: facility, Sector: sector}
}

// positionAt returns the position at path when the unit element is present.
func positionAt(rec record.Record, path ...string) (Optional[Position], bool) {
	unit, ok := rec.Child(path...)
	if !ok {
		return Optional[Position]{}, false
	}
	return Some(PositionFrom(unit)), true
}
