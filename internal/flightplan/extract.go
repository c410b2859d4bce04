package flightplan

import (
	"strconv"
	"strings"

	"github.com/hpungsan/fpwatch/internal/errors"
	"github.com/hpungsan/fpwatch/internal/record"
)

// Record paths read by Extract, relative to the flight element.
var (
	pathIdentifier = []string{"flightPlan", "@identifier"}
	pathArrival    = []string{"arrival", "@arrivalPoint"}
	pathDeparture  = []string{"departure", "@departurePoint"}
	pathCID        = []string{"flightIdentification", "@computerId"}
	pathACID       = []string{"flightIdentification", "@aircraftIdentification"}

	pathOwner    = []string{"controllingUnit"}
	pathPosition = []string{"enRoute", "position"}
	pathHandoff  = []string{"enRoute", "boundaryCrossings", "handoff"}
	pathCleared  = []string{"enRoute", "cleared"}
	pathBeacon   = []string{"enRoute", "beaconCodeAssignment"}
	pathPointout = []string{"enRoute", "pointout"}
	pathAssigned = []string{"assignedAltitude", "simple"}
	pathInterim  = []string{"interimAltitude"}
	pathStatus   = []string{"flightStatus", "@fdpsFlightStatus"}
)

// Extract builds the full snapshot for one flight element. prev is the
// previous snapshot of the same flight, or nil for the first update; any group
// the record omits is copied from it.
func Extract(rec record.Record, prev *Snapshot) (*Snapshot, error) {
	if prev == nil {
		prev = &Snapshot{}
	}
	s := &Snapshot{}

	for _, f := range []struct {
		dst  *string
		path []string
	}{
		{&s.Identifier, pathIdentifier},
		{&s.Arrival, pathArrival},
		{&s.Departure, pathDeparture},
		{&s.CID, pathCID},
		{&s.ACID, pathACID},
	} {
		v, err := rec.Require(f.path...)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	s.Owner = prev.Owner
	if owner, ok := positionAt(rec, pathOwner...); ok {
		s.Owner = owner
	}

	s.Kinematics = prev.Kinematics
	if pos, ok := rec.Child(pathPosition...); ok {
		k, err := extractKinematics(pos)
		if err != nil {
			return nil, err
		}
		s.Kinematics = k
	}

	s.Handoff = extractHandoff(rec, prev.Handoff)

	s.FourthLine = prev.FourthLine
	if cleared, ok := rec.Child(pathCleared...); ok {
		s.FourthLine = FourthLine{
			Heading: textAt(cleared, "@clearanceHeading"),
			Speed:   textAt(cleared, "@clearanceSpeed"),
			Text:    textAt(cleared, "@clearanceText"),
		}
	}

	s.Beacon = prev.Beacon
	if beacon, ok := rec.Child(pathBeacon...); ok {
		s.Beacon = Beacon{
			Current:    textAt(beacon, "currentBeaconCode"),
			Reassigned: textAt(beacon, "reassignedBeaconCode"),
		}
	}

	s.Pointout = prev.Pointout
	if pointout, ok := rec.Child(pathPointout...); ok {
		s.Pointout = Pointout{
			From: unitAt(pointout, "originatingUnit"),
			To:   unitAt(pointout, "receivingUnit"),
		}
	}

	// Assigned altitude never carries forward: its absence is itself the state.
	s.AssignedAltitude = Absent[float64]()
	if alt, ok, err := rec.Float(pathAssigned...); err != nil {
		return nil, err
	} else if ok {
		s.AssignedAltitude = Some(alt)
	}

	s.InterimAltitude = prev.InterimAltitude
	if interim, ok := rec.Text(pathInterim...); ok {
		s.InterimAltitude = Some(interim)
	}

	s.Status = prev.Status
	if status, ok := rec.Text(pathStatus...); ok {
		s.Status = Some(status)
	}

	return s, nil
}

func extractKinematics(pos record.Record) (Kinematics, error) {
	alt, err := pos.RequireFloat("altitude")
	if err != nil {
		return Kinematics{}, prefixPath(err, pathPosition)
	}
	latlong, err := pos.Require("position", "location", "pos")
	if err != nil {
		return Kinematics{}, prefixPath(err, pathPosition)
	}
	lat, long, err := splitLatLong(latlong)
	if err != nil {
		return Kinematics{}, err
	}
	speed, err := pos.RequireFloat("actualSpeed", "surveillance")
	if err != nil {
		return Kinematics{}, prefixPath(err, pathPosition)
	}
	return Kinematics{
		Altitude:  Some(alt),
		Latitude:  Some(lat),
		Longitude: Some(long),
		Speed:     Some(speed),
	}, nil
}

func splitLatLong(pos string) (float64, float64, error) {
	path := record.Path(append(pathPosition, "position", "location", "pos")...)
	parts := strings.Split(strings.TrimSpace(pos), " ")
	if len(parts) != 2 {
		return 0, 0, errors.NewMalformedRecord(path, pos, nil)
	}
	lat, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, errors.NewMalformedRecord(path, pos, err)
	}
	long, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, 0, errors.NewMalformedRecord(path, pos, err)
	}
	return lat, long, nil
}

// extractHandoff resolves the event tag and both positions independently,
// then clears the positions when the resolved event ends the handoff.
func extractHandoff(rec record.Record, prev Handoff) Handoff {
	h := prev
	if handoff, ok := rec.Child(pathHandoff...); ok {
		if event, ok := handoff.Text("@event"); ok {
			h.Event = Some(HandoffEvent(event))
		}
		if to, ok := positionAt(handoff, "receivingUnit"); ok {
			h.To = to
		}
		if from, ok := positionAt(handoff, "transferringUnit"); ok {
			h.From = from
		}
	}
	if h.Event.IsSet() && h.Event.Get().Terminal() {
		h.From = Absent[Position]()
		h.To = Absent[Position]()
	}
	return h
}

// textAt is a member of a freshly supplied group: missing means not present.
func textAt(rec record.Record, path ...string) Optional[string] {
	if v, ok := rec.Text(path...); ok {
		return Some(v)
	}
	return Absent[string]()
}

func unitAt(rec record.Record, path ...string) Optional[Position] {
	if p, ok := positionAt(rec, path...); ok {
		return p
	}
	return Absent[Position]()
}

// prefixPath rewrites a missing-field error raised inside a sub-record so it
// names the full path from the flight element.
func prefixPath(err error, prefix []string) error {
	fpErr, ok := err.(*errors.FPError)
	if !ok || fpErr.Code != errors.ErrMissingField {
		return err
	}
	inner, _ := fpErr.Details["path"].(string)
	return errors.NewMissingField(record.Path(prefix...) + "." + inner)
}

// Callsign returns the aircraft identification of a flight element.
func Callsign(rec record.Record) (string, error) {
	return rec.Require(pathACID...)
}
