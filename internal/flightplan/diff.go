package flightplan

// Field names reported in change sets, in report order.
const (
	FieldACID                 = "acid"
	FieldCID                  = "cid"
	FieldIdentifier           = "identifier"
	FieldArrival              = "arrival_airport"
	FieldDeparture            = "departure_airport"
	FieldOwner                = "owner"
	FieldHandoffFrom          = "handoff_from"
	FieldHandoffTo            = "handoff_to"
	FieldHandoffEvent         = "handoff_event"
	FieldAssignedAltitude     = "assigned_altitude"
	FieldCurrentAltitude      = "current_altitude"
	FieldInterimAltitude      = "interim_altitude"
	FieldStatus               = "status"
	FieldLatitude             = "latitude"
	FieldLongitude            = "longitude"
	FieldSpeed                = "speed"
	FieldFourthLineHeading    = "fourth_line_heading"
	FieldFourthLineSpeed      = "fourth_line_speed"
	FieldFourthLineText       = "fourth_line_text"
	FieldCurrentBeaconCode    = "current_beacon_code"
	FieldReassignedBeaconCode = "reassigned_beacon_code"
	FieldPointoutFrom         = "pointout_from"
	FieldPointoutTo           = "pointout_to"
)

// Change is one field that differs between two snapshots.
type Change struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// ChangeSet lists changes in fixed field order.
type ChangeSet []Change

// Fields returns the changed field names in order.
func (cs ChangeSet) Fields() []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Field
	}
	return out
}

// Has reports whether field changed.
func (cs ChangeSet) Has(field string) bool {
	for _, c := range cs {
		if c.Field == field {
			return true
		}
	}
	return false
}

// IgnoreSet names fields that are never reported.
type IgnoreSet map[string]bool

// KinematicsFields change on nearly every update and are ignored by default.
var KinematicsFields = []string{FieldCurrentAltitude, FieldLatitude, FieldLongitude, FieldSpeed}

// DefaultIgnored holds the kinematics fields.
func DefaultIgnored() IgnoreSet {
	return NewIgnoreSet(KinematicsFields)
}

// NewIgnoreSet builds an IgnoreSet from field names.
func NewIgnoreSet(fields []string) IgnoreSet {
	set := make(IgnoreSet, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

// Fields lists every reportable field in report order.
func Fields() []string {
	out := make([]string, len(comparators))
	for i, c := range comparators {
		out[i] = c.field
	}
	return out
}

type comparator struct {
	field   string
	compare func(prev, next *Snapshot) (Change, bool)
}

var comparators = []comparator{
	{FieldACID, strField(func(s *Snapshot) string { return s.ACID })},
	{FieldCID, strField(func(s *Snapshot) string { return s.CID })},
	{FieldIdentifier, strField(func(s *Snapshot) string { return s.Identifier })},
	{FieldArrival, strField(func(s *Snapshot) string { return s.Arrival })},
	{FieldDeparture, strField(func(s *Snapshot) string { return s.Departure })},
	{FieldOwner, optField(func(s *Snapshot) Optional[Position] { return s.Owner })},
	{FieldHandoffFrom, optField(func(s *Snapshot) Optional[Position] { return s.Handoff.From })},
	{FieldHandoffTo, optField(func(s *Snapshot) Optional[Position] { return s.Handoff.To })},
	{FieldHandoffEvent, optField(func(s *Snapshot) Optional[HandoffEvent] { return s.Handoff.Event })},
	{FieldAssignedAltitude, optField(func(s *Snapshot) Optional[float64] { return s.AssignedAltitude })},
	{FieldCurrentAltitude, optField(func(s *Snapshot) Optional[float64] { return s.Kinematics.Altitude })},
	{FieldInterimAltitude, optField(func(s *Snapshot) Optional[string] { return s.InterimAltitude })},
	{FieldStatus, optField(func(s *Snapshot) Optional[string] { return s.Status })},
	{FieldLatitude, optField(func(s *Snapshot) Optional[float64] { return s.Kinematics.Latitude })},
	{FieldLongitude, optField(func(s *Snapshot) Optional[float64] { return s.Kinematics.Longitude })},
	{FieldSpeed, optField(func(s *Snapshot) Optional[float64] { return s.Kinematics.Speed })},
	{FieldFourthLineHeading, optField(func(s *Snapshot) Optional[string] { return s.FourthLine.Heading })},
	{FieldFourthLineSpeed, optField(func(s *Snapshot) Optional[string] { return s.FourthLine.Speed })},
	{FieldFourthLineText, optField(func(s *Snapshot) Optional[string] { return s.FourthLine.Text })},
	{FieldCurrentBeaconCode, optField(func(s *Snapshot) Optional[string] { return s.Beacon.Current })},
	{FieldReassignedBeaconCode, optField(func(s *Snapshot) Optional[string] { return s.Beacon.Reassigned })},
	{FieldPointoutFrom, optField(func(s *Snapshot) Optional[Position] { return s.Pointout.From })},
	{FieldPointoutTo, optField(func(s *Snapshot) Optional[Position] { return s.Pointout.To })},
}

func strField(get func(*Snapshot) string) func(prev, next *Snapshot) (Change, bool) {
	return func(prev, next *Snapshot) (Change, bool) {
		o, n := get(prev), get(next)
		if o == "" || n == "" || o == n {
			return Change{}, false
		}
		return Change{Old: o, New: n}, true
	}
}

func optField[T comparable](get func(*Snapshot) Optional[T]) func(prev, next *Snapshot) (Change, bool) {
	return func(prev, next *Snapshot) (Change, bool) {
		o, n := get(prev), get(next)
		if !o.Changed(n) {
			return Change{}, false
		}
		return Change{Old: o.String(), New: n.String()}, true
	}
}

// Diff returns the fields that differ between prev and next, skipping any in
// ignore. A nil prev snapshot yields an empty change set.
func Diff(prev, next *Snapshot, ignore IgnoreSet) ChangeSet {
	if prev == nil || next == nil {
		return nil
	}
	var cs ChangeSet
	for _, c := range comparators {
		if ignore[c.field] {
			continue
		}
		if ch, ok := c.compare(prev, next); ok {
			ch.Field = c.field
			cs = append(cs, ch)
		}
	}
	return cs
}
