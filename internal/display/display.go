// Package display renders flight-plan snapshots and change sets as text.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/hpungsan/fpwatch/internal/flightplan"
)

const (
	// Separator precedes each block of change lines.
	Separator = "--------"

	// Unknown stands in for a datablock value that has never been reported.
	Unknown = "XXX"

	arrowUp   = "↑"
	arrowDown = "↓"
)

// ChangeLine renders one change as "<field> changed from <old> to <new>".
func ChangeLine(c flightplan.Change) string {
	return fmt.Sprintf("%s changed from %s to %s", c.Field, c.Old, c.New)
}

// ChangeLines renders every change in order.
func ChangeLines(cs flightplan.ChangeSet) []string {
	lines := make([]string, 0, len(cs))
	for _, c := range cs {
		lines = append(lines, ChangeLine(c))
	}
	return lines
}

// WriteChanges writes a separator, the source unit name, and one line per
// change. An empty change set writes nothing.
func WriteChanges(w io.Writer, source string, cs flightplan.ChangeSet) error {
	if len(cs) == 0 {
		return nil
	}
	var b strings.Builder
	b.WriteString(Separator + "\n")
	b.WriteString(source + "\n")
	for _, line := range ChangeLines(cs) {
		b.WriteString(line + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Datablock renders the four datablock lines: call sign, altitude, CID with
// handoff or ground speed, and destination.
func Datablock(s *flightplan.Snapshot, codes FacilityCodes) []string {
	return []string{
		s.ACID,
		AltitudeLine(s.Kinematics.Altitude, s.AssignedAltitude),
		thirdLine(s, codes),
		s.Arrival,
	}
}

// WriteDatablock writes the datablock followed by a blank line.
func WriteDatablock(w io.Writer, s *flightplan.Snapshot, codes FacilityCodes) error {
	_, err := io.WriteString(w, strings.Join(Datablock(s, codes), "\n")+"\n\n")
	return err
}

// AltitudeLine renders current against assigned altitude in hundreds of feet:
// "350C" when level at the assigned altitude, "370↑350" when climbing to it,
// "280↓310" when descending to it.
func AltitudeLine(current, assigned flightplan.Optional[float64]) string {
	if !current.IsSet() {
		return Unknown
	}
	cur := current.Get()
	if !assigned.IsSet() {
		return FormatAltitude(cur)
	}
	asg := assigned.Get()
	switch {
	case cur == asg:
		return FormatAltitude(cur) + "C"
	case cur < asg:
		return FormatAltitude(asg) + arrowUp + FormatAltitude(cur)
	default:
		return FormatAltitude(asg) + arrowDown + FormatAltitude(cur)
	}
}

// FormatAltitude renders feet as zero-padded hundreds, e.g. 5000 -> "050".
func FormatAltitude(feet float64) string {
	return fmt.Sprintf("%03.0f", feet/100)
}

func thirdLine(s *flightplan.Snapshot, codes FacilityCodes) string {
	if s.Handoff.Active() {
		p := s.Handoff.To.Get()
		if s.Handoff.From.IsSet() {
			p = s.Handoff.From.Get()
		}
		return s.CID + "H" + codes.HandoffCode(p)
	}
	if !s.Kinematics.Speed.IsSet() {
		return s.CID + " " + Unknown
	}
	return fmt.Sprintf("%s %.0f", s.CID, s.Kinematics.Speed.Get())
}
