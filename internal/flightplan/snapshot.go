// Package flightplan reconstructs full flight-plan snapshots from partial
// ERAM flight-data updates and reports what changed between them.
package flightplan

// HandoffEvent is the lifecycle stage of a handoff.
type HandoffEvent string

const (
	HandoffAcceptance  HandoffEvent = "ACCEPTANCE"
	HandoffFailure     HandoffEvent = "FAILURE"
	HandoffInitiation  HandoffEvent = "INITIATION"
	HandoffRetraction  HandoffEvent = "RETRACTION"
	HandoffTakeControl HandoffEvent = "TAKE_CONTROL"
	HandoffUpdate      HandoffEvent = "UPDATE"
)

// Terminal reports whether the event ends a handoff, clearing its positions.
func (e HandoffEvent) Terminal() bool {
	return e == HandoffAcceptance || e == HandoffRetraction
}

// Kinematics is the surveillance position report.
type Kinematics struct {
	Altitude  Optional[float64] `json:"altitude,omitzero"`
	Latitude  Optional[float64] `json:"latitude,omitzero"`
	Longitude Optional[float64] `json:"longitude,omitzero"`
	Speed     Optional[float64] `json:"speed,omitzero"`
}

// Handoff is a transfer of control between two positions.
type Handoff struct {
	Event Optional[HandoffEvent] `json:"event,omitzero"`
	From  Optional[Position]     `json:"from,omitzero"`
	To    Optional[Position]     `json:"to,omitzero"`
}

// Active reports whether either handoff position is set.
func (h Handoff) Active() bool {
	return h.From.IsSet() || h.To.IsSet()
}

// FourthLine is the datablock scratchpad line.
type FourthLine struct {
	Heading Optional[string] `json:"heading,omitzero"`
	Speed   Optional[string] `json:"speed,omitzero"`
	Text    Optional[string] `json:"text,omitzero"`
}

// Beacon holds the assigned transponder codes.
type Beacon struct {
	Current    Optional[string] `json:"current,omitzero"`
	Reassigned Optional[string] `json:"reassigned,omitzero"`
}

// Pointout is a pointout from one position to another.
type Pointout struct {
	From Optional[Position] `json:"from,omitzero"`
	To   Optional[Position] `json:"to,omitzero"`
}

// Snapshot is the complete known state of one flight plan after one update.
// Every field is either freshly derived from the update, copied from the
// previous snapshot of the same flight, or unset when neither supplies it.
// Grouped structs are refreshed or carried forward whole.
type Snapshot struct {
	ACID       string `json:"acid"`
	CID        string `json:"cid"`
	Identifier string `json:"identifier"`

	Arrival   string `json:"arrival_airport"`
	Departure string `json:"departure_airport"`

	Owner Optional[Position] `json:"owner,omitzero"`

	Handoff    Handoff    `json:"handoff"`
	Kinematics Kinematics `json:"kinematics"`

	AssignedAltitude Optional[float64] `json:"assigned_altitude,omitzero"`
	InterimAltitude  Optional[string]  `json:"interim_altitude,omitzero"`
	Status           Optional[string]  `json:"status,omitzero"`

	FourthLine FourthLine `json:"fourth_line"`
	Beacon     Beacon     `json:"beacon"`
	Pointout   Pointout   `json:"pointout"`
}
