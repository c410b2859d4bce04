package display

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/fpwatch/internal/flightplan"
)

func snapshot() *flightplan.Snapshot {
	return &flightplan.Snapshot{
		ACID:    "DAL123",
		CID:     "1234",
		Arrival: "KATL",
		Kinematics: flightplan.Kinematics{
			Altitude: flightplan.Some(35000.0),
			Speed:    flightplan.Some(412.4),
		},
		AssignedAltitude: flightplan.Some(35000.0),
	}
}

func TestAltitudeLine(t *testing.T) {
	tests := []struct {
		name     string
		current  flightplan.Optional[float64]
		assigned flightplan.Optional[float64]
		want     string
	}{
		{"level", flightplan.Some(35000.0), flightplan.Some(35000.0), "350C"},
		{"climbing", flightplan.Some(35000.0), flightplan.Some(37000.0), "370↑350"},
		{"descending", flightplan.Some(31000.0), flightplan.Some(28000.0), "280↓310"},
		{"low altitude padded", flightplan.Some(5000.0), flightplan.Some(5000.0), "050C"},
		{"no assigned", flightplan.Some(24000.0), flightplan.Absent[float64](), "240"},
		{"unset assigned", flightplan.Some(24000.0), flightplan.Optional[float64]{}, "240"},
		{"no current", flightplan.Optional[float64]{}, flightplan.Some(35000.0), "XXX"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AltitudeLine(tt.current, tt.assigned))
		})
	}
}

func TestDatablock_GroundSpeed(t *testing.T) {
	got := Datablock(snapshot(), DefaultFacilityCodes())
	assert.Equal(t, []string{"DAL123", "350C", "1234 412", "KATL"}, got)
}

func TestDatablock_UnknownSpeed(t *testing.T) {
	s := snapshot()
	s.Kinematics.Speed = flightplan.Optional[float64]{}
	assert.Equal(t, "1234 XXX", Datablock(s, DefaultFacilityCodes())[2])
}

func TestDatablock_Handoff(t *testing.T) {
	tests := []struct {
		name    string
		handoff flightplan.Handoff
		want    string
	}{
		{
			name: "from neighbour",
			handoff: flightplan.Handoff{
				Event: flightplan.Some(flightplan.HandoffInitiation),
				From:  flightplan.Some(flightplan.Position{Facility: "ZBW", Sector: "42"}),
				To:    flightplan.Some(flightplan.Position{Facility: "ZJX", Sector: "16"}),
			},
			want: "1234HB42",
		},
		{
			name: "from home",
			handoff: flightplan.Handoff{
				From: flightplan.Some(flightplan.Position{Facility: "ZJX", Sector: "42"}),
			},
			want: "1234H-42",
		},
		{
			name: "unmapped facility",
			handoff: flightplan.Handoff{
				From: flightplan.Some(flightplan.Position{Facility: "ZKC", Sector: "30"}),
			},
			want: "1234HZ30",
		},
		{
			name: "receiving only",
			handoff: flightplan.Handoff{
				From: flightplan.Absent[flightplan.Position](),
				To:   flightplan.Some(flightplan.Position{Facility: "ZTL", Sector: "15"}),
			},
			want: "1234HT15",
		},
		{
			name: "cleared",
			handoff: flightplan.Handoff{
				Event: flightplan.Some(flightplan.HandoffAcceptance),
				From:  flightplan.Absent[flightplan.Position](),
				To:    flightplan.Absent[flightplan.Position](),
			},
			want: "1234 412",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := snapshot()
			s.Handoff = tt.handoff
			assert.Equal(t, tt.want, Datablock(s, DefaultFacilityCodes())[2])
		})
	}
}

func TestFacilityCodes_CustomTable(t *testing.T) {
	codes := FacilityCodes{Home: "ZTL", Letters: map[string]string{"ZJX": "J"}}
	assert.Equal(t, "-", codes.Letter("ZTL"))
	assert.Equal(t, "J", codes.Letter("ZJX"))
	assert.Equal(t, "Z", codes.Letter("ZBW"))
	assert.Equal(t, "J16", codes.HandoffCode(flightplan.Position{Facility: "ZJX", Sector: "16"}))
}

func TestDefaultFacilityCodes_IsACopy(t *testing.T) {
	codes := DefaultFacilityCodes()
	codes.Letters["ZBW"] = "Q"
	assert.Equal(t, "B", DefaultFacilityLetters["ZBW"])
}

func TestWriteDatablock(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDatablock(&buf, snapshot(), DefaultFacilityCodes()))
	assert.Equal(t, "DAL123\n350C\n1234 412\nKATL\n\n", buf.String())
}

func TestWriteChanges(t *testing.T) {
	cs := flightplan.ChangeSet{
		{Field: flightplan.FieldOwner, Old: "ZJX42", New: "ZTL15"},
		{Field: flightplan.FieldStatus, Old: "ACTIVE", New: "DROPPED"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteChanges(&buf, "0001.xml", cs))
	assert.Equal(t,
		"--------\n0001.xml\nowner changed from ZJX42 to ZTL15\nstatus changed from ACTIVE to DROPPED\n",
		buf.String())
}

func TestWriteChanges_EmptyWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteChanges(&buf, "0001.xml", nil))
	assert.Empty(t, buf.String())
}

func TestChangeLine_EmptyTextIsPrintedAsIs(t *testing.T) {
	assert.Equal(t, "fourth_line_text changed from  to RADAR VECTORS",
		ChangeLine(flightplan.Change{Field: "fourth_line_text", Old: "", New: "RADAR VECTORS"}))
}

func TestChangeLines_SetEmptyString(t *testing.T) {
	prev := &flightplan.Snapshot{ACID: "DAL123", FourthLine: flightplan.FourthLine{Text: flightplan.Some("")}}
	next := &flightplan.Snapshot{ACID: "DAL123", FourthLine: flightplan.FourthLine{Text: flightplan.Some("DCT")}}

	lines := ChangeLines(flightplan.Diff(prev, next, flightplan.IgnoreSet{}))
	require.Len(t, lines, 1)
	assert.Equal(t, "fourth_line_text changed from  to DCT", lines[0])
}
