package display

import (
	"maps"

	"github.com/hpungsan/fpwatch/internal/flightplan"
)

const (
	// DefaultHomeFacility is the facility whose own sectors display as "-".
	DefaultHomeFacility = "ZJX"

	homeLetter     = "-"
	unmappedLetter = "Z"
)

// DefaultFacilityLetters maps neighbouring centers to their handoff letters.
var DefaultFacilityLetters = map[string]string{
	"ZBW": "B",
	"ZOB": "C",
	"ZTL": "T",
	"ZHU": "H",
	"ZMA": "Z",
	"ZDC": "D",
}

// FacilityCodes turns positions into datablock handoff codes.
type FacilityCodes struct {
	Home    string
	Letters map[string]string
}

// DefaultFacilityCodes returns the built-in table with ZJX as home.
func DefaultFacilityCodes() FacilityCodes {
	return FacilityCodes{
		Home:    DefaultHomeFacility,
		Letters: maps.Clone(DefaultFacilityLetters),
	}
}

// Letter returns the single-letter code of a facility: "-" for the home
// facility, the mapped letter, or "Z" when unmapped.
func (fc FacilityCodes) Letter(facility string) string {
	if facility == fc.Home {
		return homeLetter
	}
	if l, ok := fc.Letters[facility]; ok {
		return l
	}
	return unmappedLetter
}

// HandoffCode renders a position as its facility letter followed by the sector.
func (fc FacilityCodes) HandoffCode(p flightplan.Position) string {
	return fc.Letter(p.Facility) + p.Sector
}
