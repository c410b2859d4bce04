package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/fpwatch/internal/errors"
	"github.com/hpungsan/fpwatch/internal/flightplan"
	"github.com/hpungsan/fpwatch/internal/record"
)

type R = record.Record

func flight(acid, status string) R {
	return R{
		"flightPlan":           R{"@identifier": "KN61001100"},
		"arrival":              R{"@arrivalPoint": "KATL"},
		"departure":            R{"@departurePoint": "KMCO"},
		"flightIdentification": R{"@aircraftIdentification": acid, "@computerId": "1234"},
		"flightStatus":         R{"@fdpsFlightStatus": status},
	}
}

func TestApply_FirstSightHasNoChanges(t *testing.T) {
	tr := New()
	u, err := tr.Apply("DAL123", flight("DAL123", "ACTIVE"))
	require.NoError(t, err)

	assert.Equal(t, "DAL123", u.Key)
	assert.Nil(t, u.Previous)
	require.NotNil(t, u.Current)
	assert.Empty(t, u.Changes)
}

func TestApply_ReportsAgainstPrevious(t *testing.T) {
	tr := New()
	_, err := tr.Apply("DAL123", flight("DAL123", "ACTIVE"))
	require.NoError(t, err)

	u, err := tr.Apply("DAL123", flight("DAL123", "DROPPED"))
	require.NoError(t, err)

	require.NotNil(t, u.Previous)
	assert.Equal(t, "ACTIVE", u.Previous.Status.Get())
	assert.Equal(t, flightplan.ChangeSet{
		{Field: flightplan.FieldStatus, Old: "ACTIVE", New: "DROPPED"},
	}, u.Changes)

	latest, ok := tr.Latest("DAL123")
	require.True(t, ok)
	assert.Same(t, u.Current, latest)
}

func TestApply_KeysAreIndependent(t *testing.T) {
	tr := New()
	_, err := tr.Apply("DAL123", flight("DAL123", "ACTIVE"))
	require.NoError(t, err)

	u, err := tr.Apply("AAL9", flight("AAL9", "DROPPED"))
	require.NoError(t, err)
	assert.Nil(t, u.Previous, "another flight's state must not leak in")
	assert.Empty(t, u.Changes)

	assert.Equal(t, []string{"AAL9", "DAL123"}, tr.Keys())
	assert.Equal(t, 2, tr.Len())
}

func TestApply_ErrorLeavesStateUntouched(t *testing.T) {
	tr := New()
	first, err := tr.Apply("DAL123", flight("DAL123", "ACTIVE"))
	require.NoError(t, err)

	bad := flight("DAL123", "DROPPED")
	delete(bad, "arrival")
	_, err = tr.Apply("DAL123", bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMissingField))

	latest, _ := tr.Latest("DAL123")
	assert.Same(t, first.Current, latest)
}

func TestSeed(t *testing.T) {
	tr := New()
	tr.Seed("DAL123", &flightplan.Snapshot{
		ACID:   "DAL123",
		Status: flightplan.Some("ACTIVE"),
	})

	rec := flight("DAL123", "DROPPED")
	u, err := tr.Apply("DAL123", rec)
	require.NoError(t, err)
	assert.Equal(t, []string{flightplan.FieldStatus}, u.Changes.Fields())
}

func TestNewWithIgnore(t *testing.T) {
	tr := NewWithIgnore(flightplan.NewIgnoreSet([]string{flightplan.FieldStatus}))
	_, err := tr.Apply("DAL123", flight("DAL123", "ACTIVE"))
	require.NoError(t, err)

	u, err := tr.Apply("DAL123", flight("DAL123", "DROPPED"))
	require.NoError(t, err)
	assert.Empty(t, u.Changes)
}

func TestDefaultKey(t *testing.T) {
	key, err := DefaultKey(flight("DAL123", "ACTIVE"))
	require.NoError(t, err)
	assert.Equal(t, "DAL123", key)

	_, err = DefaultKey(R{})
	assert.True(t, errors.Is(err, errors.ErrMissingField))
}

func TestApply_EachUpdateAgainstImmediatePrevious(t *testing.T) {
	tr := New()
	statuses := []string{"PROPOSED", "ACTIVE", "ACTIVE", "DROPPED"}
	var got []flightplan.ChangeSet
	for _, st := range statuses {
		u, err := tr.Apply("DAL123", flight("DAL123", st))
		require.NoError(t, err)
		got = append(got, u.Changes)
	}

	assert.Empty(t, got[0])
	assert.Equal(t, "PROPOSED", got[1][0].Old)
	assert.Empty(t, got[2])
	assert.Equal(t, "ACTIVE", got[3][0].Old)
	assert.Equal(t, "DROPPED", got[3][0].New)

	latest, _ := tr.Latest("DAL123")
	assert.Equal(t, "DROPPED", latest.Status.Get())
}
