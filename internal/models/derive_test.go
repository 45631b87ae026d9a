package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() []Position {
	return []Position{
		{Number: 1, Name: "Prop", Group: "Forward"},
		{Number: 3, Name: "Prop", Group: "Forward"},
		{Number: 9, Name: "Scrum-half", Group: "Back"},
		{Number: 10, Name: "Fly-half", Group: "Back"},
	}
}

func TestPositionDisplay(t *testing.T) {
	catalog := testCatalog()

	assert.Equal(t, "-", PositionDisplay(nil, catalog))
	assert.Equal(t, "-", PositionDisplay([]int{42}, catalog), "unknown number falls back to placeholder")
	assert.Equal(t, "Prop", PositionDisplay([]int{1, 3}, catalog), "shared names are deduplicated")
	assert.Equal(t, "Scrum-half, Fly-half", PositionDisplay([]int{9, 10}, catalog))
	assert.Equal(t, "Prop, Scrum-half", PositionDisplay([]int{1, 42, 9}, catalog))
}

func TestGroupLabel(t *testing.T) {
	catalog := testCatalog()

	assert.Equal(t, "", GroupLabel(nil, catalog))
	assert.Equal(t, "", GroupLabel([]int{42}, catalog))
	assert.Equal(t, "Forward", GroupLabel([]int{1, 3}, catalog))
	assert.Equal(t, "Forward/Back", GroupLabel([]int{1, 9}, catalog))
}

func TestActiveInjuries(t *testing.T) {
	ref := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	past := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	future := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	a := Athlete{Injuries: []Injury{
		{ID: "ongoing", BodyPart: "Knee"},
		{ID: "healed", BodyPart: "Ankle", ReturnDate: &past},
		{ID: "returns-today", BodyPart: "Hamstring", ReturnDate: &today},
		{ID: "future", BodyPart: "Shoulder", ReturnDate: &future},
	}}

	active := ActiveInjuries(a, ref)
	require.Len(t, active, 3)
	assert.Equal(t, "ongoing", active[0].ID, "nil return date means ongoing")
	assert.Equal(t, "returns-today", active[1].ID, "return date equal to today is still active")
	assert.Equal(t, "future", active[2].ID)

	assert.Empty(t, ActiveInjuries(Athlete{}, ref))
}

func TestStatusRank(t *testing.T) {
	assert.Equal(t, 0, StatusRank(StatusAvailable))
	assert.Equal(t, 1, StatusRank(StatusModified))
	assert.Equal(t, 2, StatusRank(StatusUnavailable))
	assert.Equal(t, 3, StatusRank(""))
	assert.Equal(t, 3, StatusRank("Injured"))
}

func TestSetDefaultPeriod(t *testing.T) {
	periods := []SeasonPeriod{
		{ID: "a", IsDefault: true},
		{ID: "b"},
		{ID: "c", IsDefault: true},
	}

	countDefaults := func(ps []SeasonPeriod) int {
		n := 0
		for _, p := range ps {
			if p.IsDefault {
				n++
			}
		}
		return n
	}

	out := SetDefaultPeriod(periods, "b")
	require.Equal(t, 1, countDefaults(out))
	assert.True(t, out[1].IsDefault)

	// repeated set-default operations keep the singleton invariant
	out = SetDefaultPeriod(out, "c")
	out = SetDefaultPeriod(out, "a")
	require.Equal(t, 1, countDefaults(out))
	assert.True(t, out[0].IsDefault)

	// unknown id clears every default
	out = SetDefaultPeriod(out, "missing")
	assert.Equal(t, 0, countDefaults(out))

	// input is not mutated
	assert.True(t, periods[0].IsDefault)
}

func TestFormationClone(t *testing.T) {
	f := NewFormation()
	f.Team1[9] = "ath-1"

	c := f.Clone()
	c.Team1[9] = "ath-2"
	c.Subs2[10] = "ath-3"

	assert.Equal(t, "ath-1", f.Team1[9])
	assert.Empty(t, f.Subs2[10])
}
