package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"squad-service/internal/models"
)

func rugbyCatalog() []models.Position {
	return []models.Position{
		{Number: 1, Name: "Prop", Group: "Forward"},
		{Number: 3, Name: "Prop", Group: "Forward"},
		{Number: 8, Name: "Number 8", Group: "Forward"},
		{Number: 9, Name: "Scrum-half", Group: "Back"},
		{Number: 10, Name: "Fly-half", Group: "Back"},
	}
}

func TestResolveCandidatesBuckets(t *testing.T) {
	catalog := rugbyCatalog()
	roster := []models.Athlete{
		{ID: "a", Name: "Alice", Status: models.StatusAvailable, PositionNumbers: []int{9}},
		{ID: "b", Name: "Bob", Status: models.StatusUnavailable, PositionNumbers: []int{10}},
	}

	c := ResolveCandidates(roster, catalog, 9, "")

	require.Len(t, c.Exact, 1)
	require.Len(t, c.SameGroup, 1)
	require.Empty(t, c.Other)
	assert.Equal(t, "a", c.Exact[0].ID)
	assert.Equal(t, "b", c.SameGroup[0].ID)
}

func TestResolveCandidatesPartition(t *testing.T) {
	catalog := rugbyCatalog()
	roster := []models.Athlete{
		{ID: "a", Name: "Alice", Status: models.StatusAvailable, PositionNumbers: []int{9}},
		{ID: "b", Name: "Bob", Status: models.StatusUnavailable, PositionNumbers: []int{10}},
		{ID: "c", Name: "Carol", Status: models.StatusModified, PositionNumbers: []int{1, 9}},
		{ID: "d", Name: "Dan", Status: models.StatusAvailable, PositionNumbers: []int{8}},
		{ID: "e", Name: "Eve", Status: models.StatusAvailable},
		{ID: "f", Name: "Frank", Status: models.StatusAvailable, PositionNumbers: []int{42}},
	}

	c := ResolveCandidates(roster, catalog, 9, "")

	seen := map[string]int{}
	for _, a := range c.Exact {
		seen[a.ID]++
	}
	for _, a := range c.SameGroup {
		seen[a.ID]++
	}
	for _, a := range c.Other {
		seen[a.ID]++
	}

	// buckets are pairwise disjoint and cover the roster
	require.Len(t, seen, len(roster))
	for id, n := range seen {
		assert.Equal(t, 1, n, "athlete %s appears in exactly one bucket", id)
	}

	// no eligible positions, or only unknown numbers, lands in Other
	assert.ElementsMatch(t, []string{"e", "f", "d"}, ids(c.Other))
}

func TestResolveCandidatesOrdering(t *testing.T) {
	catalog := rugbyCatalog()
	roster := []models.Athlete{
		{ID: "u", Name: "aaron", Status: models.StatusUnavailable, PositionNumbers: []int{9}},
		{ID: "m", Name: "Zoe", Status: models.StatusModified, PositionNumbers: []int{9}},
		{ID: "a2", Name: "bella", Status: models.StatusAvailable, PositionNumbers: []int{9}},
		{ID: "a1", Name: "Abel", Status: models.StatusAvailable, PositionNumbers: []int{9}},
		{ID: "x", Name: "Nina", Status: "Unknown", PositionNumbers: []int{9}},
	}

	c := ResolveCandidates(roster, catalog, 9, "")

	require.Len(t, c.Exact, 5)
	assert.Equal(t, []string{"a1", "a2", "m", "u", "x"}, ids(c.Exact),
		"status rank first, case-insensitive name as tiebreak")
}

func TestResolveCandidatesSearch(t *testing.T) {
	catalog := rugbyCatalog()
	roster := []models.Athlete{
		{ID: "a", Name: "Alice Smith", Status: models.StatusAvailable, PositionNumbers: []int{9}},
		{ID: "b", Name: "Bob Jones", Status: models.StatusAvailable, PositionNumbers: []int{9}},
	}

	c := ResolveCandidates(roster, catalog, 9, "SMITH")

	assert.Equal(t, []string{"a"}, ids(c.Exact))
	assert.Empty(t, c.SameGroup)
	assert.Empty(t, c.Other)
}

func TestResolveCandidatesUnknownTarget(t *testing.T) {
	catalog := rugbyCatalog()
	roster := []models.Athlete{
		{ID: "a", Name: "Alice", Status: models.StatusAvailable, PositionNumbers: []int{9}},
	}

	// target not in catalog: no group to match, everyone not listed for it
	// falls into Other
	c := ResolveCandidates(roster, catalog, 77, "")

	assert.Empty(t, c.Exact)
	assert.Empty(t, c.SameGroup)
	assert.Equal(t, []string{"a"}, ids(c.Other))
}

func TestAssignOverwrites(t *testing.T) {
	f := models.NewFormation()

	f1 := Assign(f, 1, 9, false, "ath-1")
	f2 := Assign(f1, 1, 9, false, "ath-2")

	assert.Equal(t, "ath-2", f2.Team1[9], "second assignment overwrites the first")
	assert.Equal(t, "ath-1", f1.Team1[9], "input formation is untouched")
	assert.Empty(t, f.Team1, "original formation is untouched")
}

func TestAssignKeysAreIndependent(t *testing.T) {
	f := models.NewFormation()
	f = Assign(f, 1, 9, false, "ath-1")
	f = Assign(f, 1, 9, true, "ath-2")
	f = Assign(f, 2, 9, false, "ath-3")
	f = Assign(f, 2, 9, true, "ath-4")

	assert.Equal(t, "ath-1", f.Team1[9])
	assert.Equal(t, "ath-2", f.Subs1[9])
	assert.Equal(t, "ath-3", f.Team2[9])
	assert.Equal(t, "ath-4", f.Subs2[9])

	// same athlete in several slots is allowed
	f = Assign(f, 2, 10, false, "ath-1")
	assert.Equal(t, "ath-1", f.Team1[9])
	assert.Equal(t, "ath-1", f.Team2[10])
}

func TestAssignClear(t *testing.T) {
	f := models.NewFormation()
	f = Assign(f, 1, 9, false, "ath-1")
	f = Assign(f, 1, 9, false, "")

	_, ok := f.Team1[9]
	assert.False(t, ok)
}

func TestPositionsFor(t *testing.T) {
	catalog := rugbyCatalog()
	drillTypes := []models.DrillType{
		{Name: "Scrums", Positions: []int{3, 1, 8}},
		{Name: "Fitness"},
	}

	assert.Equal(t, []int{1, 3, 8}, PositionsFor("Scrums", drillTypes, catalog))

	full := []int{1, 3, 8, 9, 10}
	assert.Equal(t, full, PositionsFor("Fitness", drillTypes, catalog),
		"type without a restriction falls back to the full catalog")
	assert.Equal(t, full, PositionsFor("Lineouts", drillTypes, catalog),
		"unknown type falls back to the full catalog")
}

func ids(athletes []models.Athlete) []string {
	out := make([]string, 0, len(athletes))
	for _, a := range athletes {
		out = append(out, a.ID)
	}

	return out
}
