package selection

import (
	"sort"
	"strings"

	"squad-service/internal/models"
)

// Candidates is the roster partitioned for a target position: athletes listed
// for the exact number, athletes covering another number in the same group,
// and everyone else. The buckets are disjoint and together cover the whole
// (search-filtered) roster.
type Candidates struct {
	Exact     []models.Athlete `json:"exact_match"`
	SameGroup []models.Athlete `json:"same_group"`
	Other     []models.Athlete `json:"other"`
}

// ResolveCandidates ranks the roster for filling targetNumber. search is a
// case-insensitive substring match on the athlete name, applied before
// bucketing; empty matches everyone. Within each bucket athletes are ordered
// by status (Available, Modified, Unavailable, unknown) and then name.
func ResolveCandidates(roster []models.Athlete, catalog []models.Position, targetNumber int, search string) Candidates {
	target, _ := models.FindPosition(catalog, targetNumber)
	needle := strings.ToLower(search)

	var c Candidates
	for _, a := range roster {
		if needle != "" && !strings.Contains(strings.ToLower(a.Name), needle) {
			continue
		}

		switch {
		case hasNumber(a.PositionNumbers, targetNumber):
			c.Exact = append(c.Exact, a)
		case target.Group != "" && inGroup(a.PositionNumbers, catalog, target.Group):
			c.SameGroup = append(c.SameGroup, a)
		default:
			c.Other = append(c.Other, a)
		}
	}

	sortBucket(c.Exact)
	sortBucket(c.SameGroup)
	sortBucket(c.Other)

	return c
}

func hasNumber(numbers []int, n int) bool {
	for _, pn := range numbers {
		if pn == n {
			return true
		}
	}

	return false
}

func inGroup(numbers []int, catalog []models.Position, group string) bool {
	for _, pn := range numbers {
		if pos, ok := models.FindPosition(catalog, pn); ok && pos.Group == group {
			return true
		}
	}

	return false
}

func sortBucket(bucket []models.Athlete) {
	sort.SliceStable(bucket, func(i, j int) bool {
		ri, rj := models.StatusRank(bucket[i].Status), models.StatusRank(bucket[j].Status)
		if ri != rj {
			return ri < rj
		}

		return strings.ToLower(bucket[i].Name) < strings.ToLower(bucket[j].Name)
	})
}

// Assign writes athleteID into the (team, positionNumber, isSubstitute) slot
// and returns the updated formation; the input is left untouched. An empty
// athleteID clears the slot. The same athlete may occupy several slots; the
// only guarantee is overwrite of that exact key.
func Assign(f models.Formation, team int, positionNumber int, isSubstitute bool, athleteID string) models.Formation {
	out := f.Clone()

	var slots map[int]string
	switch {
	case team == 2 && isSubstitute:
		slots = out.Subs2
	case team == 2:
		slots = out.Team2
	case isSubstitute:
		slots = out.Subs1
	default:
		slots = out.Team1
	}

	if athleteID == "" {
		delete(slots, positionNumber)
	} else {
		slots[positionNumber] = athleteID
	}

	return out
}

// PositionsFor returns the position numbers a drill type's formation editor
// exposes, ascending. Unknown types and types with no restriction fall back
// to the full catalog.
func PositionsFor(drillTypeName string, drillTypes []models.DrillType, catalog []models.Position) []int {
	for _, dt := range drillTypes {
		if dt.Name == drillTypeName && len(dt.Positions) > 0 {
			out := make([]int, len(dt.Positions))
			copy(out, dt.Positions)
			sort.Ints(out)

			return out
		}
	}

	out := make([]int, 0, len(catalog))
	for _, p := range catalog {
		out = append(out, p.Number)
	}
	sort.Ints(out)

	return out
}
