package models

import (
	"strings"
	"time"
)

// FindPosition looks up a catalog entry by number.
func FindPosition(catalog []Position, number int) (Position, bool) {
	for _, p := range catalog {
		if p.Number == number {
			return p, true
		}
	}

	return Position{}, false
}

// PositionDisplay renders an athlete's eligible positions as deduplicated
// names joined with ", ". Numbers missing from the catalog are skipped; when
// nothing resolves the placeholder "-" is returned.
func PositionDisplay(numbers []int, catalog []Position) string {
	if len(numbers) == 0 {
		return "-"
	}

	seen := make(map[string]struct{}, len(numbers))
	names := make([]string, 0, len(numbers))

	for _, n := range numbers {
		pos, ok := FindPosition(catalog, n)
		if !ok {
			continue
		}
		if _, dup := seen[pos.Name]; dup {
			continue
		}
		seen[pos.Name] = struct{}{}
		names = append(names, pos.Name)
	}

	if len(names) == 0 {
		return "-"
	}

	return strings.Join(names, ", ")
}

// GroupLabel returns the athlete's position group for display: the group name
// when all eligible positions share one, "Forward/Back" when they span both,
// and "" when no position resolves.
func GroupLabel(numbers []int, catalog []Position) string {
	if len(numbers) == 0 {
		return ""
	}

	seen := make(map[string]struct{}, 2)
	groups := make([]string, 0, 2)

	for _, n := range numbers {
		pos, ok := FindPosition(catalog, n)
		if !ok || pos.Group == "" {
			continue
		}
		if _, dup := seen[pos.Group]; dup {
			continue
		}
		seen[pos.Group] = struct{}{}
		groups = append(groups, pos.Group)
	}

	switch len(groups) {
	case 0:
		return ""
	case 1:
		return groups[0]
	default:
		return "Forward/Back"
	}
}

// ActiveInjuries returns the injuries still active relative to ref: a nil
// return date means ongoing, otherwise active while return_date >= ref. The
// classification is time-relative and must never be cached.
func ActiveInjuries(a Athlete, ref time.Time) []Injury {
	refDay := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)

	var active []Injury
	for _, inj := range a.Injuries {
		if inj.ReturnDate == nil || !inj.ReturnDate.Before(refDay) {
			active = append(active, inj)
		}
	}

	return active
}

// StatusRank orders statuses for candidate sorting: Available first,
// Unavailable last, anything unrecognized after that.
func StatusRank(s AthleteStatus) int {
	switch s {
	case StatusAvailable:
		return 0
	case StatusModified:
		return 1
	case StatusUnavailable:
		return 2
	default:
		return 3
	}
}

// SetDefaultPeriod returns a copy of periods with exactly the given period
// marked default and the flag cleared everywhere else. An unknown id clears
// all defaults.
func SetDefaultPeriod(periods []SeasonPeriod, id string) []SeasonPeriod {
	out := make([]SeasonPeriod, len(periods))
	for i, p := range periods {
		p.IsDefault = p.ID == id
		out[i] = p
	}

	return out
}

// DefaultPeriod returns the period flagged as default, if any.
func DefaultPeriod(periods []SeasonPeriod) (SeasonPeriod, bool) {
	for _, p := range periods {
		if p.IsDefault {
			return p, true
		}
	}

	return SeasonPeriod{}, false
}
