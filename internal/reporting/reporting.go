package reporting

import (
	"math"
	"sort"
	"time"

	"squad-service/internal/models"
)

// Stats holds one athlete's time-in-status percentages over a window. The
// percentages are rounded independently and may not sum to exactly 100.
type Stats struct {
	Available   int `json:"available"`
	Modified    int `json:"modified"`
	Unavailable int `json:"unavailable"`
	Total       int `json:"total"`
}

// AthleteStats computes percentage-of-time-in-status for one athlete. A nil
// period means all time; otherwise records are kept when
// fromDate <= date <= toDate. Total == 0 yields all-zero percentages.
func AthleteStats(athleteID string, records []models.AvailabilityRecord, period *models.SeasonPeriod) Stats {
	var available, modified, unavailable, total int

	for _, r := range records {
		if r.AthleteID != athleteID {
			continue
		}
		if period != nil {
			d := day(r.Date)
			if d.Before(day(period.FromDate)) || d.After(day(period.ToDate)) {
				continue
			}
		}

		total++
		switch r.Status {
		case models.StatusAvailable:
			available++
		case models.StatusModified:
			modified++
		case models.StatusUnavailable:
			unavailable++
		}
	}

	if total == 0 {
		return Stats{}
	}

	return Stats{
		Available:   percent(available, total),
		Modified:    percent(modified, total),
		Unavailable: percent(unavailable, total),
		Total:       total,
	}
}

// DateRange is an inclusive day-granularity window.
type DateRange struct {
	From time.Time
	To   time.Time
}

// AllTimeRange derives the window covering every record present. ok is false
// when there is no history at all.
func AllTimeRange(records []models.AvailabilityRecord) (DateRange, bool) {
	if len(records) == 0 {
		return DateRange{}, false
	}

	r := DateRange{From: day(records[0].Date), To: day(records[0].Date)}
	for _, rec := range records[1:] {
		d := day(rec.Date)
		if d.Before(r.From) {
			r.From = d
		}
		if d.After(r.To) {
			r.To = d
		}
	}

	return r, true
}

// PeriodRange converts a season period to a date range.
func PeriodRange(p models.SeasonPeriod) DateRange {
	return DateRange{From: day(p.FromDate), To: day(p.ToDate)}
}

// CohortFilter selects the athletes a report aggregates over. An athlete must
// be in AthleteIDs AND, when Positions is non-empty, be listed for at least
// one of those numbers. Athletes without positions never match a non-empty
// position filter.
type CohortFilter struct {
	AthleteIDs []string
	Positions  []int
}

// FilterCohort resolves the filter against the roster, preserving roster
// order.
func FilterCohort(roster []models.Athlete, filter CohortFilter) []string {
	selected := make(map[string]struct{}, len(filter.AthleteIDs))
	for _, id := range filter.AthleteIDs {
		selected[id] = struct{}{}
	}

	var cohort []string
	for _, a := range roster {
		if _, ok := selected[a.ID]; !ok {
			continue
		}
		if len(filter.Positions) > 0 && !intersects(a.PositionNumbers, filter.Positions) {
			continue
		}

		cohort = append(cohort, a.ID)
	}

	return cohort
}

// DayPoint is one day of the cohort series.
type DayPoint struct {
	Date        time.Time `json:"date"`
	Available   int       `json:"available"`
	Modified    int       `json:"modified"`
	Unavailable int       `json:"unavailable"`
}

// CohortSeries walks every calendar day of the range and aggregates the
// cohort's records for that day. Days with no matching records are omitted
// rather than zero-filled. The denominator is the cohort size, not the number
// of records found that day: athletes with no record silently depress every
// status percentage.
func CohortSeries(roster []models.Athlete, records []models.AvailabilityRecord, dateRange DateRange, filter CohortFilter) []DayPoint {
	cohort := FilterCohort(roster, filter)
	if len(cohort) == 0 {
		return nil
	}

	inCohort := make(map[string]struct{}, len(cohort))
	for _, id := range cohort {
		inCohort[id] = struct{}{}
	}

	// bucket records by day up front; the walk below is then O(days)
	byDay := make(map[time.Time][]models.AvailabilityRecord)
	for _, r := range records {
		if _, ok := inCohort[r.AthleteID]; !ok {
			continue
		}
		d := day(r.Date)
		byDay[d] = append(byDay[d], r)
	}

	size := len(cohort)

	var series []DayPoint
	for d := day(dateRange.From); !d.After(day(dateRange.To)); d = d.AddDate(0, 0, 1) {
		recs := byDay[d]
		if len(recs) == 0 {
			continue
		}

		var available, modified, unavailable int
		for _, r := range recs {
			switch r.Status {
			case models.StatusAvailable:
				available++
			case models.StatusModified:
				modified++
			case models.StatusUnavailable:
				unavailable++
			}
		}

		series = append(series, DayPoint{
			Date:        d,
			Available:   percent(available, size),
			Modified:    percent(modified, size),
			Unavailable: percent(unavailable, size),
		})
	}

	return series
}

// AssignedPositions returns the distinct position numbers actually held by at
// least one athlete, ascending.
func AssignedPositions(roster []models.Athlete) []int {
	seen := map[int]struct{}{}
	for _, a := range roster {
		for _, n := range a.PositionNumbers {
			seen[n] = struct{}{}
		}
	}

	out := make([]int, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Ints(out)

	return out
}

// PositionNameGroup collects the assigned numbers sharing one display name,
// e.g. both Prop slots.
type PositionNameGroup struct {
	Name    string
	Group   string
	Numbers []int
}

// PositionNameGroups maps the assigned position numbers onto their display
// names, in catalog-name first-seen order.
func PositionNameGroups(assigned []int, catalog []models.Position) []PositionNameGroup {
	index := map[string]int{}
	var out []PositionNameGroup

	for _, n := range assigned {
		pos, ok := models.FindPosition(catalog, n)
		if !ok {
			continue
		}

		i, seen := index[pos.Name]
		if !seen {
			index[pos.Name] = len(out)
			out = append(out, PositionNameGroup{Name: pos.Name, Group: pos.Group})
			i = len(out) - 1
		}
		out[i].Numbers = append(out[i].Numbers, n)
	}

	return out
}

// TogglePositionName flips every number sharing the given display name:
// deselected when all are selected, selected otherwise.
func TogglePositionName(selected []int, name string, groups []PositionNameGroup) []int {
	var numbers []int
	for _, g := range groups {
		if g.Name == name {
			numbers = g.Numbers
			break
		}
	}
	if len(numbers) == 0 {
		return selected
	}

	if containsAll(selected, numbers) {
		return remove(selected, numbers)
	}

	return add(selected, numbers)
}

// ToggleGroup flips every in-use number of a position group. Catalog numbers
// nobody is assigned to stay out of scope.
func ToggleGroup(selected []int, group string, catalog []models.Position, assigned []int) []int {
	var numbers []int
	for _, p := range catalog {
		if p.Group == group && contains(assigned, p.Number) {
			numbers = append(numbers, p.Number)
		}
	}
	if len(numbers) == 0 {
		return selected
	}

	if containsAll(selected, numbers) {
		return remove(selected, numbers)
	}

	return add(selected, numbers)
}

func percent(count, total int) int {
	return int(math.Round(float64(count) / float64(total) * 100))
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func contains(haystack []int, n int) bool {
	for _, v := range haystack {
		if v == n {
			return true
		}
	}

	return false
}

func containsAll(haystack, needles []int) bool {
	for _, n := range needles {
		if !contains(haystack, n) {
			return false
		}
	}

	return true
}

func intersects(a, b []int) bool {
	for _, n := range a {
		if contains(b, n) {
			return true
		}
	}

	return false
}

func remove(selected, numbers []int) []int {
	out := make([]int, 0, len(selected))
	for _, n := range selected {
		if !contains(numbers, n) {
			out = append(out, n)
		}
	}

	return out
}

func add(selected, numbers []int) []int {
	out := make([]int, 0, len(selected)+len(numbers))
	out = append(out, selected...)
	for _, n := range numbers {
		if !contains(out, n) {
			out = append(out, n)
		}
	}

	return out
}
