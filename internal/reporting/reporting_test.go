package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"squad-service/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rec(athleteID string, d time.Time, status models.AthleteStatus) models.AvailabilityRecord {
	return models.AvailabilityRecord{AthleteID: athleteID, Date: d, Status: status}
}

func TestAthleteStatsAllTime(t *testing.T) {
	records := []models.AvailabilityRecord{
		rec("x", date(2026, 3, 1), models.StatusAvailable),
		rec("x", date(2026, 3, 2), models.StatusAvailable),
		rec("x", date(2026, 3, 3), models.StatusModified),
		rec("x", date(2026, 3, 4), models.StatusUnavailable),
		rec("y", date(2026, 3, 1), models.StatusUnavailable),
	}

	stats := AthleteStats("x", records, nil)

	assert.Equal(t, Stats{Available: 50, Modified: 25, Unavailable: 25, Total: 4}, stats)
}

func TestAthleteStatsPeriod(t *testing.T) {
	records := []models.AvailabilityRecord{
		rec("x", date(2026, 2, 28), models.StatusUnavailable),
		rec("x", date(2026, 3, 1), models.StatusAvailable),
		rec("x", date(2026, 3, 5), models.StatusAvailable),
		rec("x", date(2026, 3, 6), models.StatusModified),
	}
	period := &models.SeasonPeriod{FromDate: date(2026, 3, 1), ToDate: date(2026, 3, 5)}

	stats := AthleteStats("x", records, period)

	// bounds are inclusive on both ends
	assert.Equal(t, Stats{Available: 100, Modified: 0, Unavailable: 0, Total: 2}, stats)
}

func TestAthleteStatsEmpty(t *testing.T) {
	stats := AthleteStats("nobody", nil, nil)

	assert.Equal(t, Stats{}, stats, "no records means all-zero stats, not a division by zero")
}

func TestAthleteStatsBounds(t *testing.T) {
	records := []models.AvailabilityRecord{
		rec("x", date(2026, 3, 1), models.StatusAvailable),
		rec("x", date(2026, 3, 2), models.StatusAvailable),
		rec("x", date(2026, 3, 3), models.StatusUnavailable),
	}

	stats := AthleteStats("x", records, nil)

	for _, pct := range []int{stats.Available, stats.Modified, stats.Unavailable} {
		assert.GreaterOrEqual(t, pct, 0)
		assert.LessOrEqual(t, pct, 100)
	}
	// 67 + 33: independently rounded percentages need not sum to 100
	assert.Equal(t, 67, stats.Available)
	assert.Equal(t, 33, stats.Unavailable)
}

func TestAllTimeRange(t *testing.T) {
	_, ok := AllTimeRange(nil)
	assert.False(t, ok)

	records := []models.AvailabilityRecord{
		rec("x", date(2026, 3, 5), models.StatusAvailable),
		rec("y", date(2026, 2, 1), models.StatusAvailable),
		rec("x", date(2026, 4, 9), models.StatusModified),
	}

	r, ok := AllTimeRange(records)
	require.True(t, ok)
	assert.Equal(t, date(2026, 2, 1), r.From)
	assert.Equal(t, date(2026, 4, 9), r.To)
}

func cohortRoster() []models.Athlete {
	return []models.Athlete{
		{ID: "a", Name: "Alice", PositionNumbers: []int{9}},
		{ID: "b", Name: "Bob", PositionNumbers: []int{10}},
		{ID: "c", Name: "Carol", PositionNumbers: []int{1}},
		{ID: "d", Name: "Dan"},
	}
}

func TestFilterCohort(t *testing.T) {
	roster := cohortRoster()

	cohort := FilterCohort(roster, CohortFilter{
		AthleteIDs: []string{"a", "b", "c", "d"},
		Positions:  []int{9, 10},
	})
	assert.Equal(t, []string{"a", "b"}, cohort,
		"position filter is ANDed with explicit selection; no positions never matches")

	cohort = FilterCohort(roster, CohortFilter{AthleteIDs: []string{"b", "d"}})
	assert.Equal(t, []string{"b", "d"}, cohort,
		"empty position filter applies no position constraint")

	assert.Empty(t, FilterCohort(roster, CohortFilter{}))
}

func TestCohortSeriesOmitsEmptyDays(t *testing.T) {
	roster := cohortRoster()
	records := []models.AvailabilityRecord{
		rec("a", date(2026, 3, 1), models.StatusAvailable),
		rec("b", date(2026, 3, 1), models.StatusUnavailable),
		// nothing on March 2
		rec("a", date(2026, 3, 3), models.StatusModified),
	}

	series := CohortSeries(roster, records, DateRange{From: date(2026, 3, 1), To: date(2026, 3, 3)}, CohortFilter{
		AthleteIDs: []string{"a", "b"},
	})

	require.Len(t, series, 2)
	assert.Equal(t, date(2026, 3, 1), series[0].Date)
	assert.Equal(t, date(2026, 3, 3), series[1].Date)
}

func TestCohortSeriesDenominatorIsCohortSize(t *testing.T) {
	roster := cohortRoster()
	// cohort of 4, but only 1 Available record that day
	records := []models.AvailabilityRecord{
		rec("a", date(2026, 3, 1), models.StatusAvailable),
	}

	series := CohortSeries(roster, records, DateRange{From: date(2026, 3, 1), To: date(2026, 3, 1)}, CohortFilter{
		AthleteIDs: []string{"a", "b", "c", "d"},
	})

	require.Len(t, series, 1)
	assert.Equal(t, 25, series[0].Available, "round(1/4*100), independent of records present")
	assert.Equal(t, 0, series[0].Modified)
	assert.Equal(t, 0, series[0].Unavailable)

	// more records that day do not change the denominator
	records = append(records,
		rec("b", date(2026, 3, 1), models.StatusUnavailable),
		rec("c", date(2026, 3, 1), models.StatusUnavailable),
	)
	series = CohortSeries(roster, records, DateRange{From: date(2026, 3, 1), To: date(2026, 3, 1)}, CohortFilter{
		AthleteIDs: []string{"a", "b", "c", "d"},
	})
	require.Len(t, series, 1)
	assert.Equal(t, 25, series[0].Available)
	assert.Equal(t, 50, series[0].Unavailable)
}

func TestCohortSeriesEmptyCohort(t *testing.T) {
	roster := cohortRoster()
	records := []models.AvailabilityRecord{
		rec("a", date(2026, 3, 1), models.StatusAvailable),
	}

	series := CohortSeries(roster, records, DateRange{From: date(2026, 3, 1), To: date(2026, 3, 1)}, CohortFilter{})

	assert.Empty(t, series)
}

func TestCohortSeriesIgnoresOutsiders(t *testing.T) {
	roster := cohortRoster()
	records := []models.AvailabilityRecord{
		rec("a", date(2026, 3, 1), models.StatusAvailable),
		rec("b", date(2026, 3, 1), models.StatusAvailable),
	}

	series := CohortSeries(roster, records, DateRange{From: date(2026, 3, 1), To: date(2026, 3, 1)}, CohortFilter{
		AthleteIDs: []string{"a"},
	})

	require.Len(t, series, 1)
	assert.Equal(t, 100, series[0].Available, "records of unselected athletes are excluded")
}

func TestAssignedPositions(t *testing.T) {
	roster := []models.Athlete{
		{ID: "a", PositionNumbers: []int{10, 9}},
		{ID: "b", PositionNumbers: []int{9}},
		{ID: "c"},
	}

	assert.Equal(t, []int{9, 10}, AssignedPositions(roster))
	assert.Empty(t, AssignedPositions(nil))
}

func reportCatalog() []models.Position {
	return []models.Position{
		{Number: 1, Name: "Prop", Group: "Forward"},
		{Number: 3, Name: "Prop", Group: "Forward"},
		{Number: 8, Name: "Number 8", Group: "Forward"},
		{Number: 9, Name: "Scrum-half", Group: "Back"},
	}
}

func TestPositionNameGroups(t *testing.T) {
	groups := PositionNameGroups([]int{1, 3, 9, 42}, reportCatalog())

	require.Len(t, groups, 2, "unknown numbers are skipped")
	assert.Equal(t, "Prop", groups[0].Name)
	assert.Equal(t, []int{1, 3}, groups[0].Numbers)
	assert.Equal(t, "Scrum-half", groups[1].Name)
}

func TestTogglePositionName(t *testing.T) {
	groups := PositionNameGroups([]int{1, 3, 9}, reportCatalog())

	// partially selected name becomes fully selected
	selected := TogglePositionName([]int{1, 9}, "Prop", groups)
	assert.ElementsMatch(t, []int{1, 9, 3}, selected)

	// fully selected name is deselected as a unit
	selected = TogglePositionName(selected, "Prop", groups)
	assert.Equal(t, []int{9}, selected)

	// unknown name is a no-op
	assert.Equal(t, []int{9}, TogglePositionName([]int{9}, "Hooker", groups))
}

func TestToggleGroup(t *testing.T) {
	catalog := reportCatalog()
	assigned := []int{1, 9} // position 3 and 8 defined but unused

	selected := ToggleGroup([]int{9}, "Forward", catalog, assigned)
	assert.ElementsMatch(t, []int{9, 1}, selected, "only in-use group numbers enter scope")

	selected = ToggleGroup(selected, "Forward", catalog, assigned)
	assert.Equal(t, []int{9}, selected)

	assert.Equal(t, []int{9}, ToggleGroup([]int{9}, "Midfield", catalog, assigned))
}
