package models

import "time"

type AthleteStatus string

const (
	StatusAvailable   AthleteStatus = "Available"
	StatusModified    AthleteStatus = "Modified"
	StatusUnavailable AthleteStatus = "Unavailable"
)

type Intensity string

const (
	IntensityLow    Intensity = "Low"
	IntensityMedium Intensity = "Medium"
	IntensityHigh   Intensity = "High"
)

// BodyParts is the fixed list of injury locations.
var BodyParts = []string{
	"Head", "Neck", "Shoulder", "Arm", "Elbow", "Wrist", "Hand", "Chest", "Back",
	"Hip", "Groin", "Thigh", "Hamstring", "Knee", "Calf", "Ankle", "Foot", "Other",
}

// Position is a numbered slot in the team formation. Number is the only stable
// identity; Name and Group are display attributes attached to it.
type Position struct {
	ID     string `db:"id" json:"id"`
	Number int    `db:"number" json:"number"`
	Name   string `db:"name" json:"name"`
	Group  string `db:"position_group" json:"group"`
}

type Injury struct {
	ID         string     `db:"id" json:"id"`
	AthleteID  string     `db:"athlete_id" json:"athlete_id"`
	BodyPart   string     `db:"body_part" json:"body_part"`
	StartDate  time.Time  `db:"start_date" json:"start_date"`
	ReturnDate *time.Time `db:"return_date" json:"return_date,omitempty"`
	Notes      string     `db:"notes" json:"notes"`
}

type Athlete struct {
	ID              string        `db:"id" json:"id"`
	Name            string        `db:"name" json:"name"`
	Status          AthleteStatus `db:"status" json:"status"`
	Notes           string        `db:"notes" json:"notes"`
	IsPublic        bool          `db:"is_public" json:"is_public"`
	Avatar          string        `db:"avatar" json:"avatar"`
	PhotoURL        string        `db:"photo_url" json:"photo_url"`
	PositionNumbers []int         `json:"position_numbers"`
	Injuries        []Injury      `json:"injuries"`
}

// AvailabilityRecord is one status snapshot; at most one exists per
// (athlete, date) pair.
type AvailabilityRecord struct {
	ID        string        `db:"id" json:"id"`
	AthleteID string        `db:"athlete_id" json:"athlete_id"`
	Date      time.Time     `db:"date" json:"date"`
	Status    AthleteStatus `db:"status" json:"status"`
	Note      string        `db:"note" json:"note"`
}

// SeasonPeriod is a named date range used to scope availability statistics.
type SeasonPeriod struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	FromDate  time.Time `db:"from_date" json:"from_date"`
	ToDate    time.Time `db:"to_date" json:"to_date"`
	IsDefault bool      `db:"is_default" json:"is_default"`
}

// DrillType constrains which position numbers a drill's formation exposes.
type DrillType struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Positions []int  `json:"positions"`
}

// Formation maps position numbers to athlete IDs for both teams and their
// substitutes. An empty string means the slot is unfilled.
type Formation struct {
	Team1 map[int]string `json:"team1"`
	Team2 map[int]string `json:"team2"`
	Subs1 map[int]string `json:"subs1"`
	Subs2 map[int]string `json:"subs2"`
}

func NewFormation() Formation {
	return Formation{
		Team1: map[int]string{},
		Team2: map[int]string{},
		Subs1: map[int]string{},
		Subs2: map[int]string{},
	}
}

// Clone deep-copies the formation so editing sessions never share maps.
func (f Formation) Clone() Formation {
	c := NewFormation()
	for k, v := range f.Team1 {
		c.Team1[k] = v
	}
	for k, v := range f.Team2 {
		c.Team2[k] = v
	}
	for k, v := range f.Subs1 {
		c.Subs1[k] = v
	}
	for k, v := range f.Subs2 {
		c.Subs2[k] = v
	}

	return c
}

type Drill struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Type      string    `db:"drill_type" json:"type"`
	Intensity Intensity `db:"intensity" json:"intensity"`
	Notes     string    `db:"notes" json:"notes"`
	Formation Formation `json:"formation"`
}

type SessionPlan struct {
	ID     string    `db:"id" json:"id"`
	Date   time.Time `db:"date" json:"date"`
	Drills []Drill   `json:"drills"`
}
