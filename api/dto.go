package api

// Date fields travel as "2006-01-02" strings; the service layer parses them.

type InjuryRequest struct {
	BodyPart   string `json:"body_part" validate:"required"`
	StartDate  string `json:"start_date" validate:"required,datetime=2006-01-02"`
	ReturnDate string `json:"return_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes      string `json:"notes"`
}

type InjuryResponse struct {
	ID         string `json:"id"`
	BodyPart   string `json:"body_part"`
	StartDate  string `json:"start_date"`
	ReturnDate string `json:"return_date,omitempty"`
	Notes      string `json:"notes,omitempty"`
	Active     bool   `json:"active"`
}

type AthleteRequest struct {
	Name            string          `json:"name" validate:"required"`
	Status          string          `json:"status" validate:"required,oneof=Available Modified Unavailable"`
	Notes           string          `json:"notes"`
	IsPublic        bool            `json:"is_public"`
	Avatar          string          `json:"avatar"`
	PhotoURL        string          `json:"photo_url"`
	PositionNumbers []int           `json:"position_numbers"`
	Injuries        []InjuryRequest `json:"injuries" validate:"dive"`
}

type AthleteResponse struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Status          string           `json:"status"`
	Notes           string           `json:"notes,omitempty"`
	IsPublic        bool             `json:"is_public"`
	Avatar          string           `json:"avatar,omitempty"`
	PhotoURL        string           `json:"photo_url,omitempty"`
	PositionNumbers []int            `json:"position_numbers"`
	PositionDisplay string           `json:"position_display"`
	PositionGroup   string           `json:"position_group,omitempty"`
	Injuries        []InjuryResponse `json:"injuries,omitempty"`
}

type PositionRequest struct {
	Number int    `json:"number" validate:"required,min=1"`
	Name   string `json:"name" validate:"required"`
	Group  string `json:"group" validate:"required,oneof=Forward Back"`
}

type PositionResponse struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	Name   string `json:"name"`
	Group  string `json:"group"`
}

type DrillTypeRequest struct {
	Name      string `json:"name" validate:"required"`
	Positions []int  `json:"positions"`
}

type DrillTypeResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Positions []int  `json:"positions"`
}

type PeriodRequest struct {
	Title     string `json:"title" validate:"required"`
	FromDate  string `json:"from_date" validate:"required,datetime=2006-01-02"`
	ToDate    string `json:"to_date" validate:"required,datetime=2006-01-02"`
	IsDefault bool   `json:"is_default"`
}

type PeriodResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	FromDate  string `json:"from_date"`
	ToDate    string `json:"to_date"`
	IsDefault bool   `json:"is_default"`
}

type AvailabilityEntry struct {
	AthleteID string `json:"athlete_id" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=Available Modified Unavailable"`
	Note      string `json:"note"`
}

// AvailabilitySaveRequest replaces every record stored for the date.
type AvailabilitySaveRequest struct {
	Date    string              `json:"date" validate:"required,datetime=2006-01-02"`
	Entries []AvailabilityEntry `json:"entries" validate:"required,min=1,dive"`
}

type AvailabilityRecordResponse struct {
	ID        string `json:"id"`
	AthleteID string `json:"athlete_id"`
	Date      string `json:"date"`
	Status    string `json:"status"`
	Note      string `json:"note,omitempty"`
}

type CandidateResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Status          string `json:"status"`
	PositionDisplay string `json:"position_display"`
}

type CandidatesResponse struct {
	Position     int                 `json:"position"`
	PositionName string              `json:"position_name"`
	Exact        []CandidateResponse `json:"exact_match"`
	SameGroup    []CandidateResponse `json:"same_group"`
	Other        []CandidateResponse `json:"other"`
}

type FormationRequest struct {
	Team1 map[int]string `json:"team1"`
	Team2 map[int]string `json:"team2"`
	Subs1 map[int]string `json:"subs1"`
	Subs2 map[int]string `json:"subs2"`
}

type FormationResponse struct {
	Team1 map[int]string `json:"team1"`
	Team2 map[int]string `json:"team2"`
	Subs1 map[int]string `json:"subs1"`
	Subs2 map[int]string `json:"subs2"`
}

type DrillRequest struct {
	Name      string           `json:"name" validate:"required"`
	Type      string           `json:"type"`
	Intensity string           `json:"intensity" validate:"required,oneof=Low Medium High"`
	Notes     string           `json:"notes"`
	Formation FormationRequest `json:"formation"`
}

type DrillResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Type      string            `json:"type"`
	Intensity string            `json:"intensity"`
	Notes     string            `json:"notes,omitempty"`
	Formation FormationResponse `json:"formation"`
}

type SessionPlanRequest struct {
	Date   string         `json:"date" validate:"required,datetime=2006-01-02"`
	Drills []DrillRequest `json:"drills" validate:"dive"`
}

type SessionPlanResponse struct {
	ID     string          `json:"id"`
	Date   string          `json:"date"`
	Drills []DrillResponse `json:"drills"`
}

type AthleteStatsResponse struct {
	AthleteID   string `json:"athlete_id"`
	Available   int    `json:"available"`
	Modified    int    `json:"modified"`
	Unavailable int    `json:"unavailable"`
	Total       int    `json:"total"`
}

// CohortReportRequest scopes the time series: mode "all" derives the range
// from history, "period" uses a season period, "custom" takes explicit bounds.
type CohortReportRequest struct {
	Mode       string   `json:"mode" validate:"required,oneof=all period custom"`
	PeriodID   string   `json:"period_id,omitempty" validate:"required_if=Mode period"`
	FromDate   string   `json:"from_date,omitempty" validate:"required_if=Mode custom,omitempty,datetime=2006-01-02"`
	ToDate     string   `json:"to_date,omitempty" validate:"required_if=Mode custom,omitempty,datetime=2006-01-02"`
	AthleteIDs []string `json:"athlete_ids" validate:"required,min=1"`
	Positions  []int    `json:"positions"`
}

type CohortPointResponse struct {
	Date        string `json:"date"`
	Available   int    `json:"available"`
	Modified    int    `json:"modified"`
	Unavailable int    `json:"unavailable"`
}

type CohortReportResponse struct {
	From       string                `json:"from"`
	To         string                `json:"to"`
	CohortSize int                   `json:"cohort_size"`
	Points     []CohortPointResponse `json:"points"`
}
