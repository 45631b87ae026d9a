package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"squad-service/api"
	"squad-service/internal/lock"
	"squad-service/internal/models"
	"squad-service/internal/reporting"
	"squad-service/internal/selection"
	"squad-service/pkg/response"
)

const dateLayout = "2006-01-02"

const lockTTL = 10 * time.Second

// Store is the persistence surface the service drives. Replace-style writes
// run inside a transaction opened here.
type Store interface {
	BeginTx(ctx context.Context) (*sqlx.Tx, error)

	ListPositions(ctx context.Context) ([]models.Position, error)
	CreatePosition(ctx context.Context, p *models.Position) (string, error)
	UpdatePosition(ctx context.Context, p *models.Position) error
	DeletePosition(ctx context.Context, id string) error

	ListAthletes(ctx context.Context) ([]models.Athlete, error)
	GetAthlete(ctx context.Context, id string) (*models.Athlete, error)
	InsertAthleteTx(ctx context.Context, tx *sqlx.Tx, a *models.Athlete) (string, error)
	UpdateAthleteTx(ctx context.Context, tx *sqlx.Tx, a *models.Athlete) error
	ReplaceAthletePositionsTx(ctx context.Context, tx *sqlx.Tx, athleteID string, numbers []int) error
	ReplaceAthleteInjuriesTx(ctx context.Context, tx *sqlx.Tx, athleteID string, injuries []models.Injury) error
	DeleteAthlete(ctx context.Context, id string) error

	ListDrillTypes(ctx context.Context) ([]models.DrillType, error)
	GetDrillType(ctx context.Context, id string) (*models.DrillType, error)
	InsertDrillTypeTx(ctx context.Context, tx *sqlx.Tx, dt *models.DrillType) (string, error)
	UpdateDrillTypeTx(ctx context.Context, tx *sqlx.Tx, dt *models.DrillType) error
	ReplaceDrillTypePositionsTx(ctx context.Context, tx *sqlx.Tx, typeID string, numbers []int) error
	DeleteDrillType(ctx context.Context, id string) error

	ListPeriods(ctx context.Context) ([]models.SeasonPeriod, error)
	GetPeriod(ctx context.Context, id string) (*models.SeasonPeriod, error)
	InsertPeriodTx(ctx context.Context, tx *sqlx.Tx, p *models.SeasonPeriod) (string, error)
	UpdatePeriodTx(ctx context.Context, tx *sqlx.Tx, p *models.SeasonPeriod) error
	ClearOtherDefaultsTx(ctx context.Context, tx *sqlx.Tx, keepID string) error
	SetDefaultPeriodTx(ctx context.Context, tx *sqlx.Tx, id string) error
	DeletePeriod(ctx context.Context, id string) error

	ListAvailability(ctx context.Context, athleteID *string, from, to *time.Time) ([]models.AvailabilityRecord, error)
	ReplaceAvailabilityForDateTx(ctx context.Context, tx *sqlx.Tx, date time.Time, records []models.AvailabilityRecord) error

	GetDefaultTeam(ctx context.Context) (models.Formation, error)
	ReplaceDefaultTeamTx(ctx context.Context, tx *sqlx.Tx, f models.Formation) error

	GetSessionPlan(ctx context.Context, date time.Time) (*models.SessionPlan, error)
	GetOrCreateSessionPlanTx(ctx context.Context, tx *sqlx.Tx, date time.Time) (string, error)
	DeletePlanDrillsTx(ctx context.Context, tx *sqlx.Tx, planID string) error
	InsertDrillTx(ctx context.Context, tx *sqlx.Tx, planID string, d *models.Drill, sortOrder int) (string, error)
	InsertDrillAssignmentsTx(ctx context.Context, tx *sqlx.Tx, drillID string, f models.Formation) error
}

type Service struct {
	store  Store
	locker lock.Locker
}

func NewService(store Store, locker lock.Locker) *Service {
	return &Service{store: store, locker: locker}
}

// withLock serializes replace-style writes on a shared key.
func (s *Service) withLock(ctx context.Context, key string, fn func() error) error {
	acquired, err := s.locker.Lock(ctx, key, lockTTL)
	if err != nil {
		return err
	}
	if !acquired {
		return response.ErrLocked
	}
	defer func() { _ = s.locker.Unlock(ctx, key) }()

	return fn()
}

func parseDate(op, value string) (time.Time, error) {
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", op, response.ErrBadRequest)
	}

	return d, nil
}

// #### athletes ####

func (s *Service) CreateAthlete(ctx context.Context, req api.AthleteRequest) (*api.AthleteResponse, error) {
	const op = "service.CreateAthlete"

	athlete, err := athleteFromRequest(op, req)
	if err != nil {
		return nil, err
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	id, err := s.store.InsertAthleteTx(ctx, tx, athlete)
	if err != nil {
		return nil, err
	}
	if err := s.store.ReplaceAthletePositionsTx(ctx, tx, id, athlete.PositionNumbers); err != nil {
		return nil, err
	}
	if err := s.store.ReplaceAthleteInjuriesTx(ctx, tx, id, athlete.Injuries); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetAthlete(ctx, id)
}

func (s *Service) GetAthlete(ctx context.Context, id string) (*api.AthleteResponse, error) {
	athlete, err := s.store.GetAthlete(ctx, id)
	if err != nil {
		return nil, err
	}

	catalog, err := s.store.ListPositions(ctx)
	if err != nil {
		return nil, err
	}

	resp := athleteResponse(*athlete, catalog, time.Now())

	return &resp, nil
}

func (s *Service) ListAthletes(ctx context.Context, search string, availableOnly bool) ([]api.AthleteResponse, error) {
	roster, err := s.store.ListAthletes(ctx)
	if err != nil {
		return nil, err
	}

	catalog, err := s.store.ListPositions(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	needle := strings.ToLower(search)

	resp := make([]api.AthleteResponse, 0, len(roster))
	for _, a := range roster {
		if needle != "" && !strings.Contains(strings.ToLower(a.Name), needle) {
			continue
		}
		if availableOnly && a.Status != models.StatusAvailable {
			continue
		}
		resp = append(resp, athleteResponse(a, catalog, now))
	}

	return resp, nil
}

func (s *Service) UpdateAthlete(ctx context.Context, id string, req api.AthleteRequest) (*api.AthleteResponse, error) {
	const op = "service.UpdateAthlete"

	athlete, err := athleteFromRequest(op, req)
	if err != nil {
		return nil, err
	}
	athlete.ID = id

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	if err := s.store.UpdateAthleteTx(ctx, tx, athlete); err != nil {
		return nil, err
	}
	if err := s.store.ReplaceAthletePositionsTx(ctx, tx, id, athlete.PositionNumbers); err != nil {
		return nil, err
	}
	if err := s.store.ReplaceAthleteInjuriesTx(ctx, tx, id, athlete.Injuries); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetAthlete(ctx, id)
}

func (s *Service) DeleteAthlete(ctx context.Context, id string) error {
	return s.store.DeleteAthlete(ctx, id)
}

func athleteFromRequest(op string, req api.AthleteRequest) (*models.Athlete, error) {
	injuries := make([]models.Injury, 0, len(req.Injuries))
	for _, ir := range req.Injuries {
		if !isBodyPart(ir.BodyPart) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrBadRequest)
		}

		start, err := parseDate(op, ir.StartDate)
		if err != nil {
			return nil, err
		}

		inj := models.Injury{
			BodyPart:  ir.BodyPart,
			StartDate: start,
			Notes:     ir.Notes,
		}
		if ir.ReturnDate != "" {
			ret, err := parseDate(op, ir.ReturnDate)
			if err != nil {
				return nil, err
			}
			inj.ReturnDate = &ret
		}
		injuries = append(injuries, inj)
	}

	return &models.Athlete{
		Name:            req.Name,
		Status:          models.AthleteStatus(req.Status),
		Notes:           req.Notes,
		IsPublic:        req.IsPublic,
		Avatar:          req.Avatar,
		PhotoURL:        req.PhotoURL,
		PositionNumbers: req.PositionNumbers,
		Injuries:        injuries,
	}, nil
}

func isBodyPart(part string) bool {
	for _, p := range models.BodyParts {
		if p == part {
			return true
		}
	}

	return false
}

func athleteResponse(a models.Athlete, catalog []models.Position, now time.Time) api.AthleteResponse {
	active := map[string]bool{}
	for _, inj := range models.ActiveInjuries(a, now) {
		active[inj.ID] = true
	}

	injuries := make([]api.InjuryResponse, 0, len(a.Injuries))
	for _, inj := range a.Injuries {
		ir := api.InjuryResponse{
			ID:        inj.ID,
			BodyPart:  inj.BodyPart,
			StartDate: inj.StartDate.Format(dateLayout),
			Notes:     inj.Notes,
			Active:    active[inj.ID],
		}
		if inj.ReturnDate != nil {
			ir.ReturnDate = inj.ReturnDate.Format(dateLayout)
		}
		injuries = append(injuries, ir)
	}

	return api.AthleteResponse{
		ID:              a.ID,
		Name:            a.Name,
		Status:          string(a.Status),
		Notes:           a.Notes,
		IsPublic:        a.IsPublic,
		Avatar:          a.Avatar,
		PhotoURL:        a.PhotoURL,
		PositionNumbers: a.PositionNumbers,
		PositionDisplay: models.PositionDisplay(a.PositionNumbers, catalog),
		PositionGroup:   models.GroupLabel(a.PositionNumbers, catalog),
		Injuries:        injuries,
	}
}

// #### team structure ####

func (s *Service) ListPositions(ctx context.Context) ([]api.PositionResponse, error) {
	positions, err := s.store.ListPositions(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]api.PositionResponse, 0, len(positions))
	for _, p := range positions {
		resp = append(resp, positionResponse(p))
	}

	return resp, nil
}

func (s *Service) CreatePosition(ctx context.Context, req api.PositionRequest) (*api.PositionResponse, error) {
	p := models.Position{Number: req.Number, Name: req.Name, Group: req.Group}

	id, err := s.store.CreatePosition(ctx, &p)
	if err != nil {
		return nil, err
	}
	p.ID = id

	resp := positionResponse(p)

	return &resp, nil
}

func (s *Service) UpdatePosition(ctx context.Context, id string, req api.PositionRequest) (*api.PositionResponse, error) {
	p := models.Position{ID: id, Number: req.Number, Name: req.Name, Group: req.Group}

	if err := s.store.UpdatePosition(ctx, &p); err != nil {
		return nil, err
	}

	resp := positionResponse(p)

	return &resp, nil
}

func (s *Service) DeletePosition(ctx context.Context, id string) error {
	return s.store.DeletePosition(ctx, id)
}

func positionResponse(p models.Position) api.PositionResponse {
	return api.PositionResponse{ID: p.ID, Number: p.Number, Name: p.Name, Group: p.Group}
}

// #### drill types ####

func (s *Service) ListDrillTypes(ctx context.Context) ([]api.DrillTypeResponse, error) {
	types, err := s.store.ListDrillTypes(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]api.DrillTypeResponse, 0, len(types))
	for _, dt := range types {
		resp = append(resp, drillTypeResponse(dt))
	}

	return resp, nil
}

func (s *Service) CreateDrillType(ctx context.Context, req api.DrillTypeRequest) (*api.DrillTypeResponse, error) {
	const op = "service.CreateDrillType"

	dt := models.DrillType{Name: req.Name, Positions: req.Positions}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	id, err := s.store.InsertDrillTypeTx(ctx, tx, &dt)
	if err != nil {
		return nil, err
	}
	if err := s.store.ReplaceDrillTypePositionsTx(ctx, tx, id, req.Positions); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	dt.ID = id

	resp := drillTypeResponse(dt)

	return &resp, nil
}

func (s *Service) UpdateDrillType(ctx context.Context, id string, req api.DrillTypeRequest) (*api.DrillTypeResponse, error) {
	const op = "service.UpdateDrillType"

	dt := models.DrillType{ID: id, Name: req.Name, Positions: req.Positions}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	if err := s.store.UpdateDrillTypeTx(ctx, tx, &dt); err != nil {
		return nil, err
	}
	if err := s.store.ReplaceDrillTypePositionsTx(ctx, tx, id, req.Positions); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp := drillTypeResponse(dt)

	return &resp, nil
}

func (s *Service) DeleteDrillType(ctx context.Context, id string) error {
	return s.store.DeleteDrillType(ctx, id)
}

func drillTypeResponse(dt models.DrillType) api.DrillTypeResponse {
	return api.DrillTypeResponse{ID: dt.ID, Name: dt.Name, Positions: dt.Positions}
}

// #### season periods ####

func (s *Service) ListPeriods(ctx context.Context) ([]api.PeriodResponse, error) {
	periods, err := s.store.ListPeriods(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]api.PeriodResponse, 0, len(periods))
	for _, p := range periods {
		resp = append(resp, periodResponse(p))
	}

	return resp, nil
}

func (s *Service) CreatePeriod(ctx context.Context, req api.PeriodRequest) (*api.PeriodResponse, error) {
	const op = "service.CreatePeriod"

	p, err := periodFromRequest(op, req)
	if err != nil {
		return nil, err
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	id, err := s.store.InsertPeriodTx(ctx, tx, p)
	if err != nil {
		return nil, err
	}
	if p.IsDefault {
		if err := s.store.ClearOtherDefaultsTx(ctx, tx, id); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	p.ID = id

	resp := periodResponse(*p)

	return &resp, nil
}

func (s *Service) UpdatePeriod(ctx context.Context, id string, req api.PeriodRequest) (*api.PeriodResponse, error) {
	const op = "service.UpdatePeriod"

	p, err := periodFromRequest(op, req)
	if err != nil {
		return nil, err
	}
	p.ID = id

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	if err := s.store.UpdatePeriodTx(ctx, tx, p); err != nil {
		return nil, err
	}
	if p.IsDefault {
		if err := s.store.ClearOtherDefaultsTx(ctx, tx, id); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp := periodResponse(*p)

	return &resp, nil
}

// SetDefaultPeriod marks one period default and clears the flag everywhere
// else, so at most one default exists.
func (s *Service) SetDefaultPeriod(ctx context.Context, id string) (*api.PeriodResponse, error) {
	const op = "service.SetDefaultPeriod"

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	if err := s.store.SetDefaultPeriodTx(ctx, tx, id); err != nil {
		return nil, err
	}
	if err := s.store.ClearOtherDefaultsTx(ctx, tx, id); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.store.GetPeriod(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := periodResponse(*p)

	return &resp, nil
}

func (s *Service) DeletePeriod(ctx context.Context, id string) error {
	return s.store.DeletePeriod(ctx, id)
}

func periodFromRequest(op string, req api.PeriodRequest) (*models.SeasonPeriod, error) {
	from, err := parseDate(op, req.FromDate)
	if err != nil {
		return nil, err
	}
	to, err := parseDate(op, req.ToDate)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%s: %w", op, response.ErrBadRequest)
	}

	return &models.SeasonPeriod{Title: req.Title, FromDate: from, ToDate: to, IsDefault: req.IsDefault}, nil
}

func periodResponse(p models.SeasonPeriod) api.PeriodResponse {
	return api.PeriodResponse{
		ID:        p.ID,
		Title:     p.Title,
		FromDate:  p.FromDate.Format(dateLayout),
		ToDate:    p.ToDate.Format(dateLayout),
		IsDefault: p.IsDefault,
	}
}

// #### availability ####

func (s *Service) ListAvailability(ctx context.Context, athleteID, from, to string) ([]api.AvailabilityRecordResponse, error) {
	const op = "service.ListAvailability"

	var idFilter *string
	if athleteID != "" {
		idFilter = &athleteID
	}

	var fromFilter, toFilter *time.Time
	if from != "" {
		d, err := parseDate(op, from)
		if err != nil {
			return nil, err
		}
		fromFilter = &d
	}
	if to != "" {
		d, err := parseDate(op, to)
		if err != nil {
			return nil, err
		}
		toFilter = &d
	}

	records, err := s.store.ListAvailability(ctx, idFilter, fromFilter, toFilter)
	if err != nil {
		return nil, err
	}

	resp := make([]api.AvailabilityRecordResponse, 0, len(records))
	for _, r := range records {
		resp = append(resp, api.AvailabilityRecordResponse{
			ID:        r.ID,
			AthleteID: r.AthleteID,
			Date:      r.Date.Format(dateLayout),
			Status:    string(r.Status),
			Note:      r.Note,
		})
	}

	return resp, nil
}

// SaveAvailability replaces every record stored for the date with the given
// snapshot, one entry per athlete.
func (s *Service) SaveAvailability(ctx context.Context, req api.AvailabilitySaveRequest) ([]api.AvailabilityRecordResponse, error) {
	const op = "service.SaveAvailability"

	date, err := parseDate(op, req.Date)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	records := make([]models.AvailabilityRecord, 0, len(req.Entries))
	for _, e := range req.Entries {
		if seen[e.AthleteID] {
			return nil, fmt.Errorf("%s: %w", op, response.ErrBadRequest)
		}
		seen[e.AthleteID] = true

		records = append(records, models.AvailabilityRecord{
			AthleteID: e.AthleteID,
			Status:    models.AthleteStatus(e.Status),
			Note:      e.Note,
		})
	}

	err = s.withLock(ctx, "availability:"+req.Date, func() error {
		tx, err := s.store.BeginTx(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		defer tx.Rollback()

		if err := s.store.ReplaceAvailabilityForDateTx(ctx, tx, date, records); err != nil {
			return err
		}

		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}

	return s.ListAvailability(ctx, "", req.Date, req.Date)
}

// #### candidates ####

// Candidates buckets the roster for a formation slot. A drill type narrows
// the positions a formation exposes; asking for a slot outside that subset is
// rejected.
func (s *Service) Candidates(ctx context.Context, positionNumber int, search, drillType string) (*api.CandidatesResponse, error) {
	const op = "service.Candidates"

	catalog, err := s.store.ListPositions(ctx)
	if err != nil {
		return nil, err
	}

	if drillType != "" {
		types, err := s.store.ListDrillTypes(ctx)
		if err != nil {
			return nil, err
		}

		allowed := selection.PositionsFor(drillType, types, catalog)
		if !containsInt(allowed, positionNumber) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrUnknownPosition)
		}
	}

	roster, err := s.store.ListAthletes(ctx)
	if err != nil {
		return nil, err
	}

	buckets := selection.ResolveCandidates(roster, catalog, positionNumber, search)

	resp := &api.CandidatesResponse{
		Position:  positionNumber,
		Exact:     candidateResponses(buckets.Exact, catalog),
		SameGroup: candidateResponses(buckets.SameGroup, catalog),
		Other:     candidateResponses(buckets.Other, catalog),
	}
	if p, ok := models.FindPosition(catalog, positionNumber); ok {
		resp.PositionName = p.Name
	}

	return resp, nil
}

func candidateResponses(athletes []models.Athlete, catalog []models.Position) []api.CandidateResponse {
	resp := make([]api.CandidateResponse, 0, len(athletes))
	for _, a := range athletes {
		resp = append(resp, api.CandidateResponse{
			ID:              a.ID,
			Name:            a.Name,
			Status:          string(a.Status),
			PositionDisplay: models.PositionDisplay(a.PositionNumbers, catalog),
		})
	}

	return resp
}

func containsInt(nums []int, n int) bool {
	for _, v := range nums {
		if v == n {
			return true
		}
	}

	return false
}

// #### default team ####

func (s *Service) DefaultTeam(ctx context.Context) (*api.FormationResponse, error) {
	f, err := s.store.GetDefaultTeam(ctx)
	if err != nil {
		return nil, err
	}

	resp := formationResponse(f)

	return &resp, nil
}

func (s *Service) SaveDefaultTeam(ctx context.Context, req api.FormationRequest) (*api.FormationResponse, error) {
	const op = "service.SaveDefaultTeam"

	f := formationFromRequest(req)

	err := s.withLock(ctx, "default_team", func() error {
		tx, err := s.store.BeginTx(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		defer tx.Rollback()

		if err := s.store.ReplaceDefaultTeamTx(ctx, tx, f); err != nil {
			return err
		}

		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}

	return s.DefaultTeam(ctx)
}

func formationFromRequest(req api.FormationRequest) models.Formation {
	f := models.NewFormation()
	copySlots := func(dst map[int]string, src map[int]string) {
		for number, athleteID := range src {
			if athleteID == "" {
				continue
			}
			dst[number] = athleteID
		}
	}
	copySlots(f.Team1, req.Team1)
	copySlots(f.Team2, req.Team2)
	copySlots(f.Subs1, req.Subs1)
	copySlots(f.Subs2, req.Subs2)

	return f
}

func formationResponse(f models.Formation) api.FormationResponse {
	return api.FormationResponse{
		Team1: f.Team1,
		Team2: f.Team2,
		Subs1: f.Subs1,
		Subs2: f.Subs2,
	}
}

// #### session plans ####

func (s *Service) SessionPlan(ctx context.Context, date string) (*api.SessionPlanResponse, error) {
	const op = "service.SessionPlan"

	d, err := parseDate(op, date)
	if err != nil {
		return nil, err
	}

	plan, err := s.store.GetSessionPlan(ctx, d)
	if err != nil {
		return nil, err
	}

	resp := planResponse(*plan)

	return &resp, nil
}

// SaveSessionPlan rebuilds the plan for the date: the plan row is created on
// first save, its drills are replaced wholesale in request order.
func (s *Service) SaveSessionPlan(ctx context.Context, req api.SessionPlanRequest) (*api.SessionPlanResponse, error) {
	const op = "service.SaveSessionPlan"

	date, err := parseDate(op, req.Date)
	if err != nil {
		return nil, err
	}

	err = s.withLock(ctx, "session_plan:"+req.Date, func() error {
		tx, err := s.store.BeginTx(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		defer tx.Rollback()

		planID, err := s.store.GetOrCreateSessionPlanTx(ctx, tx, date)
		if err != nil {
			return err
		}
		if err := s.store.DeletePlanDrillsTx(ctx, tx, planID); err != nil {
			return err
		}

		for i, dr := range req.Drills {
			drill := models.Drill{
				Name:      dr.Name,
				Type:      dr.Type,
				Intensity: models.Intensity(dr.Intensity),
				Notes:     dr.Notes,
			}

			drillID, err := s.store.InsertDrillTx(ctx, tx, planID, &drill, i)
			if err != nil {
				return err
			}
			if err := s.store.InsertDrillAssignmentsTx(ctx, tx, drillID, formationFromRequest(dr.Formation)); err != nil {
				return err
			}
		}

		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}

	return s.SessionPlan(ctx, req.Date)
}

func planResponse(plan models.SessionPlan) api.SessionPlanResponse {
	drills := make([]api.DrillResponse, 0, len(plan.Drills))
	for _, d := range plan.Drills {
		drills = append(drills, api.DrillResponse{
			ID:        d.ID,
			Name:      d.Name,
			Type:      d.Type,
			Intensity: string(d.Intensity),
			Notes:     d.Notes,
			Formation: formationResponse(d.Formation),
		})
	}

	return api.SessionPlanResponse{
		ID:     plan.ID,
		Date:   plan.Date.Format(dateLayout),
		Drills: drills,
	}
}

// #### reports ####

func (s *Service) AthleteReport(ctx context.Context, athleteID, periodID string) (*api.AthleteStatsResponse, error) {
	if _, err := s.store.GetAthlete(ctx, athleteID); err != nil {
		return nil, err
	}

	records, err := s.store.ListAvailability(ctx, &athleteID, nil, nil)
	if err != nil {
		return nil, err
	}

	var period *models.SeasonPeriod
	if periodID != "" {
		period, err = s.store.GetPeriod(ctx, periodID)
		if err != nil {
			return nil, err
		}
	}

	stats := reporting.AthleteStats(athleteID, records, period)

	return &api.AthleteStatsResponse{
		AthleteID:   athleteID,
		Available:   stats.Available,
		Modified:    stats.Modified,
		Unavailable: stats.Unavailable,
		Total:       stats.Total,
	}, nil
}

// CohortReport builds the day-by-day series for a filtered set of athletes.
// The percentages on each point use the cohort size as denominator.
func (s *Service) CohortReport(ctx context.Context, req api.CohortReportRequest) (*api.CohortReportResponse, error) {
	const op = "service.CohortReport"

	roster, err := s.store.ListAthletes(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.store.ListAvailability(ctx, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	filter := reporting.CohortFilter{AthleteIDs: req.AthleteIDs, Positions: req.Positions}
	cohort := reporting.FilterCohort(roster, filter)

	var dateRange reporting.DateRange
	switch req.Mode {
	case "all":
		r, ok := reporting.AllTimeRange(records)
		if !ok {
			return &api.CohortReportResponse{CohortSize: len(cohort), Points: []api.CohortPointResponse{}}, nil
		}
		dateRange = r
	case "period":
		period, err := s.store.GetPeriod(ctx, req.PeriodID)
		if err != nil {
			return nil, err
		}
		dateRange = reporting.PeriodRange(*period)
	case "custom":
		from, err := parseDate(op, req.FromDate)
		if err != nil {
			return nil, err
		}
		to, err := parseDate(op, req.ToDate)
		if err != nil {
			return nil, err
		}
		if to.Before(from) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrBadRequest)
		}
		dateRange = reporting.DateRange{From: from, To: to}
	default:
		return nil, fmt.Errorf("%s: %w", op, response.ErrBadRequest)
	}

	series := reporting.CohortSeries(roster, records, dateRange, filter)

	points := make([]api.CohortPointResponse, 0, len(series))
	for _, p := range series {
		points = append(points, api.CohortPointResponse{
			Date:        p.Date.Format(dateLayout),
			Available:   p.Available,
			Modified:    p.Modified,
			Unavailable: p.Unavailable,
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })

	return &api.CohortReportResponse{
		From:       dateRange.From.Format(dateLayout),
		To:         dateRange.To.Format(dateLayout),
		CohortSize: len(cohort),
		Points:     points,
	}, nil
}
