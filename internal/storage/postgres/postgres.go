package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"squad-service/internal/models"
	"squad-service/pkg/response"
)

type Storage struct {
	db *sqlx.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sqlx.Connect("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

func (s *Storage) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	return s.db.BeginTxx(ctx, nil)
}

// wrapPqError maps constraint violations onto the shared sentinels.
func wrapPqError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w", op, response.ErrAlreadyExists)
		case "23503":
			return fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}

// #### team structure ####

func (s *Storage) ListPositions(ctx context.Context) ([]models.Position, error) {
	const op = "storage.postgres.ListPositions"

	var positions []models.Position
	err := s.db.SelectContext(ctx, &positions,
		`SELECT id, number, name, position_group FROM team_structure ORDER BY number`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return positions, nil
}

func (s *Storage) CreatePosition(ctx context.Context, p *models.Position) (string, error) {
	const op = "storage.postgres.CreatePosition"

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO team_structure (id, number, name, position_group) VALUES ($1, $2, $3, $4)`,
		id, p.Number, p.Name, p.Group)
	if err != nil {
		return "", wrapPqError(op, err)
	}

	return id, nil
}

func (s *Storage) UpdatePosition(ctx context.Context, p *models.Position) error {
	const op = "storage.postgres.UpdatePosition"

	res, err := s.db.ExecContext(ctx,
		`UPDATE team_structure SET number=$1, name=$2, position_group=$3 WHERE id=$4`,
		p.Number, p.Name, p.Group, p.ID)
	if err != nil {
		return wrapPqError(op, err)
	}

	return checkAffected(op, res)
}

func (s *Storage) DeletePosition(ctx context.Context, id string) error {
	const op = "storage.postgres.DeletePosition"

	res, err := s.db.ExecContext(ctx, `DELETE FROM team_structure WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return checkAffected(op, res)
}

// #### athletes ####

func (s *Storage) ListAthletes(ctx context.Context) ([]models.Athlete, error) {
	const op = "storage.postgres.ListAthletes"

	var athletes []models.Athlete
	err := s.db.SelectContext(ctx, &athletes,
		`SELECT id, name, status, notes, is_public, avatar, photo_url FROM athletes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(athletes) == 0 {
		return athletes, nil
	}

	byID := make(map[string]*models.Athlete, len(athletes))
	for i := range athletes {
		byID[athletes[i].ID] = &athletes[i]
	}

	rows, err := s.db.QueryContext(ctx, `SELECT athlete_id, position_number FROM athlete_positions`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var athleteID string
		var number int
		if err := rows.Scan(&athleteID, &number); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if a, ok := byID[athleteID]; ok {
			a.PositionNumbers = append(a.PositionNumbers, number)
		}
	}

	var injuries []models.Injury
	err = s.db.SelectContext(ctx, &injuries,
		`SELECT id, athlete_id, body_part, start_date, return_date, notes FROM athlete_injuries ORDER BY start_date`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, inj := range injuries {
		if a, ok := byID[inj.AthleteID]; ok {
			a.Injuries = append(a.Injuries, inj)
		}
	}

	return athletes, nil
}

func (s *Storage) GetAthlete(ctx context.Context, id string) (*models.Athlete, error) {
	const op = "storage.postgres.GetAthlete"

	var a models.Athlete
	err := s.db.GetContext(ctx, &a,
		`SELECT id, name, status, notes, is_public, avatar, photo_url FROM athletes WHERE id=$1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = s.db.SelectContext(ctx, &a.PositionNumbers,
		`SELECT position_number FROM athlete_positions WHERE athlete_id=$1 ORDER BY position_number`, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = s.db.SelectContext(ctx, &a.Injuries,
		`SELECT id, athlete_id, body_part, start_date, return_date, notes FROM athlete_injuries WHERE athlete_id=$1 ORDER BY start_date`, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &a, nil
}

func (s *Storage) InsertAthleteTx(ctx context.Context, tx *sqlx.Tx, a *models.Athlete) (string, error) {
	const op = "storage.postgres.InsertAthleteTx"

	id := uuid.NewString()
	_, err := tx.ExecContext(ctx,
		`INSERT INTO athletes (id, name, status, notes, is_public, avatar, photo_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, a.Name, a.Status, a.Notes, a.IsPublic, a.Avatar, a.PhotoURL)
	if err != nil {
		return "", wrapPqError(op, err)
	}

	return id, nil
}

func (s *Storage) UpdateAthleteTx(ctx context.Context, tx *sqlx.Tx, a *models.Athlete) error {
	const op = "storage.postgres.UpdateAthleteTx"

	res, err := tx.ExecContext(ctx,
		`UPDATE athletes SET name=$1, status=$2, notes=$3, is_public=$4, avatar=$5, photo_url=$6 WHERE id=$7`,
		a.Name, a.Status, a.Notes, a.IsPublic, a.Avatar, a.PhotoURL, a.ID)
	if err != nil {
		return wrapPqError(op, err)
	}

	return checkAffected(op, res)
}

// ReplaceAthletePositionsTx rewrites the athlete's eligible numbers wholesale.
func (s *Storage) ReplaceAthletePositionsTx(ctx context.Context, tx *sqlx.Tx, athleteID string, numbers []int) error {
	const op = "storage.postgres.ReplaceAthletePositionsTx"

	if _, err := tx.ExecContext(ctx, `DELETE FROM athlete_positions WHERE athlete_id=$1`, athleteID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, n := range numbers {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO athlete_positions (athlete_id, position_number) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			athleteID, n)
		if err != nil {
			return wrapPqError(op, err)
		}
	}

	return nil
}

func (s *Storage) ReplaceAthleteInjuriesTx(ctx context.Context, tx *sqlx.Tx, athleteID string, injuries []models.Injury) error {
	const op = "storage.postgres.ReplaceAthleteInjuriesTx"

	if _, err := tx.ExecContext(ctx, `DELETE FROM athlete_injuries WHERE athlete_id=$1`, athleteID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, inj := range injuries {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO athlete_injuries (id, athlete_id, body_part, start_date, return_date, notes)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.NewString(), athleteID, inj.BodyPart, inj.StartDate, inj.ReturnDate, inj.Notes)
		if err != nil {
			return wrapPqError(op, err)
		}
	}

	return nil
}

func (s *Storage) DeleteAthlete(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteAthlete"

	res, err := s.db.ExecContext(ctx, `DELETE FROM athletes WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return checkAffected(op, res)
}

// #### drill types ####

func (s *Storage) ListDrillTypes(ctx context.Context) ([]models.DrillType, error) {
	const op = "storage.postgres.ListDrillTypes"

	var types []models.DrillType
	err := s.db.SelectContext(ctx, &types, `SELECT id, name FROM drill_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	byID := make(map[string]*models.DrillType, len(types))
	for i := range types {
		byID[types[i].ID] = &types[i]
	}

	rows, err := s.db.QueryContext(ctx, `SELECT drill_type_id, position_number FROM drill_type_positions`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var typeID string
		var number int
		if err := rows.Scan(&typeID, &number); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if dt, ok := byID[typeID]; ok {
			dt.Positions = append(dt.Positions, number)
		}
	}

	return types, nil
}

func (s *Storage) GetDrillType(ctx context.Context, id string) (*models.DrillType, error) {
	const op = "storage.postgres.GetDrillType"

	var dt models.DrillType
	err := s.db.GetContext(ctx, &dt, `SELECT id, name FROM drill_types WHERE id=$1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = s.db.SelectContext(ctx, &dt.Positions,
		`SELECT position_number FROM drill_type_positions WHERE drill_type_id=$1 ORDER BY position_number`, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &dt, nil
}

func (s *Storage) InsertDrillTypeTx(ctx context.Context, tx *sqlx.Tx, dt *models.DrillType) (string, error) {
	const op = "storage.postgres.InsertDrillTypeTx"

	id := uuid.NewString()
	_, err := tx.ExecContext(ctx, `INSERT INTO drill_types (id, name) VALUES ($1, $2)`, id, dt.Name)
	if err != nil {
		return "", wrapPqError(op, err)
	}

	return id, nil
}

func (s *Storage) UpdateDrillTypeTx(ctx context.Context, tx *sqlx.Tx, dt *models.DrillType) error {
	const op = "storage.postgres.UpdateDrillTypeTx"

	res, err := tx.ExecContext(ctx, `UPDATE drill_types SET name=$1 WHERE id=$2`, dt.Name, dt.ID)
	if err != nil {
		return wrapPqError(op, err)
	}

	return checkAffected(op, res)
}

func (s *Storage) ReplaceDrillTypePositionsTx(ctx context.Context, tx *sqlx.Tx, typeID string, numbers []int) error {
	const op = "storage.postgres.ReplaceDrillTypePositionsTx"

	if _, err := tx.ExecContext(ctx, `DELETE FROM drill_type_positions WHERE drill_type_id=$1`, typeID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, n := range numbers {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO drill_type_positions (drill_type_id, position_number) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			typeID, n)
		if err != nil {
			return wrapPqError(op, err)
		}
	}

	return nil
}

func (s *Storage) DeleteDrillType(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteDrillType"

	res, err := s.db.ExecContext(ctx, `DELETE FROM drill_types WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return checkAffected(op, res)
}

// #### season periods ####

func (s *Storage) ListPeriods(ctx context.Context) ([]models.SeasonPeriod, error) {
	const op = "storage.postgres.ListPeriods"

	var periods []models.SeasonPeriod
	err := s.db.SelectContext(ctx, &periods,
		`SELECT id, title, from_date, to_date, is_default FROM season_dates ORDER BY from_date`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return periods, nil
}

func (s *Storage) GetPeriod(ctx context.Context, id string) (*models.SeasonPeriod, error) {
	const op = "storage.postgres.GetPeriod"

	var p models.SeasonPeriod
	err := s.db.GetContext(ctx, &p,
		`SELECT id, title, from_date, to_date, is_default FROM season_dates WHERE id=$1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &p, nil
}

func (s *Storage) InsertPeriodTx(ctx context.Context, tx *sqlx.Tx, p *models.SeasonPeriod) (string, error) {
	const op = "storage.postgres.InsertPeriodTx"

	id := uuid.NewString()
	_, err := tx.ExecContext(ctx,
		`INSERT INTO season_dates (id, title, from_date, to_date, is_default) VALUES ($1, $2, $3, $4, $5)`,
		id, p.Title, p.FromDate, p.ToDate, p.IsDefault)
	if err != nil {
		return "", wrapPqError(op, err)
	}

	return id, nil
}

func (s *Storage) UpdatePeriodTx(ctx context.Context, tx *sqlx.Tx, p *models.SeasonPeriod) error {
	const op = "storage.postgres.UpdatePeriodTx"

	res, err := tx.ExecContext(ctx,
		`UPDATE season_dates SET title=$1, from_date=$2, to_date=$3, is_default=$4 WHERE id=$5`,
		p.Title, p.FromDate, p.ToDate, p.IsDefault, p.ID)
	if err != nil {
		return wrapPqError(op, err)
	}

	return checkAffected(op, res)
}

// ClearOtherDefaultsTx keeps the single-default invariant: every period except
// the given one loses the flag.
func (s *Storage) ClearOtherDefaultsTx(ctx context.Context, tx *sqlx.Tx, keepID string) error {
	const op = "storage.postgres.ClearOtherDefaultsTx"

	_, err := tx.ExecContext(ctx, `UPDATE season_dates SET is_default=FALSE WHERE id<>$1`, keepID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) SetDefaultPeriodTx(ctx context.Context, tx *sqlx.Tx, id string) error {
	const op = "storage.postgres.SetDefaultPeriodTx"

	res, err := tx.ExecContext(ctx, `UPDATE season_dates SET is_default=TRUE WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return checkAffected(op, res)
}

func (s *Storage) DeletePeriod(ctx context.Context, id string) error {
	const op = "storage.postgres.DeletePeriod"

	res, err := s.db.ExecContext(ctx, `DELETE FROM season_dates WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return checkAffected(op, res)
}

// #### availability records ####

func (s *Storage) ListAvailability(ctx context.Context, athleteID *string, from, to *time.Time) ([]models.AvailabilityRecord, error) {
	const op = "storage.postgres.ListAvailability"

	query := `SELECT id, athlete_id, date, status, note FROM availability_records WHERE 1=1`
	args := []any{}

	if athleteID != nil {
		args = append(args, *athleteID)
		query += fmt.Sprintf(" AND athlete_id=$%d", len(args))
	}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND date>=$%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND date<=$%d", len(args))
	}
	query += " ORDER BY date, athlete_id"

	var records []models.AvailabilityRecord
	if err := s.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return records, nil
}

// ReplaceAvailabilityForDateTx drops every record stored for the date and
// writes the new snapshot; one record per (athlete, date) pair.
func (s *Storage) ReplaceAvailabilityForDateTx(ctx context.Context, tx *sqlx.Tx, date time.Time, records []models.AvailabilityRecord) error {
	const op = "storage.postgres.ReplaceAvailabilityForDateTx"

	if _, err := tx.ExecContext(ctx, `DELETE FROM availability_records WHERE date=$1`, date); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, r := range records {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO availability_records (id, athlete_id, date, status, note) VALUES ($1, $2, $3, $4, $5)`,
			uuid.NewString(), r.AthleteID, date, r.Status, r.Note)
		if err != nil {
			return wrapPqError(op, err)
		}
	}

	return nil
}

// #### default team ####

func (s *Storage) GetDefaultTeam(ctx context.Context) (models.Formation, error) {
	const op = "storage.postgres.GetDefaultTeam"

	rows, err := s.db.QueryContext(ctx,
		`SELECT position_number, team_number, is_substitute, athlete_id FROM default_team`)
	if err != nil {
		return models.Formation{}, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	return scanFormation(op, rows)
}

func (s *Storage) ReplaceDefaultTeamTx(ctx context.Context, tx *sqlx.Tx, f models.Formation) error {
	const op = "storage.postgres.ReplaceDefaultTeamTx"

	if _, err := tx.ExecContext(ctx, `DELETE FROM default_team`); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	insert := func(slots map[int]string, team int, isSub bool) error {
		for number, athleteID := range slots {
			if athleteID == "" {
				continue
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO default_team (position_number, team_number, is_substitute, athlete_id) VALUES ($1, $2, $3, $4)`,
				number, team, isSub, athleteID)
			if err != nil {
				return wrapPqError(op, err)
			}
		}

		return nil
	}

	if err := insert(f.Team1, 1, false); err != nil {
		return err
	}
	if err := insert(f.Team2, 2, false); err != nil {
		return err
	}
	if err := insert(f.Subs1, 1, true); err != nil {
		return err
	}

	return insert(f.Subs2, 2, true)
}

// #### session plans ####

func (s *Storage) GetSessionPlan(ctx context.Context, date time.Time) (*models.SessionPlan, error) {
	const op = "storage.postgres.GetSessionPlan"

	var plan models.SessionPlan
	err := s.db.GetContext(ctx, &plan, `SELECT id, date FROM session_plans WHERE date=$1`, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var drills []models.Drill
	err = s.db.SelectContext(ctx, &drills,
		`SELECT id, name, drill_type, intensity, notes FROM drills WHERE session_plan_id=$1 ORDER BY sort_order`,
		plan.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range drills {
		rows, err := s.db.QueryContext(ctx,
			`SELECT position_number, team_number, is_substitute, athlete_id FROM drill_team_assignments WHERE drill_id=$1`,
			drills[i].ID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		formation, err := scanFormation(op, rows)
		rows.Close()
		if err != nil {
			return nil, err
		}

		drills[i].Formation = formation
	}

	plan.Drills = drills

	return &plan, nil
}

func (s *Storage) GetOrCreateSessionPlanTx(ctx context.Context, tx *sqlx.Tx, date time.Time) (string, error) {
	const op = "storage.postgres.GetOrCreateSessionPlanTx"

	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM session_plans WHERE date=$1`, date).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	id = uuid.NewString()
	if _, err := tx.ExecContext(ctx, `INSERT INTO session_plans (id, date) VALUES ($1, $2)`, id, date); err != nil {
		return "", wrapPqError(op, err)
	}

	return id, nil
}

func (s *Storage) DeletePlanDrillsTx(ctx context.Context, tx *sqlx.Tx, planID string) error {
	const op = "storage.postgres.DeletePlanDrillsTx"

	if _, err := tx.ExecContext(ctx, `DELETE FROM drills WHERE session_plan_id=$1`, planID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) InsertDrillTx(ctx context.Context, tx *sqlx.Tx, planID string, d *models.Drill, sortOrder int) (string, error) {
	const op = "storage.postgres.InsertDrillTx"

	id := uuid.NewString()
	_, err := tx.ExecContext(ctx,
		`INSERT INTO drills (id, session_plan_id, name, drill_type, intensity, notes, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, planID, d.Name, d.Type, d.Intensity, d.Notes, sortOrder)
	if err != nil {
		return "", wrapPqError(op, err)
	}

	return id, nil
}

func (s *Storage) InsertDrillAssignmentsTx(ctx context.Context, tx *sqlx.Tx, drillID string, f models.Formation) error {
	const op = "storage.postgres.InsertDrillAssignmentsTx"

	insert := func(slots map[int]string, team int, isSub bool) error {
		for number, athleteID := range slots {
			if athleteID == "" {
				continue
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO drill_team_assignments (drill_id, position_number, team_number, is_substitute, athlete_id)
				VALUES ($1, $2, $3, $4, $5)`,
				drillID, number, team, isSub, athleteID)
			if err != nil {
				return wrapPqError(op, err)
			}
		}

		return nil
	}

	if err := insert(f.Team1, 1, false); err != nil {
		return err
	}
	if err := insert(f.Team2, 2, false); err != nil {
		return err
	}
	if err := insert(f.Subs1, 1, true); err != nil {
		return err
	}

	return insert(f.Subs2, 2, true)
}

func scanFormation(op string, rows *sql.Rows) (models.Formation, error) {
	f := models.NewFormation()

	for rows.Next() {
		var number, team int
		var isSub bool
		var athleteID string
		if err := rows.Scan(&number, &team, &isSub, &athleteID); err != nil {
			return models.Formation{}, fmt.Errorf("%s: %w", op, err)
		}

		switch {
		case team == 2 && isSub:
			f.Subs2[number] = athleteID
		case team == 2:
			f.Team2[number] = athleteID
		case isSub:
			f.Subs1[number] = athleteID
		default:
			f.Team1[number] = athleteID
		}
	}

	return f, nil
}

func checkAffected(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}
