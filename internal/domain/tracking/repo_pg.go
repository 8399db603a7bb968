package tracking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// -- Activities --

type activityRepoPG struct{ pool *pgxpool.Pool }

func NewActivityRepoPG(pool *pgxpool.Pool) ActivityRepository {
	return &activityRepoPG{pool: pool}
}

func (r *activityRepoPG) conn(ctx context.Context) queryable { return r.pool }

const activityCols = `id, user_id, type, duration_minutes, calories, date, notes, created_at, updated_at`

func scanActivity(row pgx.Row) (*Activity, error) {
	var a Activity
	err := row.Scan(&a.ID, &a.UserID, &a.Type, &a.DurationMinutes, &a.Calories,
		&a.Date, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *activityRepoPG) Create(ctx context.Context, a *Activity) error {
	a.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO activities (id, user_id, type, duration_minutes, calories, date, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		a.ID, a.UserID, a.Type, a.DurationMinutes, a.Calories, a.Date, a.Notes).
		Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (r *activityRepoPG) Update(ctx context.Context, a *Activity) error {
	return r.conn(ctx).QueryRow(ctx, `
		UPDATE activities
		SET type = $2, duration_minutes = $3, calories = $4, date = $5, notes = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		a.ID, a.Type, a.DurationMinutes, a.Calories, a.Date, a.Notes).
		Scan(&a.UpdatedAt)
}

func (r *activityRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Activity, error) {
	return scanActivity(r.conn(ctx).QueryRow(ctx,
		`SELECT `+activityCols+` FROM activities WHERE id = $1`, id))
}

func (r *activityRepoPG) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Activity, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT count(*) FROM activities WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+activityCols+` FROM activities
		WHERE user_id = $1 ORDER BY date DESC, created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := collectActivities(rows)
	return items, total, err
}

func (r *activityRepoPG) ListByUserAndDate(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*Activity, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+activityCols+` FROM activities
		WHERE user_id = $1 AND date >= $2 AND date < $3 ORDER BY date`,
		userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectActivities(rows)
}

func collectActivities(rows pgx.Rows) ([]*Activity, error) {
	var items []*Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

// -- Sleep --

type sleepRepoPG struct{ pool *pgxpool.Pool }

func NewSleepRepoPG(pool *pgxpool.Pool) SleepRepository {
	return &sleepRepoPG{pool: pool}
}

func (r *sleepRepoPG) conn(ctx context.Context) queryable { return r.pool }

const sleepCols = `id, user_id, bed_time, wake_time, quality, date, created_at`

func scanSleep(row pgx.Row) (*SleepLog, error) {
	var s SleepLog
	err := row.Scan(&s.ID, &s.UserID, &s.BedTime, &s.WakeTime, &s.Quality, &s.Date, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sleepRepoPG) Create(ctx context.Context, s *SleepLog) error {
	s.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO sleep_logs (id, user_id, bed_time, wake_time, quality, date)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at`,
		s.ID, s.UserID, s.BedTime, s.WakeTime, s.Quality, s.Date).
		Scan(&s.CreatedAt)
}

func (r *sleepRepoPG) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*SleepLog, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT count(*) FROM sleep_logs WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+sleepCols+` FROM sleep_logs
		WHERE user_id = $1 ORDER BY date DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := collectSleep(rows)
	return items, total, err
}

func (r *sleepRepoPG) ListByUserAndDate(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*SleepLog, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+sleepCols+` FROM sleep_logs
		WHERE user_id = $1 AND date >= $2 AND date < $3 ORDER BY date`,
		userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSleep(rows)
}

func collectSleep(rows pgx.Rows) ([]*SleepLog, error) {
	var items []*SleepLog
	for rows.Next() {
		s, err := scanSleep(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// -- Water --

type waterRepoPG struct{ pool *pgxpool.Pool }

func NewWaterRepoPG(pool *pgxpool.Pool) WaterRepository {
	return &waterRepoPG{pool: pool}
}

func (r *waterRepoPG) conn(ctx context.Context) queryable { return r.pool }

const waterCols = `id, user_id, amount_ml, date, created_at`

func scanWater(row pgx.Row) (*WaterIntake, error) {
	var w WaterIntake
	err := row.Scan(&w.ID, &w.UserID, &w.AmountML, &w.Date, &w.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *waterRepoPG) Create(ctx context.Context, w *WaterIntake) error {
	w.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO water_intake (id, user_id, amount_ml, date)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at`,
		w.ID, w.UserID, w.AmountML, w.Date).
		Scan(&w.CreatedAt)
}

func (r *waterRepoPG) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*WaterIntake, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT count(*) FROM water_intake WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+waterCols+` FROM water_intake
		WHERE user_id = $1 ORDER BY date DESC, created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := collectWater(rows)
	return items, total, err
}

func (r *waterRepoPG) ListByUserAndDate(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*WaterIntake, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+waterCols+` FROM water_intake
		WHERE user_id = $1 AND date >= $2 AND date < $3 ORDER BY date`,
		userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWater(rows)
}

func collectWater(rows pgx.Rows) ([]*WaterIntake, error) {
	var items []*WaterIntake
	for rows.Next() {
		w, err := scanWater(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, w)
	}
	return items, rows.Err()
}

// -- Meals --

type mealRepoPG struct{ pool *pgxpool.Pool }

func NewMealRepoPG(pool *pgxpool.Pool) MealRepository {
	return &mealRepoPG{pool: pool}
}

func (r *mealRepoPG) conn(ctx context.Context) queryable { return r.pool }

const mealCols = `id, user_id, name, meal_type, calories, protein_g, carbs_g, fat_g, date, notes, created_at, updated_at`

func scanMeal(row pgx.Row) (*Meal, error) {
	var m Meal
	err := row.Scan(&m.ID, &m.UserID, &m.Name, &m.MealType, &m.Calories,
		&m.ProteinG, &m.CarbsG, &m.FatG, &m.Date, &m.Notes, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *mealRepoPG) Create(ctx context.Context, m *Meal) error {
	m.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO meals (id, user_id, name, meal_type, calories, protein_g, carbs_g, fat_g, date, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at, updated_at`,
		m.ID, m.UserID, m.Name, m.MealType, m.Calories, m.ProteinG, m.CarbsG, m.FatG, m.Date, m.Notes).
		Scan(&m.CreatedAt, &m.UpdatedAt)
}

func (r *mealRepoPG) Update(ctx context.Context, m *Meal) error {
	return r.conn(ctx).QueryRow(ctx, `
		UPDATE meals
		SET name = $2, meal_type = $3, calories = $4, protein_g = $5, carbs_g = $6, fat_g = $7,
		    date = $8, notes = $9, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		m.ID, m.Name, m.MealType, m.Calories, m.ProteinG, m.CarbsG, m.FatG, m.Date, m.Notes).
		Scan(&m.UpdatedAt)
}

func (r *mealRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Meal, error) {
	return scanMeal(r.conn(ctx).QueryRow(ctx, `SELECT `+mealCols+` FROM meals WHERE id = $1`, id))
}

func (r *mealRepoPG) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Meal, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT count(*) FROM meals WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+mealCols+` FROM meals
		WHERE user_id = $1 ORDER BY date DESC, created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := collectMeals(rows)
	return items, total, err
}

func (r *mealRepoPG) ListByUserAndDate(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*Meal, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+mealCols+` FROM meals
		WHERE user_id = $1 AND date >= $2 AND date < $3 ORDER BY date`,
		userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMeals(rows)
}

func collectMeals(rows pgx.Rows) ([]*Meal, error) {
	var items []*Meal
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}
