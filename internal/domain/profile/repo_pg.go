package profile

import (
	"context"

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

type profileRepoPG struct{ pool *pgxpool.Pool }

func NewProfileRepoPG(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepoPG{pool: pool}
}

func (r *profileRepoPG) conn(ctx context.Context) queryable { return r.pool }

const profileCols = `id, user_id, age, sex, height_cm, weight_kg, activity_level,
	dietary_preference, health_goals, medical_conditions, medications,
	smoker, alcohol_use, onboarding_complete, created_at, updated_at`

func scanProfile(row pgx.Row) (*HealthProfile, error) {
	var p HealthProfile
	err := row.Scan(&p.ID, &p.UserID, &p.Age, &p.Sex, &p.HeightCM, &p.WeightKG, &p.ActivityLevel,
		&p.DietaryPreference, &p.HealthGoals, &p.MedicalConditions, &p.Medications,
		&p.Smoker, &p.AlcoholUse, &p.OnboardingComplete, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepoPG) Upsert(ctx context.Context, p *HealthProfile) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO health_profiles (id, user_id, age, sex, height_cm, weight_kg, activity_level,
			dietary_preference, health_goals, medical_conditions, medications,
			smoker, alcohol_use, onboarding_complete)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (user_id) DO UPDATE SET
			age = EXCLUDED.age,
			sex = EXCLUDED.sex,
			height_cm = EXCLUDED.height_cm,
			weight_kg = EXCLUDED.weight_kg,
			activity_level = EXCLUDED.activity_level,
			dietary_preference = EXCLUDED.dietary_preference,
			health_goals = EXCLUDED.health_goals,
			medical_conditions = EXCLUDED.medical_conditions,
			medications = EXCLUDED.medications,
			smoker = EXCLUDED.smoker,
			alcohol_use = EXCLUDED.alcohol_use,
			onboarding_complete = EXCLUDED.onboarding_complete,
			updated_at = now()
		RETURNING id, created_at, updated_at`,
		p.ID, p.UserID, p.Age, p.Sex, p.HeightCM, p.WeightKG, p.ActivityLevel,
		p.DietaryPreference, p.HealthGoals, p.MedicalConditions, p.Medications,
		p.Smoker, p.AlcoholUse, p.OnboardingComplete).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *profileRepoPG) GetByUser(ctx context.Context, userID uuid.UUID) (*HealthProfile, error) {
	return scanProfile(r.conn(ctx).QueryRow(ctx,
		`SELECT `+profileCols+` FROM health_profiles WHERE user_id = $1`, userID))
}

type planRepoPG struct{ pool *pgxpool.Pool }

func NewPlanRepoPG(pool *pgxpool.Pool) PlanRepository {
	return &planRepoPG{pool: pool}
}

func (r *planRepoPG) conn(ctx context.Context) queryable { return r.pool }

const planCols = `id, user_id, calorie_target, water_target_ml, sleep_target_hours,
	weekly_activity_minutes, focus_areas, created_at, updated_at`

func scanPlan(row pgx.Row) (*HealthPlan, error) {
	var p HealthPlan
	err := row.Scan(&p.ID, &p.UserID, &p.CalorieTarget, &p.WaterTargetML, &p.SleepTargetHours,
		&p.WeeklyActivityMinutes, &p.FocusAreas, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *planRepoPG) Upsert(ctx context.Context, p *HealthPlan) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO health_plans (id, user_id, calorie_target, water_target_ml, sleep_target_hours,
			weekly_activity_minutes, focus_areas)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (user_id) DO UPDATE SET
			calorie_target = EXCLUDED.calorie_target,
			water_target_ml = EXCLUDED.water_target_ml,
			sleep_target_hours = EXCLUDED.sleep_target_hours,
			weekly_activity_minutes = EXCLUDED.weekly_activity_minutes,
			focus_areas = EXCLUDED.focus_areas,
			updated_at = now()
		RETURNING id, created_at, updated_at`,
		p.ID, p.UserID, p.CalorieTarget, p.WaterTargetML, p.SleepTargetHours,
		p.WeeklyActivityMinutes, p.FocusAreas).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *planRepoPG) GetByUser(ctx context.Context, userID uuid.UUID) (*HealthPlan, error) {
	return scanPlan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+planCols+` FROM health_plans WHERE user_id = $1`, userID))
}
