package tracking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ActivityRepository stores exercise sessions.
type ActivityRepository interface {
	Create(ctx context.Context, a *Activity) error
	Update(ctx context.Context, a *Activity) error
	GetByID(ctx context.Context, id uuid.UUID) (*Activity, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Activity, int, error)
	ListByUserAndDate(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*Activity, error)
}

// SleepRepository stores sleep logs.
type SleepRepository interface {
	Create(ctx context.Context, s *SleepLog) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*SleepLog, int, error)
	ListByUserAndDate(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*SleepLog, error)
}

// WaterRepository stores hydration logs.
type WaterRepository interface {
	Create(ctx context.Context, w *WaterIntake) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*WaterIntake, int, error)
	ListByUserAndDate(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*WaterIntake, error)
}

// MealRepository stores meal logs.
type MealRepository interface {
	Create(ctx context.Context, m *Meal) error
	Update(ctx context.Context, m *Meal) error
	GetByID(ctx context.Context, id uuid.UUID) (*Meal, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Meal, int, error)
	ListByUserAndDate(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*Meal, error)
}
