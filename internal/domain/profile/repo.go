package profile

import (
	"context"

	"github.com/google/uuid"
)

// ProfileRepository stores health profiles, one per user.
type ProfileRepository interface {
	Upsert(ctx context.Context, p *HealthProfile) error
	GetByUser(ctx context.Context, userID uuid.UUID) (*HealthProfile, error)
}

// PlanRepository stores derived health plans, one per user.
type PlanRepository interface {
	Upsert(ctx context.Context, p *HealthPlan) error
	GetByUser(ctx context.Context, userID uuid.UUID) (*HealthPlan, error)
}
