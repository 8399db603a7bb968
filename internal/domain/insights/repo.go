package insights

import (
	"context"

	"github.com/google/uuid"
)

type InsightRepository interface {
	Create(ctx context.Context, ins *HealthInsight) error
	GetByID(ctx context.Context, id uuid.UUID) (*HealthInsight, error)
	Update(ctx context.Context, ins *HealthInsight) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*HealthInsight, int, error)
	ListByCategory(ctx context.Context, userID uuid.UUID, category string, limit, offset int) ([]*HealthInsight, int, error)
	ListByExam(ctx context.Context, examID uuid.UUID) ([]*HealthInsight, error)
}
