package insights

import (
	"time"

	"github.com/google/uuid"
)

// Insight categories. Every completed exam analysis produces exactly one
// insight per category.
const (
	CategoryCardiovascular = "Cardiovascular"
	CategoryNutrition      = "Nutrition"
	CategoryMetabolism     = "Metabolism"
)

// Severity values.
const (
	SeverityNormal    = "normal"
	SeverityAttention = "attention"
	SeverityHigh      = "high"
)

// Status values. Dismiss and resolve are terminal.
const (
	StatusActive    = "active"
	StatusDismissed = "dismissed"
	StatusResolved  = "resolved"
)

// HealthInsight maps to the health_insights table.
type HealthInsight struct {
	ID             uuid.UUID              `db:"id" json:"id"`
	UserID         uuid.UUID              `db:"user_id" json:"user_id"`
	ExamID         *uuid.UUID             `db:"exam_id" json:"exam_id,omitempty"`
	Category       string                 `db:"category" json:"category"`
	Title          string                 `db:"title" json:"title"`
	Description    string                 `db:"description" json:"description"`
	Recommendation string                 `db:"recommendation" json:"recommendation"`
	Severity       string                 `db:"severity" json:"severity"`
	Status         string                 `db:"status" json:"status"`
	AIGenerated    bool                   `db:"ai_generated" json:"ai_generated"`
	Data           map[string]interface{} `db:"data" json:"data,omitempty"`
	CreatedAt      time.Time              `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time              `db:"updated_at" json:"updated_at"`
}

// ValidCategory reports whether c is one of the fixed insight categories.
func ValidCategory(c string) bool {
	switch c {
	case CategoryCardiovascular, CategoryNutrition, CategoryMetabolism:
		return true
	}
	return false
}
