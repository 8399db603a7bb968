package insights

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrInsightNotFound = errors.New("insight not found")
	ErrNotOwner        = errors.New("insight belongs to another user")
	ErrTerminalStatus  = errors.New("insight is no longer active")
)

// ExamFindings summarizes an exam analysis for insight generation: whether
// any marker relevant to each category carried attention status.
type ExamFindings struct {
	CardiovascularAttention bool
	NutritionAttention      bool
	MetabolismAttention     bool
}

// ProfileSnapshot carries the profile fields that drive profile-based
// insight generation.
type ProfileSnapshot struct {
	ActivityLevel string
	Smoker        bool
	AlcoholUse    bool
	HealthGoals   []string
}

// ProfileSource provides the caller's health profile, when one exists.
type ProfileSource interface {
	Snapshot(ctx context.Context, userID uuid.UUID) (*ProfileSnapshot, error)
}

type Service struct {
	repo     InsightRepository
	profiles ProfileSource
}

func NewService(repo InsightRepository, profiles ProfileSource) *Service {
	return &Service{repo: repo, profiles: profiles}
}

// insightTemplate holds the canned text for one category in one severity.
type insightTemplate struct {
	title          string
	description    string
	recommendation string
}

var examTemplates = map[string]map[bool]insightTemplate{
	CategoryCardiovascular: {
		false: {
			title:          "Cardiovascular markers look good",
			description:    "Your blood pressure and heart rate markers are within their reference ranges.",
			recommendation: "Keep up regular aerobic exercise to maintain cardiovascular health.",
		},
		true: {
			title:          "Cardiovascular markers need attention",
			description:    "One or more cardiovascular markers from your recent exam fall outside the reference range.",
			recommendation: "Consider reducing sodium intake and discuss these results with your physician.",
		},
	},
	CategoryNutrition: {
		false: {
			title:          "Nutrition markers are balanced",
			description:    "Cholesterol and related nutrition markers are within expected ranges.",
			recommendation: "Maintain a balanced diet rich in fiber and unsaturated fats.",
		},
		true: {
			title:          "Nutrition markers need attention",
			description:    "Cholesterol or triglyceride levels from your recent exam are outside the reference range.",
			recommendation: "Reduce saturated fat and refined sugar; favor whole grains, fish, and vegetables.",
		},
	},
	CategoryMetabolism: {
		false: {
			title:          "Metabolic markers are stable",
			description:    "Glucose and related metabolic markers are within their reference ranges.",
			recommendation: "Keep consistent meal times and stay hydrated to support your metabolism.",
		},
		true: {
			title:          "Metabolic markers need attention",
			description:    "Blood glucose or related metabolic markers are outside the reference range.",
			recommendation: "Limit simple carbohydrates and consider a follow-up fasting glucose test.",
		},
	},
}

// GenerateForExam creates exactly one insight per category for a completed
// exam analysis. Severity mirrors whether that category's markers carried
// attention status.
func (s *Service) GenerateForExam(ctx context.Context, userID, examID uuid.UUID, f ExamFindings) ([]*HealthInsight, error) {
	attention := map[string]bool{
		CategoryCardiovascular: f.CardiovascularAttention,
		CategoryNutrition:      f.NutritionAttention,
		CategoryMetabolism:     f.MetabolismAttention,
	}

	result := make([]*HealthInsight, 0, 3)
	for _, category := range []string{CategoryCardiovascular, CategoryNutrition, CategoryMetabolism} {
		flagged := attention[category]
		tpl := examTemplates[category][flagged]
		severity := SeverityNormal
		if flagged {
			severity = SeverityAttention
		}

		ins := &HealthInsight{
			UserID:         userID,
			ExamID:         &examID,
			Category:       category,
			Title:          tpl.title,
			Description:    tpl.description,
			Recommendation: tpl.recommendation,
			Severity:       severity,
			Status:         StatusActive,
			AIGenerated:    true,
			Data:           map[string]interface{}{"attention": flagged},
		}
		if err := s.repo.Create(ctx, ins); err != nil {
			return nil, fmt.Errorf("creating %s insight: %w", category, err)
		}
		result = append(result, ins)
	}
	return result, nil
}

// GenerateFromProfile creates lifestyle insights from the user's health
// profile. Without a profile this is a no-op returning an empty slice.
func (s *Service) GenerateFromProfile(ctx context.Context, userID uuid.UUID) ([]*HealthInsight, error) {
	snap, err := s.profiles.Snapshot(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading profile snapshot: %w", err)
	}
	if snap == nil {
		return []*HealthInsight{}, nil
	}

	cardioAttention := snap.Smoker || snap.ActivityLevel == "sedentary"
	nutritionAttention := snap.AlcoholUse

	f := ExamFindings{
		CardiovascularAttention: cardioAttention,
		NutritionAttention:      nutritionAttention,
	}

	attention := map[string]bool{
		CategoryCardiovascular: f.CardiovascularAttention,
		CategoryNutrition:      f.NutritionAttention,
		CategoryMetabolism:     f.MetabolismAttention,
	}

	result := make([]*HealthInsight, 0, 3)
	for _, category := range []string{CategoryCardiovascular, CategoryNutrition, CategoryMetabolism} {
		flagged := attention[category]
		tpl := examTemplates[category][flagged]
		severity := SeverityNormal
		if flagged {
			severity = SeverityAttention
		}

		ins := &HealthInsight{
			UserID:         userID,
			Category:       category,
			Title:          tpl.title,
			Description:    tpl.description,
			Recommendation: tpl.recommendation,
			Severity:       severity,
			Status:         StatusActive,
			AIGenerated:    true,
			Data:           map[string]interface{}{"source": "profile", "goals": snap.HealthGoals},
		}
		if err := s.repo.Create(ctx, ins); err != nil {
			return nil, fmt.Errorf("creating %s insight: %w", category, err)
		}
		result = append(result, ins)
	}
	return result, nil
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*HealthInsight, int, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) ListByCategory(ctx context.Context, userID uuid.UUID, category string, limit, offset int) ([]*HealthInsight, int, error) {
	if !ValidCategory(category) {
		return nil, 0, fmt.Errorf("unknown category: %s", category)
	}
	return s.repo.ListByCategory(ctx, userID, category, limit, offset)
}

// ListByExam returns the insights generated for one exam, for the owner only.
func (s *Service) ListByExam(ctx context.Context, userID, examID uuid.UUID) ([]*HealthInsight, error) {
	all, err := s.repo.ListByExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	result := make([]*HealthInsight, 0, len(all))
	for _, ins := range all {
		if ins.UserID == userID {
			result = append(result, ins)
		}
	}
	return result, nil
}

// Dismiss marks an active insight as dismissed. Terminal.
func (s *Service) Dismiss(ctx context.Context, userID, id uuid.UUID) (*HealthInsight, error) {
	return s.transition(ctx, userID, id, StatusDismissed)
}

// Resolve marks an active insight as resolved. Terminal.
func (s *Service) Resolve(ctx context.Context, userID, id uuid.UUID) (*HealthInsight, error) {
	return s.transition(ctx, userID, id, StatusResolved)
}

func (s *Service) transition(ctx context.Context, userID, id uuid.UUID, to string) (*HealthInsight, error) {
	ins, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInsightNotFound
		}
		return nil, err
	}
	if ins.UserID != userID {
		return nil, ErrNotOwner
	}
	if ins.Status != StatusActive {
		return nil, ErrTerminalStatus
	}
	ins.Status = to
	if err := s.repo.Update(ctx, ins); err != nil {
		return nil, err
	}
	return ins, nil
}
