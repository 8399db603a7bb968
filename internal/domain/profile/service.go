package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/vitalsync/vitalsync/internal/domain/insights"
)

var (
	ErrProfileNotFound = errors.New("health profile not found")
	ErrPlanNotFound    = errors.New("health plan not found")
)

type Service struct {
	profiles ProfileRepository
	plans    PlanRepository
	logger   zerolog.Logger
}

func NewService(profiles ProfileRepository, plans PlanRepository, logger zerolog.Logger) *Service {
	return &Service{
		profiles: profiles,
		plans:    plans,
		logger:   logger.With().Str("component", "profile").Logger(),
	}
}

// ProfileInput carries the profile fields as submitted by onboarding
// or the profile editor.
type ProfileInput struct {
	Age               int      `json:"age"`
	Sex               string   `json:"sex"`
	HeightCM          float64  `json:"heightCm"`
	WeightKG          float64  `json:"weightKg"`
	ActivityLevel     string   `json:"activityLevel"`
	DietaryPreference *string  `json:"dietaryPreference"`
	HealthGoals       []string `json:"healthGoals"`
	MedicalConditions []string `json:"medicalConditions"`
	Medications       []string `json:"medications"`
	Smoker            bool     `json:"smoker"`
	AlcoholUse        bool     `json:"alcoholUse"`
}

func (in ProfileInput) validate() error {
	if in.Age < 13 || in.Age > 120 {
		return fmt.Errorf("age must be between 13 and 120")
	}
	if in.Sex != SexMale && in.Sex != SexFemale {
		return fmt.Errorf("sex must be male or female")
	}
	if in.HeightCM < 90 || in.HeightCM > 250 {
		return fmt.Errorf("heightCm must be between 90 and 250")
	}
	if in.WeightKG < 25 || in.WeightKG > 350 {
		return fmt.Errorf("weightKg must be between 25 and 350")
	}
	if !validActivityLevel(in.ActivityLevel) {
		return fmt.Errorf("activityLevel must be one of sedentary, light, moderate, active, very_active")
	}
	return nil
}

func (in ProfileInput) apply(p *HealthProfile, userID uuid.UUID) {
	p.UserID = userID
	p.Age = in.Age
	p.Sex = in.Sex
	p.HeightCM = in.HeightCM
	p.WeightKG = in.WeightKG
	p.ActivityLevel = in.ActivityLevel
	p.DietaryPreference = in.DietaryPreference
	p.HealthGoals = in.HealthGoals
	p.MedicalConditions = in.MedicalConditions
	p.Medications = in.Medications
	p.Smoker = in.Smoker
	p.AlcoholUse = in.AlcoholUse
	if p.HealthGoals == nil {
		p.HealthGoals = []string{}
	}
	if p.MedicalConditions == nil {
		p.MedicalConditions = []string{}
	}
	if p.Medications == nil {
		p.Medications = []string{}
	}
}

// UpsertProfile writes the user's profile, creating or replacing it.
func (s *Service) UpsertProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (*HealthProfile, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	p, err := s.profiles.GetByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		p = &HealthProfile{}
	}
	in.apply(p, userID)
	if err := s.profiles.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*HealthProfile, error) {
	p, err := s.profiles.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) GetPlan(ctx context.Context, userID uuid.UUID) (*HealthPlan, error) {
	p, err := s.plans.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return p, nil
}

// RegeneratePlan recomputes the plan from the stored profile.
func (s *Service) RegeneratePlan(ctx context.Context, userID uuid.UUID) (*HealthPlan, error) {
	p, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	plan := GeneratePlan(p)
	if err := s.plans.Upsert(ctx, plan); err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("user_id", userID.String()).
		Int("calorie_target", plan.CalorieTarget).
		Msg("health plan regenerated")
	return plan, nil
}

// OnboardingResult is returned from completing onboarding.
type OnboardingResult struct {
	Profile *HealthProfile `json:"profile"`
	Plan    *HealthPlan    `json:"plan"`
}

// CompleteOnboarding upserts the profile from the submitted form,
// marks onboarding complete, and generates the plan. Safe to call
// again; the profile and plan are simply rewritten.
func (s *Service) CompleteOnboarding(ctx context.Context, userID uuid.UUID, in ProfileInput) (*OnboardingResult, error) {
	p, err := s.UpsertProfile(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	if !p.OnboardingComplete {
		p.OnboardingComplete = true
		if err := s.profiles.Upsert(ctx, p); err != nil {
			return nil, err
		}
	}

	plan := GeneratePlan(p)
	if err := s.plans.Upsert(ctx, plan); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", userID.String()).Msg("onboarding completed")
	return &OnboardingResult{Profile: p, Plan: plan}, nil
}

// Snapshot implements the profile source consumed by the insight
// generator. A missing profile yields a nil snapshot, not an error.
func (s *Service) Snapshot(ctx context.Context, userID uuid.UUID) (*insights.ProfileSnapshot, error) {
	p, err := s.profiles.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &insights.ProfileSnapshot{
		ActivityLevel: p.ActivityLevel,
		Smoker:        p.Smoker,
		AlcoholUse:    p.AlcoholUse,
		HealthGoals:   p.HealthGoals,
	}, nil
}
