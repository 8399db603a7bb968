package profile

import (
	"time"

	"github.com/google/uuid"
)

// Recognized activity levels, ordered from least to most active.
const (
	ActivitySedentary  = "sedentary"
	ActivityLight      = "light"
	ActivityModerate   = "moderate"
	ActivityActive     = "active"
	ActivityVeryActive = "very_active"
)

// Biological sex values used by the calorie formula.
const (
	SexMale   = "male"
	SexFemale = "female"
)

// HealthProfile is the user's self-reported health record, one row per
// user, written by onboarding and the profile editor.
type HealthProfile struct {
	ID                 uuid.UUID `json:"id"`
	UserID             uuid.UUID `json:"userId"`
	Age                int       `json:"age"`
	Sex                string    `json:"sex"`
	HeightCM           float64   `json:"heightCm"`
	WeightKG           float64   `json:"weightKg"`
	ActivityLevel      string    `json:"activityLevel"`
	DietaryPreference  *string   `json:"dietaryPreference,omitempty"`
	HealthGoals        []string  `json:"healthGoals"`
	MedicalConditions  []string  `json:"medicalConditions"`
	Medications        []string  `json:"medications"`
	Smoker             bool      `json:"smoker"`
	AlcoholUse         bool      `json:"alcoholUse"`
	OnboardingComplete bool      `json:"onboardingComplete"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// HealthPlan is the derived daily/weekly target set, regenerated from
// the profile on demand.
type HealthPlan struct {
	ID                    uuid.UUID `json:"id"`
	UserID                uuid.UUID `json:"userId"`
	CalorieTarget         int       `json:"calorieTarget"`
	WaterTargetML         int       `json:"waterTargetMl"`
	SleepTargetHours      float64   `json:"sleepTargetHours"`
	WeeklyActivityMinutes int       `json:"weeklyActivityMinutes"`
	FocusAreas            []string  `json:"focusAreas"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

func validActivityLevel(level string) bool {
	switch level {
	case ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive:
		return true
	}
	return false
}
