package tracking

import (
	"time"

	"github.com/google/uuid"
)

// Meal types accepted by the meal log.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// Activity is one logged exercise session.
type Activity struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"userId"`
	Type            string    `json:"type"`
	DurationMinutes int       `json:"durationMinutes"`
	Calories        int       `json:"calories"`
	Date            time.Time `json:"date"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// SleepLog is one night of sleep.
type SleepLog struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	BedTime   time.Time `json:"bedTime"`
	WakeTime  time.Time `json:"wakeTime"`
	Quality   int       `json:"quality"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
}

// Hours reports the slept duration in hours. Wake times at or before
// bed time are treated as crossing midnight.
func (s *SleepLog) Hours() float64 {
	d := s.WakeTime.Sub(s.BedTime)
	if d <= 0 {
		d += 24 * time.Hour
	}
	return d.Hours()
}

// WaterIntake is one logged drink.
type WaterIntake struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	AmountML  int       `json:"amountMl"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
}

// Meal is one logged meal with its macros.
type Meal struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	MealType  string    `json:"mealType"`
	Calories  int       `json:"calories"`
	ProteinG  float64   `json:"proteinG"`
	CarbsG    float64   `json:"carbsG"`
	FatG      float64   `json:"fatG"`
	Date      time.Time `json:"date"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DailySummary aggregates one day of logs for the dashboard.
type DailySummary struct {
	Date            string  `json:"date"`
	CaloriesIn      int     `json:"caloriesIn"`
	CaloriesOut     int     `json:"caloriesOut"`
	WaterML         int     `json:"waterMl"`
	SleepHours      float64 `json:"sleepHours"`
	ActivityMinutes int     `json:"activityMinutes"`
	MealCount       int     `json:"mealCount"`
}

func validMealType(t string) bool {
	switch t {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}
