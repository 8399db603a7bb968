package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

var (
	ErrNotFound = errors.New("tracking entry not found")
	ErrNotOwner = errors.New("tracking entry belongs to another user")
)

// Service validates and stores the four daily log types and computes
// per-day summaries from them.
type Service struct {
	activities ActivityRepository
	sleep      SleepRepository
	water      WaterRepository
	meals      MealRepository
	logger     zerolog.Logger
}

func NewService(activities ActivityRepository, sleep SleepRepository, water WaterRepository, meals MealRepository, logger zerolog.Logger) *Service {
	return &Service{
		activities: activities,
		sleep:      sleep,
		water:      water,
		meals:      meals,
		logger:     logger.With().Str("component", "tracking").Logger(),
	}
}

// -- Activities --

type ActivityInput struct {
	Type            string    `json:"type"`
	DurationMinutes int       `json:"durationMinutes"`
	Calories        int       `json:"calories"`
	Date            time.Time `json:"date"`
	Notes           *string   `json:"notes"`
}

func (in ActivityInput) validate() error {
	if in.Type == "" {
		return fmt.Errorf("type is required")
	}
	if in.DurationMinutes <= 0 {
		return fmt.Errorf("durationMinutes must be positive")
	}
	if in.Calories < 0 {
		return fmt.Errorf("calories must not be negative")
	}
	return nil
}

func (s *Service) CreateActivity(ctx context.Context, userID uuid.UUID, in ActivityInput) (*Activity, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	a := &Activity{
		UserID:          userID,
		Type:            in.Type,
		DurationMinutes: in.DurationMinutes,
		Calories:        in.Calories,
		Date:            in.Date,
		Notes:           in.Notes,
	}
	if a.Date.IsZero() {
		a.Date = time.Now().UTC()
	}
	if err := s.activities.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) UpdateActivity(ctx context.Context, userID, id uuid.UUID, in ActivityInput) (*Activity, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	a, err := s.activities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if a.UserID != userID {
		return nil, ErrNotOwner
	}
	a.Type = in.Type
	a.DurationMinutes = in.DurationMinutes
	a.Calories = in.Calories
	a.Notes = in.Notes
	if !in.Date.IsZero() {
		a.Date = in.Date
	}
	if err := s.activities.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) ListActivities(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Activity, int, error) {
	return s.activities.ListByUser(ctx, userID, limit, offset)
}

// -- Sleep --

type SleepInput struct {
	BedTime  time.Time `json:"bedTime"`
	WakeTime time.Time `json:"wakeTime"`
	Quality  int       `json:"quality"`
	Date     time.Time `json:"date"`
}

func (s *Service) CreateSleep(ctx context.Context, userID uuid.UUID, in SleepInput) (*SleepLog, error) {
	if in.BedTime.IsZero() || in.WakeTime.IsZero() {
		return nil, fmt.Errorf("bedTime and wakeTime are required")
	}
	if in.Quality < 1 || in.Quality > 5 {
		return nil, fmt.Errorf("quality must be between 1 and 5")
	}
	log := &SleepLog{
		UserID:   userID,
		BedTime:  in.BedTime,
		WakeTime: in.WakeTime,
		Quality:  in.Quality,
		Date:     in.Date,
	}
	if log.Date.IsZero() {
		log.Date = in.WakeTime
	}
	if err := s.sleep.Create(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

func (s *Service) ListSleep(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*SleepLog, int, error) {
	return s.sleep.ListByUser(ctx, userID, limit, offset)
}

// -- Water --

type WaterInput struct {
	AmountML int       `json:"amountMl"`
	Date     time.Time `json:"date"`
}

func (s *Service) CreateWater(ctx context.Context, userID uuid.UUID, in WaterInput) (*WaterIntake, error) {
	if in.AmountML <= 0 {
		return nil, fmt.Errorf("amountMl must be positive")
	}
	w := &WaterIntake{UserID: userID, AmountML: in.AmountML, Date: in.Date}
	if w.Date.IsZero() {
		w.Date = time.Now().UTC()
	}
	if err := s.water.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *Service) ListWater(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*WaterIntake, int, error) {
	return s.water.ListByUser(ctx, userID, limit, offset)
}

// -- Meals --

type MealInput struct {
	Name     string    `json:"name"`
	MealType string    `json:"mealType"`
	Calories int       `json:"calories"`
	ProteinG float64   `json:"proteinG"`
	CarbsG   float64   `json:"carbsG"`
	FatG     float64   `json:"fatG"`
	Date     time.Time `json:"date"`
	Notes    *string   `json:"notes"`
}

func (in MealInput) validate() error {
	if in.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !validMealType(in.MealType) {
		return fmt.Errorf("mealType must be one of breakfast, lunch, dinner, snack")
	}
	if in.Calories < 0 || in.ProteinG < 0 || in.CarbsG < 0 || in.FatG < 0 {
		return fmt.Errorf("nutrition values must not be negative")
	}
	return nil
}

func (s *Service) CreateMeal(ctx context.Context, userID uuid.UUID, in MealInput) (*Meal, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	m := &Meal{
		UserID:   userID,
		Name:     in.Name,
		MealType: in.MealType,
		Calories: in.Calories,
		ProteinG: in.ProteinG,
		CarbsG:   in.CarbsG,
		FatG:     in.FatG,
		Date:     in.Date,
		Notes:    in.Notes,
	}
	if m.Date.IsZero() {
		m.Date = time.Now().UTC()
	}
	if err := s.meals.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) UpdateMeal(ctx context.Context, userID, id uuid.UUID, in MealInput) (*Meal, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	m, err := s.meals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if m.UserID != userID {
		return nil, ErrNotOwner
	}
	m.Name = in.Name
	m.MealType = in.MealType
	m.Calories = in.Calories
	m.ProteinG = in.ProteinG
	m.CarbsG = in.CarbsG
	m.FatG = in.FatG
	m.Notes = in.Notes
	if !in.Date.IsZero() {
		m.Date = in.Date
	}
	if err := s.meals.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) ListMeals(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Meal, int, error) {
	return s.meals.ListByUser(ctx, userID, limit, offset)
}

// -- Summary --

// Summary aggregates the user's logs for one calendar day (UTC).
func (s *Service) Summary(ctx context.Context, userID uuid.UUID, day time.Time) (*DailySummary, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	sum := &DailySummary{Date: from.Format("2006-01-02")}

	activities, err := s.activities.ListByUserAndDate(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	for _, a := range activities {
		sum.CaloriesOut += a.Calories
		sum.ActivityMinutes += a.DurationMinutes
	}

	meals, err := s.meals.ListByUserAndDate(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	for _, m := range meals {
		sum.CaloriesIn += m.Calories
	}
	sum.MealCount = len(meals)

	water, err := s.water.ListByUserAndDate(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	for _, w := range water {
		sum.WaterML += w.AmountML
	}

	sleep, err := s.sleep.ListByUserAndDate(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	for _, sl := range sleep {
		sum.SleepHours += sl.Hours()
	}

	return sum, nil
}
