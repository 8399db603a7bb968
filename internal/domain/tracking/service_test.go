package tracking

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type mockActivityRepo struct {
	items map[uuid.UUID]*Activity
}

func newMockActivityRepo() *mockActivityRepo {
	return &mockActivityRepo{items: make(map[uuid.UUID]*Activity)}
}

func (m *mockActivityRepo) Create(_ context.Context, a *Activity) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	m.items[a.ID] = &cp
	return nil
}

func (m *mockActivityRepo) Update(_ context.Context, a *Activity) error {
	if _, ok := m.items[a.ID]; !ok {
		return pgx.ErrNoRows
	}
	a.UpdatedAt = time.Now()
	cp := *a
	m.items[a.ID] = &cp
	return nil
}

func (m *mockActivityRepo) GetByID(_ context.Context, id uuid.UUID) (*Activity, error) {
	a, ok := m.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (m *mockActivityRepo) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]*Activity, int, error) {
	var out []*Activity
	for _, a := range m.items {
		if a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (m *mockActivityRepo) ListByUserAndDate(_ context.Context, userID uuid.UUID, from, to time.Time) ([]*Activity, error) {
	var out []*Activity
	for _, a := range m.items {
		if a.UserID == userID && !a.Date.Before(from) && a.Date.Before(to) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

type mockSleepRepo struct {
	items map[uuid.UUID]*SleepLog
}

func newMockSleepRepo() *mockSleepRepo {
	return &mockSleepRepo{items: make(map[uuid.UUID]*SleepLog)}
}

func (m *mockSleepRepo) Create(_ context.Context, s *SleepLog) error {
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	cp := *s
	m.items[s.ID] = &cp
	return nil
}

func (m *mockSleepRepo) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]*SleepLog, int, error) {
	var out []*SleepLog
	for _, s := range m.items {
		if s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (m *mockSleepRepo) ListByUserAndDate(_ context.Context, userID uuid.UUID, from, to time.Time) ([]*SleepLog, error) {
	var out []*SleepLog
	for _, s := range m.items {
		if s.UserID == userID && !s.Date.Before(from) && s.Date.Before(to) {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

type mockWaterRepo struct {
	items map[uuid.UUID]*WaterIntake
}

func newMockWaterRepo() *mockWaterRepo {
	return &mockWaterRepo{items: make(map[uuid.UUID]*WaterIntake)}
}

func (m *mockWaterRepo) Create(_ context.Context, w *WaterIntake) error {
	w.ID = uuid.New()
	w.CreatedAt = time.Now()
	cp := *w
	m.items[w.ID] = &cp
	return nil
}

func (m *mockWaterRepo) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]*WaterIntake, int, error) {
	var out []*WaterIntake
	for _, w := range m.items {
		if w.UserID == userID {
			cp := *w
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (m *mockWaterRepo) ListByUserAndDate(_ context.Context, userID uuid.UUID, from, to time.Time) ([]*WaterIntake, error) {
	var out []*WaterIntake
	for _, w := range m.items {
		if w.UserID == userID && !w.Date.Before(from) && w.Date.Before(to) {
			cp := *w
			out = append(out, &cp)
		}
	}
	return out, nil
}

type mockMealRepo struct {
	items map[uuid.UUID]*Meal
}

func newMockMealRepo() *mockMealRepo {
	return &mockMealRepo{items: make(map[uuid.UUID]*Meal)}
}

func (m *mockMealRepo) Create(_ context.Context, meal *Meal) error {
	meal.ID = uuid.New()
	meal.CreatedAt = time.Now()
	meal.UpdatedAt = meal.CreatedAt
	cp := *meal
	m.items[meal.ID] = &cp
	return nil
}

func (m *mockMealRepo) Update(_ context.Context, meal *Meal) error {
	if _, ok := m.items[meal.ID]; !ok {
		return pgx.ErrNoRows
	}
	meal.UpdatedAt = time.Now()
	cp := *meal
	m.items[meal.ID] = &cp
	return nil
}

func (m *mockMealRepo) GetByID(_ context.Context, id uuid.UUID) (*Meal, error) {
	meal, ok := m.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *meal
	return &cp, nil
}

func (m *mockMealRepo) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]*Meal, int, error) {
	var out []*Meal
	for _, meal := range m.items {
		if meal.UserID == userID {
			cp := *meal
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (m *mockMealRepo) ListByUserAndDate(_ context.Context, userID uuid.UUID, from, to time.Time) ([]*Meal, error) {
	var out []*Meal
	for _, meal := range m.items {
		if meal.UserID == userID && !meal.Date.Before(from) && meal.Date.Before(to) {
			cp := *meal
			out = append(out, &cp)
		}
	}
	return out, nil
}

func newTestService() *Service {
	return NewService(newMockActivityRepo(), newMockSleepRepo(), newMockWaterRepo(), newMockMealRepo(), zerolog.Nop())
}

// -- Tests --

func TestCreateActivity(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	a, err := svc.CreateActivity(context.Background(), userID, ActivityInput{
		Type: "running", DurationMinutes: 30, Calories: 320,
	})
	if err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	if a.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
	if a.Date.IsZero() {
		t.Error("expected date to default to now")
	}
}

func TestCreateActivity_Validation(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	cases := []struct {
		name string
		in   ActivityInput
		want string
	}{
		{"missing type", ActivityInput{DurationMinutes: 30}, "type is required"},
		{"zero duration", ActivityInput{Type: "yoga"}, "durationMinutes must be positive"},
		{"negative calories", ActivityInput{Type: "yoga", DurationMinutes: 20, Calories: -5}, "calories must not be negative"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateActivity(context.Background(), userID, tc.in)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected %q, got %v", tc.want, err)
			}
		})
	}
}

func TestUpdateActivity_Ownership(t *testing.T) {
	svc := newTestService()
	owner := uuid.New()

	a, err := svc.CreateActivity(context.Background(), owner, ActivityInput{Type: "cycling", DurationMinutes: 45, Calories: 400})
	if err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}

	in := ActivityInput{Type: "cycling", DurationMinutes: 60, Calories: 500}

	if _, err := svc.UpdateActivity(context.Background(), uuid.New(), a.ID, in); err != ErrNotOwner {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
	if _, err := svc.UpdateActivity(context.Background(), owner, uuid.New(), in); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	updated, err := svc.UpdateActivity(context.Background(), owner, a.ID, in)
	if err != nil {
		t.Fatalf("UpdateActivity: %v", err)
	}
	if updated.DurationMinutes != 60 || updated.Calories != 500 {
		t.Errorf("update not applied: %+v", updated)
	}
}

func TestCreateSleep_QualityRange(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()
	bed := time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC)
	wake := time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)

	for _, q := range []int{0, 6} {
		if _, err := svc.CreateSleep(context.Background(), userID, SleepInput{BedTime: bed, WakeTime: wake, Quality: q}); err == nil {
			t.Errorf("quality %d must be rejected", q)
		}
	}

	log, err := svc.CreateSleep(context.Background(), userID, SleepInput{BedTime: bed, WakeTime: wake, Quality: 4})
	if err != nil {
		t.Fatalf("CreateSleep: %v", err)
	}
	if got := log.Hours(); got != 8 {
		t.Errorf("expected 8 slept hours, got %v", got)
	}
	if !log.Date.Equal(wake) {
		t.Errorf("date must default to wake time, got %v", log.Date)
	}
}

func TestSleepHours_CrossesMidnight(t *testing.T) {
	// Same-day clock times with wake before bed still count as one night.
	log := &SleepLog{
		BedTime:  time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC),
		WakeTime: time.Date(2025, 3, 10, 6, 30, 0, 0, time.UTC),
	}
	if got := log.Hours(); got != 7 {
		t.Errorf("expected 7 hours, got %v", got)
	}
}

func TestCreateWater_RejectsNonPositive(t *testing.T) {
	svc := newTestService()

	if _, err := svc.CreateWater(context.Background(), uuid.New(), WaterInput{AmountML: 0}); err == nil {
		t.Error("zero amount must be rejected")
	}
	if _, err := svc.CreateWater(context.Background(), uuid.New(), WaterInput{AmountML: -200}); err == nil {
		t.Error("negative amount must be rejected")
	}
}

func TestCreateMeal_Validation(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	if _, err := svc.CreateMeal(context.Background(), userID, MealInput{MealType: "lunch"}); err == nil {
		t.Error("missing name must be rejected")
	}
	if _, err := svc.CreateMeal(context.Background(), userID, MealInput{Name: "Oatmeal", MealType: "brunch"}); err == nil {
		t.Error("unknown meal type must be rejected")
	}

	m, err := svc.CreateMeal(context.Background(), userID, MealInput{
		Name: "Oatmeal", MealType: MealBreakfast, Calories: 350, ProteinG: 12, CarbsG: 60, FatG: 7,
	})
	if err != nil {
		t.Fatalf("CreateMeal: %v", err)
	}
	if m.MealType != MealBreakfast {
		t.Errorf("unexpected meal type %q", m.MealType)
	}
}

func TestUpdateMeal_Ownership(t *testing.T) {
	svc := newTestService()
	owner := uuid.New()

	m, err := svc.CreateMeal(context.Background(), owner, MealInput{Name: "Salad", MealType: MealLunch, Calories: 420})
	if err != nil {
		t.Fatalf("CreateMeal: %v", err)
	}

	in := MealInput{Name: "Salad", MealType: MealLunch, Calories: 380}
	if _, err := svc.UpdateMeal(context.Background(), uuid.New(), m.ID, in); err != ErrNotOwner {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}

	updated, err := svc.UpdateMeal(context.Background(), owner, m.ID, in)
	if err != nil {
		t.Fatalf("UpdateMeal: %v", err)
	}
	if updated.Calories != 380 {
		t.Errorf("update not applied: %+v", updated)
	}
}

func TestSummary(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	noon := day.Add(12 * time.Hour)

	if _, err := svc.CreateActivity(context.Background(), userID, ActivityInput{Type: "running", DurationMinutes: 30, Calories: 320, Date: noon}); err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	if _, err := svc.CreateActivity(context.Background(), userID, ActivityInput{Type: "walking", DurationMinutes: 20, Calories: 80, Date: noon}); err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	if _, err := svc.CreateMeal(context.Background(), userID, MealInput{Name: "Oatmeal", MealType: MealBreakfast, Calories: 350, Date: noon}); err != nil {
		t.Fatalf("CreateMeal: %v", err)
	}
	if _, err := svc.CreateMeal(context.Background(), userID, MealInput{Name: "Salad", MealType: MealLunch, Calories: 420, Date: noon}); err != nil {
		t.Fatalf("CreateMeal: %v", err)
	}
	if _, err := svc.CreateWater(context.Background(), userID, WaterInput{AmountML: 500, Date: noon}); err != nil {
		t.Fatalf("CreateWater: %v", err)
	}
	if _, err := svc.CreateWater(context.Background(), userID, WaterInput{AmountML: 250, Date: noon}); err != nil {
		t.Fatalf("CreateWater: %v", err)
	}
	if _, err := svc.CreateSleep(context.Background(), userID, SleepInput{
		BedTime:  day.Add(-1 * time.Hour),
		WakeTime: day.Add(7 * time.Hour),
		Quality:  4,
		Date:     noon,
	}); err != nil {
		t.Fatalf("CreateSleep: %v", err)
	}

	// Another user's rows must not leak into the summary.
	if _, err := svc.CreateWater(context.Background(), uuid.New(), WaterInput{AmountML: 9999, Date: noon}); err != nil {
		t.Fatalf("CreateWater: %v", err)
	}
	// A row on the previous day is excluded.
	if _, err := svc.CreateMeal(context.Background(), userID, MealInput{Name: "Dinner", MealType: MealDinner, Calories: 700, Date: day.Add(-2 * time.Hour)}); err != nil {
		t.Fatalf("CreateMeal: %v", err)
	}

	sum, err := svc.Summary(context.Background(), userID, day)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.Date != "2025-03-10" {
		t.Errorf("unexpected date %q", sum.Date)
	}
	if sum.CaloriesIn != 770 {
		t.Errorf("expected 770 calories in, got %d", sum.CaloriesIn)
	}
	if sum.CaloriesOut != 400 {
		t.Errorf("expected 400 calories out, got %d", sum.CaloriesOut)
	}
	if sum.WaterML != 750 {
		t.Errorf("expected 750 ml water, got %d", sum.WaterML)
	}
	if sum.SleepHours != 8 {
		t.Errorf("expected 8 sleep hours, got %v", sum.SleepHours)
	}
	if sum.ActivityMinutes != 50 {
		t.Errorf("expected 50 activity minutes, got %d", sum.ActivityMinutes)
	}
	if sum.MealCount != 2 {
		t.Errorf("expected 2 meals, got %d", sum.MealCount)
	}
}
