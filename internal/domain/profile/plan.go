package profile

import "math"

// Activity multipliers applied to the basal rate to estimate total
// daily energy expenditure.
var activityFactors = map[string]float64{
	ActivitySedentary:  1.2,
	ActivityLight:      1.375,
	ActivityModerate:   1.55,
	ActivityActive:     1.725,
	ActivityVeryActive: 1.9,
}

// Goal identifiers the plan generator adjusts for.
const (
	GoalLoseWeight   = "lose_weight"
	GoalGainMuscle   = "gain_muscle"
	GoalImproveSleep = "improve_sleep"
	GoalReduceStress = "reduce_stress"
	GoalEatHealthier = "eat_healthier"
)

// basalMetabolicRate implements the Mifflin-St Jeor equation.
func basalMetabolicRate(sex string, weightKG, heightCM float64, age int) float64 {
	bmr := 10*weightKG + 6.25*heightCM - 5*float64(age)
	if sex == SexFemale {
		return bmr - 161
	}
	return bmr + 5
}

func hasGoal(goals []string, goal string) bool {
	for _, g := range goals {
		if g == goal {
			return true
		}
	}
	return false
}

// GeneratePlan derives the daily targets from a profile. The calorie
// target is TDEE shifted by the weight goal, floored at 1200 kcal.
func GeneratePlan(p *HealthProfile) *HealthPlan {
	factor, ok := activityFactors[p.ActivityLevel]
	if !ok {
		factor = activityFactors[ActivitySedentary]
	}
	tdee := basalMetabolicRate(p.Sex, p.WeightKG, p.HeightCM, p.Age) * factor

	calories := tdee
	switch {
	case hasGoal(p.HealthGoals, GoalLoseWeight):
		calories -= 500
	case hasGoal(p.HealthGoals, GoalGainMuscle):
		calories += 300
	}
	if calories < 1200 {
		calories = 1200
	}

	// 35 ml per kg body weight, rounded to the nearest 50 ml.
	water := int(math.Round(p.WeightKG*35/50) * 50)
	if water < 1500 {
		water = 1500
	}

	sleepTarget := 8.0
	if hasGoal(p.HealthGoals, GoalImproveSleep) {
		sleepTarget = 8.5
	}

	weeklyMinutes := 150
	switch p.ActivityLevel {
	case ActivityActive, ActivityVeryActive:
		weeklyMinutes = 300
	case ActivityModerate:
		weeklyMinutes = 200
	}

	plan := &HealthPlan{
		UserID:                p.UserID,
		CalorieTarget:         int(math.Round(calories)),
		WaterTargetML:         water,
		SleepTargetHours:      sleepTarget,
		WeeklyActivityMinutes: weeklyMinutes,
		FocusAreas:            focusAreas(p),
	}
	return plan
}

func focusAreas(p *HealthProfile) []string {
	var areas []string
	if hasGoal(p.HealthGoals, GoalLoseWeight) || hasGoal(p.HealthGoals, GoalEatHealthier) {
		areas = append(areas, "nutrition")
	}
	if p.ActivityLevel == ActivitySedentary || hasGoal(p.HealthGoals, GoalGainMuscle) {
		areas = append(areas, "movement")
	}
	if hasGoal(p.HealthGoals, GoalImproveSleep) {
		areas = append(areas, "sleep")
	}
	if hasGoal(p.HealthGoals, GoalReduceStress) {
		areas = append(areas, "stress")
	}
	if p.Smoker || p.AlcoholUse {
		areas = append(areas, "habits")
	}
	if len(areas) == 0 {
		areas = append(areas, "general_wellness")
	}
	return areas
}
