package exams

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/vitalsync/vitalsync/internal/domain/insights"
)

// ExtractDetails walks the typed analysis payload and produces one
// ExamDetail row per marker present. Markers absent from the payload
// produce no row.
func ExtractDetails(examID uuid.UUID, a *Analysis) []*ExamDetail {
	if a == nil {
		return nil
	}

	var details []*ExamDetail
	for _, m := range a.markers() {
		details = append(details, &ExamDetail{
			ExamID:         examID,
			Category:       a.Category,
			Name:           m.name,
			Value:          strconv.FormatFloat(m.marker.Value, 'f', -1, 64),
			Unit:           m.marker.Unit,
			ReferenceRange: m.marker.ReferenceRange,
			Status:         m.marker.Status,
		})
	}

	if a.Category == CategoryCardiac && a.Cardiac != nil {
		details = append(details, &ExamDetail{
			ExamID:   examID,
			Category: a.Category,
			Name:     "ecg",
			Value:    a.Cardiac.ECGFinding,
			Status:   a.Cardiac.ECGStatus,
		})
	}
	if a.Category == CategoryGeneral && a.General != nil {
		details = append(details, &ExamDetail{
			ExamID:      examID,
			Category:    a.Category,
			Name:        "assessment",
			Value:       a.General.Assessment,
			Status:      a.General.Status,
			Observation: a.General.Assessment,
		})
	}
	return details
}

// Findings maps the analysis to the per-category attention summary used by
// insight generation. Cardiovascular covers pressure, heart rate, and the
// ECG finding; nutrition covers the lipid panel; metabolism covers glucose
// and hemoglobin.
func Findings(a *Analysis) insights.ExamFindings {
	var f insights.ExamFindings
	if a == nil {
		return f
	}

	switch a.Category {
	case CategoryBlood:
		if b := a.Blood; b != nil {
			f.NutritionAttention = b.Cholesterol.Total.Status == MarkerAttention ||
				b.Cholesterol.HDL.Status == MarkerAttention ||
				b.Cholesterol.LDL.Status == MarkerAttention ||
				b.Cholesterol.Triglycerides.Status == MarkerAttention
			f.MetabolismAttention = b.Glucose.Status == MarkerAttention ||
				b.Hemoglobin.Status == MarkerAttention
		}
	case CategoryCardiac:
		if c := a.Cardiac; c != nil {
			f.CardiovascularAttention = c.BloodPressure.Systolic.Status == MarkerAttention ||
				c.BloodPressure.Diastolic.Status == MarkerAttention ||
				c.HeartRate.Status == MarkerAttention ||
				c.ECGStatus == MarkerAttention
		}
	case CategoryGeneral:
		if g := a.General; g != nil && g.Status == MarkerAttention {
			f.MetabolismAttention = true
		}
	}
	return f
}
