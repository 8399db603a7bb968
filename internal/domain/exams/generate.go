package exams

// Reference thresholds for the mock analysis. Values are canned: the
// uploaded file is never parsed.
const (
	refGlucose       = "70-99 mg/dL"
	refCholTotal     = "< 200 mg/dL"
	refCholHDL       = "> 40 mg/dL"
	refCholLDL       = "< 130 mg/dL"
	refTriglycerides = "< 150 mg/dL"
	refHemoglobin    = "12-16 g/dL"
	refSystolic      = "90-120 mmHg"
	refDiastolic     = "60-80 mmHg"
	refHeartRate     = "60-100 bpm"
)

// GenerateAnalysis produces the canned analysis payload for a classified
// exam. One generator serves both the background worker and the synchronous
// re-analysis endpoint, so both paths always agree on shape and values.
func GenerateAnalysis(category string) *Analysis {
	switch category {
	case CategoryBlood:
		return &Analysis{
			Category: CategoryBlood,
			Blood: &BloodAnalysis{
				Glucose: Marker{Value: 105, Unit: "mg/dL", ReferenceRange: refGlucose, Status: MarkerAttention},
				Cholesterol: CholesterolPanel{
					Total:         Marker{Value: 185, Unit: "mg/dL", ReferenceRange: refCholTotal, Status: MarkerNormal},
					HDL:           Marker{Value: 55, Unit: "mg/dL", ReferenceRange: refCholHDL, Status: MarkerNormal},
					LDL:           Marker{Value: 110, Unit: "mg/dL", ReferenceRange: refCholLDL, Status: MarkerNormal},
					Triglycerides: Marker{Value: 160, Unit: "mg/dL", ReferenceRange: refTriglycerides, Status: MarkerAttention},
				},
				Hemoglobin: Marker{Value: 14.2, Unit: "g/dL", ReferenceRange: refHemoglobin, Status: MarkerNormal},
			},
		}
	case CategoryCardiac:
		return &Analysis{
			Category: CategoryCardiac,
			Cardiac: &CardiacAnalysis{
				BloodPressure: BloodPressure{
					Systolic:  Marker{Value: 135, Unit: "mmHg", ReferenceRange: refSystolic, Status: MarkerAttention},
					Diastolic: Marker{Value: 85, Unit: "mmHg", ReferenceRange: refDiastolic, Status: MarkerAttention},
				},
				HeartRate:  Marker{Value: 72, Unit: "bpm", ReferenceRange: refHeartRate, Status: MarkerNormal},
				ECGFinding: "Normal sinus rhythm",
				ECGStatus:  MarkerNormal,
			},
		}
	default:
		return &Analysis{
			Category: CategoryGeneral,
			General: &GeneralAnalysis{
				Assessment: "No abnormalities identified in the submitted exam.",
				Status:     MarkerNormal,
			},
		}
	}
}
