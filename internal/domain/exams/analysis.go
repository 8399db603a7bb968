package exams

// Exam categories assigned by classification.
const (
	CategoryBlood   = "blood"
	CategoryCardiac = "cardiac"
	CategoryGeneral = "general"
)

// Marker is one measured value with its reference range and a binary
// normal/attention status.
type Marker struct {
	Value          float64 `json:"value"`
	Unit           string  `json:"unit"`
	ReferenceRange string  `json:"reference_range"`
	Status         string  `json:"status"`
}

// CholesterolPanel groups the lipid markers of a blood analysis.
type CholesterolPanel struct {
	Total         Marker `json:"total"`
	HDL           Marker `json:"hdl"`
	LDL           Marker `json:"ldl"`
	Triglycerides Marker `json:"triglycerides"`
}

// BloodAnalysis is the payload for blood-category exams.
type BloodAnalysis struct {
	Glucose     Marker           `json:"glucose"`
	Cholesterol CholesterolPanel `json:"cholesterol"`
	Hemoglobin  Marker           `json:"hemoglobin"`
}

// BloodPressure holds the two pressure markers, which count individually
// toward the risk level.
type BloodPressure struct {
	Systolic  Marker `json:"systolic"`
	Diastolic Marker `json:"diastolic"`
}

// CardiacAnalysis is the payload for cardiac-category exams.
type CardiacAnalysis struct {
	BloodPressure BloodPressure `json:"blood_pressure"`
	HeartRate     Marker        `json:"heart_rate"`
	ECGFinding    string        `json:"ecg_finding"`
	ECGStatus     string        `json:"ecg_status"`
}

// GeneralAnalysis is the payload for exams that match neither blood nor
// cardiac keywords.
type GeneralAnalysis struct {
	Assessment string `json:"assessment"`
	Status     string `json:"status"`
}

// Analysis is the typed analysis payload stored on a MedicalExam. Exactly
// one of the category fields is set, selected by Category.
type Analysis struct {
	Category string           `json:"category"`
	Blood    *BloodAnalysis   `json:"blood,omitempty"`
	Cardiac  *CardiacAnalysis `json:"cardiac,omitempty"`
	General  *GeneralAnalysis `json:"general,omitempty"`
}

// markerRef is one named marker inside an analysis, used for risk
// derivation and detail extraction.
type markerRef struct {
	name   string
	marker Marker
}

// markers returns every numeric marker present in the payload, in a fixed
// order. Systolic and diastolic pressure appear as separate entries.
func (a *Analysis) markers() []markerRef {
	switch a.Category {
	case CategoryBlood:
		if a.Blood == nil {
			return nil
		}
		b := a.Blood
		return []markerRef{
			{"glucose", b.Glucose},
			{"cholesterol_total", b.Cholesterol.Total},
			{"cholesterol_hdl", b.Cholesterol.HDL},
			{"cholesterol_ldl", b.Cholesterol.LDL},
			{"triglycerides", b.Cholesterol.Triglycerides},
			{"hemoglobin", b.Hemoglobin},
		}
	case CategoryCardiac:
		if a.Cardiac == nil {
			return nil
		}
		c := a.Cardiac
		return []markerRef{
			{"systolic", c.BloodPressure.Systolic},
			{"diastolic", c.BloodPressure.Diastolic},
			{"heart_rate", c.HeartRate},
		}
	}
	return nil
}

// AttentionCount returns the number of markers carrying attention status.
// The cardiac ECG finding and the general assessment count as one marker
// each when flagged.
func (a *Analysis) AttentionCount() int {
	count := 0
	for _, m := range a.markers() {
		if m.marker.Status == MarkerAttention {
			count++
		}
	}
	if a.Category == CategoryCardiac && a.Cardiac != nil && a.Cardiac.ECGStatus == MarkerAttention {
		count++
	}
	if a.Category == CategoryGeneral && a.General != nil && a.General.Status == MarkerAttention {
		count++
	}
	return count
}

// RiskLevel derives the exam risk from the attention-marker count:
// 0 markers is normal, 1-2 attention, 3 or more high.
func (a *Analysis) RiskLevel() string {
	switch n := a.AttentionCount(); {
	case n == 0:
		return RiskNormal
	case n <= 2:
		return RiskAttention
	default:
		return RiskHigh
	}
}
