package exams

import (
	"time"

	"github.com/google/uuid"
)

// Exam statuses. An exam is created "Analyzing" and mutated once by the
// analysis step; it never transitions back.
const (
	StatusAnalyzing  = "Analyzing"
	StatusNormal     = "Normal"
	StatusAttention  = "Attention"
	StatusIncomplete = "Incomplete"
)

// Risk levels derived from the analysis payload.
const (
	RiskNormal    = "normal"
	RiskAttention = "attention"
	RiskHigh      = "high"
)

// Marker statuses.
const (
	MarkerNormal    = "normal"
	MarkerAttention = "attention"
)

// MedicalExam maps to the medical_exams table.
type MedicalExam struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	UserID           uuid.UUID  `db:"user_id" json:"user_id"`
	Name             string     `db:"name" json:"name"`
	Type             string     `db:"type" json:"type"`
	ExamDate         *time.Time `db:"exam_date" json:"exam_date,omitempty"`
	FilePath         *string    `db:"file_path" json:"-"`
	OriginalFileName *string    `db:"original_file_name" json:"original_file_name,omitempty"`
	Status           string     `db:"status" json:"status"`
	Analysis         *Analysis  `db:"analysis" json:"analysis,omitempty"`
	HasAnomaly       bool       `db:"has_anomaly" json:"has_anomaly"`
	RiskLevel        string     `db:"risk_level" json:"risk_level"`
	AIProcessed      bool       `db:"ai_processed" json:"ai_processed"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// ExamDetail is one structured measurement extracted from an exam's
// analysis. Created only by the analysis step, append-only.
type ExamDetail struct {
	ID             uuid.UUID `db:"id" json:"id"`
	ExamID         uuid.UUID `db:"exam_id" json:"exam_id"`
	Category       string    `db:"category" json:"category"`
	Name           string    `db:"name" json:"name"`
	Value          string    `db:"value" json:"value"`
	Unit           string    `db:"unit" json:"unit,omitempty"`
	ReferenceRange string    `db:"reference_range" json:"reference_range,omitempty"`
	Status         string    `db:"status" json:"status"`
	Observation    string    `db:"observation" json:"observation,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Analysis job statuses.
const (
	JobPending = "pending"
	JobRunning = "running"
	JobDone    = "done"
	JobFailed  = "failed"
)

// AnalysisJob is the durable record for one pending exam analysis. Jobs are
// created alongside the exam row and drained by the background worker, so an
// upload survives a crash between ingestion and analysis.
type AnalysisJob struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ExamID    uuid.UUID `db:"exam_id" json:"exam_id"`
	Status    string    `db:"status" json:"status"`
	Attempts  int       `db:"attempts" json:"attempts"`
	Error     *string   `db:"error" json:"error,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
