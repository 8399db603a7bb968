package exams

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ExamRepository interface {
	Create(ctx context.Context, e *MedicalExam) error
	GetByID(ctx context.Context, id uuid.UUID) (*MedicalExam, error)
	Update(ctx context.Context, e *MedicalExam) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*MedicalExam, int, error)
}

type DetailRepository interface {
	CreateBatch(ctx context.Context, details []*ExamDetail) error
	ListByExam(ctx context.Context, examID uuid.UUID) ([]*ExamDetail, error)
}

type JobRepository interface {
	Create(ctx context.Context, job *AnalysisJob) error
	// ClaimNext atomically picks one pending job (or a running job started
	// before staleBefore, which is treated as abandoned), marks it running,
	// and increments its attempt counter. Returns nil when no job is due.
	ClaimNext(ctx context.Context, staleBefore time.Time) (*AnalysisJob, error)
	MarkDone(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
	GetByExam(ctx context.Context, examID uuid.UUID) (*AnalysisJob, error)
}
