package exams

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/vitalsync/vitalsync/internal/domain/insights"
	"github.com/vitalsync/vitalsync/internal/platform/storage"
)

var (
	ErrExamNotFound     = errors.New("exam not found")
	ErrNotOwner         = errors.New("exam belongs to another user")
	ErrAlreadyProcessed = errors.New("exam has already been analyzed")
	ErrNoFile           = errors.New("exam has no attached file")
	ErrInvalidInput     = errors.New("invalid exam")
)

type Service struct {
	exams    ExamRepository
	details  DetailRepository
	jobs     JobRepository
	insights *insights.Service
	store    storage.FileStore
	logger   zerolog.Logger
}

func NewService(exams ExamRepository, details DetailRepository, jobs JobRepository,
	ins *insights.Service, store storage.FileStore, logger zerolog.Logger) *Service {
	return &Service{
		exams:    exams,
		details:  details,
		jobs:     jobs,
		insights: ins,
		store:    store,
		logger:   logger,
	}
}

// UploadedFile describes the optional multipart file attached to an exam.
type UploadedFile struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

// CreateInput is the payload for exam ingestion.
type CreateInput struct {
	Name     string
	Type     string
	ExamDate *time.Time
	File     *UploadedFile
}

// Create persists a new exam in Analyzing state and enqueues a durable
// analysis job for the background worker. The response is returned
// immediately; clients poll to observe completion.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, in CreateInput) (*MedicalExam, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Type) == "" {
		return nil, fmt.Errorf("%w: type is required", ErrInvalidInput)
	}

	exam := &MedicalExam{
		UserID:    userID,
		Name:      in.Name,
		Type:      in.Type,
		ExamDate:  in.ExamDate,
		Status:    StatusAnalyzing,
		RiskLevel: RiskNormal,
	}

	if in.File != nil {
		storedName, err := s.store.Save(ctx, in.File.Name, in.File.ContentType, in.File.Size, in.File.Content)
		if err != nil {
			return nil, err
		}
		exam.FilePath = &storedName
		original := in.File.Name
		exam.OriginalFileName = &original
	}

	if err := s.exams.Create(ctx, exam); err != nil {
		return nil, err
	}

	job := &AnalysisJob{ExamID: exam.ID, Status: JobPending}
	if err := s.jobs.Create(ctx, job); err != nil {
		// The exam row exists but analysis will never run; surface the
		// failure instead of returning a row stuck in Analyzing.
		return nil, fmt.Errorf("enqueueing analysis: %w", err)
	}

	s.logger.Info().
		Str("exam_id", exam.ID.String()).
		Str("category", Classify(exam.Type)).
		Msg("exam created, analysis queued")
	return exam, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*MedicalExam, int, error) {
	return s.exams.ListByUser(ctx, userID, limit, offset)
}

// ExamView is the full read model for one exam.
type ExamView struct {
	Exam     *MedicalExam              `json:"exam"`
	Details  []*ExamDetail             `json:"details"`
	Insights []*insights.HealthInsight `json:"insights"`
}

// Get returns the exam with its extracted details and generated insights.
// Ownership is checked on every read.
func (s *Service) Get(ctx context.Context, userID, examID uuid.UUID) (*ExamView, error) {
	exam, err := s.getOwned(ctx, userID, examID)
	if err != nil {
		return nil, err
	}

	details, err := s.details.ListByExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	ins, err := s.insights.ListByExam(ctx, userID, examID)
	if err != nil {
		return nil, err
	}
	return &ExamView{Exam: exam, Details: details, Insights: ins}, nil
}

// AnalysisResult is the response of the synchronous re-analysis endpoint.
type AnalysisResult struct {
	Exam     *MedicalExam              `json:"exam"`
	Insights []*insights.HealthInsight `json:"insights"`
}

// Analyze runs the analysis synchronously for an exam that has a file and
// has not been processed yet.
func (s *Service) Analyze(ctx context.Context, userID, examID uuid.UUID) (*AnalysisResult, error) {
	exam, err := s.getOwned(ctx, userID, examID)
	if err != nil {
		return nil, err
	}
	if exam.FilePath == nil {
		return nil, ErrNoFile
	}
	if exam.AIProcessed {
		return nil, ErrAlreadyProcessed
	}

	ins, err := s.runAnalysis(ctx, exam)
	if err != nil {
		return nil, err
	}
	return &AnalysisResult{Exam: exam, Insights: ins}, nil
}

// ProcessExam runs the analysis for a background job. Exams already
// processed (e.g. via the synchronous endpoint while the job was queued)
// are skipped without error.
func (s *Service) ProcessExam(ctx context.Context, examID uuid.UUID) error {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrExamNotFound
		}
		return err
	}
	if exam.AIProcessed {
		return nil
	}
	_, err = s.runAnalysis(ctx, exam)
	return err
}

// runAnalysis is the single authoritative analysis path: generate the
// payload, derive risk and status, extract details, and produce the three
// insights. The exam row is mutated exactly once.
func (s *Service) runAnalysis(ctx context.Context, exam *MedicalExam) ([]*insights.HealthInsight, error) {
	analysis := GenerateAnalysis(Classify(exam.Type))
	if analysis == nil {
		exam.Status = StatusIncomplete
		if err := s.exams.Update(ctx, exam); err != nil {
			return nil, fmt.Errorf("saving incomplete exam: %w", err)
		}
		return nil, fmt.Errorf("no analysis payload for exam %s", exam.ID)
	}

	exam.Analysis = analysis
	exam.RiskLevel = analysis.RiskLevel()
	exam.HasAnomaly = analysis.AttentionCount() > 0
	exam.AIProcessed = true
	if exam.RiskLevel == RiskNormal {
		exam.Status = StatusNormal
	} else {
		exam.Status = StatusAttention
	}

	if err := s.exams.Update(ctx, exam); err != nil {
		return nil, fmt.Errorf("saving analysis: %w", err)
	}

	if details := ExtractDetails(exam.ID, analysis); len(details) > 0 {
		if err := s.details.CreateBatch(ctx, details); err != nil {
			return nil, fmt.Errorf("saving details: %w", err)
		}
	}

	ins, err := s.insights.GenerateForExam(ctx, exam.UserID, exam.ID, Findings(analysis))
	if err != nil {
		return nil, fmt.Errorf("generating insights: %w", err)
	}

	s.logger.Info().
		Str("exam_id", exam.ID.String()).
		Str("risk_level", exam.RiskLevel).
		Msg("exam analysis complete")
	return ins, nil
}

func (s *Service) getOwned(ctx context.Context, userID, examID uuid.UUID) (*MedicalExam, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}
	if exam.UserID != userID {
		return nil, ErrNotOwner
	}
	return exam, nil
}
