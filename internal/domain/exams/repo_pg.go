package exams

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// =========== Exam Repository ===========

type examRepoPG struct{ pool *pgxpool.Pool }

func NewExamRepoPG(pool *pgxpool.Pool) ExamRepository {
	return &examRepoPG{pool: pool}
}

func (r *examRepoPG) conn(ctx context.Context) queryable { return r.pool }

const examCols = `id, user_id, name, type, exam_date, file_path, original_file_name,
	status, analysis, has_anomaly, risk_level, ai_processed, created_at, updated_at`

func scanExam(row pgx.Row) (*MedicalExam, error) {
	var e MedicalExam
	var analysisJSON []byte
	err := row.Scan(&e.ID, &e.UserID, &e.Name, &e.Type, &e.ExamDate, &e.FilePath, &e.OriginalFileName,
		&e.Status, &analysisJSON, &e.HasAnomaly, &e.RiskLevel, &e.AIProcessed, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(analysisJSON) > 0 {
		var a Analysis
		if err := json.Unmarshal(analysisJSON, &a); err != nil {
			return nil, fmt.Errorf("decoding analysis payload: %w", err)
		}
		e.Analysis = &a
	}
	return &e, nil
}

func marshalAnalysis(a *Analysis) (interface{}, error) {
	if a == nil {
		return nil, nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encoding analysis payload: %w", err)
	}
	return data, nil
}

func (r *examRepoPG) Create(ctx context.Context, e *MedicalExam) error {
	e.ID = uuid.New()
	if e.Status == "" {
		e.Status = StatusAnalyzing
	}
	if e.RiskLevel == "" {
		e.RiskLevel = RiskNormal
	}
	analysisJSON, err := marshalAnalysis(e.Analysis)
	if err != nil {
		return err
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO medical_exams (id, user_id, name, type, exam_date, file_path, original_file_name,
			status, analysis, has_anomaly, risk_level, ai_processed)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING created_at, updated_at`,
		e.ID, e.UserID, e.Name, e.Type, e.ExamDate, e.FilePath, e.OriginalFileName,
		e.Status, analysisJSON, e.HasAnomaly, e.RiskLevel, e.AIProcessed).
		Scan(&e.CreatedAt, &e.UpdatedAt)
}

func (r *examRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*MedicalExam, error) {
	return scanExam(r.conn(ctx).QueryRow(ctx, `SELECT `+examCols+` FROM medical_exams WHERE id = $1`, id))
}

func (r *examRepoPG) Update(ctx context.Context, e *MedicalExam) error {
	analysisJSON, err := marshalAnalysis(e.Analysis)
	if err != nil {
		return err
	}
	_, err = r.conn(ctx).Exec(ctx, `
		UPDATE medical_exams
		SET name = $2, type = $3, exam_date = $4, file_path = $5, original_file_name = $6,
			status = $7, analysis = $8, has_anomaly = $9, risk_level = $10, ai_processed = $11,
			updated_at = now()
		WHERE id = $1`,
		e.ID, e.Name, e.Type, e.ExamDate, e.FilePath, e.OriginalFileName,
		e.Status, analysisJSON, e.HasAnomaly, e.RiskLevel, e.AIProcessed)
	return err
}

func (r *examRepoPG) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*MedicalExam, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT count(*) FROM medical_exams WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+examCols+` FROM medical_exams
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []*MedicalExam
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, e)
	}
	return result, total, rows.Err()
}

// =========== Detail Repository ===========

type detailRepoPG struct{ pool *pgxpool.Pool }

func NewDetailRepoPG(pool *pgxpool.Pool) DetailRepository {
	return &detailRepoPG{pool: pool}
}

func (r *detailRepoPG) conn(ctx context.Context) queryable { return r.pool }

func (r *detailRepoPG) CreateBatch(ctx context.Context, details []*ExamDetail) error {
	for _, d := range details {
		d.ID = uuid.New()
		err := r.conn(ctx).QueryRow(ctx, `
			INSERT INTO exam_details (id, exam_id, category, name, value, unit, reference_range, status, observation)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
			RETURNING created_at`,
			d.ID, d.ExamID, d.Category, d.Name, d.Value, d.Unit, d.ReferenceRange, d.Status, d.Observation).
			Scan(&d.CreatedAt)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *detailRepoPG) ListByExam(ctx context.Context, examID uuid.UUID) ([]*ExamDetail, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, exam_id, category, name, value, unit, reference_range, status, observation, created_at
		FROM exam_details
		WHERE exam_id = $1
		ORDER BY created_at, name`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*ExamDetail
	for rows.Next() {
		var d ExamDetail
		if err := rows.Scan(&d.ID, &d.ExamID, &d.Category, &d.Name, &d.Value, &d.Unit,
			&d.ReferenceRange, &d.Status, &d.Observation, &d.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &d)
	}
	return result, rows.Err()
}

// =========== Job Repository ===========

type jobRepoPG struct{ pool *pgxpool.Pool }

func NewJobRepoPG(pool *pgxpool.Pool) JobRepository {
	return &jobRepoPG{pool: pool}
}

func (r *jobRepoPG) conn(ctx context.Context) queryable { return r.pool }

const jobCols = `id, exam_id, status, attempts, error, created_at, updated_at`

func scanJob(row pgx.Row) (*AnalysisJob, error) {
	var j AnalysisJob
	err := row.Scan(&j.ID, &j.ExamID, &j.Status, &j.Attempts, &j.Error, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *jobRepoPG) Create(ctx context.Context, job *AnalysisJob) error {
	job.ID = uuid.New()
	if job.Status == "" {
		job.Status = JobPending
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO analysis_jobs (id, exam_id, status, attempts)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at, updated_at`,
		job.ID, job.ExamID, job.Status, job.Attempts).
		Scan(&job.CreatedAt, &job.UpdatedAt)
}

func (r *jobRepoPG) ClaimNext(ctx context.Context, staleBefore time.Time) (*AnalysisJob, error) {
	job, err := scanJob(r.conn(ctx).QueryRow(ctx, `
		UPDATE analysis_jobs
		SET status = 'running', attempts = attempts + 1, updated_at = now()
		WHERE id = (
			SELECT id FROM analysis_jobs
			WHERE status = 'pending' OR (status = 'running' AND updated_at < $1)
			ORDER BY created_at
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING `+jobCols, staleBefore))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return job, nil
}

func (r *jobRepoPG) MarkDone(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE analysis_jobs SET status = 'done', error = NULL, updated_at = now() WHERE id = $1`, id)
	return err
}

func (r *jobRepoPG) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE analysis_jobs SET status = 'failed', error = $2, updated_at = now() WHERE id = $1`, id, errMsg)
	return err
}

func (r *jobRepoPG) GetByExam(ctx context.Context, examID uuid.UUID) (*AnalysisJob, error) {
	return scanJob(r.conn(ctx).QueryRow(ctx, `
		SELECT `+jobCols+` FROM analysis_jobs WHERE exam_id = $1 ORDER BY created_at DESC LIMIT 1`, examID))
}
