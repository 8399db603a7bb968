package insights

import (
	"context"
	"fmt"

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

type insightRepoPG struct{ pool *pgxpool.Pool }

func NewInsightRepoPG(pool *pgxpool.Pool) InsightRepository {
	return &insightRepoPG{pool: pool}
}

func (r *insightRepoPG) conn(ctx context.Context) queryable { return r.pool }

const insightCols = `id, user_id, exam_id, category, title, description, recommendation,
	severity, status, ai_generated, data, created_at, updated_at`

func scanInsight(row pgx.Row) (*HealthInsight, error) {
	var ins HealthInsight
	err := row.Scan(&ins.ID, &ins.UserID, &ins.ExamID, &ins.Category, &ins.Title,
		&ins.Description, &ins.Recommendation, &ins.Severity, &ins.Status,
		&ins.AIGenerated, &ins.Data, &ins.CreatedAt, &ins.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &ins, nil
}

func (r *insightRepoPG) Create(ctx context.Context, ins *HealthInsight) error {
	ins.ID = uuid.New()
	if ins.Status == "" {
		ins.Status = StatusActive
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO health_insights (id, user_id, exam_id, category, title, description,
			recommendation, severity, status, ai_generated, data)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING created_at, updated_at`,
		ins.ID, ins.UserID, ins.ExamID, ins.Category, ins.Title, ins.Description,
		ins.Recommendation, ins.Severity, ins.Status, ins.AIGenerated, ins.Data).
		Scan(&ins.CreatedAt, &ins.UpdatedAt)
}

func (r *insightRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*HealthInsight, error) {
	return scanInsight(r.conn(ctx).QueryRow(ctx, `SELECT `+insightCols+` FROM health_insights WHERE id = $1`, id))
}

func (r *insightRepoPG) Update(ctx context.Context, ins *HealthInsight) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE health_insights
		SET status = $2, updated_at = now()
		WHERE id = $1`,
		ins.ID, ins.Status)
	return err
}

func (r *insightRepoPG) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*HealthInsight, int, error) {
	return r.list(ctx, `user_id = $1`, []interface{}{userID}, limit, offset)
}

func (r *insightRepoPG) ListByCategory(ctx context.Context, userID uuid.UUID, category string, limit, offset int) ([]*HealthInsight, int, error) {
	return r.list(ctx, `user_id = $1 AND category = $2`, []interface{}{userID, category}, limit, offset)
}

func (r *insightRepoPG) ListByExam(ctx context.Context, examID uuid.UUID) ([]*HealthInsight, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+insightCols+` FROM health_insights WHERE exam_id = $1 ORDER BY category`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*HealthInsight
	for rows.Next() {
		ins, err := scanInsight(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, ins)
	}
	return result, rows.Err()
}

func (r *insightRepoPG) list(ctx context.Context, where string, args []interface{}, limit, offset int) ([]*HealthInsight, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT count(*) FROM health_insights WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM health_insights WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		insightCols, where, len(args)+1, len(args)+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []*HealthInsight
	for rows.Next() {
		ins, err := scanInsight(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, ins)
	}
	return result, total, rows.Err()
}
