package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studytrack-backend/internal/models"
)

type QuizRepo struct {
	pool *pgxpool.Pool
}

func NewQuizRepo(pool *pgxpool.Pool) *QuizRepo {
	return &QuizRepo{pool: pool}
}

// SaveResult records a completed attempt once. Repeated saves for the same
// attempt are ignored.
func (r *QuizRepo) SaveResult(ctx context.Context, res *models.QuizResult) error {
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO quiz_results (id, user_id, topic_id, attempt_id, score, total, percent, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (attempt_id) DO NOTHING`,
		res.ID, res.UserID, res.TopicID, res.AttemptID, res.Score, res.Total, res.Percent, res.CompletedAt,
	)
	return err
}

// ListResults returns results newest first, optionally narrowed to one topic.
func (r *QuizRepo) ListResults(ctx context.Context, userID uuid.UUID, topicID *uuid.UUID) ([]*models.QuizResult, error) {
	query := `SELECT id, user_id, topic_id, attempt_id, score, total, percent, completed_at
		FROM quiz_results WHERE user_id = $1`
	args := []interface{}{userID}
	if topicID != nil {
		query += ` AND topic_id = $2`
		args = append(args, *topicID)
	}
	query += ` ORDER BY completed_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]*models.QuizResult, 0)
	for rows.Next() {
		res := &models.QuizResult{}
		if err := rows.Scan(&res.ID, &res.UserID, &res.TopicID, &res.AttemptID, &res.Score, &res.Total, &res.Percent, &res.CompletedAt); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
