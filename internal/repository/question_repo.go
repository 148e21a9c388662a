package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studytrack-backend/internal/models"
)

type QuestionRepo struct {
	pool *pgxpool.Pool
}

func NewQuestionRepo(pool *pgxpool.Pool) *QuestionRepo {
	return &QuestionRepo{pool: pool}
}

func (r *QuestionRepo) ListByTopic(ctx context.Context, topicID uuid.UUID) ([]models.PracticeQuestion, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, topic_id, question, options, correct_answer, explanation, difficulty, created_at
		FROM practice_questions WHERE topic_id = $1 ORDER BY created_at, id`, topicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := make([]models.PracticeQuestion, 0)
	for rows.Next() {
		var q models.PracticeQuestion
		if err := rows.Scan(&q.ID, &q.TopicID, &q.Question, &q.Options, &q.CorrectAnswer, &q.Explanation, &q.Difficulty, &q.CreatedAt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
