package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studytrack-backend/internal/models"
)

type SubjectRepo struct {
	pool *pgxpool.Pool
}

func NewSubjectRepo(pool *pgxpool.Pool) *SubjectRepo {
	return &SubjectRepo{pool: pool}
}

// List returns subjects ordered by name. A non-empty search matches name or
// description, case-insensitively.
func (r *SubjectRepo) List(ctx context.Context, search string) ([]*models.Subject, error) {
	query := `SELECT id, name, description, icon, color, created_at FROM subjects`
	args := []interface{}{}
	if s := strings.TrimSpace(search); s != "" {
		query += ` WHERE LOWER(name) LIKE $1 OR LOWER(description) LIKE $1`
		args = append(args, "%"+strings.ToLower(s)+"%")
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subjects := make([]*models.Subject, 0)
	for rows.Next() {
		s := &models.Subject{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Icon, &s.Color, &s.CreatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

func (r *SubjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Subject, error) {
	s := &models.Subject{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, icon, color, created_at FROM subjects WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.Description, &s.Icon, &s.Color, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SubjectRepo) ListTopics(ctx context.Context, subjectID uuid.UUID) ([]*models.Topic, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, subject_id, title, description, order_index, created_at
		FROM topics WHERE subject_id = $1 ORDER BY order_index`, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	topics := make([]*models.Topic, 0)
	for rows.Next() {
		t := &models.Topic{}
		if err := rows.Scan(&t.ID, &t.SubjectID, &t.Title, &t.Description, &t.OrderIndex, &t.CreatedAt); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

func (r *SubjectRepo) GetTopic(ctx context.Context, id uuid.UUID) (*models.Topic, error) {
	t := &models.Topic{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, subject_id, title, description, order_index, created_at
		FROM topics WHERE id = $1`, id,
	).Scan(&t.ID, &t.SubjectID, &t.Title, &t.Description, &t.OrderIndex, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}
