package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studytrack-backend/internal/models"
)

type NoteRepo struct {
	pool *pgxpool.Pool
}

func NewNoteRepo(pool *pgxpool.Pool) *NoteRepo {
	return &NoteRepo{pool: pool}
}

func (r *NoteRepo) ListByTopic(ctx context.Context, topicID uuid.UUID) ([]*models.Note, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, topic_id, title, content, short_notes, mind_map_url, note_type, created_at
		FROM notes WHERE topic_id = $1 ORDER BY created_at`, topicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]*models.Note, 0)
	for rows.Next() {
		n := &models.Note{}
		if err := rows.Scan(&n.ID, &n.TopicID, &n.Title, &n.Content, &n.ShortNotes, &n.MindMapURL, &n.NoteType, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
