package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"

	"studytrack-backend/internal/models"
)

// CatalogWriter upserts reference data inside a caller-owned transaction.
// Rows are matched on their natural keys so a catalog can be re-imported.
type CatalogWriter struct {
	tx pgx.Tx
}

func NewCatalogWriter(tx pgx.Tx) *CatalogWriter {
	return &CatalogWriter{tx: tx}
}

func (w *CatalogWriter) UpsertSubject(ctx context.Context, s *models.Subject) error {
	return w.tx.QueryRow(ctx, `
		INSERT INTO subjects (name, description, icon, color)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE
		SET description = EXCLUDED.description, icon = EXCLUDED.icon, color = EXCLUDED.color
		RETURNING id, created_at`,
		s.Name, s.Description, s.Icon, s.Color,
	).Scan(&s.ID, &s.CreatedAt)
}

func (w *CatalogWriter) UpsertTopic(ctx context.Context, t *models.Topic) error {
	return w.tx.QueryRow(ctx, `
		INSERT INTO topics (subject_id, title, description, order_index)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (subject_id, title) DO UPDATE
		SET description = EXCLUDED.description, order_index = EXCLUDED.order_index
		RETURNING id, created_at`,
		t.SubjectID, t.Title, t.Description, t.OrderIndex,
	).Scan(&t.ID, &t.CreatedAt)
}

func (w *CatalogWriter) UpsertNote(ctx context.Context, n *models.Note) error {
	return w.tx.QueryRow(ctx, `
		INSERT INTO notes (topic_id, title, content, short_notes, mind_map_url, note_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (topic_id, title) DO UPDATE
		SET content = EXCLUDED.content, short_notes = EXCLUDED.short_notes,
			mind_map_url = EXCLUDED.mind_map_url, note_type = EXCLUDED.note_type
		RETURNING id, created_at`,
		n.TopicID, n.Title, n.Content, n.ShortNotes, n.MindMapURL, n.NoteType,
	).Scan(&n.ID, &n.CreatedAt)
}

func (w *CatalogWriter) UpsertQuestion(ctx context.Context, q *models.PracticeQuestion) error {
	optionsBytes, err := json.Marshal(q.Options)
	if err != nil {
		return err
	}
	return w.tx.QueryRow(ctx, `
		INSERT INTO practice_questions (topic_id, question, options, correct_answer, explanation, difficulty)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (topic_id, question) DO UPDATE
		SET options = EXCLUDED.options, correct_answer = EXCLUDED.correct_answer,
			explanation = EXCLUDED.explanation, difficulty = EXCLUDED.difficulty
		RETURNING id, created_at`,
		q.TopicID, q.Question, optionsBytes, q.CorrectAnswer, q.Explanation, q.Difficulty,
	).Scan(&q.ID, &q.CreatedAt)
}
