package catalog

import (
	"context"
	"fmt"
	"strings"

	"studytrack-backend/internal/models"
)

type Writer interface {
	UpsertSubject(ctx context.Context, s *models.Subject) error
	UpsertTopic(ctx context.Context, t *models.Topic) error
	UpsertNote(ctx context.Context, n *models.Note) error
	UpsertQuestion(ctx context.Context, q *models.PracticeQuestion) error
}

type Summary struct {
	Subjects  int
	Topics    int
	Notes     int
	Questions int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d subjects, %d topics, %d notes, %d questions", s.Subjects, s.Topics, s.Notes, s.Questions)
}

// Import upserts the whole catalog through w. Callers run it inside one
// transaction so a failed import leaves the database unchanged.
func Import(ctx context.Context, w Writer, f *File) (Summary, error) {
	var sum Summary

	for _, s := range f.Subjects {
		subject := &models.Subject{
			Name:        strings.TrimSpace(s.Name),
			Description: s.Description,
			Icon:        s.Icon,
			Color:       s.Color,
		}
		if err := w.UpsertSubject(ctx, subject); err != nil {
			return sum, fmt.Errorf("subject %q: %w", subject.Name, err)
		}
		sum.Subjects++

		for ti, t := range s.Topics {
			order := ti
			if t.Order != nil {
				order = *t.Order
			}
			topic := &models.Topic{
				SubjectID:   subject.ID,
				Title:       strings.TrimSpace(t.Title),
				Description: t.Description,
				OrderIndex:  order,
			}
			if err := w.UpsertTopic(ctx, topic); err != nil {
				return sum, fmt.Errorf("topic %q: %w", topic.Title, err)
			}
			sum.Topics++

			for _, n := range t.Notes {
				note := &models.Note{
					TopicID:    topic.ID,
					Title:      strings.TrimSpace(n.Title),
					Content:    n.Content,
					ShortNotes: n.ShortNotes,
					MindMapURL: n.MindMapURL,
					NoteType:   noteType(n),
				}
				if err := w.UpsertNote(ctx, note); err != nil {
					return sum, fmt.Errorf("note %q: %w", note.Title, err)
				}
				sum.Notes++
			}

			for _, q := range t.Questions {
				question := &models.PracticeQuestion{
					TopicID:       topic.ID,
					Question:      strings.TrimSpace(q.Question),
					Options:       q.Options,
					CorrectAnswer: q.CorrectAnswer,
					Explanation:   q.Explanation,
					Difficulty:    difficulty(q),
				}
				if err := w.UpsertQuestion(ctx, question); err != nil {
					return sum, fmt.Errorf("question %q: %w", question.Question, err)
				}
				sum.Questions++
			}
		}
	}

	return sum, nil
}
