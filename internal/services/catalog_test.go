package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"studytrack-backend/internal/models"
)

type memCatalogReader struct {
	memCatalog
	topicsBySubject map[uuid.UUID][]*models.Topic
}

func (m *memCatalogReader) ListTopics(ctx context.Context, subjectID uuid.UUID) ([]*models.Topic, error) {
	return m.topicsBySubject[subjectID], nil
}

type memNotes struct{}

func (memNotes) ListByTopic(ctx context.Context, topicID uuid.UUID) ([]*models.Note, error) {
	return []*models.Note{}, nil
}

func TestCatalogService_NotFoundAndEmpty(t *testing.T) {
	subject := &models.Subject{ID: uuid.New(), Name: "Biology"}
	topic := &models.Topic{ID: uuid.New(), SubjectID: subject.ID}
	reader := &memCatalogReader{
		memCatalog: memCatalog{subjects: []*models.Subject{subject}, topics: []*models.Topic{topic}},
	}
	questions := &memQuestions{byTopic: map[uuid.UUID][]models.PracticeQuestion{
		topic.ID: {question(topic.ID, "Powerhouse of the cell?", 2)},
	}}
	svc := NewCatalogService(reader, memNotes{}, questions)
	ctx := context.Background()

	if _, err := svc.Topics(ctx, uuid.New()); err == nil {
		t.Fatalf("expected NotFoundError for unknown subject")
	} else if _, ok := err.(*NotFoundError); !ok {
		t.Fatalf("expected NotFoundError, got %T", err)
	}

	notes, err := svc.Notes(ctx, topic.ID)
	if err != nil || notes == nil || len(notes) != 0 {
		t.Fatalf("expected empty, non-nil notes, got %v, %v", notes, err)
	}

	qs, err := svc.Questions(ctx, topic.ID)
	if err != nil || len(qs) != 1 || qs[0].Question != "Powerhouse of the cell?" {
		t.Fatalf("unexpected questions: %+v, %v", qs, err)
	}

	if _, err := svc.Questions(ctx, uuid.New()); err == nil {
		t.Fatalf("expected NotFoundError for unknown topic")
	}
}

