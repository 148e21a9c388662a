package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"studytrack-backend/internal/catalog"
	"studytrack-backend/internal/models"
)

const sample = `
subjects:
  - name: Physics
    color: "#3b82f6"
    topics:
      - title: Kinematics
        notes:
          - title: Motion in a straight line
            content: Velocity is the rate of change of displacement.
          - title: Formula sheet
            type: short
            short_notes: v = u + at
        questions:
          - question: SI unit of acceleration?
            options: ["m/s", "m/s²", "N"]
            correct_answer: 1
            difficulty: easy
      - title: Laws of Motion
        order: 5
`

func TestParseAndValidate(t *testing.T) {
	f, err := catalog.Parse([]byte(sample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := f.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	got := f.Counts()
	want := catalog.Summary{Subjects: 1, Topics: 2, Notes: 2, Questions: 1}
	if got != want {
		t.Errorf("counts = %+v, want %+v", got, want)
	}
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := catalog.Parse([]byte("subjects:\n  - name: Physics\n    colour: red\n"))
	if err == nil {
		t.Fatal("expected an error for an unknown key")
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	f := &catalog.File{Subjects: []catalog.Subject{{
		Name: "Chemistry",
		Topics: []catalog.Topic{{
			Title: "Atoms",
			Notes: []catalog.Note{{Title: "Map", Type: "mindmap"}},
			Questions: []catalog.Question{
				{Question: "Only one option", Options: []string{"a"}},
				{Question: "Index too big", Options: []string{"a", "b"}, CorrectAnswer: 2},
				{Question: "Bad difficulty", Options: []string{"a", "b"}, Difficulty: "impossible"},
			},
		}},
	}}}

	err := f.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{
		"notes[0]: mind_map_url is required",
		"questions[0]: at least 2 options",
		"questions[1]: correct_answer 2 is out of range",
		"questions[2]: difficulty must be",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("missing %q in:\n%v", want, err)
		}
	}
}

func TestValidate_DuplicateTopic(t *testing.T) {
	f := &catalog.File{Subjects: []catalog.Subject{{
		Name:   "Biology",
		Topics: []catalog.Topic{{Title: "Cells"}, {Title: "Cells"}},
	}}}
	if err := f.Validate(); err == nil || !strings.Contains(err.Error(), "duplicate topic") {
		t.Fatalf("expected duplicate topic error, got %v", err)
	}
}

func TestLoad_ReadsContentFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "optics.txt"), []byte("  Light travels in straight lines.  \r\n\r\n\r\nReflection.\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	yml := `
subjects:
  - name: Physics
    topics:
      - title: Optics
        notes:
          - title: Ray optics
            content_file: optics.txt
`
	path := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := catalog.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := f.Subjects[0].Topics[0].Notes[0].Content
	if got != "Light travels in straight lines.\n\nReflection." {
		t.Errorf("unexpected content %q", got)
	}
}

func TestExtractText_Unsupported(t *testing.T) {
	if _, err := catalog.ExtractText("slides.pptx"); err == nil {
		t.Fatal("expected unsupported type error")
	}
}

type memWriter struct {
	subjects  []*models.Subject
	topics    []*models.Topic
	notes     []*models.Note
	questions []*models.PracticeQuestion
	failOn    string
}

func (m *memWriter) UpsertSubject(ctx context.Context, s *models.Subject) error {
	s.ID = uuid.New()
	m.subjects = append(m.subjects, s)
	return nil
}

func (m *memWriter) UpsertTopic(ctx context.Context, t *models.Topic) error {
	t.ID = uuid.New()
	m.topics = append(m.topics, t)
	return nil
}

func (m *memWriter) UpsertNote(ctx context.Context, n *models.Note) error {
	n.ID = uuid.New()
	m.notes = append(m.notes, n)
	return nil
}

func (m *memWriter) UpsertQuestion(ctx context.Context, q *models.PracticeQuestion) error {
	if m.failOn == q.Question {
		return errors.New("insert failed")
	}
	q.ID = uuid.New()
	m.questions = append(m.questions, q)
	return nil
}

func TestImport(t *testing.T) {
	f, err := catalog.Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}

	w := &memWriter{}
	sum, err := catalog.Import(context.Background(), w, f)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if sum.String() != "1 subjects, 2 topics, 2 notes, 1 questions" {
		t.Errorf("unexpected summary %q", sum)
	}

	if w.topics[0].SubjectID != w.subjects[0].ID {
		t.Error("topic must reference its subject")
	}
	if w.topics[0].OrderIndex != 0 || w.topics[1].OrderIndex != 5 {
		t.Errorf("order index = %d, %d, want 0, 5", w.topics[0].OrderIndex, w.topics[1].OrderIndex)
	}
	if w.notes[0].NoteType != models.NoteTypeFull || w.notes[1].NoteType != models.NoteTypeShort {
		t.Errorf("note types = %q, %q", w.notes[0].NoteType, w.notes[1].NoteType)
	}
	if w.questions[0].TopicID != w.topics[0].ID || w.questions[0].CorrectAnswer != 1 {
		t.Errorf("unexpected question %+v", w.questions[0])
	}
}

func TestImport_StopsOnError(t *testing.T) {
	f, _ := catalog.Parse([]byte(sample))
	w := &memWriter{failOn: "SI unit of acceleration?"}

	_, err := catalog.Import(context.Background(), w, f)
	if err == nil || !strings.Contains(err.Error(), "SI unit of acceleration?") {
		t.Fatalf("expected wrapped question error, got %v", err)
	}
	if len(w.topics) != 1 {
		t.Errorf("import should stop at the failing question, got %d topics", len(w.topics))
	}
}
