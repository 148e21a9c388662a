package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"studytrack-backend/internal/models"
	"studytrack-backend/internal/repository"
)

type memSessions struct {
	sessions []*models.StudySession
	listErr  error
	startErr error
}

func (m *memSessions) Start(ctx context.Context, s *models.StudySession) error {
	if m.startErr != nil {
		return m.startErr
	}
	s.ID = uuid.New()
	s.CreatedAt = s.StartTime
	m.sessions = append([]*models.StudySession{s}, m.sessions...)
	return nil
}

func (m *memSessions) End(ctx context.Context, sessionID, userID uuid.UUID, endTime time.Time, durationMinutes int, notes *string) error {
	for _, s := range m.sessions {
		if s.ID == sessionID && s.UserID == userID && s.EndTime == nil {
			s.EndTime = &endTime
			s.DurationMinutes = &durationMinutes
			if notes != nil {
				s.Notes = notes
			}
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *memSessions) GetByID(ctx context.Context, sessionID, userID uuid.UUID) (*models.StudySession, error) {
	for _, s := range m.sessions {
		if s.ID == sessionID && s.UserID == userID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memSessions) GetActive(ctx context.Context, userID uuid.UUID) (*models.StudySession, error) {
	for _, s := range m.sessions {
		if s.UserID == userID && s.EndTime == nil {
			return s, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memSessions) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.StudySession, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []*models.StudySession{}
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memSessions) ListStartedSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*models.StudySession, error) {
	all, err := m.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	out := []*models.StudySession{}
	for _, s := range all {
		if !s.StartTime.Before(since) {
			out = append(out, s)
		}
	}
	return out, nil
}

type memCatalog struct {
	subjects []*models.Subject
	topics   []*models.Topic
}

func (m *memCatalog) List(ctx context.Context, search string) ([]*models.Subject, error) {
	return m.subjects, nil
}

func (m *memCatalog) GetByID(ctx context.Context, id uuid.UUID) (*models.Subject, error) {
	for _, s := range m.subjects {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memCatalog) GetTopic(ctx context.Context, id uuid.UUID) (*models.Topic, error) {
	for _, t := range m.topics {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type recordingPublisher struct{ types []string }

func (p *recordingPublisher) Publish(ctx context.Context, userID uuid.UUID, msg models.WSMessage) {
	p.types = append(p.types, msg.Type)
}

func newTestTracker(now time.Time) (*TrackerService, *memSessions, *memCatalog, *recordingPublisher) {
	sessions := &memSessions{}
	physics := &models.Subject{ID: uuid.New(), Name: "Physics", Color: "#f97316"}
	catalog := &memCatalog{
		subjects: []*models.Subject{physics},
		topics:   []*models.Topic{{ID: uuid.New(), SubjectID: physics.ID, Title: "Optics"}},
	}
	events := &recordingPublisher{}
	svc := NewTrackerService(sessions, catalog, events, nil)
	svc.now = func() time.Time { return now }
	return svc, sessions, catalog, events
}

func TestTracker_StartRequiresSubject(t *testing.T) {
	svc, sessions, _, _ := newTestTracker(time.Now())

	_, err := svc.Start(context.Background(), uuid.New(), models.StartSessionRequest{})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["subject_id"] == "" {
		t.Fatalf("expected subject_id validation error, got %v", err)
	}
	if len(sessions.sessions) != 0 {
		t.Fatalf("no session should be stored")
	}
}

func TestTracker_StartUnknownSubject(t *testing.T) {
	svc, _, _, _ := newTestTracker(time.Now())

	_, err := svc.Start(context.Background(), uuid.New(), models.StartSessionRequest{SubjectID: uuid.NewString()})
	if _, ok := err.(*NotFoundError); !ok {
		t.Fatalf("expected NotFoundError, got %T", err)
	}
}

func TestTracker_StartAndEnd(t *testing.T) {
	start := time.Date(2026, 2, 18, 10, 0, 0, 0, time.UTC)
	svc, sessions, catalog, events := newTestTracker(start)
	userID := uuid.New()
	subject := catalog.subjects[0]

	session, err := svc.Start(context.Background(), userID, models.StartSessionRequest{
		SubjectID: subject.ID.String(),
		TopicID:   catalog.topics[0].ID.String(),
		Notes:     "  chapter 9  ",
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !session.Active() || !session.StartTime.Equal(start) {
		t.Fatalf("expected running session starting at server time, got %+v", session)
	}
	if session.Notes == nil || *session.Notes != "chapter 9" {
		t.Fatalf("expected trimmed notes")
	}
	if session.Subject == nil || session.Subject.Name != "Physics" {
		t.Fatalf("expected subject ref on the session")
	}

	_, err = svc.Start(context.Background(), userID, models.StartSessionRequest{SubjectID: subject.ID.String()})
	if _, ok := err.(*ConflictError); !ok {
		t.Fatalf("expected ConflictError for a second start, got %v", err)
	}

	svc.now = func() time.Time { return start.Add(47*time.Minute + 59*time.Second) }
	done := "finished"
	ended, err := svc.End(context.Background(), userID, session.ID, models.EndSessionRequest{Notes: &done})
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if ended.DurationMinutes == nil || *ended.DurationMinutes != 47 {
		t.Fatalf("expected 47 truncated minutes, got %v", ended.DurationMinutes)
	}
	if sessions.sessions[0].EndTime == nil {
		t.Fatalf("expected the stored session to be ended")
	}

	_, err = svc.End(context.Background(), userID, session.ID, models.EndSessionRequest{})
	if _, ok := err.(*ConflictError); !ok {
		t.Fatalf("expected ConflictError for ending twice, got %v", err)
	}

	if len(events.types) != 2 || events.types[0] != models.WSSessionStarted || events.types[1] != models.WSSessionEnded {
		t.Fatalf("unexpected events: %v", events.types)
	}
}

func TestTracker_StartRaceMapsToConflict(t *testing.T) {
	svc, sessions, catalog, _ := newTestTracker(time.Now())
	sessions.startErr = repository.ErrActiveSession

	_, err := svc.Start(context.Background(), uuid.New(), models.StartSessionRequest{SubjectID: catalog.subjects[0].ID.String()})
	if _, ok := err.(*ConflictError); !ok {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestTracker_TopicMustBelongToSubject(t *testing.T) {
	svc, _, catalog, _ := newTestTracker(time.Now())
	chemistry := &models.Subject{ID: uuid.New(), Name: "Chemistry"}
	catalog.subjects = append(catalog.subjects, chemistry)

	_, err := svc.Start(context.Background(), uuid.New(), models.StartSessionRequest{
		SubjectID: chemistry.ID.String(),
		TopicID:   catalog.topics[0].ID.String(),
	})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["topic_id"] == "" {
		t.Fatalf("expected topic_id validation error, got %v", err)
	}
}

func TestTracker_EndUnknownSession(t *testing.T) {
	svc, _, _, _ := newTestTracker(time.Now())

	_, err := svc.End(context.Background(), uuid.New(), uuid.New(), models.EndSessionRequest{})
	if _, ok := err.(*NotFoundError); !ok {
		t.Fatalf("expected NotFoundError, got %T", err)
	}
}

func TestTracker_Overview(t *testing.T) {
	now := time.Date(2026, 2, 18, 12, 0, 0, 0, time.UTC) // Wednesday
	svc, sessions, catalog, _ := newTestTracker(now)
	userID := uuid.New()
	physics := catalog.subjects[0]

	mk := func(start time.Time, minutes int) *models.StudySession {
		end := start.Add(time.Duration(minutes) * time.Minute)
		return &models.StudySession{ID: uuid.New(), UserID: userID, SubjectID: physics.ID, StartTime: start, EndTime: &end, DurationMinutes: &minutes}
	}
	sessions.sessions = []*models.StudySession{
		{ID: uuid.New(), UserID: userID, SubjectID: physics.ID, StartTime: now.Add(-5 * time.Minute)},
		mk(now.Add(-24*time.Hour), 50),
		mk(now.Add(-48*time.Hour), 25),
		mk(now.Add(-10*24*time.Hour), 90), // previous week
	}

	ov, err := svc.Overview(context.Background(), userID)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if ov.Weekly.TotalMinutes != 75 || ov.WeeklyDisplay != "1h 15m" {
		t.Fatalf("expected 75 minutes this week, got %d (%s)", ov.Weekly.TotalMinutes, ov.WeeklyDisplay)
	}
	if ov.CompletedCount != 3 || ov.AverageMinutes != 55 {
		t.Fatalf("expected 3 completed averaging 55, got %d / %d", ov.CompletedCount, ov.AverageMinutes)
	}
	if len(ov.Recent) != 3 {
		t.Fatalf("expected 3 recent completed sessions, got %d", len(ov.Recent))
	}
	if ov.Active == nil || ov.Active.ElapsedMinutes != 5 || ov.Active.Display != "00:05" {
		t.Fatalf("unexpected active view: %+v", ov.Active)
	}
}

func TestTracker_OverviewTransportError(t *testing.T) {
	svc, sessions, _, _ := newTestTracker(time.Now())
	sessions.listErr = errors.New("connection refused")

	_, err := svc.Overview(context.Background(), uuid.New())
	var terr *TransportError
	if !errors.As(err, &terr) || terr.Op != "load study sessions" {
		t.Fatalf("expected TransportError, got %v", err)
	}
}
