package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"studytrack-backend/internal/models"
	"studytrack-backend/internal/repository"
	"studytrack-backend/internal/stats"
)

func TestShouldSendByLastSent(t *testing.T) {
	now := time.Date(2026, 2, 16, 10, 0, 0, 0, time.UTC)

	if !shouldSendByLastSent("", 24*time.Hour, now) {
		t.Fatalf("expected empty last-sent value to allow sending")
	}

	if !shouldSendByLastSent("not-a-date", 24*time.Hour, now) {
		t.Fatalf("expected invalid timestamp to allow sending")
	}

	recent := now.Add(-2 * time.Hour).Format(time.RFC3339)
	if shouldSendByLastSent(recent, 24*time.Hour, now) {
		t.Fatalf("expected recent send timestamp to block sending")
	}

	old := now.Add(-48 * time.Hour).Format(time.RFC3339)
	if !shouldSendByLastSent(old, 24*time.Hour, now) {
		t.Fatalf("expected old send timestamp to allow sending")
	}
}

func TestReminderReferenceTime(t *testing.T) {
	created := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	reference := reminderReferenceTime(nil, created)
	if !reference.Equal(created) {
		t.Fatalf("expected created_at as fallback reference time")
	}

	lastActivity := time.Date(2026, 2, 10, 18, 0, 0, 0, time.UTC)
	reference = reminderReferenceTime(&lastActivity, created)
	if !reference.Equal(lastActivity) {
		t.Fatalf("expected last_activity_at to be preferred reference time")
	}
}

func endedSession(subjectID uuid.UUID, start time.Time, minutes int) *models.StudySession {
	end := start.Add(time.Duration(minutes) * time.Minute)
	return &models.StudySession{
		ID:              uuid.New(),
		SubjectID:       subjectID,
		StartTime:       start,
		EndTime:         &end,
		DurationMinutes: &minutes,
	}
}

func TestBuildDigest(t *testing.T) {
	physics := &models.Subject{ID: uuid.New(), Name: "Physics"}
	maths := &models.Subject{ID: uuid.New(), Name: "Mathematics"}
	weekStart := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC) // Monday

	sessions := []*models.StudySession{
		endedSession(physics.ID, weekStart.Add(10*time.Hour), 90),
		endedSession(maths.ID, weekStart.Add(34*time.Hour), 30),
		endedSession(maths.ID, weekStart.Add(8*24*time.Hour), 500), // next week
	}

	digest, ok := buildDigest(weekStart, sessions, []*models.Subject{physics, maths}, stats.DefaultWeekConfig())
	if !ok {
		t.Fatalf("expected digest")
	}
	if digest.TotalMinutes != 120 {
		t.Fatalf("expected 120 minutes, got %d", digest.TotalMinutes)
	}
	if digest.SessionCount != 2 || digest.AverageMinutes != 60 {
		t.Fatalf("expected 2 sessions averaging 60, got %d / %d", digest.SessionCount, digest.AverageMinutes)
	}
	if len(digest.Subjects) != 2 || digest.Subjects[0].Name != "Physics" || digest.Subjects[0].Percentage != 75 {
		t.Fatalf("unexpected subjects: %+v", digest.Subjects)
	}
}

func TestBuildDigest_EmptyWeekSkipped(t *testing.T) {
	weekStart := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)
	if _, ok := buildDigest(weekStart, nil, nil, stats.DefaultWeekConfig()); ok {
		t.Fatalf("expected no digest for an empty week")
	}
}

func TestRecipientWeek(t *testing.T) {
	fallback := stats.DefaultWeekConfig()

	if got := recipientWeek("", fallback); got.Start != time.Monday {
		t.Fatalf("expected fallback Monday, got %s", got.Start)
	}
	if got := recipientWeek("sunday", fallback); got.Start != time.Sunday || got.Location != time.UTC {
		t.Fatalf("expected Sunday in UTC, got %+v", got)
	}
	if got := recipientWeek("someday", fallback); got.Start != time.Monday {
		t.Fatalf("expected fallback for invalid value, got %s", got.Start)
	}
}

type stubRecipients struct {
	recipients []repository.NotificationRecipient
	stamped    map[uuid.UUID]string
}

func (s *stubRecipients) ListUsersWithNotificationEnabled(ctx context.Context, notificationKey, lastSentKey string) ([]repository.NotificationRecipient, error) {
	return s.recipients, nil
}

func (s *stubRecipients) SetNotificationTimestamp(ctx context.Context, userID uuid.UUID, key string, at time.Time) error {
	if s.stamped == nil {
		s.stamped = map[uuid.UUID]string{}
	}
	s.stamped[userID] = key
	return nil
}

func (s *stubRecipients) GetLatestActivityAt(ctx context.Context, userID uuid.UUID) (*time.Time, error) {
	return nil, nil
}

type stubSessionsSince struct {
	byUser map[uuid.UUID][]*models.StudySession
}

func (s *stubSessionsSince) ListStartedSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*models.StudySession, error) {
	return s.byUser[userID], nil
}

type stubSubjects struct{ subjects []*models.Subject }

func (s *stubSubjects) List(ctx context.Context, search string) ([]*models.Subject, error) {
	return s.subjects, nil
}

type stubEnqueuer struct{ jobs []*models.EmailJob }

func (s *stubEnqueuer) Enqueue(ctx context.Context, job *models.EmailJob) error {
	s.jobs = append(s.jobs, job)
	return nil
}

func TestNotificationScheduler_SendWeeklyDigests(t *testing.T) {
	now := time.Date(2026, 2, 16, 10, 0, 0, 0, time.UTC) // Monday
	lastWeek := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

	physics := &models.Subject{ID: uuid.New(), Name: "Physics"}
	active := repository.NotificationRecipient{ID: uuid.New(), Email: "a@example.com", FullName: "Asha"}
	idle := repository.NotificationRecipient{ID: uuid.New(), Email: "b@example.com", FullName: "Ben"}
	recent := repository.NotificationRecipient{
		ID: uuid.New(), Email: "c@example.com", FullName: "Chen",
		LastSentAtRaw: now.Add(-24 * time.Hour).Format(time.RFC3339),
	}

	users := &stubRecipients{recipients: []repository.NotificationRecipient{active, idle, recent}}
	sessions := &stubSessionsSince{byUser: map[uuid.UUID][]*models.StudySession{
		active.ID: {endedSession(physics.ID, lastWeek, 45)},
		recent.ID: {endedSession(physics.ID, lastWeek, 45)},
	}}
	emails := &stubEnqueuer{}

	s := NewNotificationScheduler(users, sessions, &stubSubjects{subjects: []*models.Subject{physics}}, emails, stats.DefaultWeekConfig())
	s.sendWeeklyDigests(context.Background(), now)

	if len(emails.jobs) != 1 {
		t.Fatalf("expected exactly one digest, got %d", len(emails.jobs))
	}
	job := emails.jobs[0]
	if job.To != "a@example.com" || job.Kind != models.EmailWeeklyDigest || job.Digest == nil || job.Digest.TotalMinutes != 45 {
		t.Fatalf("unexpected job: %+v", job)
	}
	if users.stamped[active.ID] != weeklyDigestLastSentKey {
		t.Fatalf("expected last-sent timestamp for the recipient")
	}
	if _, ok := users.stamped[idle.ID]; ok {
		t.Fatalf("idle user should not be stamped")
	}
}
