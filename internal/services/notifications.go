package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"studytrack-backend/internal/live"
	"studytrack-backend/internal/models"
	"studytrack-backend/internal/repository"
	"studytrack-backend/internal/stats"
)

const (
	weeklyDigestKey          = "weekly_digest"
	studyRemindersKey        = "study_reminders"
	weeklyDigestLastSentKey  = "weekly_digest_last_sent_at"
	studyReminderLastSentKey = "study_reminders_last_sent_at"
	weeklyDigestInterval     = 7 * 24 * time.Hour
	studyReminderInterval    = 72 * time.Hour
	notificationPollInterval = 1 * time.Hour
)

type recipientStore interface {
	ListUsersWithNotificationEnabled(ctx context.Context, notificationKey, lastSentKey string) ([]repository.NotificationRecipient, error)
	SetNotificationTimestamp(ctx context.Context, userID uuid.UUID, key string, at time.Time) error
	GetLatestActivityAt(ctx context.Context, userID uuid.UUID) (*time.Time, error)
}

type sessionsSince interface {
	ListStartedSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*models.StudySession, error)
}

type subjectLister interface {
	List(ctx context.Context, search string) ([]*models.Subject, error)
}

// NotificationScheduler queues the weekly study digest and inactivity
// reminders for users who opted in.
type NotificationScheduler struct {
	users    recipientStore
	sessions sessionsSince
	subjects subjectLister
	emails   emailEnqueuer
	week     stats.WeekConfig

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewNotificationScheduler(users recipientStore, sessions sessionsSince, subjects subjectLister, emails emailEnqueuer, week stats.WeekConfig) *NotificationScheduler {
	return &NotificationScheduler{
		users:    users,
		sessions: sessions,
		subjects: subjects,
		emails:   emails,
		week:     week,
	}
}

func (s *NotificationScheduler) Start() {
	if s.users == nil || s.emails == nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.loop(ctx, s.sendWeeklyDigests)
	s.loop(ctx, s.sendStudyReminders)

	log.Printf("Notification scheduler started")
}

func (s *NotificationScheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
}

func (s *NotificationScheduler) loop(ctx context.Context, runFn func(ctx context.Context, now time.Time)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// Run on startup as well as by interval.
		runFn(ctx, time.Now().UTC())
		live.Tick(ctx, notificationPollInterval, func(now time.Time) {
			runFn(ctx, now.UTC())
		})
	}()
}

func (s *NotificationScheduler) sendWeeklyDigests(ctx context.Context, now time.Time) {
	recipients, err := s.users.ListUsersWithNotificationEnabled(ctx, weeklyDigestKey, weeklyDigestLastSentKey)
	if err != nil {
		log.Printf("weekly digest: failed to list recipients: %v", err)
		return
	}
	if len(recipients) == 0 {
		return
	}

	subjects, err := s.subjects.List(ctx, "")
	if err != nil {
		log.Printf("weekly digest: failed to list subjects: %v", err)
		return
	}

	for _, recipient := range recipients {
		if !shouldSendByLastSent(recipient.LastSentAtRaw, weeklyDigestInterval, now) {
			continue
		}

		cfg := recipientWeek(recipient.WeekStart, s.week)
		// The digest covers the most recently finished week.
		reported := stats.WeekOf(now, cfg).Start.AddDate(0, 0, -7)

		sessions, err := s.sessions.ListStartedSince(ctx, recipient.ID, reported)
		if err != nil {
			log.Printf("weekly digest: failed to load sessions for user %s: %v", recipient.ID, err)
			continue
		}

		digest, ok := buildDigest(reported, sessions, subjects, cfg)
		if !ok {
			continue
		}

		if err := s.emails.Enqueue(ctx, &models.EmailJob{
			Kind:   models.EmailWeeklyDigest,
			To:     recipient.Email,
			Name:   recipient.FullName,
			Digest: &digest,
		}); err != nil {
			log.Printf("weekly digest: failed to queue for %s: %v", recipient.Email, err)
			continue
		}

		if err := s.users.SetNotificationTimestamp(ctx, recipient.ID, weeklyDigestLastSentKey, now); err != nil {
			log.Printf("weekly digest: failed to persist last sent at for user %s: %v", recipient.ID, err)
		}
	}
}

func (s *NotificationScheduler) sendStudyReminders(ctx context.Context, now time.Time) {
	recipients, err := s.users.ListUsersWithNotificationEnabled(ctx, studyRemindersKey, studyReminderLastSentKey)
	if err != nil {
		log.Printf("study reminders: failed to list recipients: %v", err)
		return
	}

	for _, recipient := range recipients {
		if !shouldSendByLastSent(recipient.LastSentAtRaw, studyReminderInterval, now) {
			continue
		}

		lastActivityAt, activityErr := s.users.GetLatestActivityAt(ctx, recipient.ID)
		if activityErr != nil {
			log.Printf("study reminders: failed to load latest activity for user %s: %v", recipient.ID, activityErr)
			continue
		}

		referenceTime := reminderReferenceTime(lastActivityAt, recipient.CreatedAt)
		if now.Sub(referenceTime) < studyReminderInterval {
			continue
		}

		if err := s.emails.Enqueue(ctx, &models.EmailJob{
			Kind: models.EmailStudyReminder,
			To:   recipient.Email,
			Name: recipient.FullName,
		}); err != nil {
			log.Printf("study reminders: failed to queue for %s: %v", recipient.Email, err)
			continue
		}

		if err := s.users.SetNotificationTimestamp(ctx, recipient.ID, studyReminderLastSentKey, now); err != nil {
			log.Printf("study reminders: failed to persist last sent at for user %s: %v", recipient.ID, err)
		}
	}
}

// buildDigest summarizes the week containing weekStart. It reports false
// when nothing was studied that week.
func buildDigest(weekStart time.Time, sessions []*models.StudySession, subjects []*models.Subject, cfg stats.WeekConfig) (models.DigestStats, bool) {
	summary := stats.Weekly(weekStart, sessions, subjects, cfg)
	if summary.TotalMinutes <= 0 {
		return models.DigestStats{}, false
	}

	week := stats.Week{Start: summary.WeekStart, End: summary.WeekEnd}
	inWeek := make([]*models.StudySession, 0, len(sessions))
	for _, session := range sessions {
		if week.Contains(session.StartTime) {
			inWeek = append(inWeek, session)
		}
	}

	digest := models.DigestStats{
		WeekStart:      summary.WeekStart,
		TotalMinutes:   summary.TotalMinutes,
		SessionCount:   stats.CompletedCount(inWeek),
		AverageMinutes: stats.AverageSessionLength(inWeek),
		Subjects:       make([]models.DigestEntry, 0, len(summary.Breakdown)),
	}
	for _, share := range summary.Breakdown {
		digest.Subjects = append(digest.Subjects, models.DigestEntry{
			Name:       share.Name,
			Minutes:    share.Minutes,
			Percentage: share.Percentage,
		})
	}
	return digest, true
}

func recipientWeek(weekStart string, fallback stats.WeekConfig) stats.WeekConfig {
	if weekStart == "" {
		return fallback
	}
	day, err := stats.ParseWeekday(weekStart)
	if err != nil {
		return fallback
	}
	cfg := fallback
	cfg.Start = day
	return cfg
}

func shouldSendByLastSent(lastSentRaw string, minInterval time.Duration, now time.Time) bool {
	if lastSentRaw == "" {
		return true
	}

	lastSentAt, err := time.Parse(time.RFC3339, lastSentRaw)
	if err != nil {
		return true
	}

	return now.Sub(lastSentAt) >= minInterval
}

func reminderReferenceTime(lastActivityAt *time.Time, createdAt time.Time) time.Time {
	if lastActivityAt != nil && !lastActivityAt.IsZero() {
		return lastActivityAt.UTC()
	}

	return createdAt.UTC()
}
