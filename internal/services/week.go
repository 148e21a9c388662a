package services

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"studytrack-backend/internal/models"
	"studytrack-backend/internal/stats"
)

type settingsGetter interface {
	GetSettings(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error)
}

// WeekResolver picks the week calendar for a user: their own week_start
// setting when present, otherwise the server default.
type WeekResolver struct {
	settings settingsGetter
	fallback stats.WeekConfig
}

func NewWeekResolver(settings settingsGetter, fallback stats.WeekConfig) *WeekResolver {
	return &WeekResolver{settings: settings, fallback: fallback}
}

func (w *WeekResolver) For(ctx context.Context, userID uuid.UUID) stats.WeekConfig {
	if w == nil {
		return stats.DefaultWeekConfig()
	}
	if w.settings == nil {
		return w.fallback
	}
	s, err := w.settings.GetSettings(ctx, userID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			log.Printf("week resolver: settings for user %s: %v", userID, err)
		}
		return w.fallback
	}
	return recipientWeek(s.WeekStart, w.fallback)
}
