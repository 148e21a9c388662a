package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"studytrack-backend/internal/models"
	"studytrack-backend/internal/stats"
)

type userStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	GetSettings(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error)
	UpdateSettings(ctx context.Context, s *models.UserSettings) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

type UserService struct {
	users userStore
}

func NewUserService(users userStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr("load profile", "User not found", err)
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req models.UpdateProfileRequest) (*models.User, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr("update profile", "User not found", err)
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.ClassLevel != "" {
		user.ClassLevel = req.ClassLevel
	}
	if req.Stream != "" {
		user.Stream = req.Stream
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, transport("update profile", err)
	}
	return user, nil
}

// Delete removes the account. Sessions, goals and results go with it.
func (s *UserService) Delete(ctx context.Context, userID uuid.UUID) error {
	return transport("delete account", s.users.Delete(ctx, userID))
}

func (s *UserService) Settings(ctx context.Context, userID uuid.UUID) (*models.SettingsView, error) {
	settings, err := s.users.GetSettings(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return &models.SettingsView{}, nil
	}
	if err != nil {
		return nil, transport("load settings", err)
	}
	return settingsView(settings), nil
}

func (s *UserService) UpdateSettings(ctx context.Context, userID uuid.UUID, req models.UpdateSettingsRequest) (*models.SettingsView, error) {
	current, err := s.Settings(ctx, userID)
	if err != nil {
		return nil, err
	}

	weekStart := current.WeekStart
	if req.WeekStart != nil {
		weekStart = strings.ToLower(strings.TrimSpace(*req.WeekStart))
		if weekStart != "" {
			day, err := stats.ParseWeekday(weekStart)
			if err != nil {
				return nil, fieldError("week_start", "Week start must be a day name, e.g. monday")
			}
			weekStart = strings.ToLower(day.String())
		}
	}

	patch := map[string]bool{}
	if req.WeeklyDigest != nil {
		patch[weeklyDigestKey] = *req.WeeklyDigest
	}
	if req.StudyReminders != nil {
		patch[studyRemindersKey] = *req.StudyReminders
	}
	patchJSON, err := json.Marshal(patch)
	if err != nil {
		return nil, err
	}

	updated := &models.UserSettings{
		UserID:            userID,
		WeekStart:         weekStart,
		NotificationsJSON: patchJSON,
	}
	if err := s.users.UpdateSettings(ctx, updated); err != nil {
		return nil, transport("save settings", err)
	}
	return settingsView(updated), nil
}

func settingsView(s *models.UserSettings) *models.SettingsView {
	view := &models.SettingsView{WeekStart: s.WeekStart}
	if len(s.NotificationsJSON) == 0 {
		return view
	}
	var flags map[string]interface{}
	if err := json.Unmarshal(s.NotificationsJSON, &flags); err != nil {
		return view
	}
	view.WeeklyDigest, _ = flags[weeklyDigestKey].(bool)
	view.StudyReminders, _ = flags[studyRemindersKey].(bool)
	return view
}
