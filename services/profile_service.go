package services

import (
	"context"
	"errors"

	"epinera-marketplace/models"
	"epinera-marketplace/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProfileService manages the marketplace-side user record.
type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, *ServiceError)
	EnsureProfile(ctx context.Context, userID uuid.UUID, email string) *ServiceError
	UpdateAvatar(ctx context.Context, userID uuid.UUID, avatarURL string) *ServiceError
	ConnectSocial(ctx context.Context, userID uuid.UUID, provider, handle string) *ServiceError
	UpdateNotificationPreferences(ctx context.Context, userID uuid.UUID, prefs models.NotificationPreferences) *ServiceError
	UpdateFavoriteGenres(ctx context.Context, userID uuid.UUID, genres []string) *ServiceError
	GetCompletion(ctx context.Context, userID uuid.UUID) (*models.ProfileCompletion, *ServiceError)
}

type profileServiceImpl struct {
	profiles repository.ProfileRepository
	logger   *zap.Logger
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profiles repository.ProfileRepository, logger *zap.Logger) ProfileService {
	return &profileServiceImpl{profiles: profiles, logger: logger}
}

func (s *profileServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, *ServiceError) {
	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("profile not found")
		}
		s.logger.Error("failed to load profile", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, errInternal("failed to load profile")
	}
	return profile, nil
}

// EnsureProfile upserts the profile row for a gateway identity.
func (s *profileServiceImpl) EnsureProfile(ctx context.Context, userID uuid.UUID, email string) *ServiceError {
	profile := &models.Profile{ID: userID, Email: email, Role: models.RoleBuyer}
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		s.logger.Error("failed to upsert profile", zap.String("user_id", userID.String()), zap.Error(err))
		return errInternal("failed to save profile")
	}
	return nil
}

func (s *profileServiceImpl) UpdateAvatar(ctx context.Context, userID uuid.UUID, avatarURL string) *ServiceError {
	profile, serr := s.GetProfile(ctx, userID)
	if serr != nil {
		return serr
	}
	profile.AvatarURL = avatarURL
	if err := s.profiles.Update(ctx, profile); err != nil {
		s.logger.Error("failed to update avatar", zap.String("user_id", userID.String()), zap.Error(err))
		return errInternal("failed to update avatar")
	}
	return nil
}

// ConnectSocial merges a social handle into the profile metadata under the
// social_accounts key.
func (s *profileServiceImpl) ConnectSocial(ctx context.Context, userID uuid.UUID, provider, handle string) *ServiceError {
	if provider == "" || handle == "" {
		return errValidation("provider and handle are required")
	}
	profile, serr := s.GetProfile(ctx, userID)
	if serr != nil {
		return serr
	}

	if profile.Metadata == nil {
		profile.Metadata = map[string]interface{}{}
	}
	accounts, _ := profile.Metadata["social_accounts"].(map[string]interface{})
	if accounts == nil {
		accounts = map[string]interface{}{}
	}
	accounts[provider] = handle
	profile.Metadata["social_accounts"] = accounts

	if err := s.profiles.Update(ctx, profile); err != nil {
		s.logger.Error("failed to connect social account", zap.String("user_id", userID.String()), zap.Error(err))
		return errInternal("failed to connect social account")
	}
	return nil
}

func (s *profileServiceImpl) UpdateNotificationPreferences(ctx context.Context, userID uuid.UUID, prefs models.NotificationPreferences) *ServiceError {
	profile, serr := s.GetProfile(ctx, userID)
	if serr != nil {
		return serr
	}
	if profile.Metadata == nil {
		profile.Metadata = map[string]interface{}{}
	}
	profile.Metadata["notification_preferences"] = map[string]interface{}{
		"email": prefs.Email,
		"push":  prefs.Push,
		"sms":   prefs.SMS,
	}
	if err := s.profiles.Update(ctx, profile); err != nil {
		s.logger.Error("failed to update preferences", zap.String("user_id", userID.String()), zap.Error(err))
		return errInternal("failed to update preferences")
	}
	return nil
}

func (s *profileServiceImpl) UpdateFavoriteGenres(ctx context.Context, userID uuid.UUID, genres []string) *ServiceError {
	profile, serr := s.GetProfile(ctx, userID)
	if serr != nil {
		return serr
	}
	if profile.Metadata == nil {
		profile.Metadata = map[string]interface{}{}
	}
	profile.Metadata["favorite_genres"] = genres
	if err := s.profiles.Update(ctx, profile); err != nil {
		s.logger.Error("failed to update genres", zap.String("user_id", userID.String()), zap.Error(err))
		return errInternal("failed to update genres")
	}
	return nil
}

// GetCompletion scores how much of the profile is filled in across seven
// weighted fields.
func (s *profileServiceImpl) GetCompletion(ctx context.Context, userID uuid.UUID) (*models.ProfileCompletion, *ServiceError) {
	profile, serr := s.GetProfile(ctx, userID)
	if serr != nil {
		return nil, serr
	}

	type field struct {
		name   string
		weight int
		filled bool
	}
	fields := []field{
		{"email", 20, profile.Email != ""},
		{"full_name", 20, profile.FullName != ""},
		{"phone", 15, profile.Phone != ""},
		{"avatar_url", 15, profile.AvatarURL != ""},
		{"social_accounts", 10, profile.Metadata["social_accounts"] != nil},
		{"notification_preferences", 10, profile.Metadata["notification_preferences"] != nil},
		{"favorite_genres", 10, profile.Metadata["favorite_genres"] != nil},
	}

	completion := &models.ProfileCompletion{MissingFields: []string{}}
	for _, f := range fields {
		if f.filled {
			completion.Completion += f.weight
		} else {
			completion.MissingFields = append(completion.MissingFields, f.name)
		}
	}
	return completion, nil
}
