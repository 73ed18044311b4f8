package service

import (
	"context"
	"errors"
	"time"

	"finos-server/internal/api/dto"
	"finos-server/internal/api/repository"
	"finos-server/internal/entity"
	"finos-server/pkg/logger"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProfileService manages the user's profile and onboarding records.
type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*entity.Profile, error)
	UpsertProfile(ctx context.Context, userID string, req *dto.UpsertProfileRequest) (*entity.Profile, error)
	GetOnboarding(ctx context.Context, userID string) (*entity.UserOnboarding, error)
	UpsertOnboarding(ctx context.Context, userID string, req *dto.UpsertOnboardingRequest) (*entity.UserOnboarding, error)
}

// NewProfileService creates a new profile service.
func NewProfileService(profileRepo repository.ProfileRepository, onboardingRepo repository.OnboardingRepository, log *logger.Logger) ProfileService {
	return &profileService{
		profileRepo:    profileRepo,
		onboardingRepo: onboardingRepo,
		logger:         log,
	}
}

type profileService struct {
	profileRepo    repository.ProfileRepository
	onboardingRepo repository.OnboardingRepository
	logger         *logger.Logger
}

// GetProfile returns the user's profile, or a default one when none has
// been saved yet.
func (s *profileService) GetProfile(ctx context.Context, userID string) (*entity.Profile, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &entity.Profile{UserID: userID, BaseCurrency: "INR"}, nil
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// UpsertProfile creates or updates the user's profile.
func (s *profileService) UpsertProfile(ctx context.Context, userID string, req *dto.UpsertProfileRequest) (*entity.Profile, error) {
	profile := &entity.Profile{
		UserID:       userID,
		DisplayName:  req.DisplayName,
		RiskProfile:  req.RiskProfile,
		BaseCurrency: req.BaseCurrency,
	}
	if profile.BaseCurrency == "" {
		profile.BaseCurrency = "INR"
	}
	if len(req.Preferences) > 0 {
		profile.Preferences = datatypes.JSON(req.Preferences)
	}

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		s.logger.Error("Failed to upsert profile", logger.ErrorField(err), logger.StringField("user_id", userID))
		return nil, err
	}
	return profile, nil
}

// GetOnboarding returns the user's onboarding state, defaulting to an empty
// incomplete record.
func (s *profileService) GetOnboarding(ctx context.Context, userID string) (*entity.UserOnboarding, error) {
	onboarding, err := s.onboardingRepo.FindByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &entity.UserOnboarding{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return onboarding, nil
}

// UpsertOnboarding records onboarding progress, stamping the completion time
// the first time it completes.
func (s *profileService) UpsertOnboarding(ctx context.Context, userID string, req *dto.UpsertOnboardingRequest) (*entity.UserOnboarding, error) {
	onboarding := &entity.UserOnboarding{
		UserID:          userID,
		ExperienceLevel: req.ExperienceLevel,
		Goals:           req.Goals,
		Completed:       req.Completed,
	}
	if req.Completed {
		now := time.Now()
		onboarding.CompletedAt = &now
	}

	if err := s.onboardingRepo.Upsert(ctx, onboarding); err != nil {
		s.logger.Error("Failed to upsert onboarding", logger.ErrorField(err), logger.StringField("user_id", userID))
		return nil, err
	}
	return onboarding, nil
}
