package repository

import (
	"context"

	"finos-server/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OnboardingRepository defines the interface for onboarding data operations.
type OnboardingRepository interface {
	FindByUserID(ctx context.Context, userID string) (*entity.UserOnboarding, error)
	Upsert(ctx context.Context, onboarding *entity.UserOnboarding) error
}

// NewOnboardingRepository creates a new GORM-based onboarding repository.
func NewOnboardingRepository(db *gorm.DB) OnboardingRepository {
	return &onboardingRepository{db: db}
}

type onboardingRepository struct {
	db *gorm.DB
}

func (r *onboardingRepository) FindByUserID(ctx context.Context, userID string) (*entity.UserOnboarding, error) {
	var onboarding entity.UserOnboarding
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&onboarding).Error; err != nil {
		return nil, err
	}
	return &onboarding, nil
}

func (r *onboardingRepository) Upsert(ctx context.Context, onboarding *entity.UserOnboarding) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(onboarding).Error
}
