package repository

import (
	"context"

	"finos-server/internal/entity"

	"gorm.io/gorm"
)

// AssetRepository defines the interface for portfolio asset data operations.
// All operations are scoped to the owning user.
type AssetRepository interface {
	Create(ctx context.Context, asset *entity.Asset) error
	FindByID(ctx context.Context, userID string, id uint) (*entity.Asset, error)
	FindAll(ctx context.Context, userID string) ([]entity.Asset, error)
	Update(ctx context.Context, asset *entity.Asset) error
	Delete(ctx context.Context, userID string, id uint) error
	DistinctSymbols(ctx context.Context) ([]string, error)
}

// NewAssetRepository creates a new GORM-based asset repository.
func NewAssetRepository(db *gorm.DB) AssetRepository {
	return &assetRepository{db: db}
}

type assetRepository struct {
	db *gorm.DB
}

// Create inserts a new asset row.
func (r *assetRepository) Create(ctx context.Context, asset *entity.Asset) error {
	return r.db.WithContext(ctx).Create(asset).Error
}

// FindByID retrieves an asset owned by the given user.
func (r *assetRepository) FindByID(ctx context.Context, userID string, id uint) (*entity.Asset, error) {
	var asset entity.Asset
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&asset, id).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

// FindAll retrieves all assets owned by the given user.
func (r *assetRepository) FindAll(ctx context.Context, userID string) ([]entity.Asset, error) {
	var assets []entity.Asset
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("symbol asc").Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

// Update saves changes to an existing asset.
func (r *assetRepository) Update(ctx context.Context, asset *entity.Asset) error {
	return r.db.WithContext(ctx).Save(asset).Error
}

// DistinctSymbols returns every symbol held by any user, for the background
// quote refresher.
func (r *assetRepository) DistinctSymbols(ctx context.Context) ([]string, error) {
	var symbols []string
	err := r.db.WithContext(ctx).Model(&entity.Asset{}).
		Distinct("symbol").
		Pluck("symbol", &symbols).Error
	if err != nil {
		return nil, err
	}
	return symbols, nil
}

// Delete removes an asset owned by the given user.
func (r *assetRepository) Delete(ctx context.Context, userID string, id uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entity.Asset{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
