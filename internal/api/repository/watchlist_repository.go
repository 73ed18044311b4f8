package repository

import (
	"context"

	"finos-server/internal/entity"

	"gorm.io/gorm"
)

// WatchlistRepository defines the interface for watchlist data operations.
type WatchlistRepository interface {
	Create(ctx context.Context, item *entity.WatchlistItem) error
	FindAll(ctx context.Context, userID string) ([]entity.WatchlistItem, error)
	ExistsBySymbol(ctx context.Context, userID, symbol string) (bool, error)
	Delete(ctx context.Context, userID string, id uint) error
	DistinctSymbols(ctx context.Context) ([]string, error)
}

// NewWatchlistRepository creates a new GORM-based watchlist repository.
func NewWatchlistRepository(db *gorm.DB) WatchlistRepository {
	return &watchlistRepository{db: db}
}

type watchlistRepository struct {
	db *gorm.DB
}

func (r *watchlistRepository) Create(ctx context.Context, item *entity.WatchlistItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *watchlistRepository) FindAll(ctx context.Context, userID string) ([]entity.WatchlistItem, error) {
	var items []entity.WatchlistItem
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *watchlistRepository) ExistsBySymbol(ctx context.Context, userID, symbol string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.WatchlistItem{}).
		Where("user_id = ? AND symbol = ?", userID, symbol).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *watchlistRepository) DistinctSymbols(ctx context.Context) ([]string, error) {
	var symbols []string
	err := r.db.WithContext(ctx).Model(&entity.WatchlistItem{}).
		Distinct("symbol").
		Pluck("symbol", &symbols).Error
	if err != nil {
		return nil, err
	}
	return symbols, nil
}

func (r *watchlistRepository) Delete(ctx context.Context, userID string, id uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entity.WatchlistItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
