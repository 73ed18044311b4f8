package repository

import (
	"context"

	"finos-server/internal/entity"

	"gorm.io/gorm"
)

// TradeRepository defines the interface for trading journal data operations.
type TradeRepository interface {
	Create(ctx context.Context, trade *entity.Trade) error
	FindByID(ctx context.Context, userID string, id uint) (*entity.Trade, error)
	FindAll(ctx context.Context, userID string) ([]entity.Trade, error)
	Update(ctx context.Context, trade *entity.Trade) error
	Delete(ctx context.Context, userID string, id uint) error
}

// NewTradeRepository creates a new GORM-based trade repository.
func NewTradeRepository(db *gorm.DB) TradeRepository {
	return &tradeRepository{db: db}
}

type tradeRepository struct {
	db *gorm.DB
}

func (r *tradeRepository) Create(ctx context.Context, trade *entity.Trade) error {
	return r.db.WithContext(ctx).Create(trade).Error
}

func (r *tradeRepository) FindByID(ctx context.Context, userID string, id uint) (*entity.Trade, error) {
	var trade entity.Trade
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&trade, id).Error; err != nil {
		return nil, err
	}
	return &trade, nil
}

// FindAll retrieves the user's journal ordered by entry time, oldest first,
// so streak detection in the analyzer sees trades chronologically.
func (r *tradeRepository) FindAll(ctx context.Context, userID string) ([]entity.Trade, error) {
	var trades []entity.Trade
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("entry_at asc").Find(&trades).Error; err != nil {
		return nil, err
	}
	return trades, nil
}

func (r *tradeRepository) Update(ctx context.Context, trade *entity.Trade) error {
	return r.db.WithContext(ctx).Save(trade).Error
}

// Delete soft-deletes a journal row owned by the given user.
func (r *tradeRepository) Delete(ctx context.Context, userID string, id uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entity.Trade{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
