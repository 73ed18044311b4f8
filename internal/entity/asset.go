package entity

import (
	"time"
)

// Asset is an owned position in the user's portfolio.
type Asset struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"type:uuid;not null;index:idx_assets_user_symbol,unique" json:"user_id"`
	Symbol      string    `gorm:"not null;index:idx_assets_user_symbol,unique" json:"symbol"`
	Name        string    `gorm:"not null" json:"name"`
	Quantity    float64   `gorm:"not null" json:"quantity"`
	AvgBuyPrice float64   `gorm:"not null" json:"avg_buy_price"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Asset model.
func (Asset) TableName() string {
	return "portfolio_assets"
}
