package entity

import "time"

// WatchlistItem is a tracked symbol without an owned position. Its lifecycle
// is independent from Asset.
type WatchlistItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index:idx_watchlist_user_symbol,unique" json:"user_id"`
	Symbol    string    `gorm:"not null;index:idx_watchlist_user_symbol,unique" json:"symbol"`
	Name      string    `json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the WatchlistItem model.
func (WatchlistItem) TableName() string {
	return "watchlist_items"
}
