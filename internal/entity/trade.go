package entity

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// TradeDirection is the side of a journal entry.
type TradeDirection string

const (
	TradeDirectionBuy  TradeDirection = "buy"
	TradeDirectionSell TradeDirection = "sell"
)

// Trade is a trading journal entry. A trade is closed once an exit price is
// recorded; NetPnL is derived server-side and only present on closed trades.
type Trade struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Symbol        string         `gorm:"not null" json:"symbol"`
	Direction     TradeDirection `gorm:"not null" json:"direction"`
	Quantity      float64        `gorm:"not null" json:"quantity"`
	EntryPrice    float64        `gorm:"not null" json:"entry_price"`
	ExitPrice     *float64       `json:"exit_price,omitempty"`
	EntryAt       time.Time      `gorm:"not null" json:"entry_at"`
	ExitAt        *time.Time     `json:"exit_at,omitempty"`
	Commission    float64        `json:"commission"`
	Taxes         float64        `json:"taxes"`
	NetPnL        *float64       `json:"net_pnl,omitempty"`
	Strategy      string         `json:"strategy"`
	EmotionBefore string         `json:"emotion_before"`
	EmotionAfter  string         `json:"emotion_after"`
	Tags          pq.StringArray `gorm:"type:text[]" json:"tags"`
	Notes         string         `json:"notes"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Trade model.
func (Trade) TableName() string {
	return "trading_journal"
}

// Closed reports whether the trade has been exited.
func (t *Trade) Closed() bool {
	return t.ExitPrice != nil
}
