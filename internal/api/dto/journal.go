package dto

import "time"

// CreateTradeRequest is the DTO for recording a journal entry.
type CreateTradeRequest struct {
	Symbol        string     `json:"symbol"`
	Direction     string     `json:"direction"`
	Quantity      float64    `json:"quantity"`
	EntryPrice    float64    `json:"entry_price"`
	ExitPrice     *float64   `json:"exit_price,omitempty"`
	EntryAt       time.Time  `json:"entry_at"`
	ExitAt        *time.Time `json:"exit_at,omitempty"`
	Commission    float64    `json:"commission"`
	Taxes         float64    `json:"taxes"`
	Strategy      string     `json:"strategy"`
	EmotionBefore string     `json:"emotion_before"`
	EmotionAfter  string     `json:"emotion_after"`
	Tags          []string   `json:"tags"`
	Notes         string     `json:"notes"`
}

// UpdateTradeRequest is the DTO for updating a journal entry, typically to
// close an open trade by recording the exit.
type UpdateTradeRequest struct {
	Quantity      float64    `json:"quantity"`
	EntryPrice    float64    `json:"entry_price"`
	ExitPrice     *float64   `json:"exit_price,omitempty"`
	ExitAt        *time.Time `json:"exit_at,omitempty"`
	Commission    float64    `json:"commission"`
	Taxes         float64    `json:"taxes"`
	Strategy      string     `json:"strategy"`
	EmotionBefore string     `json:"emotion_before"`
	EmotionAfter  string     `json:"emotion_after"`
	Tags          []string   `json:"tags"`
	Notes         string     `json:"notes"`
}

// TradeResponse is a journal entry with its derived net P&L.
type TradeResponse struct {
	ID            uint       `json:"id"`
	Symbol        string     `json:"symbol"`
	Direction     string     `json:"direction"`
	Quantity      float64    `json:"quantity"`
	EntryPrice    float64    `json:"entry_price"`
	ExitPrice     *float64   `json:"exit_price,omitempty"`
	EntryAt       time.Time  `json:"entry_at"`
	ExitAt        *time.Time `json:"exit_at,omitempty"`
	Commission    float64    `json:"commission"`
	Taxes         float64    `json:"taxes"`
	NetPnL        *float64   `json:"net_pnl,omitempty"`
	Strategy      string     `json:"strategy"`
	EmotionBefore string     `json:"emotion_before"`
	EmotionAfter  string     `json:"emotion_after"`
	Tags          []string   `json:"tags"`
	Notes         string     `json:"notes"`
	CreatedAt     time.Time  `json:"created_at"`
}

// TallyStats aggregates closed trades sharing a label (strategy or emotion).
type TallyStats struct {
	Trades  int     `json:"trades"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"win_rate"`
	NetPnL  float64 `json:"net_pnl"`
}

// JournalStats are the derived statistics over a user's journal.
type JournalStats struct {
	TotalTrades  int                   `json:"total_trades"`
	OpenTrades   int                   `json:"open_trades"`
	ClosedTrades int                   `json:"closed_trades"`
	Wins         int                   `json:"wins"`
	Losses       int                   `json:"losses"`
	WinRate      float64               `json:"win_rate"`
	TotalNetPnL  float64               `json:"total_net_pnl"`
	AverageWin   float64               `json:"average_win"`
	AverageLoss  float64               `json:"average_loss"`
	ProfitFactor float64               `json:"profit_factor"`
	BestTrade    float64               `json:"best_trade"`
	WorstTrade   float64               `json:"worst_trade"`
	ByStrategy   map[string]TallyStats `json:"by_strategy"`
	ByEmotion    map[string]TallyStats `json:"by_emotion"`
}
