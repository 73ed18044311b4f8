package dto

import "time"

// AddWatchlistItemRequest is the DTO for adding a symbol to the watchlist.
type AddWatchlistItemRequest struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// WatchlistItemResponse is a watchlist entry enriched with live pricing
// when available.
type WatchlistItemResponse struct {
	ID            uint      `json:"id"`
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	PriceStale    bool      `json:"price_stale"`
	CreatedAt     time.Time `json:"created_at"`
}
