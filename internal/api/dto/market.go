package dto

import "time"

// QuoteRequest is the DTO for quote lookups. Symbol accepts free text
// (company names, common aliases) and is resolved server-side.
type QuoteRequest struct {
	Symbol string `json:"symbol"`
}

// Quote is a resolved live quote.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	DayHigh       float64   `json:"day_high"`
	DayLow        float64   `json:"day_low"`
	Volume        int64     `json:"volume"`
	PreviousClose float64   `json:"previous_close"`
	Currency      string    `json:"currency"`
	AsOf          time.Time `json:"as_of"`
}

// QuoteUpdate is pushed over the websocket stream on each refresh cycle.
type QuoteUpdate struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Timestamp     time.Time `json:"timestamp"`
}

// StreamSubscribeRequest is the first message a websocket client sends to
// select the symbols it wants updates for.
type StreamSubscribeRequest struct {
	Symbols []string `json:"symbols"`
}
