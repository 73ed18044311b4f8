package dto

import "time"

// CreateAssetRequest is the DTO for adding an asset to the portfolio.
type CreateAssetRequest struct {
	Symbol      string  `json:"symbol"`
	Name        string  `json:"name"`
	Quantity    float64 `json:"quantity"`
	AvgBuyPrice float64 `json:"avg_buy_price"`
}

// UpdateAssetRequest is the DTO for updating an existing asset.
type UpdateAssetRequest struct {
	Name        string  `json:"name"`
	Quantity    float64 `json:"quantity"`
	AvgBuyPrice float64 `json:"avg_buy_price"`
}

// AssetResponse is an asset enriched with live pricing when available.
type AssetResponse struct {
	ID            uint      `json:"id"`
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Quantity      float64   `json:"quantity"`
	AvgBuyPrice   float64   `json:"avg_buy_price"`
	CurrentPrice  float64   `json:"current_price"`
	ChangePercent float64   `json:"change_percent"`
	Value         float64   `json:"value"`
	Invested      float64   `json:"invested"`
	Return        float64   `json:"return"`
	ReturnPercent float64   `json:"return_percent"`
	PriceStale    bool      `json:"price_stale"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PortfolioSummary aggregates the whole portfolio.
type PortfolioSummary struct {
	TotalValue      float64 `json:"total_value"`
	TotalInvestment float64 `json:"total_investment"`
	TotalReturn     float64 `json:"total_return"`
	ReturnPercent   float64 `json:"return_percent"`
	AssetCount      int     `json:"asset_count"`
}

// PortfolioResponse is the enriched portfolio listing.
type PortfolioResponse struct {
	Assets  []AssetResponse  `json:"assets"`
	Summary PortfolioSummary `json:"summary"`
}
