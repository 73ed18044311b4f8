package service

import (
	"context"
	"fmt"
	"testing"

	"finos-server/internal/api/dto"
	"finos-server/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeAssetRepo struct {
	assets []entity.Asset
}

func (f *fakeAssetRepo) Create(ctx context.Context, asset *entity.Asset) error {
	f.assets = append(f.assets, *asset)
	return nil
}

func (f *fakeAssetRepo) FindByID(ctx context.Context, userID string, id uint) (*entity.Asset, error) {
	for i := range f.assets {
		if f.assets[i].ID == id {
			return &f.assets[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAssetRepo) FindAll(ctx context.Context, userID string) ([]entity.Asset, error) {
	return f.assets, nil
}

func (f *fakeAssetRepo) Update(ctx context.Context, asset *entity.Asset) error { return nil }

func (f *fakeAssetRepo) Delete(ctx context.Context, userID string, id uint) error { return nil }

func (f *fakeAssetRepo) DistinctSymbols(ctx context.Context) ([]string, error) { return nil, nil }

// fakeQuoteMarket serves quotes from a fixed map and fails everything else.
type fakeQuoteMarket struct {
	quotes map[string]*dto.Quote
}

func (f *fakeQuoteMarket) ResolveSymbol(ctx context.Context, query string) string { return query }

func (f *fakeQuoteMarket) GetQuote(ctx context.Context, query string) (*dto.Quote, error) {
	if quote, ok := f.quotes[query]; ok {
		return quote, nil
	}
	return nil, fmt.Errorf("quote unavailable for %s", query)
}

func (f *fakeQuoteMarket) MarketContext(ctx context.Context) string { return "" }

func TestGetPortfolio(t *testing.T) {
	const userID = "0e4ac2e9-6f5c-4b3a-9d2e-7a1f0c8b5d41"
	ctx := context.Background()

	t.Run("empty portfolio yields a zeroed summary", func(t *testing.T) {
		svc := NewPortfolioService(&fakeAssetRepo{}, &fakeQuoteMarket{}, testLogger(t))

		portfolio, err := svc.GetPortfolio(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, portfolio.Assets)
		assert.Zero(t, portfolio.Summary.TotalValue)
		assert.Zero(t, portfolio.Summary.TotalInvestment)
		assert.Zero(t, portfolio.Summary.TotalReturn)
		assert.Zero(t, portfolio.Summary.ReturnPercent)
		assert.Zero(t, portfolio.Summary.AssetCount)
	})

	t.Run("summary sums value, investment and return", func(t *testing.T) {
		repo := &fakeAssetRepo{assets: []entity.Asset{
			{ID: 1, UserID: userID, Symbol: "INFY.NS", Quantity: 10, AvgBuyPrice: 100},
			{ID: 2, UserID: userID, Symbol: "TCS.NS", Quantity: 5, AvgBuyPrice: 200},
		}}
		market := &fakeQuoteMarket{quotes: map[string]*dto.Quote{
			"INFY.NS": {Symbol: "INFY.NS", Price: 120, ChangePercent: 1.2},
			"TCS.NS":  {Symbol: "TCS.NS", Price: 180, ChangePercent: -0.8},
		}}
		svc := NewPortfolioService(repo, market, testLogger(t))

		portfolio, err := svc.GetPortfolio(ctx, userID)
		require.NoError(t, err)
		require.Len(t, portfolio.Assets, 2)

		assert.InDelta(t, 2100, portfolio.Summary.TotalValue, 1e-9)      // 10*120 + 5*180
		assert.InDelta(t, 2000, portfolio.Summary.TotalInvestment, 1e-9) // 10*100 + 5*200
		assert.InDelta(t, 100, portfolio.Summary.TotalReturn, 1e-9)
		assert.InDelta(t, 5, portfolio.Summary.ReturnPercent, 1e-9)
		assert.Equal(t, 2, portfolio.Summary.AssetCount)
	})

	t.Run("quote failure falls back to the average buy price", func(t *testing.T) {
		repo := &fakeAssetRepo{assets: []entity.Asset{
			{ID: 1, UserID: userID, Symbol: "RELIANCE.NS", Quantity: 4, AvgBuyPrice: 2500},
		}}
		svc := NewPortfolioService(repo, &fakeQuoteMarket{}, testLogger(t))

		portfolio, err := svc.GetPortfolio(ctx, userID)
		require.NoError(t, err)
		require.Len(t, portfolio.Assets, 1)

		asset := portfolio.Assets[0]
		assert.True(t, asset.PriceStale)
		assert.InDelta(t, 2500, asset.CurrentPrice, 1e-9)
		assert.InDelta(t, 10000, asset.Value, 1e-9)
		assert.Zero(t, asset.Return)

		assert.InDelta(t, 10000, portfolio.Summary.TotalValue, 1e-9)
		assert.Zero(t, portfolio.Summary.TotalReturn)
		assert.Zero(t, portfolio.Summary.ReturnPercent)
	})
}

func TestEnrichAsset(t *testing.T) {
	asset := &entity.Asset{ID: 7, Symbol: "AAPL", Quantity: 3, AvgBuyPrice: 150}

	t.Run("with a live quote", func(t *testing.T) {
		enriched := enrichAsset(asset, &dto.Quote{Symbol: "AAPL", Price: 200, ChangePercent: 2.5})

		assert.False(t, enriched.PriceStale)
		assert.InDelta(t, 200, enriched.CurrentPrice, 1e-9)
		assert.InDelta(t, 2.5, enriched.ChangePercent, 1e-9)
		assert.InDelta(t, 450, enriched.Invested, 1e-9)
		assert.InDelta(t, 600, enriched.Value, 1e-9)
		assert.InDelta(t, 150, enriched.Return, 1e-9)
		assert.InDelta(t, 100.0/3.0, enriched.ReturnPercent, 1e-9)
	})

	t.Run("without a quote values at the average buy price", func(t *testing.T) {
		enriched := enrichAsset(asset, nil)

		assert.True(t, enriched.PriceStale)
		assert.InDelta(t, 150, enriched.CurrentPrice, 1e-9)
		assert.InDelta(t, 450, enriched.Value, 1e-9)
		assert.Zero(t, enriched.Return)
		assert.Zero(t, enriched.ReturnPercent)
	})
}
