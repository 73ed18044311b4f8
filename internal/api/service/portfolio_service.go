package service

import (
	"context"
	"fmt"

	"finos-server/internal/api/dto"
	"finos-server/internal/api/repository"
	"finos-server/internal/entity"
	"finos-server/pkg/logger"

	"golang.org/x/sync/errgroup"
)

const enrichMaxConcurrent = 4

// PortfolioService manages portfolio assets and their derived valuation.
type PortfolioService interface {
	CreateAsset(ctx context.Context, userID string, req *dto.CreateAssetRequest) (*dto.AssetResponse, error)
	GetPortfolio(ctx context.Context, userID string) (*dto.PortfolioResponse, error)
	UpdateAsset(ctx context.Context, userID string, id uint, req *dto.UpdateAssetRequest) (*dto.AssetResponse, error)
	DeleteAsset(ctx context.Context, userID string, id uint) error
}

// NewPortfolioService creates a new portfolio service.
func NewPortfolioService(assetRepo repository.AssetRepository, market MarketService, log *logger.Logger) PortfolioService {
	return &portfolioService{
		assetRepo: assetRepo,
		market:    market,
		logger:    log,
	}
}

type portfolioService struct {
	assetRepo repository.AssetRepository
	market    MarketService
	logger    *logger.Logger
}

// CreateAsset validates and records a new position.
func (s *portfolioService) CreateAsset(ctx context.Context, userID string, req *dto.CreateAssetRequest) (*dto.AssetResponse, error) {
	if req.Symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}
	if req.AvgBuyPrice <= 0 {
		return nil, fmt.Errorf("average buy price must be positive")
	}

	asset := &entity.Asset{
		UserID:      userID,
		Symbol:      req.Symbol,
		Name:        req.Name,
		Quantity:    req.Quantity,
		AvgBuyPrice: req.AvgBuyPrice,
	}
	if err := s.assetRepo.Create(ctx, asset); err != nil {
		s.logger.Error("Failed to create asset", logger.ErrorField(err), logger.StringField("user_id", userID))
		return nil, err
	}

	response := enrichAsset(asset, nil)
	return &response, nil
}

// GetPortfolio lists assets enriched with live prices and recomputes the
// portfolio summary. A failed quote falls back to the average buy price and
// marks the row stale; the listing itself never fails on quote errors.
func (s *portfolioService) GetPortfolio(ctx context.Context, userID string) (*dto.PortfolioResponse, error) {
	assets, err := s.assetRepo.FindAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	quotes := make([]*dto.Quote, len(assets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichMaxConcurrent)
	for i := range assets {
		g.Go(func() error {
			quote, err := s.market.GetQuote(gctx, assets[i].Symbol)
			if err != nil {
				s.logger.Warn("Failed to fetch quote for asset",
					logger.ErrorField(err),
					logger.StringField("symbol", assets[i].Symbol),
				)
				return nil
			}
			quotes[i] = quote
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	response := dto.PortfolioResponse{
		Assets: make([]dto.AssetResponse, 0, len(assets)),
	}
	for i := range assets {
		enriched := enrichAsset(&assets[i], quotes[i])
		response.Assets = append(response.Assets, enriched)
		response.Summary.TotalValue += enriched.Value
		response.Summary.TotalInvestment += enriched.Invested
	}
	response.Summary.AssetCount = len(assets)
	response.Summary.TotalReturn = response.Summary.TotalValue - response.Summary.TotalInvestment
	if response.Summary.TotalInvestment > 0 {
		response.Summary.ReturnPercent = response.Summary.TotalReturn / response.Summary.TotalInvestment * 100
	}

	return &response, nil
}

// UpdateAsset applies changes to an existing position.
func (s *portfolioService) UpdateAsset(ctx context.Context, userID string, id uint, req *dto.UpdateAssetRequest) (*dto.AssetResponse, error) {
	asset, err := s.assetRepo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		asset.Name = req.Name
	}
	if req.Quantity > 0 {
		asset.Quantity = req.Quantity
	}
	if req.AvgBuyPrice > 0 {
		asset.AvgBuyPrice = req.AvgBuyPrice
	}

	if err := s.assetRepo.Update(ctx, asset); err != nil {
		s.logger.Error("Failed to update asset", logger.ErrorField(err), logger.Field("asset_id", id))
		return nil, err
	}

	response := enrichAsset(asset, nil)
	return &response, nil
}

// DeleteAsset removes a position.
func (s *portfolioService) DeleteAsset(ctx context.Context, userID string, id uint) error {
	if err := s.assetRepo.Delete(ctx, userID, id); err != nil {
		s.logger.Error("Failed to delete asset", logger.ErrorField(err), logger.Field("asset_id", id))
		return err
	}
	return nil
}

// enrichAsset values an asset with the given quote, or at the average buy
// price when no quote is available.
func enrichAsset(asset *entity.Asset, quote *dto.Quote) dto.AssetResponse {
	response := dto.AssetResponse{
		ID:          asset.ID,
		Symbol:      asset.Symbol,
		Name:        asset.Name,
		Quantity:    asset.Quantity,
		AvgBuyPrice: asset.AvgBuyPrice,
		Invested:    asset.AvgBuyPrice * asset.Quantity,
		CreatedAt:   asset.CreatedAt,
		UpdatedAt:   asset.UpdatedAt,
	}

	if quote != nil {
		response.CurrentPrice = quote.Price
		response.ChangePercent = quote.ChangePercent
	} else {
		response.CurrentPrice = asset.AvgBuyPrice
		response.PriceStale = true
	}

	response.Value = response.CurrentPrice * asset.Quantity
	response.Return = response.Value - response.Invested
	if response.Invested > 0 {
		response.ReturnPercent = response.Return / response.Invested * 100
	}

	return response
}
