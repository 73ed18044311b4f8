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

// ErrDuplicateSymbol is returned when a symbol is already on the watchlist.
var ErrDuplicateSymbol = fmt.Errorf("symbol already on watchlist")

// WatchlistService manages the user's tracked symbols.
type WatchlistService interface {
	AddItem(ctx context.Context, userID string, req *dto.AddWatchlistItemRequest) (*dto.WatchlistItemResponse, error)
	GetWatchlist(ctx context.Context, userID string) ([]dto.WatchlistItemResponse, error)
	RemoveItem(ctx context.Context, userID string, id uint) error
}

// NewWatchlistService creates a new watchlist service.
func NewWatchlistService(watchlistRepo repository.WatchlistRepository, market MarketService, log *logger.Logger) WatchlistService {
	return &watchlistService{
		watchlistRepo: watchlistRepo,
		market:        market,
		logger:        log,
	}
}

type watchlistService struct {
	watchlistRepo repository.WatchlistRepository
	market        MarketService
	logger        *logger.Logger
}

// AddItem adds a symbol to the watchlist, rejecting duplicates per user.
func (s *watchlistService) AddItem(ctx context.Context, userID string, req *dto.AddWatchlistItemRequest) (*dto.WatchlistItemResponse, error) {
	if req.Symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	exists, err := s.watchlistRepo.ExistsBySymbol(ctx, userID, req.Symbol)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateSymbol
	}

	item := &entity.WatchlistItem{
		UserID: userID,
		Symbol: req.Symbol,
		Name:   req.Name,
	}
	if err := s.watchlistRepo.Create(ctx, item); err != nil {
		s.logger.Error("Failed to add watchlist item", logger.ErrorField(err), logger.StringField("user_id", userID))
		return nil, err
	}

	response := enrichWatchlistItem(item, nil)
	return &response, nil
}

// GetWatchlist lists the user's watchlist enriched with live prices. Quote
// failures mark rows stale instead of failing the listing.
func (s *watchlistService) GetWatchlist(ctx context.Context, userID string) ([]dto.WatchlistItemResponse, error) {
	items, err := s.watchlistRepo.FindAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	quotes := make([]*dto.Quote, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichMaxConcurrent)
	for i := range items {
		g.Go(func() error {
			quote, err := s.market.GetQuote(gctx, items[i].Symbol)
			if err != nil {
				s.logger.Warn("Failed to fetch quote for watchlist item",
					logger.ErrorField(err),
					logger.StringField("symbol", items[i].Symbol),
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

	responses := make([]dto.WatchlistItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, enrichWatchlistItem(&items[i], quotes[i]))
	}
	return responses, nil
}

// RemoveItem removes a watchlist entry.
func (s *watchlistService) RemoveItem(ctx context.Context, userID string, id uint) error {
	if err := s.watchlistRepo.Delete(ctx, userID, id); err != nil {
		s.logger.Error("Failed to remove watchlist item", logger.ErrorField(err), logger.Field("item_id", id))
		return err
	}
	return nil
}

func enrichWatchlistItem(item *entity.WatchlistItem, quote *dto.Quote) dto.WatchlistItemResponse {
	response := dto.WatchlistItemResponse{
		ID:        item.ID,
		Symbol:    item.Symbol,
		Name:      item.Name,
		CreatedAt: item.CreatedAt,
	}
	if quote != nil {
		response.Price = quote.Price
		response.Change = quote.Change
		response.ChangePercent = quote.ChangePercent
	} else {
		response.PriceStale = true
	}
	return response
}
