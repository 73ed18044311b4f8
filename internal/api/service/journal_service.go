package service

import (
	"context"
	"fmt"

	"finos-server/internal/api/dto"
	"finos-server/internal/api/repository"
	"finos-server/internal/entity"
	"finos-server/pkg/logger"
)

// JournalService manages trading journal entries and their derived
// statistics.
type JournalService interface {
	CreateTrade(ctx context.Context, userID string, req *dto.CreateTradeRequest) (*dto.TradeResponse, error)
	GetTrades(ctx context.Context, userID string) ([]*dto.TradeResponse, error)
	UpdateTrade(ctx context.Context, userID string, id uint, req *dto.UpdateTradeRequest) (*dto.TradeResponse, error)
	DeleteTrade(ctx context.Context, userID string, id uint) error
	GetStats(ctx context.Context, userID string) (*dto.JournalStats, error)
}

// NewJournalService creates a new journal service.
func NewJournalService(tradeRepo repository.TradeRepository, log *logger.Logger) JournalService {
	return &journalService{
		tradeRepo: tradeRepo,
		logger:    log,
	}
}

type journalService struct {
	tradeRepo repository.TradeRepository
	logger    *logger.Logger
}

// ComputeNetPnL derives the realized profit and loss of a closed trade:
//
//	buy:  (exit - entry) * qty - commission - taxes
//	sell: (entry - exit) * qty - commission - taxes
//
// Returns nil for open trades.
func ComputeNetPnL(trade *entity.Trade) *float64 {
	if trade.ExitPrice == nil {
		return nil
	}

	var gross float64
	if trade.Direction == entity.TradeDirectionSell {
		gross = (trade.EntryPrice - *trade.ExitPrice) * trade.Quantity
	} else {
		gross = (*trade.ExitPrice - trade.EntryPrice) * trade.Quantity
	}
	net := gross - trade.Commission - trade.Taxes
	return &net
}

// CreateTrade validates and records a new journal entry, deriving its net
// P&L when the exit is already known.
func (s *journalService) CreateTrade(ctx context.Context, userID string, req *dto.CreateTradeRequest) (*dto.TradeResponse, error) {
	direction := entity.TradeDirection(req.Direction)
	if direction != entity.TradeDirectionBuy && direction != entity.TradeDirectionSell {
		return nil, fmt.Errorf("invalid direction %q", req.Direction)
	}
	if req.Symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}
	if req.EntryPrice <= 0 {
		return nil, fmt.Errorf("entry price must be positive")
	}

	trade := &entity.Trade{
		UserID:        userID,
		Symbol:        req.Symbol,
		Direction:     direction,
		Quantity:      req.Quantity,
		EntryPrice:    req.EntryPrice,
		ExitPrice:     req.ExitPrice,
		EntryAt:       req.EntryAt,
		ExitAt:        req.ExitAt,
		Commission:    req.Commission,
		Taxes:         req.Taxes,
		Strategy:      req.Strategy,
		EmotionBefore: req.EmotionBefore,
		EmotionAfter:  req.EmotionAfter,
		Tags:          req.Tags,
		Notes:         req.Notes,
	}
	trade.NetPnL = ComputeNetPnL(trade)

	if err := s.tradeRepo.Create(ctx, trade); err != nil {
		s.logger.Error("Failed to create trade", logger.ErrorField(err), logger.StringField("user_id", userID))
		return nil, err
	}

	return mapToTradeResponse(trade), nil
}

// GetTrades retrieves the user's journal.
func (s *journalService) GetTrades(ctx context.Context, userID string) ([]*dto.TradeResponse, error) {
	trades, err := s.tradeRepo.FindAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.TradeResponse, 0, len(trades))
	for i := range trades {
		responses = append(responses, mapToTradeResponse(&trades[i]))
	}
	return responses, nil
}

// UpdateTrade applies changes to an existing entry and recomputes its P&L.
func (s *journalService) UpdateTrade(ctx context.Context, userID string, id uint, req *dto.UpdateTradeRequest) (*dto.TradeResponse, error) {
	trade, err := s.tradeRepo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Quantity > 0 {
		trade.Quantity = req.Quantity
	}
	if req.EntryPrice > 0 {
		trade.EntryPrice = req.EntryPrice
	}
	trade.ExitPrice = req.ExitPrice
	trade.ExitAt = req.ExitAt
	trade.Commission = req.Commission
	trade.Taxes = req.Taxes
	trade.Strategy = req.Strategy
	trade.EmotionBefore = req.EmotionBefore
	trade.EmotionAfter = req.EmotionAfter
	trade.Tags = req.Tags
	trade.Notes = req.Notes
	trade.NetPnL = ComputeNetPnL(trade)

	if err := s.tradeRepo.Update(ctx, trade); err != nil {
		s.logger.Error("Failed to update trade", logger.ErrorField(err), logger.Field("trade_id", id))
		return nil, err
	}

	return mapToTradeResponse(trade), nil
}

// DeleteTrade removes a journal entry by row id.
func (s *journalService) DeleteTrade(ctx context.Context, userID string, id uint) error {
	if err := s.tradeRepo.Delete(ctx, userID, id); err != nil {
		s.logger.Error("Failed to delete trade", logger.ErrorField(err), logger.Field("trade_id", id))
		return err
	}
	return nil
}

// GetStats computes journal statistics for the user.
func (s *journalService) GetStats(ctx context.Context, userID string) (*dto.JournalStats, error) {
	trades, err := s.tradeRepo.FindAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats := BuildJournalStats(trades)
	return &stats, nil
}

// BuildJournalStats aggregates a journal. Only closed trades contribute to
// P&L figures; win rate is wins over closed trades, and break-even closes
// count as closed but not winning.
func BuildJournalStats(trades []entity.Trade) dto.JournalStats {
	stats := dto.JournalStats{
		ByStrategy: make(map[string]dto.TallyStats),
		ByEmotion:  make(map[string]dto.TallyStats),
	}

	var grossWins, grossLosses float64
	first := true

	for i := range trades {
		trade := &trades[i]
		stats.TotalTrades++

		if !trade.Closed() || trade.NetPnL == nil {
			stats.OpenTrades++
			continue
		}

		pnl := *trade.NetPnL
		stats.ClosedTrades++
		stats.TotalNetPnL += pnl

		if pnl > 0 {
			stats.Wins++
			grossWins += pnl
		} else if pnl < 0 {
			stats.Losses++
			grossLosses += -pnl
		}

		if first || pnl > stats.BestTrade {
			stats.BestTrade = pnl
		}
		if first || pnl < stats.WorstTrade {
			stats.WorstTrade = pnl
		}
		first = false

		if trade.Strategy != "" {
			stats.ByStrategy[trade.Strategy] = addTally(stats.ByStrategy[trade.Strategy], pnl)
		}
		if trade.EmotionBefore != "" {
			stats.ByEmotion[trade.EmotionBefore] = addTally(stats.ByEmotion[trade.EmotionBefore], pnl)
		}
	}

	if stats.ClosedTrades > 0 {
		stats.WinRate = float64(stats.Wins) / float64(stats.ClosedTrades) * 100
	}
	if stats.Wins > 0 {
		stats.AverageWin = grossWins / float64(stats.Wins)
	}
	if stats.Losses > 0 {
		stats.AverageLoss = grossLosses / float64(stats.Losses)
	}
	if grossLosses > 0 {
		stats.ProfitFactor = grossWins / grossLosses
	} else {
		stats.ProfitFactor = grossWins
	}

	return stats
}

func addTally(tally dto.TallyStats, pnl float64) dto.TallyStats {
	tally.Trades++
	tally.NetPnL += pnl
	if pnl > 0 {
		tally.Wins++
	}
	tally.WinRate = float64(tally.Wins) / float64(tally.Trades) * 100
	return tally
}

func mapToTradeResponse(trade *entity.Trade) *dto.TradeResponse {
	return &dto.TradeResponse{
		ID:            trade.ID,
		Symbol:        trade.Symbol,
		Direction:     string(trade.Direction),
		Quantity:      trade.Quantity,
		EntryPrice:    trade.EntryPrice,
		ExitPrice:     trade.ExitPrice,
		EntryAt:       trade.EntryAt,
		ExitAt:        trade.ExitAt,
		Commission:    trade.Commission,
		Taxes:         trade.Taxes,
		NetPnL:        trade.NetPnL,
		Strategy:      trade.Strategy,
		EmotionBefore: trade.EmotionBefore,
		EmotionAfter:  trade.EmotionAfter,
		Tags:          trade.Tags,
		Notes:         trade.Notes,
		CreatedAt:     trade.CreatedAt,
	}
}
