package service

import (
	"context"
	"fmt"

	"finos-server/internal/api/config"
	"finos-server/internal/api/dto"
	"finos-server/internal/api/repository"
	"finos-server/internal/entity"
	"finos-server/pkg/logger"
)

// AnalysisService runs the rule-based analyzer over a user's journal. Every
// rule is a deterministic threshold check on journal statistics; no model
// call is involved.
type AnalysisService interface {
	Analyze(ctx context.Context, userID string) (*dto.AnalysisResponse, error)
}

// NewAnalysisService creates a new analysis service.
func NewAnalysisService(cfg *config.Config, tradeRepo repository.TradeRepository, log *logger.Logger) AnalysisService {
	return &analysisService{
		cfg:       cfg,
		tradeRepo: tradeRepo,
		logger:    log,
	}
}

type analysisService struct {
	cfg       *config.Config
	tradeRepo repository.TradeRepository
	logger    *logger.Logger
}

// Analyze fetches the journal and evaluates every rule.
func (s *analysisService) Analyze(ctx context.Context, userID string) (*dto.AnalysisResponse, error) {
	trades, err := s.tradeRepo.FindAll(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load journal for analysis", logger.ErrorField(err), logger.StringField("user_id", userID))
		return nil, err
	}
	result := EvaluateRules(trades, s.cfg.Analysis)
	return &result, nil
}

// EvaluateRules runs the analyzer over chronologically ordered trades.
func EvaluateRules(trades []entity.Trade, cfg config.Analysis) dto.AnalysisResponse {
	stats := BuildJournalStats(trades)

	result := dto.AnalysisResponse{
		ClosedTrades:    stats.ClosedTrades,
		DisciplineScore: 100,
		Insights:        []dto.Insight{},
	}

	if stats.ClosedTrades < cfg.MinClosedTrades {
		result.Insights = append(result.Insights, dto.Insight{
			Rule:     "insufficient_data",
			Severity: dto.SeverityInfo,
			Message:  fmt.Sprintf("Close at least %d trades to unlock statistical analysis.", cfg.MinClosedTrades),
			Metrics:  map[string]float64{"closed_trades": float64(stats.ClosedTrades)},
		})
		return result
	}

	penalty := 0

	if insight, ok := checkLowWinRate(stats, cfg); ok {
		result.Insights = append(result.Insights, insight)
		penalty += 20
	}
	if insight, ok := checkRiskReward(stats); ok {
		result.Insights = append(result.Insights, insight)
		penalty += 15
	}
	if insight, ok := checkEmotionCorrelation(stats); ok {
		result.Insights = append(result.Insights, insight)
		penalty += 15
	}
	if insight, ok := checkRevengeSizing(trades, cfg); ok {
		result.Insights = append(result.Insights, insight)
		penalty += 25
	}
	if insight, ok := checkOvertrading(trades, cfg); ok {
		result.Insights = append(result.Insights, insight)
		penalty += 15
	}
	if insight, ok := checkBestStrategy(stats); ok {
		result.Insights = append(result.Insights, insight)
	}

	result.DisciplineScore -= penalty
	if result.DisciplineScore < 0 {
		result.DisciplineScore = 0
	}

	return result
}

func checkLowWinRate(stats dto.JournalStats, cfg config.Analysis) (dto.Insight, bool) {
	if stats.WinRate >= cfg.LowWinRatePercent {
		return dto.Insight{}, false
	}
	return dto.Insight{
		Rule:     "low_win_rate",
		Severity: dto.SeverityWarning,
		Message:  fmt.Sprintf("Win rate is %.1f%%, below the %.0f%% threshold. Review your entry criteria.", stats.WinRate, cfg.LowWinRatePercent),
		Metrics: map[string]float64{
			"win_rate":      stats.WinRate,
			"closed_trades": float64(stats.ClosedTrades),
		},
	}, true
}

func checkRiskReward(stats dto.JournalStats) (dto.Insight, bool) {
	if stats.AverageLoss <= stats.AverageWin || stats.Losses == 0 {
		return dto.Insight{}, false
	}
	return dto.Insight{
		Rule:     "inverted_risk_reward",
		Severity: dto.SeverityWarning,
		Message:  fmt.Sprintf("Your average loss (%.2f) exceeds your average win (%.2f). Losers are running too long.", stats.AverageLoss, stats.AverageWin),
		Metrics: map[string]float64{
			"average_win":  stats.AverageWin,
			"average_loss": stats.AverageLoss,
		},
	}, true
}

// checkEmotionCorrelation flags the emotion tag whose win rate sits 15
// points or more below the overall win rate, with at least 3 trades behind
// it.
func checkEmotionCorrelation(stats dto.JournalStats) (dto.Insight, bool) {
	const minTrades = 3
	const gapPoints = 15.0

	worstEmotion := ""
	worstRate := stats.WinRate
	var worstTally dto.TallyStats

	for emotion, tally := range stats.ByEmotion {
		if tally.Trades < minTrades {
			continue
		}
		if stats.WinRate-tally.WinRate >= gapPoints && tally.WinRate < worstRate {
			worstEmotion = emotion
			worstRate = tally.WinRate
			worstTally = tally
		}
	}

	if worstEmotion == "" {
		return dto.Insight{}, false
	}
	return dto.Insight{
		Rule:     "emotion_correlation",
		Severity: dto.SeverityCritical,
		Message:  fmt.Sprintf("Trades tagged %q win only %.1f%% of the time versus %.1f%% overall. Consider sitting out when you feel this way.", worstEmotion, worstTally.WinRate, stats.WinRate),
		Metrics: map[string]float64{
			"emotion_win_rate": worstTally.WinRate,
			"overall_win_rate": stats.WinRate,
			"emotion_trades":   float64(worstTally.Trades),
		},
	}, true
}

// checkRevengeSizing detects a position-size increase immediately after a
// configured-length losing streak.
func checkRevengeSizing(trades []entity.Trade, cfg config.Analysis) (dto.Insight, bool) {
	streakLen := cfg.LossStreakLength
	if streakLen <= 0 {
		streakLen = 3
	}

	streak := 0
	var lastLossNotional float64

	for i := range trades {
		trade := &trades[i]
		if trade.NetPnL == nil {
			continue
		}

		notional := trade.EntryPrice * trade.Quantity

		if streak >= streakLen && notional > lastLossNotional*1.5 {
			return dto.Insight{
				Rule:     "revenge_sizing",
				Severity: dto.SeverityCritical,
				Message:  fmt.Sprintf("After %d straight losses you increased position size by more than 50%%. This pattern compounds drawdowns.", streak),
				Metrics: map[string]float64{
					"loss_streak":       float64(streak),
					"notional_increase": notional / lastLossNotional,
				},
			}, true
		}

		if *trade.NetPnL < 0 {
			streak++
			lastLossNotional = notional
		} else {
			streak = 0
		}
	}

	return dto.Insight{}, false
}

// checkOvertrading flags any single day with more trades placed than the
// configured ceiling. Open positions count toward the day they were entered.
func checkOvertrading(trades []entity.Trade, cfg config.Analysis) (dto.Insight, bool) {
	maxPerDay := cfg.MaxTradesPerDay
	if maxPerDay <= 0 {
		maxPerDay = 5
	}

	perDay := make(map[string]int)
	busiest := 0
	for i := range trades {
		day := trades[i].EntryAt.Format("2006-01-02")
		perDay[day]++
		if perDay[day] > busiest {
			busiest = perDay[day]
		}
	}

	if busiest <= maxPerDay {
		return dto.Insight{}, false
	}
	return dto.Insight{
		Rule:     "overtrading",
		Severity: dto.SeverityWarning,
		Message:  fmt.Sprintf("You placed %d trades in a single day (threshold %d). High frequency usually means impulse entries.", busiest, maxPerDay),
		Metrics: map[string]float64{
			"max_trades_per_day": float64(busiest),
			"threshold":          float64(maxPerDay),
		},
	}, true
}

// checkBestStrategy highlights the strategy with the highest win rate among
// those with at least 3 closed trades.
func checkBestStrategy(stats dto.JournalStats) (dto.Insight, bool) {
	const minTrades = 3

	best := ""
	var bestTally dto.TallyStats
	for strategy, tally := range stats.ByStrategy {
		if tally.Trades < minTrades || tally.NetPnL <= 0 {
			continue
		}
		if best == "" || tally.WinRate > bestTally.WinRate {
			best = strategy
			bestTally = tally
		}
	}

	if best == "" {
		return dto.Insight{}, false
	}
	return dto.Insight{
		Rule:     "best_strategy",
		Severity: dto.SeverityPositive,
		Message:  fmt.Sprintf("%q is your strongest setup: %.1f%% win rate over %d trades. Lean into it.", best, bestTally.WinRate, bestTally.Trades),
		Metrics: map[string]float64{
			"win_rate": bestTally.WinRate,
			"trades":   float64(bestTally.Trades),
			"net_pnl":  bestTally.NetPnL,
		},
	}, true
}
