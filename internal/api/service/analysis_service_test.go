package service

import (
	"testing"
	"time"

	"finos-server/internal/api/config"
	"finos-server/internal/api/dto"
	"finos-server/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var analysisCfg = config.Analysis{
	MinClosedTrades:   5,
	LowWinRatePercent: 40,
	MaxTradesPerDay:   5,
	LossStreakLength:  3,
}

// tradeAt builds a closed trade entered on the given day offset so the
// overtrading rule sees distinct days unless a test wants otherwise.
func tradeAt(day int, qty, entry, exit float64) entity.Trade {
	trade := closedTrade(entity.TradeDirectionBuy, qty, entry, exit, 0, 0)
	trade.EntryAt = time.Date(2026, 8, 1+day, 10, 0, 0, 0, time.UTC)
	return trade
}

func hasRule(insights []dto.Insight, rule string) bool {
	for _, insight := range insights {
		if insight.Rule == rule {
			return true
		}
	}
	return false
}

func TestEvaluateRules(t *testing.T) {
	t.Run("insufficient data", func(t *testing.T) {
		trades := []entity.Trade{
			tradeAt(0, 10, 100, 110),
			tradeAt(1, 10, 100, 110),
		}
		result := EvaluateRules(trades, analysisCfg)
		require.Len(t, result.Insights, 1)
		assert.Equal(t, "insufficient_data", result.Insights[0].Rule)
		assert.Equal(t, dto.SeverityInfo, result.Insights[0].Severity)
		assert.Equal(t, 100, result.DisciplineScore)
	})

	t.Run("low win rate", func(t *testing.T) {
		// 1 big win, 4 small losses: 20% win rate but healthy risk/reward.
		trades := []entity.Trade{
			tradeAt(0, 10, 100, 110), // +100
			tradeAt(1, 10, 100, 99),  // -10
			tradeAt(2, 10, 100, 99),  // -10
			tradeAt(3, 10, 100, 99),  // -10
			tradeAt(4, 10, 100, 99),  // -10
		}
		result := EvaluateRules(trades, analysisCfg)
		assert.True(t, hasRule(result.Insights, "low_win_rate"))
		assert.False(t, hasRule(result.Insights, "inverted_risk_reward"))
		assert.Equal(t, 80, result.DisciplineScore)
	})

	t.Run("inverted risk reward", func(t *testing.T) {
		// 4 small wins, 2 big losses: win rate is fine, sizing is not.
		trades := []entity.Trade{
			tradeAt(0, 10, 100, 101), // +10
			tradeAt(1, 10, 100, 101), // +10
			tradeAt(2, 10, 100, 101), // +10
			tradeAt(3, 10, 100, 101), // +10
			tradeAt(4, 10, 100, 95),  // -50
			tradeAt(5, 10, 100, 95),  // -50
		}
		result := EvaluateRules(trades, analysisCfg)
		assert.False(t, hasRule(result.Insights, "low_win_rate"))
		assert.True(t, hasRule(result.Insights, "inverted_risk_reward"))
	})

	t.Run("emotion correlation", func(t *testing.T) {
		// Wins tagged calm, losses tagged fomo. Losses kept small so the
		// risk/reward rule stays quiet.
		var trades []entity.Trade
		for i := 0; i < 3; i++ {
			win := tradeAt(i, 10, 100, 105) // +50
			win.EmotionBefore = "calm"
			trades = append(trades, win)
		}
		for i := 3; i < 6; i++ {
			loss := tradeAt(i, 10, 100, 99) // -10
			loss.EmotionBefore = "fomo"
			trades = append(trades, loss)
		}
		result := EvaluateRules(trades, analysisCfg)
		require.True(t, hasRule(result.Insights, "emotion_correlation"))
		for _, insight := range result.Insights {
			if insight.Rule == "emotion_correlation" {
				assert.Equal(t, dto.SeverityCritical, insight.Severity)
				assert.Contains(t, insight.Message, "fomo")
			}
		}
	})

	t.Run("revenge sizing", func(t *testing.T) {
		// Three straight losses at notional 1000, then a 2000-notional entry.
		trades := []entity.Trade{
			tradeAt(0, 10, 100, 99),
			tradeAt(1, 10, 100, 99),
			tradeAt(2, 10, 100, 99),
			tradeAt(3, 20, 100, 110), // doubled size right after the streak
			tradeAt(4, 10, 100, 110),
		}
		result := EvaluateRules(trades, analysisCfg)
		assert.True(t, hasRule(result.Insights, "revenge_sizing"))
	})

	t.Run("no revenge sizing when size stays flat", func(t *testing.T) {
		trades := []entity.Trade{
			tradeAt(0, 10, 100, 99),
			tradeAt(1, 10, 100, 99),
			tradeAt(2, 10, 100, 99),
			tradeAt(3, 10, 100, 110),
			tradeAt(4, 10, 100, 110),
		}
		result := EvaluateRules(trades, analysisCfg)
		assert.False(t, hasRule(result.Insights, "revenge_sizing"))
	})

	t.Run("overtrading", func(t *testing.T) {
		var trades []entity.Trade
		for i := 0; i < 6; i++ {
			trades = append(trades, tradeAt(0, 10, 100, 110)) // all on one day
		}
		result := EvaluateRules(trades, analysisCfg)
		assert.True(t, hasRule(result.Insights, "overtrading"))
	})

	t.Run("open trades count toward the daily total", func(t *testing.T) {
		// 5 closed trades keep the day at the threshold; the open entry
		// pushes it over.
		var trades []entity.Trade
		for i := 0; i < 5; i++ {
			trades = append(trades, tradeAt(0, 10, 100, 110))
		}
		open := entity.Trade{
			Direction:  entity.TradeDirectionBuy,
			Quantity:   10,
			EntryPrice: 100,
			EntryAt:    time.Date(2026, 8, 1, 14, 0, 0, 0, time.UTC),
		}
		trades = append(trades, open)

		result := EvaluateRules(trades, analysisCfg)
		assert.True(t, hasRule(result.Insights, "overtrading"))
	})

	t.Run("best strategy", func(t *testing.T) {
		var trades []entity.Trade
		for i := 0; i < 3; i++ {
			win := tradeAt(i, 10, 100, 110)
			win.Strategy = "breakout"
			trades = append(trades, win)
		}
		trades = append(trades, tradeAt(3, 10, 100, 110), tradeAt(4, 10, 100, 110))

		result := EvaluateRules(trades, analysisCfg)
		require.True(t, hasRule(result.Insights, "best_strategy"))
		for _, insight := range result.Insights {
			if insight.Rule == "best_strategy" {
				assert.Equal(t, dto.SeverityPositive, insight.Severity)
				assert.Contains(t, insight.Message, "breakout")
			}
		}
	})

	t.Run("discipline score never drops below zero", func(t *testing.T) {
		// Low win rate, inverted risk/reward, emotion tilt, revenge sizing,
		// and overtrading all at once.
		var trades []entity.Trade
		for i := 0; i < 6; i++ {
			loss := tradeAt(0, 10, 100, 90)
			loss.EmotionBefore = "fomo"
			trades = append(trades, loss)
		}
		win := tradeAt(0, 40, 100, 101)
		win.EmotionBefore = "calm"
		trades = append(trades, win)

		result := EvaluateRules(trades, analysisCfg)
		assert.GreaterOrEqual(t, result.DisciplineScore, 0)
	})
}
