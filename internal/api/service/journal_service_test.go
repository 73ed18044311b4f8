package service

import (
	"testing"
	"time"

	"finos-server/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closedTrade(direction entity.TradeDirection, qty, entry, exit, commission, taxes float64) entity.Trade {
	trade := entity.Trade{
		Symbol:     "TEST",
		Direction:  direction,
		Quantity:   qty,
		EntryPrice: entry,
		ExitPrice:  &exit,
		Commission: commission,
		Taxes:      taxes,
		EntryAt:    time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}
	trade.NetPnL = ComputeNetPnL(&trade)
	return trade
}

func TestComputeNetPnL(t *testing.T) {
	t.Run("buy trade", func(t *testing.T) {
		trade := closedTrade(entity.TradeDirectionBuy, 10, 100, 110, 5, 2)
		require.NotNil(t, trade.NetPnL)
		// (110-100)*10 - 5 - 2
		assert.InDelta(t, 93, *trade.NetPnL, 1e-9)
	})

	t.Run("sell trade", func(t *testing.T) {
		trade := closedTrade(entity.TradeDirectionSell, 5, 200, 180, 10, 0)
		require.NotNil(t, trade.NetPnL)
		// (200-180)*5 - 10
		assert.InDelta(t, 90, *trade.NetPnL, 1e-9)
	})

	t.Run("losing buy trade", func(t *testing.T) {
		trade := closedTrade(entity.TradeDirectionBuy, 10, 100, 90, 0, 0)
		require.NotNil(t, trade.NetPnL)
		assert.InDelta(t, -100, *trade.NetPnL, 1e-9)
	})

	t.Run("open trade has no pnl", func(t *testing.T) {
		trade := entity.Trade{
			Direction:  entity.TradeDirectionBuy,
			Quantity:   10,
			EntryPrice: 100,
		}
		assert.Nil(t, ComputeNetPnL(&trade))
	})

	t.Run("costs can turn a winner into a loser", func(t *testing.T) {
		trade := closedTrade(entity.TradeDirectionBuy, 1, 100, 101, 2, 1)
		require.NotNil(t, trade.NetPnL)
		assert.InDelta(t, -2, *trade.NetPnL, 1e-9)
	})
}

func TestBuildJournalStats(t *testing.T) {
	t.Run("empty journal", func(t *testing.T) {
		stats := BuildJournalStats(nil)
		assert.Equal(t, 0, stats.TotalTrades)
		assert.Equal(t, 0.0, stats.WinRate)
		assert.Equal(t, 0.0, stats.TotalNetPnL)
	})

	t.Run("open trades are excluded from pnl figures", func(t *testing.T) {
		trades := []entity.Trade{
			{Direction: entity.TradeDirectionBuy, Quantity: 10, EntryPrice: 100},
			closedTrade(entity.TradeDirectionBuy, 10, 100, 110, 0, 0),
		}
		stats := BuildJournalStats(trades)
		assert.Equal(t, 2, stats.TotalTrades)
		assert.Equal(t, 1, stats.OpenTrades)
		assert.Equal(t, 1, stats.ClosedTrades)
		assert.InDelta(t, 100, stats.TotalNetPnL, 1e-9)
		assert.InDelta(t, 100, stats.WinRate, 1e-9)
	})

	t.Run("break-even counts as closed but not winning", func(t *testing.T) {
		trades := []entity.Trade{
			closedTrade(entity.TradeDirectionBuy, 10, 100, 100, 0, 0),
			closedTrade(entity.TradeDirectionBuy, 10, 100, 110, 0, 0),
		}
		stats := BuildJournalStats(trades)
		assert.Equal(t, 2, stats.ClosedTrades)
		assert.Equal(t, 1, stats.Wins)
		assert.Equal(t, 0, stats.Losses)
		assert.InDelta(t, 50, stats.WinRate, 1e-9)
	})

	t.Run("aggregates and profit factor", func(t *testing.T) {
		trades := []entity.Trade{
			closedTrade(entity.TradeDirectionBuy, 10, 100, 120, 0, 0), // +200
			closedTrade(entity.TradeDirectionBuy, 10, 100, 110, 0, 0), // +100
			closedTrade(entity.TradeDirectionBuy, 10, 100, 95, 0, 0),  // -50
			closedTrade(entity.TradeDirectionBuy, 10, 100, 90, 0, 0),  // -100
		}
		stats := BuildJournalStats(trades)
		assert.Equal(t, 2, stats.Wins)
		assert.Equal(t, 2, stats.Losses)
		assert.InDelta(t, 150, stats.TotalNetPnL, 1e-9)
		assert.InDelta(t, 150, stats.AverageWin, 1e-9)
		assert.InDelta(t, 75, stats.AverageLoss, 1e-9)
		assert.InDelta(t, 2, stats.ProfitFactor, 1e-9)
		assert.InDelta(t, 200, stats.BestTrade, 1e-9)
		assert.InDelta(t, -100, stats.WorstTrade, 1e-9)
	})

	t.Run("profit factor with no losses falls back to gross wins", func(t *testing.T) {
		trades := []entity.Trade{
			closedTrade(entity.TradeDirectionBuy, 10, 100, 110, 0, 0),
		}
		stats := BuildJournalStats(trades)
		assert.InDelta(t, 100, stats.ProfitFactor, 1e-9)
	})

	t.Run("strategy and emotion tallies", func(t *testing.T) {
		win := closedTrade(entity.TradeDirectionBuy, 10, 100, 110, 0, 0)
		win.Strategy = "breakout"
		win.EmotionBefore = "calm"
		loss := closedTrade(entity.TradeDirectionBuy, 10, 100, 90, 0, 0)
		loss.Strategy = "breakout"
		loss.EmotionBefore = "fomo"

		stats := BuildJournalStats([]entity.Trade{win, loss})
		require.Contains(t, stats.ByStrategy, "breakout")
		assert.Equal(t, 2, stats.ByStrategy["breakout"].Trades)
		assert.Equal(t, 1, stats.ByStrategy["breakout"].Wins)
		assert.InDelta(t, 50, stats.ByStrategy["breakout"].WinRate, 1e-9)
		assert.InDelta(t, 0, stats.ByStrategy["breakout"].NetPnL, 1e-9)

		require.Contains(t, stats.ByEmotion, "calm")
		require.Contains(t, stats.ByEmotion, "fomo")
		assert.InDelta(t, 100, stats.ByEmotion["calm"].WinRate, 1e-9)
		assert.InDelta(t, 0, stats.ByEmotion["fomo"].WinRate, 1e-9)
	})

	t.Run("all losing journal keeps negative best trade", func(t *testing.T) {
		trades := []entity.Trade{
			closedTrade(entity.TradeDirectionBuy, 10, 100, 95, 0, 0),
			closedTrade(entity.TradeDirectionBuy, 10, 100, 90, 0, 0),
		}
		stats := BuildJournalStats(trades)
		assert.InDelta(t, -50, stats.BestTrade, 1e-9)
		assert.InDelta(t, -100, stats.WorstTrade, 1e-9)
		assert.Equal(t, 0.0, stats.WinRate)
	})
}
