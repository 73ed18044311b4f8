package service

import (
	"context"
	"testing"
	"time"

	"finos-server/internal/api/config"
	"finos-server/internal/api/dto"
	"finos-server/internal/api/repository"
	"finos-server/pkg/common"
	"finos-server/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	entries map[string]string
}

func (f *fakeDirectory) Entries(ctx context.Context) map[string]string {
	return f.entries
}

type fakeQuoteRepo struct {
	quotes map[string]*dto.Quote
	calls  []string
}

func (f *fakeQuoteRepo) GetQuote(ctx context.Context, symbol string) (*dto.Quote, error) {
	f.calls = append(f.calls, symbol)
	if quote, ok := f.quotes[symbol]; ok {
		return quote, nil
	}
	return nil, repository.ErrQuoteNotFound
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	return log
}

func newTestMarketService(t *testing.T, directory *fakeDirectory, quoteRepo *fakeQuoteRepo) MarketService {
	t.Helper()
	return NewMarketService(&config.Config{}, testLogger(t), quoteRepo, directory, nil)
}

func TestResolveSymbol(t *testing.T) {
	directory := &fakeDirectory{entries: map[string]string{
		"APPLE":       "AAPL",
		"RELIANCE":    "RELIANCE.NS",
		"TATA MOTORS": "TATAMOTORS.NS",
		"TATA STEEL":  "TATASTEEL.NS",
	}}
	svc := newTestMarketService(t, directory, &fakeQuoteRepo{})
	ctx := context.Background()

	t.Run("exact match is case insensitive", func(t *testing.T) {
		assert.Equal(t, "AAPL", svc.ResolveSymbol(ctx, "apple"))
		assert.Equal(t, "RELIANCE.NS", svc.ResolveSymbol(ctx, " Reliance "))
	})

	t.Run("prefix match prefers the shortest alias", func(t *testing.T) {
		assert.Equal(t, "TATASTEEL.NS", svc.ResolveSymbol(ctx, "TATA"))
	})

	t.Run("fuzzy match catches near misses", func(t *testing.T) {
		assert.Equal(t, "AAPL", svc.ResolveSymbol(ctx, "APPLE INC"))
	})

	t.Run("unresolved query is returned upper-cased", func(t *testing.T) {
		assert.Equal(t, "ZZZZZZ", svc.ResolveSymbol(ctx, "zzzzzz"))
	})

	t.Run("short queries skip fuzzy matching", func(t *testing.T) {
		assert.Equal(t, "XQ", svc.ResolveSymbol(ctx, "xq"))
	})

	t.Run("empty query", func(t *testing.T) {
		assert.Equal(t, "", svc.ResolveSymbol(ctx, "   "))
	})
}

func TestGetQuote(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown plain symbol retries with NSE suffix", func(t *testing.T) {
		quoteRepo := &fakeQuoteRepo{quotes: map[string]*dto.Quote{
			"INFY.NS": {Symbol: "INFY.NS", Price: 1500},
		}}
		svc := newTestMarketService(t, &fakeDirectory{entries: map[string]string{}}, quoteRepo)

		quote, err := svc.GetQuote(ctx, "INFY")
		require.NoError(t, err)
		assert.Equal(t, "INFY.NS", quote.Symbol)
		assert.Equal(t, []string{"INFY", "INFY.NS"}, quoteRepo.calls)
	})

	t.Run("suffixed symbol is not retried", func(t *testing.T) {
		quoteRepo := &fakeQuoteRepo{quotes: map[string]*dto.Quote{}}
		svc := newTestMarketService(t, &fakeDirectory{entries: map[string]string{}}, quoteRepo)

		_, err := svc.GetQuote(ctx, "^NSEI")
		require.ErrorIs(t, err, repository.ErrQuoteNotFound)
		assert.Equal(t, []string{"^NSEI"}, quoteRepo.calls)
	})

	t.Run("resolved symbol is fetched directly", func(t *testing.T) {
		quoteRepo := &fakeQuoteRepo{quotes: map[string]*dto.Quote{
			"AAPL": {Symbol: "AAPL", Price: 230},
		}}
		directory := &fakeDirectory{entries: map[string]string{"APPLE": "AAPL"}}
		svc := newTestMarketService(t, directory, quoteRepo)

		quote, err := svc.GetQuote(ctx, "apple")
		require.NoError(t, err)
		assert.InDelta(t, 230, quote.Price, 1e-9)
	})
}

func TestSimilarityRatio(t *testing.T) {
	assert.InDelta(t, 1.0, similarityRatio("APPLE", "APPLE"), 1e-9)
	assert.InDelta(t, 0.0, similarityRatio("ABC", "XYZ"), 1e-9)
	assert.InDelta(t, 1.0, similarityRatio("", ""), 1e-9)
	assert.InDelta(t, 0.0, similarityRatio("A", ""), 1e-9)
	// 2 * 5 / (9 + 5)
	assert.InDelta(t, 10.0/14.0, similarityRatio("APPLE INC", "APPLE"), 1e-9)
}

func TestClosestMatch(t *testing.T) {
	candidates := []string{"APPLE", "RELIANCE", "TATA MOTORS"}

	t.Run("finds the best candidate above cutoff", func(t *testing.T) {
		match, ok := closestMatch("APPLE INC", candidates, 0.5)
		require.True(t, ok)
		assert.Equal(t, "APPLE", match)
	})

	t.Run("nothing above cutoff", func(t *testing.T) {
		_, ok := closestMatch("QQQQQQ", candidates, 0.5)
		assert.False(t, ok)
	})
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "24,800", formatPrice(24800.4))
	assert.Equal(t, "982", formatPrice(982.1))
	assert.Equal(t, "1,250,000", formatPrice(1250000))
	assert.Equal(t, "-1,050", formatPrice(-1050))
}

func TestContextTTL(t *testing.T) {
	t.Run("configured refresh interval wins", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Scheduler.MarketContextRefreshSec = 120
		svc := &marketService{cfg: cfg}
		assert.Equal(t, 120*time.Second, svc.contextTTL())
	})

	t.Run("defaults when unset", func(t *testing.T) {
		svc := &marketService{cfg: &config.Config{}}
		assert.Equal(t, common.MarketContextCacheTTL, svc.contextTTL())
	})
}
