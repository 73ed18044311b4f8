package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"finos-server/internal/api/config"
	"finos-server/internal/api/dto"
	"finos-server/pkg/common"
	"finos-server/pkg/logger"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// ErrQuoteNotFound is returned when the upstream has no price for a symbol.
var ErrQuoteNotFound = errors.New("quote not found")

// QuoteRepository fetches live quotes for resolved ticker symbols.
type QuoteRepository interface {
	GetQuote(ctx context.Context, symbol string) (*dto.Quote, error)
}

type quoteRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	redisClient    *redis.Client
	requestLimiter *rate.Limiter
}

// NewQuoteRepository creates a quote repository backed by the Yahoo Finance
// v8 chart API with a redis cache in front of it.
func NewQuoteRepository(cfg *config.Config, log *logger.Logger, redisClient *redis.Client) QuoteRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.Market.MaxRequestPerMinute)
	return &quoteRepository{
		cfg:            cfg,
		log:            log,
		httpClient:     &http.Client{Timeout: 8 * time.Second},
		redisClient:    redisClient,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

// chartResponse mirrors the Yahoo Finance v8 chart payload, reduced to the
// fields a quote needs.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency             string  `json:"currency"`
				RegularMarketPrice   float64 `json:"regularMarketPrice"`
				RegularMarketTime    int64   `json:"regularMarketTime"`
				RegularMarketDayHigh float64 `json:"regularMarketDayHigh"`
				RegularMarketDayLow  float64 `json:"regularMarketDayLow"`
				RegularMarketVolume  int64   `json:"regularMarketVolume"`
				ChartPreviousClose   float64 `json:"chartPreviousClose"`
				PreviousClose        float64 `json:"previousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

// GetQuote returns a quote for the given symbol, serving from the redis cache
// when fresh.
func (r *quoteRepository) GetQuote(ctx context.Context, symbol string) (*dto.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrQuoteNotFound
	}

	cacheKey := common.RedisKeyQuote + symbol
	if cached, err := r.redisClient.Get(ctx, cacheKey).Result(); err == nil {
		var quote dto.Quote
		if err := json.Unmarshal([]byte(cached), &quote); err == nil {
			return &quote, nil
		}
	}

	quote, err := r.fetchQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(quote); err == nil {
		if err := r.redisClient.Set(ctx, cacheKey, payload, common.QuoteCacheTTL).Err(); err != nil {
			r.log.Warn("Failed to cache quote", logger.ErrorField(err), logger.StringField("symbol", symbol))
		}
	}

	return quote, nil
}

func (r *quoteRepository) fetchQuote(ctx context.Context, symbol string) (*dto.Quote, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1m&range=1d", r.cfg.Market.QuoteBaseURL, symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create quote request: %w", err)
	}
	req.Header.Set("User-Agent", "finos-server/1.0")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrQuoteNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote upstream returned status %d", resp.StatusCode)
	}

	var raw chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode quote response: %w", err)
	}
	if len(raw.Chart.Result) == 0 {
		return nil, ErrQuoteNotFound
	}

	res := raw.Chart.Result[0]
	meta := res.Meta
	price := meta.RegularMarketPrice
	asOf := time.Unix(meta.RegularMarketTime, 0)

	// Fall back to the last non-zero close when meta pricing is missing.
	if (price <= 0 || meta.RegularMarketTime == 0) && len(res.Timestamp) > 0 &&
		len(res.Indicators.Quote) > 0 && len(res.Indicators.Quote[0].Close) == len(res.Timestamp) {
		for i := len(res.Timestamp) - 1; i >= 0; i-- {
			if c := res.Indicators.Quote[0].Close[i]; c > 0 {
				price = c
				asOf = time.Unix(res.Timestamp[i], 0)
				break
			}
		}
	}

	if price <= 0 {
		return nil, ErrQuoteNotFound
	}

	previousClose := meta.PreviousClose
	if previousClose == 0 {
		previousClose = meta.ChartPreviousClose
	}

	quote := &dto.Quote{
		Symbol:        symbol,
		Price:         price,
		DayHigh:       meta.RegularMarketDayHigh,
		DayLow:        meta.RegularMarketDayLow,
		Volume:        meta.RegularMarketVolume,
		PreviousClose: previousClose,
		Currency:      meta.Currency,
		AsOf:          asOf,
	}
	if previousClose > 0 {
		quote.Change = price - previousClose
		quote.ChangePercent = (price - previousClose) / previousClose * 100
	}
	if quote.AsOf.IsZero() || quote.AsOf.Unix() == 0 {
		quote.AsOf = time.Now()
	}

	return quote, nil
}
