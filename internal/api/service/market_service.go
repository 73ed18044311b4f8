package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"finos-server/internal/api/config"
	"finos-server/internal/api/dto"
	"finos-server/internal/api/repository"
	"finos-server/pkg/common"
	"finos-server/pkg/logger"
	"finos-server/pkg/utils"

	"github.com/redis/go-redis/v9"
)

const fuzzyMatchCutoff = 0.5

// MarketService resolves free-text queries to ticker symbols, serves quotes,
// and maintains the market-context line used by the chat proxy.
type MarketService interface {
	ResolveSymbol(ctx context.Context, query string) string
	GetQuote(ctx context.Context, query string) (*dto.Quote, error)
	MarketContext(ctx context.Context) string
}

// NewMarketService creates a new market service.
func NewMarketService(cfg *config.Config, log *logger.Logger, quoteRepo repository.QuoteRepository, directory repository.TickerDirectory, redisClient *redis.Client) MarketService {
	return &marketService{
		cfg:         cfg,
		log:         log,
		quoteRepo:   quoteRepo,
		directory:   directory,
		redisClient: redisClient,
	}
}

type marketService struct {
	cfg         *config.Config
	log         *logger.Logger
	quoteRepo   repository.QuoteRepository
	directory   repository.TickerDirectory
	redisClient *redis.Client
}

// ResolveSymbol maps a query to a ticker: exact directory hit, then shortest
// prefix match, then fuzzy match for queries longer than two characters. An
// unresolved query is returned upper-cased as-is.
func (s *marketService) ResolveSymbol(ctx context.Context, query string) string {
	query = strings.ToUpper(strings.TrimSpace(query))
	if query == "" {
		return ""
	}

	entries := s.directory.Entries(ctx)

	if symbol, ok := entries[query]; ok {
		return symbol
	}

	var prefixMatches []string
	for alias := range entries {
		if strings.HasPrefix(alias, query) {
			prefixMatches = append(prefixMatches, alias)
		}
	}
	if len(prefixMatches) > 0 {
		sort.Slice(prefixMatches, func(i, j int) bool {
			if len(prefixMatches[i]) != len(prefixMatches[j]) {
				return len(prefixMatches[i]) < len(prefixMatches[j])
			}
			return prefixMatches[i] < prefixMatches[j]
		})
		return entries[prefixMatches[0]]
	}

	if len(query) > 2 {
		aliases := make([]string, 0, len(entries))
		for alias := range entries {
			aliases = append(aliases, alias)
		}
		if match, ok := closestMatch(query, aliases, fuzzyMatchCutoff); ok {
			return entries[match]
		}
	}

	return query
}

// GetQuote resolves the query and fetches a quote. A plain unresolved symbol
// that the upstream does not know is retried with the NSE suffix.
func (s *marketService) GetQuote(ctx context.Context, query string) (*dto.Quote, error) {
	symbol := s.ResolveSymbol(ctx, query)
	if symbol == "" {
		return nil, repository.ErrQuoteNotFound
	}

	quote, err := s.quoteRepo.GetQuote(ctx, symbol)
	if err == nil {
		return quote, nil
	}

	if errors.Is(err, repository.ErrQuoteNotFound) && plainSymbol(symbol) {
		return s.quoteRepo.GetQuote(ctx, symbol+".NS")
	}
	return nil, err
}

// plainSymbol reports whether symbol has no exchange suffix or asset-class
// marker yet.
func plainSymbol(symbol string) bool {
	for _, marker := range []string{".NS", ".BO", "^", "-", "="} {
		if strings.Contains(symbol, marker) {
			return false
		}
	}
	return true
}

// MarketContext returns the cached market snapshot line, rebuilding it when
// the cache has expired. On rebuild failure the last good value is served.
func (s *marketService) MarketContext(ctx context.Context) string {
	if cached, err := s.redisClient.Get(ctx, common.RedisKeyMarketContext).Result(); err == nil && cached != "" {
		return cached
	}

	context := s.buildMarketContext(ctx)
	if context == "" {
		// Stale fallback, kept without TTL on every successful rebuild.
		stale, _ := s.redisClient.Get(ctx, common.RedisKeyMarketContext+":last").Result()
		return stale
	}

	if err := s.redisClient.Set(ctx, common.RedisKeyMarketContext, context, s.contextTTL()).Err(); err != nil {
		s.log.Warn("Failed to cache market context", logger.ErrorField(err))
	}
	if err := s.redisClient.Set(ctx, common.RedisKeyMarketContext+":last", context, 0).Err(); err != nil {
		s.log.Warn("Failed to store market context fallback", logger.ErrorField(err))
	}

	return context
}

// contextTTL is the market-context cache lifetime, overridable through the
// scheduler section of the config.
func (s *marketService) contextTTL() time.Duration {
	if sec := s.cfg.Scheduler.MarketContextRefreshSec; sec > 0 {
		return time.Duration(sec) * time.Second
	}
	return common.MarketContextCacheTTL
}

func (s *marketService) buildMarketContext(ctx context.Context) string {
	parts := []string{fmt.Sprintf("Date: %s", utils.TimeNowIST().Format("02-Jan 15:04"))}
	fetched := 0

	for _, ticker := range s.cfg.Market.ContextTickers {
		quote, err := s.quoteRepo.GetQuote(ctx, ticker.Symbol)
		if err != nil {
			s.log.Warn("Failed to fetch context ticker",
				logger.ErrorField(err),
				logger.StringField("symbol", ticker.Symbol),
			)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s (%+.2f%%)", ticker.Name, formatPrice(quote.Price), quote.ChangePercent))
		fetched++
	}

	if fetched == 0 {
		return ""
	}
	return strings.Join(parts, " | ")
}

// formatPrice renders a price with thousands separators and no decimals,
// matching the compact index format used in the context line.
func formatPrice(price float64) string {
	plain := fmt.Sprintf("%.0f", price)
	neg := strings.HasPrefix(plain, "-")
	if neg {
		plain = plain[1:]
	}

	var sb strings.Builder
	for i, digit := range plain {
		if i > 0 && (len(plain)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(digit)
	}
	if neg {
		return "-" + sb.String()
	}
	return sb.String()
}
