package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"finos-server/internal/api/config"
	"finos-server/internal/api/dto"
	"finos-server/internal/api/repository"
	"finos-server/pkg/logger"
	"finos-server/pkg/telegram"
	"finos-server/pkg/utils"

	"github.com/robfig/cron/v3"
)

// Broadcaster pushes quote updates to subscribed stream clients.
type Broadcaster interface {
	Broadcast(update dto.QuoteUpdate)
}

// RefreshService runs the background refresh cycles: re-fetching quotes for
// every tracked symbol on a cron schedule, pushing updates to stream
// subscribers, and alerting on large movers.
type RefreshService interface {
	Start(ctx context.Context) error
	Stop()
	RefreshQuotes(ctx context.Context) error
	AlertMovers(ctx context.Context) error
}

// NewRefreshService creates a new refresh service. notifier may be nil when
// Telegram alerts are disabled.
func NewRefreshService(
	cfg *config.Config,
	assetRepo repository.AssetRepository,
	watchlistRepo repository.WatchlistRepository,
	market MarketService,
	broadcaster Broadcaster,
	notifier telegram.Notifier,
	log *logger.Logger,
) RefreshService {
	return &refreshService{
		cfg:           cfg,
		assetRepo:     assetRepo,
		watchlistRepo: watchlistRepo,
		market:        market,
		broadcaster:   broadcaster,
		notifier:      notifier,
		logger:        log,
		cron:          cron.New(),
	}
}

type refreshService struct {
	cfg           *config.Config
	assetRepo     repository.AssetRepository
	watchlistRepo repository.WatchlistRepository
	market        MarketService
	broadcaster   Broadcaster
	notifier      telegram.Notifier
	logger        *logger.Logger
	cron          *cron.Cron
}

// Start registers the cron jobs and runs the scheduler until ctx is done.
func (s *refreshService) Start(ctx context.Context) error {
	if spec := s.cfg.Scheduler.QuoteRefreshCron; spec != "" {
		if _, err := s.cron.AddFunc(spec, func() {
			if err := s.RefreshQuotes(ctx); err != nil {
				s.logger.Error("Quote refresh cycle failed", logger.ErrorField(err))
			}
		}); err != nil {
			return fmt.Errorf("failed to schedule quote refresh: %w", err)
		}
	}

	if spec := s.cfg.Scheduler.MoversAlertCron; spec != "" && s.notifier != nil {
		if _, err := s.cron.AddFunc(spec, func() {
			if err := s.AlertMovers(ctx); err != nil {
				s.logger.Error("Movers alert cycle failed", logger.ErrorField(err))
			}
		}); err != nil {
			return fmt.Errorf("failed to schedule movers alert: %w", err)
		}
	}

	s.cron.Start()
	s.logger.Info("Refresh scheduler started",
		logger.StringField("quote_refresh_cron", s.cfg.Scheduler.QuoteRefreshCron),
		logger.StringField("movers_alert_cron", s.cfg.Scheduler.MoversAlertCron),
	)

	<-ctx.Done()
	s.Stop()
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *refreshService) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("Refresh scheduler stopped")
}

// RefreshQuotes re-fetches every tracked symbol and pushes the result to
// stream subscribers. Per-symbol failures are logged and skipped.
func (s *refreshService) RefreshQuotes(ctx context.Context) error {
	symbols, err := s.trackedSymbols(ctx)
	if err != nil {
		return err
	}
	if len(symbols) == 0 {
		return nil
	}

	maxConcurrent := s.cfg.Scheduler.RefreshMaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, maxConcurrent)

	for _, symbol := range symbols {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}
		wg.Add(1)
		utils.GoSafe(func() {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			quote, err := s.market.GetQuote(ctx, symbol)
			if err != nil {
				s.logger.Warn("Failed to refresh quote",
					logger.ErrorField(err),
					logger.StringField("symbol", symbol),
				)
				return
			}
			if s.broadcaster != nil {
				s.broadcaster.Broadcast(dto.QuoteUpdate{
					Symbol:        quote.Symbol,
					Price:         quote.Price,
					Change:        quote.Change,
					ChangePercent: quote.ChangePercent,
					Timestamp:     time.Now(),
				})
			}
		})
	}
	wg.Wait()

	s.logger.Debug("Quote refresh cycle complete", logger.IntField("symbols", len(symbols)))
	return nil
}

// AlertMovers sends a Telegram message listing tracked symbols whose daily
// move exceeds the configured threshold.
func (s *refreshService) AlertMovers(ctx context.Context) error {
	if s.notifier == nil {
		return nil
	}

	symbols, err := s.trackedSymbols(ctx)
	if err != nil {
		return err
	}

	threshold := s.cfg.Scheduler.MoversThresholdPercent
	if threshold <= 0 {
		threshold = 3
	}

	var lines []string
	for _, symbol := range symbols {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}
		quote, err := s.market.GetQuote(ctx, symbol)
		if err != nil {
			continue
		}
		if quote.ChangePercent >= threshold || quote.ChangePercent <= -threshold {
			lines = append(lines, fmt.Sprintf("*%s*: %.2f (%+.2f%%)", quote.Symbol, quote.Price, quote.ChangePercent))
		}
	}
	if len(lines) == 0 {
		return nil
	}
	sort.Strings(lines)

	message := "📊 *Big movers on your list*\n" + strings.Join(lines, "\n")
	if err := s.notifier.SendMessage(message); err != nil {
		return fmt.Errorf("failed to send movers alert: %w", err)
	}
	s.logger.Info("Sent movers alert", logger.IntField("movers", len(lines)))
	return nil
}

// trackedSymbols is the union of portfolio and watchlist symbols across all
// users, deduplicated.
func (s *refreshService) trackedSymbols(ctx context.Context) ([]string, error) {
	assetSymbols, err := s.assetRepo.DistinctSymbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolio symbols: %w", err)
	}
	watchSymbols, err := s.watchlistRepo.DistinctSymbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist symbols: %w", err)
	}

	seen := make(map[string]bool, len(assetSymbols)+len(watchSymbols))
	symbols := make([]string, 0, len(assetSymbols)+len(watchSymbols))
	for _, symbol := range append(assetSymbols, watchSymbols...) {
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols, nil
}
