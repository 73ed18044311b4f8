package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"finos-server/internal/api/config"
	"finos-server/pkg/logger"

	"github.com/patrickmn/go-cache"
)

const (
	directoryCacheKey = "ticker_directory"
	directoryCacheTTL = 24 * time.Hour
)

// TickerDirectory resolves company names and aliases to ticker symbols. The
// built-in map covers common US tech, crypto, and NSE large caps; the full
// exchange listing is loaded lazily from the configured CSV and cached
// in-process for a day.
type TickerDirectory interface {
	// Entries returns the alias-to-symbol map, loading the exchange listing
	// on first use. The built-in map is always included.
	Entries(ctx context.Context) map[string]string
}

type tickerDirectory struct {
	cfg        *config.Config
	log        *logger.Logger
	httpClient *http.Client
	cache      *cache.Cache
	mu         sync.Mutex
}

// NewTickerDirectory creates a new ticker directory.
func NewTickerDirectory(cfg *config.Config, log *logger.Logger) TickerDirectory {
	return &tickerDirectory{
		cfg:        cfg,
		log:        log,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cache.New(directoryCacheTTL, time.Hour),
	}
}

// staticTickerMap covers the symbols users look up most, resolvable even when
// the exchange listing fetch fails.
var staticTickerMap = map[string]string{
	// US tech
	"APPLE": "AAPL", "MICROSOFT": "MSFT", "GOOGLE": "GOOGL", "AMAZON": "AMZN",
	"TESLA": "TSLA", "META": "META", "NETFLIX": "NFLX", "NVIDIA": "NVDA",
	"AMD": "AMD", "INTEL": "INTC", "COINBASE": "COIN",

	// Crypto
	"BITCOIN": "BTC-USD", "BTC": "BTC-USD",
	"ETHEREUM": "ETH-USD", "ETH": "ETH-USD",
	"SOLANA": "SOL-USD", "SOL": "SOL-USD",
	"DOGECOIN": "DOGE-USD", "DOGE": "DOGE-USD",
	"RIPPLE": "XRP-USD", "XRP": "XRP-USD",
	"CARDANO": "ADA-USD", "ADA": "ADA-USD",
	"SHIBA": "SHIB-USD", "SHIB": "SHIB-USD",
	"MATIC": "MATIC-USD", "POLYGON": "MATIC-USD",

	// NSE large caps by common name
	"RELIANCE": "RELIANCE.NS", "RIL": "RELIANCE.NS",
	"TCS": "TCS.NS", "TATA CONSULTANCY": "TCS.NS",
	"HDFC BANK": "HDFCBANK.NS", "HDFC": "HDFCBANK.NS",
	"INFOSYS": "INFY.NS", "INFY": "INFY.NS",
	"ICICI": "ICICIBANK.NS", "ICICI BANK": "ICICIBANK.NS",
	"SBI": "SBIN.NS", "STATE BANK": "SBIN.NS",
	"BHARTI AIRTEL": "BHARTIARTL.NS", "AIRTEL": "BHARTIARTL.NS",
	"ITC": "ITC.NS",
	"KOTAK": "KOTAKBANK.NS", "KOTAK BANK": "KOTAKBANK.NS",
	"L&T": "LT.NS", "LARSEN": "LT.NS",
	"AXIS BANK": "AXISBANK.NS", "AXIS": "AXISBANK.NS",
	"HUL": "HINDUNILVR.NS", "HINDUSTAN UNILEVER": "HINDUNILVR.NS",
	"TATA MOTORS": "TATAMOTORS.NS",
	"MARUTI": "MARUTI.NS",
	"SUN PHARMA": "SUNPHARMA.NS",
	"ASIAN PAINTS": "ASIANPAINT.NS",
	"TITAN": "TITAN.NS",
	"BAJAJ FINANCE": "BAJFINANCE.NS",
	"ULTRATECH": "ULTRACEMCO.NS",
	"WIPRO": "WIPRO.NS",
	"NESTLE": "NESTLEIND.NS",
	"ZOMATO": "ZOMATO.NS",
	"PAYTM": "PAYTM.NS",
	"JIO": "JIOFIN.NS", "JIO FINANCIAL": "JIOFIN.NS",
	"OLA": "OLAELEC.NS", "OLA ELECTRIC": "OLAELEC.NS",
}

// Entries returns the merged alias map. A failed listing load degrades to
// the static map and is retried on the next call.
func (d *tickerDirectory) Entries(ctx context.Context) map[string]string {
	if cached, ok := d.cache.Get(directoryCacheKey); ok {
		return cached.(map[string]string)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	// Another caller may have loaded while we waited.
	if cached, ok := d.cache.Get(directoryCacheKey); ok {
		return cached.(map[string]string)
	}

	entries := make(map[string]string, len(staticTickerMap))
	for alias, symbol := range staticTickerMap {
		entries[alias] = symbol
	}

	if err := d.loadListing(ctx, entries); err != nil {
		d.log.Warn("Failed to load exchange listing, using static map only", logger.ErrorField(err))
		return entries
	}

	d.cache.Set(directoryCacheKey, entries, cache.DefaultExpiration)
	return entries
}

// loadListing merges the NSE equity listing CSV into entries: the exact
// symbol, the full company name, and the first word of the name when it is
// long enough to be distinctive.
func (d *tickerDirectory) loadListing(ctx context.Context, entries map[string]string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.cfg.Market.ListingURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create listing request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("listing upstream returned status %d", resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read listing header: %w", err)
	}

	symbolIdx, nameIdx := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(strings.ToUpper(col)) {
		case "SYMBOL":
			symbolIdx = i
		case "NAME OF COMPANY":
			nameIdx = i
		}
	}
	if symbolIdx < 0 || nameIdx < 0 {
		return fmt.Errorf("listing CSV missing expected columns")
	}

	for {
		record, err := reader.Read()
		if err != nil {
			break
		}
		if len(record) <= symbolIdx || len(record) <= nameIdx {
			continue
		}

		code := strings.ToUpper(strings.TrimSpace(record[symbolIdx]))
		name := strings.ToUpper(strings.TrimSpace(record[nameIdx]))
		if code == "" {
			continue
		}
		symbol := code + ".NS"

		entries[code] = symbol
		if name != "" {
			entries[name] = symbol
			firstWord := strings.Fields(name)[0]
			if len(firstWord) > 2 {
				if _, exists := entries[firstWord]; !exists {
					entries[firstWord] = symbol
				}
			}
		}
	}

	return nil
}
