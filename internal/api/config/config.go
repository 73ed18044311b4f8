package config

import (
	"finos-server/pkg/config"
)

// IndexTicker is a market index shown in the chat market-context line.
type IndexTicker struct {
	Symbol string `mapstructure:"symbol"`
	Name   string `mapstructure:"name"`
}

// Market holds quote lookup and market-context configuration.
type Market struct {
	QuoteBaseURL        string        `mapstructure:"quote_base_url"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	ListingURL          string        `mapstructure:"listing_url"`
	ContextTickers      []IndexTicker `mapstructure:"context_tickers"`
}

// News holds news feed configuration.
type News struct {
	RSSBaseURL    string `mapstructure:"rss_base_url"`
	QueryParams   string `mapstructure:"query_params"`
	MaxArticles   int    `mapstructure:"max_articles"`
	MaxConcurrent int    `mapstructure:"max_concurrent"`
}

// HuggingFace holds the configuration for the HuggingFace inference API.
type HuggingFace struct {
	APIKey       string `mapstructure:"api_key"`
	BaseURL      string `mapstructure:"base_url"`
	Model        string `mapstructure:"model"`
	MaxNewTokens int    `mapstructure:"max_new_tokens"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// Chat holds chat proxy configuration.
type Chat struct {
	Provider       string            `mapstructure:"provider"`
	DefaultPersona string            `mapstructure:"default_persona"`
	Personas       map[string]string `mapstructure:"personas"`
	HuggingFace    HuggingFace       `mapstructure:"huggingface"`
	Gemini         Gemini            `mapstructure:"gemini"`
}

// Scheduler holds the cron specs for background refresh work.
type Scheduler struct {
	QuoteRefreshCron        string  `mapstructure:"quote_refresh_cron"`
	MoversAlertCron         string  `mapstructure:"movers_alert_cron"`
	MoversThresholdPercent  float64 `mapstructure:"movers_threshold_percent"`
	RefreshMaxConcurrent    int     `mapstructure:"refresh_max_concurrent"`
	MarketContextRefreshSec int     `mapstructure:"market_context_refresh_sec"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Analysis holds thresholds for the rule-based trade analyzer.
type Analysis struct {
	MinClosedTrades   int     `mapstructure:"min_closed_trades"`
	LowWinRatePercent float64 `mapstructure:"low_win_rate_percent"`
	MaxTradesPerDay   int     `mapstructure:"max_trades_per_day"`
	LossStreakLength  int     `mapstructure:"loss_streak_length"`
}

// Config holds the full configuration for the api service.
type Config struct {
	App       config.App      `mapstructure:"app"`
	Logger    config.Logger   `mapstructure:"logger"`
	Database  config.Database `mapstructure:"database"`
	Redis     config.Redis    `mapstructure:"redis"`
	API       config.API      `mapstructure:"api"`
	Market    Market          `mapstructure:"market"`
	News      News            `mapstructure:"news"`
	Chat      Chat            `mapstructure:"chat"`
	Scheduler Scheduler       `mapstructure:"scheduler"`
	Telegram  Telegram        `mapstructure:"telegram"`
	Analysis  Analysis        `mapstructure:"analysis"`
}

// Load loads the api service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
