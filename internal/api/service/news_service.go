package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"finos-server/internal/api/config"
	"finos-server/internal/api/dto"
	"finos-server/internal/api/repository"
	"finos-server/pkg/common"
	"finos-server/pkg/logger"
	"finos-server/pkg/utils"

	"github.com/patrickmn/go-cache"
)

// NewsService assembles the news feed: RSS items enriched with extracted
// summaries, a heuristic sentiment label, and derived tags. Results live in
// an in-process cache only.
type NewsService interface {
	GetNews(ctx context.Context, query string) ([]dto.NewsArticle, error)
}

// NewNewsService creates a new news service.
func NewNewsService(cfg *config.Config, newsRepo repository.NewsRepository, log *logger.Logger) NewsService {
	return &newsService{
		cfg:      cfg,
		newsRepo: newsRepo,
		logger:   log,
		cache:    cache.New(common.NewsCacheTTL, 2*common.NewsCacheTTL),
	}
}

type newsService struct {
	cfg      *config.Config
	newsRepo repository.NewsRepository
	logger   *logger.Logger
	cache    *cache.Cache
}

// GetNews returns enriched articles for the query, serving from cache when
// the same query was fetched recently.
func (s *newsService) GetNews(ctx context.Context, query string) ([]dto.NewsArticle, error) {
	cacheKey := "news:" + strings.ToLower(strings.TrimSpace(query))
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.([]dto.NewsArticle), nil
	}

	items, err := s.newsRepo.FetchFeed(ctx, query)
	if err != nil {
		s.logger.Error("Failed to fetch news feed", logger.ErrorField(err), logger.StringField("query", query))
		return nil, err
	}

	maxArticles := s.cfg.News.MaxArticles
	if maxArticles > 0 && len(items) > maxArticles {
		items = items[:maxArticles]
	}

	articles := make([]dto.NewsArticle, len(items))
	maxConcurrent := s.cfg.News.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, maxConcurrent)

	interrupted := false
	for i := range items {
		if !utils.ShouldContinue(ctx, s.logger) {
			interrupted = true
			break
		}
		wg.Add(1)
		utils.GoSafe(func() {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			articles[i] = s.enrich(ctx, items[i])
		})
	}
	wg.Wait()

	// An interrupted loop leaves unenriched entries; do not cache those for
	// the full TTL.
	if !interrupted {
		s.cache.Set(cacheKey, articles, cache.DefaultExpiration)
	}
	return articles, nil
}

// enrich builds the final article: summary from the article page when
// reachable, otherwise the RSS description; sentiment and tags from the
// combined text.
func (s *newsService) enrich(ctx context.Context, item repository.FeedItem) dto.NewsArticle {
	summary := item.Description
	if extracted, err := s.newsRepo.FetchArticleSummary(ctx, item.Link); err == nil && extracted != "" {
		summary = extracted
	}

	text := item.Title + " " + summary
	return dto.NewsArticle{
		Title:       item.Title,
		Source:      item.Source,
		PublishedAt: item.PublishedAt,
		FetchedAt:   time.Now(),
		Summary:     summary,
		Sentiment:   ClassifySentiment(text),
		Tags:        deriveTags(text),
		URL:         item.Link,
	}
}

// Keyword lexicon for the heuristic sentiment label. Counts are compared,
// not weighted.
var (
	positiveWords = []string{
		"surge", "rally", "gain", "jump", "soar", "record", "beat", "upgrade",
		"profit", "growth", "bullish", "high", "strong", "rise", "boost", "outperform",
	}
	negativeWords = []string{
		"fall", "drop", "plunge", "crash", "loss", "slump", "downgrade", "miss",
		"bearish", "low", "weak", "decline", "cut", "fear", "selloff", "fraud", "probe",
	}
)

// ClassifySentiment labels text positive, negative, or neutral by keyword
// counts.
func ClassifySentiment(text string) string {
	lowered := strings.ToLower(text)

	positives, negatives := 0, 0
	for _, word := range positiveWords {
		positives += strings.Count(lowered, word)
	}
	for _, word := range negativeWords {
		negatives += strings.Count(lowered, word)
	}

	switch {
	case positives > negatives:
		return "positive"
	case negatives > positives:
		return "negative"
	default:
		return "neutral"
	}
}

// topicTags maps a keyword to the tag it implies.
var topicTags = map[string]string{
	"ipo":       "ipo",
	"dividend":  "dividend",
	"earnings":  "earnings",
	"results":   "earnings",
	"rbi":       "policy",
	"fed":       "policy",
	"rate":      "rates",
	"inflation": "macro",
	"gdp":       "macro",
	"merger":    "m&a",
	"acquisit":  "m&a",
	"crypto":    "crypto",
	"bitcoin":   "crypto",
	"nifty":     "index",
	"sensex":    "index",
}

func deriveTags(text string) []string {
	lowered := strings.ToLower(text)
	seen := make(map[string]bool)
	var tags []string
	for keyword, tag := range topicTags {
		if strings.Contains(lowered, keyword) && !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}
