package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"finos-server/internal/api/config"
	"finos-server/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	"github.com/mauidude/go-readability"
	"github.com/mmcdole/gofeed"
)

// FeedItem is one raw article from the news feed, before enrichment.
type FeedItem struct {
	Title       string
	Link        string
	Source      string
	PublishedAt *time.Time
	Description string
}

// NewsRepository fetches news feeds and article summaries from external
// sources. Nothing here is persisted.
type NewsRepository interface {
	FetchFeed(ctx context.Context, query string) ([]FeedItem, error)
	FetchArticleSummary(ctx context.Context, articleURL string) (string, error)
}

type newsRepository struct {
	cfg        *config.Config
	log        *logger.Logger
	parser     *gofeed.Parser
	httpClient *http.Client
}

// NewNewsRepository creates a news repository backed by Google News RSS.
func NewNewsRepository(cfg *config.Config, log *logger.Logger) NewsRepository {
	return &newsRepository{
		cfg:        cfg,
		log:        log,
		parser:     gofeed.NewParser(),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// FetchFeed retrieves the RSS feed for the given search query. An empty query
// returns the top-news feed.
func (r *newsRepository) FetchFeed(ctx context.Context, query string) ([]FeedItem, error) {
	feedURL := r.cfg.News.RSSBaseURL
	if query != "" {
		feedURL += "/search?q=" + url.QueryEscape(query) + "&" + r.cfg.News.QueryParams
	} else {
		feedURL += "?" + r.cfg.News.QueryParams
	}

	feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSS feed: %w", err)
	}

	items := make([]FeedItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		fi := FeedItem{
			Title:       item.Title,
			Link:        item.Link,
			Description: stripHTML(item.Description),
		}
		if item.PublishedParsed != nil {
			fi.PublishedAt = item.PublishedParsed
		}
		// Google News suffixes the source onto the title: "Headline - Source".
		if idx := strings.LastIndex(item.Title, " - "); idx > 0 {
			fi.Title = item.Title[:idx]
			fi.Source = item.Title[idx+3:]
		}
		items = append(items, fi)
	}

	return items, nil
}

// FetchArticleSummary downloads the article page and extracts a short
// summary: the og:description meta tag when present, otherwise the first
// paragraph of the readability-extracted body.
func (r *newsRepository) FetchArticleSummary(ctx context.Context, articleURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create article request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("article fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read article body: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err == nil {
		if desc, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok && strings.TrimSpace(desc) != "" {
			return strings.TrimSpace(desc), nil
		}
	}

	article, err := readability.NewDocument(string(body))
	if err != nil {
		return "", fmt.Errorf("failed to extract article content: %w", err)
	}

	content := stripHTML(article.Content())
	return firstSentences(content, 2), nil
}

// stripHTML removes markup from a snippet, returning plain text.
func stripHTML(snippet string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snippet))
	if err != nil {
		return strings.TrimSpace(snippet)
	}
	return strings.TrimSpace(strings.Join(strings.Fields(doc.Text()), " "))
}

// firstSentences keeps the leading n sentences of text.
func firstSentences(text string, n int) string {
	count := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			count++
			if count >= n {
				return strings.TrimSpace(text[:i+1])
			}
		}
	}
	return strings.TrimSpace(text)
}
