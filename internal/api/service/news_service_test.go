package service

import (
	"context"
	"fmt"
	"testing"

	"finos-server/internal/api/config"
	"finos-server/internal/api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNewsRepo struct {
	items     []repository.FeedItem
	feedCalls int
}

func (f *fakeNewsRepo) FetchFeed(ctx context.Context, query string) ([]repository.FeedItem, error) {
	f.feedCalls++
	return f.items, nil
}

func (f *fakeNewsRepo) FetchArticleSummary(ctx context.Context, articleURL string) (string, error) {
	return "", fmt.Errorf("article unreachable")
}

func TestGetNewsCaching(t *testing.T) {
	items := []repository.FeedItem{
		{Title: "Nifty gains on strong earnings", Link: "https://example.com/a", Description: "Markets rally"},
	}

	t.Run("repeat query is served from cache", func(t *testing.T) {
		repo := &fakeNewsRepo{items: items}
		svc := NewNewsService(&config.Config{}, repo, testLogger(t))

		first, err := svc.GetNews(context.Background(), "nifty")
		require.NoError(t, err)
		require.Len(t, first, 1)
		assert.Equal(t, "Markets rally", first[0].Summary)

		_, err = svc.GetNews(context.Background(), "nifty")
		require.NoError(t, err)
		assert.Equal(t, 1, repo.feedCalls)
	})

	t.Run("canceled context does not poison the cache", func(t *testing.T) {
		repo := &fakeNewsRepo{items: items}
		svc := NewNewsService(&config.Config{}, repo, testLogger(t))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := svc.GetNews(ctx, "nifty")
		require.NoError(t, err)

		// The interrupted result was not cached, so a live request fetches
		// and enriches from scratch.
		articles, err := svc.GetNews(context.Background(), "nifty")
		require.NoError(t, err)
		assert.Equal(t, 2, repo.feedCalls)
		require.Len(t, articles, 1)
		assert.Equal(t, "Nifty gains on strong earnings", articles[0].Title)
	})
}

func TestClassifySentiment(t *testing.T) {
	t.Run("positive", func(t *testing.T) {
		assert.Equal(t, "positive", ClassifySentiment("Sensex hits record high as IT stocks rally"))
	})

	t.Run("negative", func(t *testing.T) {
		assert.Equal(t, "negative", ClassifySentiment("Markets plunge amid selloff, banking stocks fall"))
	})

	t.Run("neutral when nothing matches", func(t *testing.T) {
		assert.Equal(t, "neutral", ClassifySentiment("RBI announces monetary policy review date"))
	})

	t.Run("neutral on a tie", func(t *testing.T) {
		assert.Equal(t, "neutral", ClassifySentiment("Stocks rally then fall"))
	})

	t.Run("case insensitive", func(t *testing.T) {
		assert.Equal(t, "positive", ClassifySentiment("SHARES SURGE ON STRONG EARNINGS"))
	})
}

func TestDeriveTags(t *testing.T) {
	t.Run("known topics", func(t *testing.T) {
		tags := deriveTags("Nifty slips ahead of RBI rate decision; IPO market stays hot")
		assert.Equal(t, []string{"index", "ipo", "policy", "rates"}, tags)
	})

	t.Run("duplicate keywords map to one tag", func(t *testing.T) {
		tags := deriveTags("Quarterly results: earnings season kicks off")
		assert.Equal(t, []string{"earnings"}, tags)
	})

	t.Run("no topics", func(t *testing.T) {
		assert.Empty(t, deriveTags("Weather update for Mumbai"))
	})
}
