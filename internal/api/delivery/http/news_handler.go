package http

import (
	"net/http"

	"finos-server/internal/api/service"
	"finos-server/pkg/logger"

	"github.com/labstack/echo/v4"
)

// NewsHandler handles HTTP requests for market news.
type NewsHandler struct {
	newsService service.NewsService
	logger      *logger.Logger
}

// NewNewsHandler creates a new NewsHandler.
func NewNewsHandler(newsService service.NewsService, logger *logger.Logger) *NewsHandler {
	return &NewsHandler{newsService: newsService, logger: logger}
}

// RegisterRoutes registers the news routes to the Echo group.
func (h *NewsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetNews)
}

// GetNews godoc
// @Summary Get market news
// @Description Fetch news articles with summaries, sentiment, and tags; top market news when q is empty
// @Tags news
// @Produce  json
// @Param   q  query  string  false  "Search query"
// @Success 200 {array} dto.NewsArticle
// @Failure 500 {object} dto.ErrorResponse
// @Router /news [get]
func (h *NewsHandler) GetNews(c echo.Context) error {
	articles, err := h.newsService.GetNews(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		h.logger.Error("Failed to get news", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get news"})
	}
	return c.JSON(http.StatusOK, articles)
}
