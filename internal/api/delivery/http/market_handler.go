package http

import (
	"errors"
	"net/http"

	"finos-server/internal/api/delivery/ws"
	"finos-server/internal/api/dto"
	"finos-server/internal/api/repository"
	"finos-server/internal/api/service"
	"finos-server/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MarketHandler handles HTTP requests for quote lookup and the live stream.
type MarketHandler struct {
	marketService service.MarketService
	hub           *ws.Hub
	logger        *logger.Logger
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(marketService service.MarketService, hub *ws.Hub, logger *logger.Logger) *MarketHandler {
	return &MarketHandler{marketService: marketService, hub: hub, logger: logger}
}

// RegisterRoutes registers the market routes to the Echo group.
func (h *MarketHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/quote", h.GetQuote)
	g.GET("/resolve", h.ResolveSymbol)
}

// RegisterStreamRoutes registers the websocket stream route. Kept separate
// because the browser websocket handshake cannot carry the user header.
func (h *MarketHandler) RegisterStreamRoutes(g *echo.Group) {
	g.GET("/stream", h.hub.HandleStream)
}

// GetQuote godoc
// @Summary Get a quote
// @Description Resolve free-text input to a ticker and return its live quote
// @Tags market
// @Accept  json
// @Produce  json
// @Param   query  body    dto.QuoteRequest   true    "Symbol or company name"
// @Success 200 {object} dto.Quote
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /market/quote [post]
func (h *MarketHandler) GetQuote(c echo.Context) error {
	var req dto.QuoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if req.Symbol == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Symbol is required"})
	}

	quote, err := h.marketService.GetQuote(c.Request().Context(), req.Symbol)
	if errors.Is(err, repository.ErrQuoteNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "No quote found for " + req.Symbol})
	}
	if err != nil {
		h.logger.Error("Failed to get quote", logger.ErrorField(err), logger.StringField("symbol", req.Symbol))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get quote"})
	}

	return c.JSON(http.StatusOK, quote)
}

// ResolveSymbol godoc
// @Summary Resolve a symbol
// @Description Resolve free-text input (company name, alias) to a ticker
// @Tags market
// @Produce  json
// @Param   q  query  string  true  "Query text"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse
// @Router /market/resolve [get]
func (h *MarketHandler) ResolveSymbol(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Query parameter q is required"})
	}

	symbol := h.marketService.ResolveSymbol(c.Request().Context(), query)
	return c.JSON(http.StatusOK, echo.Map{"query": query, "symbol": symbol})
}
