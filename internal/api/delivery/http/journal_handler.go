package http

import (
	"net/http"
	"strconv"

	"finos-server/internal/api/dto"
	"finos-server/internal/api/service"
	"finos-server/pkg/logger"

	"github.com/labstack/echo/v4"
)

// JournalHandler handles HTTP requests for the trading journal.
type JournalHandler struct {
	journalService service.JournalService
	logger         *logger.Logger
}

// NewJournalHandler creates a new JournalHandler.
func NewJournalHandler(journalService service.JournalService, logger *logger.Logger) *JournalHandler {
	return &JournalHandler{journalService: journalService, logger: logger}
}

// RegisterRoutes registers the journal routes to the Echo group.
func (h *JournalHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateTrade)
	g.GET("", h.GetTrades)
	g.GET("/stats", h.GetStats)
	g.PUT("/:id", h.UpdateTrade)
	g.DELETE("/:id", h.DeleteTrade)
}

// CreateTrade godoc
// @Summary Record a trade
// @Description Add a journal entry; net P&L is computed when the exit is set
// @Tags journal
// @Accept  json
// @Produce  json
// @Param   X-User-ID  header  string  true  "User ID"
// @Param   trade  body    dto.CreateTradeRequest   true    "Trade to record"
// @Success 201 {object} dto.TradeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /journal [post]
func (h *JournalHandler) CreateTrade(c echo.Context) error {
	var req dto.CreateTradeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	trade, err := h.journalService.CreateTrade(c.Request().Context(), userID(c), &req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, trade)
}

// GetTrades godoc
// @Summary List trades
// @Description List all journal entries in chronological order
// @Tags journal
// @Produce  json
// @Param   X-User-ID  header  string  true  "User ID"
// @Success 200 {array} dto.TradeResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /journal [get]
func (h *JournalHandler) GetTrades(c echo.Context) error {
	trades, err := h.journalService.GetTrades(c.Request().Context(), userID(c))
	if err != nil {
		h.logger.Error("Failed to get trades", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get trades"})
	}
	return c.JSON(http.StatusOK, trades)
}

// GetStats godoc
// @Summary Get journal statistics
// @Description Win rate, P&L aggregates, and per-strategy and per-emotion breakdowns over closed trades
// @Tags journal
// @Produce  json
// @Param   X-User-ID  header  string  true  "User ID"
// @Success 200 {object} dto.JournalStats
// @Failure 500 {object} dto.ErrorResponse
// @Router /journal/stats [get]
func (h *JournalHandler) GetStats(c echo.Context) error {
	stats, err := h.journalService.GetStats(c.Request().Context(), userID(c))
	if err != nil {
		h.logger.Error("Failed to compute journal stats", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to compute stats"})
	}
	return c.JSON(http.StatusOK, stats)
}

// UpdateTrade godoc
// @Summary Update a trade
// @Description Update a journal entry, typically to close it with an exit price
// @Tags journal
// @Accept  json
// @Produce  json
// @Param   X-User-ID  header  string  true  "User ID"
// @Param   id  path    int true    "Trade ID"
// @Param   trade  body    dto.UpdateTradeRequest   true    "Fields to update"
// @Success 200 {object} dto.TradeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /journal/{id} [put]
func (h *JournalHandler) UpdateTrade(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid trade ID"})
	}

	var req dto.UpdateTradeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	trade, err := h.journalService.UpdateTrade(c.Request().Context(), userID(c), uint(id), &req)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Trade not found"})
	}

	return c.JSON(http.StatusOK, trade)
}

// DeleteTrade godoc
// @Summary Delete a trade
// @Description Soft-delete a journal entry
// @Tags journal
// @Produce  json
// @Param   X-User-ID  header  string  true  "User ID"
// @Param   id  path    int true    "Trade ID"
// @Success 204 {object} nil
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /journal/{id} [delete]
func (h *JournalHandler) DeleteTrade(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid trade ID"})
	}

	if err := h.journalService.DeleteTrade(c.Request().Context(), userID(c), uint(id)); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Trade not found"})
	}

	return c.NoContent(http.StatusNoContent)
}
