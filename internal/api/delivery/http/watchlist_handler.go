package http

import (
	"errors"
	"net/http"
	"strconv"

	"finos-server/internal/api/dto"
	"finos-server/internal/api/service"
	"finos-server/pkg/logger"

	"github.com/labstack/echo/v4"
)

// WatchlistHandler handles HTTP requests for the watchlist.
type WatchlistHandler struct {
	watchlistService service.WatchlistService
	logger           *logger.Logger
}

// NewWatchlistHandler creates a new WatchlistHandler.
func NewWatchlistHandler(watchlistService service.WatchlistService, logger *logger.Logger) *WatchlistHandler {
	return &WatchlistHandler{watchlistService: watchlistService, logger: logger}
}

// RegisterRoutes registers the watchlist routes to the Echo group.
func (h *WatchlistHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.AddItem)
	g.GET("", h.GetWatchlist)
	g.DELETE("/:id", h.RemoveItem)
}

// AddItem godoc
// @Summary Add a watchlist item
// @Description Track a symbol on the watchlist
// @Tags watchlist
// @Accept  json
// @Produce  json
// @Param   X-User-ID  header  string  true  "User ID"
// @Param   item  body    dto.AddWatchlistItemRequest   true    "Symbol to track"
// @Success 201 {object} dto.WatchlistItemResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /watchlist [post]
func (h *WatchlistHandler) AddItem(c echo.Context) error {
	var req dto.AddWatchlistItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	item, err := h.watchlistService.AddItem(c.Request().Context(), userID(c), &req)
	if errors.Is(err, service.ErrDuplicateSymbol) {
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, item)
}

// GetWatchlist godoc
// @Summary Get the watchlist
// @Description List tracked symbols with live prices
// @Tags watchlist
// @Produce  json
// @Param   X-User-ID  header  string  true  "User ID"
// @Success 200 {array} dto.WatchlistItemResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /watchlist [get]
func (h *WatchlistHandler) GetWatchlist(c echo.Context) error {
	items, err := h.watchlistService.GetWatchlist(c.Request().Context(), userID(c))
	if err != nil {
		h.logger.Error("Failed to get watchlist", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get watchlist"})
	}
	return c.JSON(http.StatusOK, items)
}

// RemoveItem godoc
// @Summary Remove a watchlist item
// @Description Stop tracking a symbol
// @Tags watchlist
// @Produce  json
// @Param   X-User-ID  header  string  true  "User ID"
// @Param   id  path    int true    "Item ID"
// @Success 204 {object} nil
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /watchlist/{id} [delete]
func (h *WatchlistHandler) RemoveItem(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid item ID"})
	}

	if err := h.watchlistService.RemoveItem(c.Request().Context(), userID(c), uint(id)); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Item not found"})
	}

	return c.NoContent(http.StatusNoContent)
}
