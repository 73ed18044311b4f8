package http

import (
	"net/http"
	"strconv"

	"finos-server/internal/api/dto"
	"finos-server/internal/api/service"
	"finos-server/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PortfolioHandler handles HTTP requests for portfolio assets.
type PortfolioHandler struct {
	portfolioService service.PortfolioService
	logger           *logger.Logger
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService service.PortfolioService, logger *logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService, logger: logger}
}

// RegisterRoutes registers the portfolio routes to the Echo group.
func (h *PortfolioHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateAsset)
	g.GET("", h.GetPortfolio)
	g.PUT("/:id", h.UpdateAsset)
	g.DELETE("/:id", h.DeleteAsset)
}

// CreateAsset godoc
// @Summary Add a portfolio asset
// @Description Record a new position in the portfolio
// @Tags portfolio
// @Accept  json
// @Produce  json
// @Param   X-User-ID  header  string  true  "User ID"
// @Param   asset  body    dto.CreateAssetRequest   true    "Asset to add"
// @Success 201 {object} dto.AssetResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolio [post]
func (h *PortfolioHandler) CreateAsset(c echo.Context) error {
	var req dto.CreateAssetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	asset, err := h.portfolioService.CreateAsset(c.Request().Context(), userID(c), &req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, asset)
}

// GetPortfolio godoc
// @Summary Get the portfolio
// @Description List all assets with live valuation and summary totals
// @Tags portfolio
// @Produce  json
// @Param   X-User-ID  header  string  true  "User ID"
// @Success 200 {object} dto.PortfolioResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolio [get]
func (h *PortfolioHandler) GetPortfolio(c echo.Context) error {
	portfolio, err := h.portfolioService.GetPortfolio(c.Request().Context(), userID(c))
	if err != nil {
		h.logger.Error("Failed to get portfolio", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get portfolio"})
	}
	return c.JSON(http.StatusOK, portfolio)
}

// UpdateAsset godoc
// @Summary Update a portfolio asset
// @Description Update quantity, name, or average buy price of an asset
// @Tags portfolio
// @Accept  json
// @Produce  json
// @Param   X-User-ID  header  string  true  "User ID"
// @Param   id  path    int true    "Asset ID"
// @Param   asset  body    dto.UpdateAssetRequest   true    "Fields to update"
// @Success 200 {object} dto.AssetResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /portfolio/{id} [put]
func (h *PortfolioHandler) UpdateAsset(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid asset ID"})
	}

	var req dto.UpdateAssetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	asset, err := h.portfolioService.UpdateAsset(c.Request().Context(), userID(c), uint(id), &req)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Asset not found"})
	}

	return c.JSON(http.StatusOK, asset)
}

// DeleteAsset godoc
// @Summary Delete a portfolio asset
// @Description Remove a position from the portfolio
// @Tags portfolio
// @Produce  json
// @Param   X-User-ID  header  string  true  "User ID"
// @Param   id  path    int true    "Asset ID"
// @Success 204 {object} nil
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /portfolio/{id} [delete]
func (h *PortfolioHandler) DeleteAsset(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid asset ID"})
	}

	if err := h.portfolioService.DeleteAsset(c.Request().Context(), userID(c), uint(id)); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Asset not found"})
	}

	return c.NoContent(http.StatusNoContent)
}
