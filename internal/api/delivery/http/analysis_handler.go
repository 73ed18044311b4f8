package http

import (
	"net/http"

	"finos-server/internal/api/service"
	"finos-server/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalysisHandler handles HTTP requests for trade analysis.
type AnalysisHandler struct {
	analysisService service.AnalysisService
	logger          *logger.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analysisService service.AnalysisService, logger *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService, logger: logger}
}

// RegisterRoutes registers the analysis routes to the Echo group.
func (h *AnalysisHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.Analyze)
}

// Analyze godoc
// @Summary Analyze the trading journal
// @Description Run the rule-based behavioral analysis over closed trades
// @Tags analysis
// @Produce  json
// @Param   X-User-ID  header  string  true  "User ID"
// @Success 200 {object} dto.AnalysisResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /analysis [get]
func (h *AnalysisHandler) Analyze(c echo.Context) error {
	result, err := h.analysisService.Analyze(c.Request().Context(), userID(c))
	if err != nil {
		h.logger.Error("Failed to analyze journal", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to analyze journal"})
	}
	return c.JSON(http.StatusOK, result)
}
