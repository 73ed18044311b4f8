package http

import (
	"net/http"

	"finos-server/internal/api/dto"
	"finos-server/internal/api/service"
	"finos-server/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ProfileHandler handles HTTP requests for profiles and onboarding.
type ProfileHandler struct {
	profileService service.ProfileService
	logger         *logger.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService service.ProfileService, logger *logger.Logger) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, logger: logger}
}

// RegisterRoutes registers the profile routes to the Echo group.
func (h *ProfileHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetProfile)
	g.PUT("", h.UpsertProfile)
	g.GET("/onboarding", h.GetOnboarding)
	g.PUT("/onboarding", h.UpsertOnboarding)
}

// GetProfile godoc
// @Summary Get the user profile
// @Description Return the profile, defaulting when none has been saved
// @Tags profile
// @Produce  json
// @Param   X-User-ID  header  string  true  "User ID"
// @Success 200 {object} entity.Profile
// @Failure 500 {object} dto.ErrorResponse
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	profile, err := h.profileService.GetProfile(c.Request().Context(), userID(c))
	if err != nil {
		h.logger.Error("Failed to get profile", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get profile"})
	}
	return c.JSON(http.StatusOK, profile)
}

// UpsertProfile godoc
// @Summary Save the user profile
// @Description Create or update the profile
// @Tags profile
// @Accept  json
// @Produce  json
// @Param   X-User-ID  header  string  true  "User ID"
// @Param   profile  body    dto.UpsertProfileRequest   true    "Profile"
// @Success 200 {object} entity.Profile
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /profile [put]
func (h *ProfileHandler) UpsertProfile(c echo.Context) error {
	var req dto.UpsertProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	profile, err := h.profileService.UpsertProfile(c.Request().Context(), userID(c), &req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to save profile"})
	}
	return c.JSON(http.StatusOK, profile)
}

// GetOnboarding godoc
// @Summary Get onboarding state
// @Description Return the onboarding questionnaire state
// @Tags profile
// @Produce  json
// @Param   X-User-ID  header  string  true  "User ID"
// @Success 200 {object} entity.UserOnboarding
// @Failure 500 {object} dto.ErrorResponse
// @Router /profile/onboarding [get]
func (h *ProfileHandler) GetOnboarding(c echo.Context) error {
	onboarding, err := h.profileService.GetOnboarding(c.Request().Context(), userID(c))
	if err != nil {
		h.logger.Error("Failed to get onboarding", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get onboarding"})
	}
	return c.JSON(http.StatusOK, onboarding)
}

// UpsertOnboarding godoc
// @Summary Save onboarding state
// @Description Record onboarding questionnaire progress
// @Tags profile
// @Accept  json
// @Produce  json
// @Param   X-User-ID  header  string  true  "User ID"
// @Param   onboarding  body    dto.UpsertOnboardingRequest   true    "Onboarding state"
// @Success 200 {object} entity.UserOnboarding
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /profile/onboarding [put]
func (h *ProfileHandler) UpsertOnboarding(c echo.Context) error {
	var req dto.UpsertOnboardingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	onboarding, err := h.profileService.UpsertOnboarding(c.Request().Context(), userID(c), &req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to save onboarding"})
	}
	return c.JSON(http.StatusOK, onboarding)
}
