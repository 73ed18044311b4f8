package http

import (
	"net/http"

	"finos-server/pkg/common"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// UserIDMiddleware requires a valid UUID in the X-User-ID header and stores
// it on the request context for handlers.
func UserIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := c.Request().Header.Get(common.HeaderUserID)
			if userID == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Missing " + common.HeaderUserID + " header"})
			}
			if _, err := uuid.Parse(userID); err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid " + common.HeaderUserID + " header"})
			}
			c.Set(common.ContextKeyUserID, userID)
			return next(c)
		}
	}
}

func userID(c echo.Context) string {
	id, _ := c.Get(common.ContextKeyUserID).(string)
	return id
}
