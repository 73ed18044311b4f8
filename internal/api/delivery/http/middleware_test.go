package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"finos-server/pkg/common"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserIDMiddleware(t *testing.T) {
	e := echo.New()
	handler := UserIDMiddleware()(func(c echo.Context) error {
		return c.String(http.StatusOK, userID(c))
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid uuid is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(common.HeaderUserID, "not-a-uuid")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid uuid reaches the handler", func(t *testing.T) {
		const id = "0e4ac2e9-6f5c-4b3a-9d2e-7a1f0c8b5d41"
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(common.HeaderUserID, id)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, id, rec.Body.String())
	})
}
