package http

import (
	"net/http"

	"finos-server/internal/api/dto"
	"finos-server/internal/api/service"
	"finos-server/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ChatHandler handles HTTP requests for the chat proxy.
type ChatHandler struct {
	chatService service.ChatService
	logger      *logger.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService, logger *logger.Logger) *ChatHandler {
	return &ChatHandler{chatService: chatService, logger: logger}
}

// RegisterRoutes registers the chat routes to the Echo group.
func (h *ChatHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.Chat)
}

// Chat godoc
// @Summary Chat with the assistant
// @Description Proxy the conversation to the completion provider; streams plain-text chunks when stream is true
// @Tags chat
// @Accept  json
// @Produce  json
// @Param   X-User-ID  header  string  true  "User ID"
// @Param   request  body    dto.ChatRequest   true    "Conversation"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /chat [post]
func (h *ChatHandler) Chat(c echo.Context) error {
	var req dto.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if len(req.Messages) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Messages are required"})
	}

	if req.Stream {
		return h.stream(c, &req)
	}

	response, err := h.chatService.Chat(c.Request().Context(), &req)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "Completion provider unavailable"})
	}
	return c.JSON(http.StatusOK, response)
}

// stream writes completion chunks as they arrive, flushing after each one.
// Errors after the first chunk can only terminate the stream; a failure
// before any output is reported as an error line in the body.
func (h *ChatHandler) stream(c echo.Context, req *dto.ChatRequest) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextPlainCharsetUTF8)
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().WriteHeader(http.StatusOK)

	wrote := false
	err := h.chatService.StreamChat(c.Request().Context(), req, func(chunk string) error {
		if _, err := c.Response().Write([]byte(chunk)); err != nil {
			return err
		}
		wrote = true
		c.Response().Flush()
		return nil
	})
	if err != nil {
		h.logger.Error("Chat stream terminated", logger.ErrorField(err))
		if !wrote {
			_, _ = c.Response().Write([]byte("Error: completion provider unavailable"))
			c.Response().Flush()
		}
	}
	return nil
}
