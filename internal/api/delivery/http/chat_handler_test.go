package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"finos-server/internal/api/dto"
	"finos-server/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	return log
}

type stubChatService struct {
	response string
	chunks   []string
	err      error
}

func (s *stubChatService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ChatResponse{Response: s.response}, nil
}

func (s *stubChatService) StreamChat(ctx context.Context, req *dto.ChatRequest, onChunk func(chunk string) error) error {
	for _, chunk := range s.chunks {
		if err := onChunk(chunk); err != nil {
			return err
		}
	}
	return s.err
}

func performChat(t *testing.T, svc *stubChatService, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := NewChatHandler(svc, testLogger(t))
	require.NoError(t, handler.Chat(c))
	return rec
}

const streamBody = `{"stream":true,"messages":[{"role":"user","content":"hi"}]}`

func TestChatStream(t *testing.T) {
	t.Run("chunks are relayed in order", func(t *testing.T) {
		rec := performChat(t, &stubChatService{chunks: []string{"Bottom ", "line."}}, streamBody)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Bottom line.", rec.Body.String())
	})

	t.Run("failure before any output reports an error line", func(t *testing.T) {
		rec := performChat(t, &stubChatService{err: context.DeadlineExceeded}, streamBody)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Error: completion provider unavailable", rec.Body.String())
	})

	t.Run("failure mid-stream leaves delivered chunks intact", func(t *testing.T) {
		rec := performChat(t, &stubChatService{chunks: []string{"partial"}, err: context.DeadlineExceeded}, streamBody)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "partial", rec.Body.String())
	})
}

func TestChat(t *testing.T) {
	t.Run("non-stream returns the full completion", func(t *testing.T) {
		rec := performChat(t, &stubChatService{response: "Hold."},
			`{"messages":[{"role":"user","content":"hi"}]}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"response":"Hold."`)
	})

	t.Run("provider failure maps to 502", func(t *testing.T) {
		rec := performChat(t, &stubChatService{err: context.DeadlineExceeded},
			`{"messages":[{"role":"user","content":"hi"}]}`)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("empty conversation is rejected", func(t *testing.T) {
		rec := performChat(t, &stubChatService{}, `{"messages":[]}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
