package repository

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"finos-server/internal/api/config"
	"finos-server/internal/api/dto"
	"finos-server/pkg/logger"
	"finos-server/pkg/ratelimit"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// geminiAIRepository is an implementation of AIRepository that uses the
// Google Gemini API, with request- and token-per-minute limits applied
// before every call.
type geminiAIRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiAIRepository creates a new instance of geminiAIRepository.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) (AIRepository, error) {
	secondsPerRequest := time.Minute / time.Duration(cfg.Chat.Gemini.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)
	tokenLimiter := ratelimit.NewTokenLimiter(cfg.Chat.Gemini.MaxTokenPerMinute)

	return &geminiAIRepository{
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		tokenLimiter:   tokenLimiter,
		genAiClient:    genAiClient,
	}, nil
}

// Complete returns the full generated text in one response.
func (r *geminiAIRepository) Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	body, err := r.send(ctx, prompt, opts, "generateContent", "")
	if err != nil {
		return "", err
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var resp dto.GeminiAPIResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("failed to decode gemini response: %w", err)
	}

	return extractGeminiText(&resp)
}

// StreamComplete relays candidate fragments from the streamGenerateContent
// SSE endpoint.
func (r *geminiAIRepository) StreamComplete(ctx context.Context, prompt string, opts CompletionOptions, onChunk func(chunk string) error) error {
	body, err := r.send(ctx, prompt, opts, "streamGenerateContent", "alt=sse")
	if err != nil {
		return err
	}
	defer body.Close()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}

		var event dto.GeminiAPIResponse
		if err := json.Unmarshal([]byte(strings.TrimSpace(line[5:])), &event); err != nil {
			continue
		}
		text, err := extractGeminiText(&event)
		if err != nil {
			continue
		}
		if text == "" {
			continue
		}
		if err := onChunk(text); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read stream: %w", err)
	}
	return nil
}

// send applies both limiters and posts the prompt to the given method.
func (r *geminiAIRepository) send(ctx context.Context, prompt string, opts CompletionOptions, method, query string) (io.ReadCloser, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}
	tokenResp, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.Chat.Gemini.Model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count tokens: %w", err)
	}

	r.logger.Debug("Gemini token count",
		logger.IntField("total_tokens", int(tokenResp.TotalTokens)),
		logger.IntField("remaining", r.tokenLimiter.GetRemaining()),
	)

	if err := r.tokenLimiter.Wait(ctx, int(tokenResp.TotalTokens)); err != nil {
		return nil, fmt.Errorf("failed to wait for token limit: %w", err)
	}
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	payload := dto.GeminiAPIRequest{
		Contents: []dto.Content{{Parts: []dto.Part{{Text: prompt}}, Role: "user"}},
	}
	if opts.MaxTokens > 0 || opts.Temperature > 0 {
		payload.GenerationConfig = &dto.GenerationConfig{
			MaxOutputTokens: opts.MaxTokens,
			Temperature:     opts.Temperature,
		}
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s:%s?key=%s", geminiBaseURL, r.cfg.Chat.Gemini.Model, method, r.cfg.Chat.Gemini.APIKey)
	if query != "" {
		url += "&" + query
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send gemini request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		r.logger.Error("Gemini returned non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(body)),
		)
		return nil, fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	return resp.Body, nil
}

func extractGeminiText(resp *dto.GeminiAPIResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini response had no candidates")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}
