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
	"finos-server/pkg/logger"
)

// huggingFaceRepository is an implementation of AIRepository that uses the
// HuggingFace inference API.
type huggingFaceRepository struct {
	client *http.Client
	cfg    *config.Config
	logger *logger.Logger
}

// NewHuggingFaceRepository creates a new instance of huggingFaceRepository.
func NewHuggingFaceRepository(cfg *config.Config, log *logger.Logger) AIRepository {
	return &huggingFaceRepository{
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		cfg:    cfg,
		logger: log,
	}
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
	Stream     bool         `json:"stream,omitempty"`
}

type hfParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature,omitempty"`
	ReturnFullText bool    `json:"return_full_text"`
}

type hfStreamEvent struct {
	Token struct {
		Text string `json:"text"`
	} `json:"token"`
	GeneratedText *string `json:"generated_text"`
}

// Complete returns the full generated text in one response.
func (r *huggingFaceRepository) Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	resp, err := r.send(ctx, prompt, opts, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var results []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(body, &results); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}
	if len(results) == 0 {
		return "", fmt.Errorf("completion response was empty")
	}

	return results[0].GeneratedText, nil
}

// StreamComplete relays generated token fragments as they arrive on the
// SSE-style line protocol.
func (r *huggingFaceRepository) StreamComplete(ctx context.Context, prompt string, opts CompletionOptions, onChunk func(chunk string) error) error {
	resp, err := r.send(ctx, prompt, opts, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}

		var event hfStreamEvent
		if err := json.Unmarshal([]byte(strings.TrimSpace(line[5:])), &event); err != nil {
			continue
		}
		if event.Token.Text == "" {
			continue
		}
		if err := onChunk(event.Token.Text); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read stream: %w", err)
	}
	return nil
}

func (r *huggingFaceRepository) send(ctx context.Context, prompt string, opts CompletionOptions, stream bool) (*http.Response, error) {
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = r.cfg.Chat.HuggingFace.MaxNewTokens
	}

	payload := hfRequest{
		Inputs: prompt,
		Parameters: hfParameters{
			MaxNewTokens:   maxTokens,
			Temperature:    opts.Temperature,
			ReturnFullText: false,
		},
		Stream: stream,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	url := r.cfg.Chat.HuggingFace.BaseURL + "/models/" + r.cfg.Chat.HuggingFace.Model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.cfg.Chat.HuggingFace.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send completion request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		r.logger.Error("Completion upstream returned non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(body)),
		)
		return nil, fmt.Errorf("completion upstream returned status %d", resp.StatusCode)
	}

	return resp, nil
}
