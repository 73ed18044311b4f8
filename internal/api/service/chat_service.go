package service

import (
	"context"
	"fmt"
	"strings"

	"finos-server/internal/api/config"
	"finos-server/internal/api/dto"
	"finos-server/internal/api/repository"
	"finos-server/pkg/logger"
)

// Built-in persona preambles, overridable from config.
var defaultPersonas = map[string]string{
	"cio": "Role: Chief Investment Officer (CIO).\n" +
		"Objective: Provide institutional-grade financial analysis.\n" +
		"Rules:\n1. Bottom Line First.\n2. Data-Backed Claims.\n3. Indian Context (NSE/BSE).",
	"mentor": "Role: Patient trading mentor.\n" +
		"Objective: Explain concepts simply and coach better habits.\n" +
		"Rules:\n1. Plain language.\n2. One idea at a time.\n3. Never give direct buy/sell calls.",
	"quant": "Role: Quantitative analyst.\n" +
		"Objective: Frame every answer around measurable statistics.\n" +
		"Rules:\n1. Cite the numbers.\n2. State assumptions.\n3. Flag small sample sizes.",
}

// ChatService proxies conversations to the configured completion provider,
// prefixing a persona preamble and the cached market context.
type ChatService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	StreamChat(ctx context.Context, req *dto.ChatRequest, onChunk func(chunk string) error) error
}

// NewChatService creates a new chat service.
func NewChatService(cfg *config.Config, aiRepo repository.AIRepository, market MarketService, log *logger.Logger) ChatService {
	return &chatService{
		cfg:    cfg,
		aiRepo: aiRepo,
		market: market,
		logger: log,
	}
}

type chatService struct {
	cfg    *config.Config
	aiRepo repository.AIRepository
	market MarketService
	logger *logger.Logger
}

// Chat returns the full completion in one response.
func (s *chatService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	prompt, err := s.buildPrompt(ctx, req)
	if err != nil {
		return nil, err
	}

	response, err := s.aiRepo.Complete(ctx, prompt, completionOptions(req))
	if err != nil {
		s.logger.Error("Completion failed", logger.ErrorField(err))
		return nil, err
	}

	return &dto.ChatResponse{Response: response}, nil
}

// StreamChat relays completion fragments to onChunk as they arrive.
func (s *chatService) StreamChat(ctx context.Context, req *dto.ChatRequest, onChunk func(chunk string) error) error {
	prompt, err := s.buildPrompt(ctx, req)
	if err != nil {
		return err
	}

	if err := s.aiRepo.StreamComplete(ctx, prompt, completionOptions(req), onChunk); err != nil {
		s.logger.Error("Streaming completion failed", logger.ErrorField(err))
		return err
	}
	return nil
}

// buildPrompt assembles the chat-template prompt: persona preamble plus
// market context as the system turn, then the conversation.
func (s *chatService) buildPrompt(ctx context.Context, req *dto.ChatRequest) (string, error) {
	if len(req.Messages) == 0 {
		return "", fmt.Errorf("messages are required")
	}

	systemPrompt := s.personaPreamble(req.Persona)
	if marketContext := s.market.MarketContext(ctx); marketContext != "" {
		systemPrompt += "\nContext: " + marketContext
	}

	var sb strings.Builder
	sb.WriteString("<|im_start|>system\n")
	sb.WriteString(systemPrompt)
	sb.WriteString("<|im_end|>\n")

	for _, message := range req.Messages {
		if message.Role == "system" {
			continue
		}
		sb.WriteString("<|im_start|>")
		sb.WriteString(message.Role)
		sb.WriteString("\n")
		sb.WriteString(message.Content)
		sb.WriteString("<|im_end|>\n")
	}
	sb.WriteString("<|im_start|>assistant\n")

	return sb.String(), nil
}

// personaPreamble resolves the persona label: configured presets first, then
// built-ins, then the default persona.
func (s *chatService) personaPreamble(persona string) string {
	persona = strings.ToLower(strings.TrimSpace(persona))
	if persona == "" {
		persona = s.cfg.Chat.DefaultPersona
	}

	if preamble, ok := s.cfg.Chat.Personas[persona]; ok && preamble != "" {
		return preamble
	}
	if preamble, ok := defaultPersonas[persona]; ok {
		return preamble
	}

	fallback := s.cfg.Chat.DefaultPersona
	if preamble, ok := s.cfg.Chat.Personas[fallback]; ok && preamble != "" {
		return preamble
	}
	if preamble, ok := defaultPersonas[fallback]; ok {
		return preamble
	}
	return defaultPersonas["cio"]
}

func completionOptions(req *dto.ChatRequest) repository.CompletionOptions {
	return repository.CompletionOptions{
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
}
