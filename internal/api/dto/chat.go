package dto

// ChatMessage is one turn of the conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the DTO for the chat proxy. Persona selects a tone preset;
// unknown labels fall back to the configured default.
type ChatRequest struct {
	Messages    []ChatMessage `json:"messages"`
	Persona     string        `json:"persona"`
	Stream      bool          `json:"stream"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

// ChatResponse is the non-streaming chat reply.
type ChatResponse struct {
	Response string `json:"response"`
}
