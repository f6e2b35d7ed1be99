package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"google.golang.org/genai"
)

const defaultAIModel = "gemini-2.0-flash"

// aiTimeout bounds every narrative-generation call; on expiry the caller
// falls back to the deterministic generators.
const aiTimeout = 12 * time.Second

// AIClient wraps the external text-generation provider. A nil *AIClient is
// valid and means "not configured": Generate then fails fast and callers
// use their fallbacks.
type AIClient struct {
	client *genai.Client
	model  string
}

// NewAIClientFromEnv builds the client from AI_API_KEY / AI_MODEL /
// AI_BASE_URL. Returns nil when no key is configured.
func NewAIClientFromEnv(ctx context.Context) *AIClient {
	apiKey := os.Getenv("AI_API_KEY")
	if apiKey == "" {
		log.Println("AI_API_KEY not set, weekly reports will use deterministic summaries")
		return nil
	}

	cfg := &genai.ClientConfig{APIKey: apiKey}
	if baseURL := os.Getenv("AI_BASE_URL"); baseURL != "" {
		cfg.HTTPOptions.BaseURL = baseURL
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		log.Printf("Could not initialize AI client, continuing without it: %v", err)
		return nil
	}

	model := os.Getenv("AI_MODEL")
	if model == "" {
		model = defaultAIModel
	}

	log.Printf("AI client initialized with model %s", model)
	return &AIClient{client: client, model: model}
}

// Generate asks the model for a completion. Any failure (missing client,
// timeout, provider error, empty candidate) comes back as an error; it is
// never surfaced past the report layer.
func (c *AIClient) Generate(ctx context.Context, system, prompt string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("ai client not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, aiTimeout)
	defer cancel()

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.7),
		MaxOutputTokens:   500,
	})
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}
