package embedding

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiEmbedder calls the Gemini embedding API.
type GeminiEmbedder struct {
	client *genai.Client
	model  *genai.EmbeddingModel
	name   string
}

// NewGeminiEmbedder creates a Gemini client for the configured model.
func NewGeminiEmbedder(ctx context.Context, cfg *Config, apiKey string) (*GeminiEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required for gemini embeddings")
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.EmbeddingModel(modelName)
	model.TaskType = genai.TaskTypeSemanticSimilarity

	return &GeminiEmbedder{
		client: client,
		model:  model,
		name:   modelName,
	}, nil
}

// Embed returns the embedding of text.
func (g *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	resp, err := g.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, &ProviderError{Provider: ProviderGemini, Message: "embed content " + g.name, Cause: err}
	}
	if resp == nil || resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, &ProviderError{Provider: ProviderGemini, Message: "empty embedding in response"}
	}
	return toFloat64(resp.Embedding.Values), nil
}

// Close releases the underlying client.
func (g *GeminiEmbedder) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
