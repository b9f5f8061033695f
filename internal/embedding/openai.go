package embedding

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIEmbedder calls the OpenAI embeddings endpoint. BaseURL may point at
// any compatible server.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
}

// NewOpenAIEmbedder creates an OpenAI embeddings client.
func NewOpenAIEmbedder(cfg *Config, apiKey string) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required for openai embeddings")
	}
	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)

	return &OpenAIEmbedder{
		client: &client,
		model:  model,
	}, nil
}

// Embed returns the embedding of text.
func (o *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	resp, err := o.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: openai.EmbeddingModel(o.model),
	})
	if err != nil {
		return nil, &ProviderError{Provider: ProviderOpenAI, Message: "create embedding " + o.model, Cause: err}
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, &ProviderError{Provider: ProviderOpenAI, Message: "empty embedding in response"}
	}
	return resp.Data[0].Embedding, nil
}
