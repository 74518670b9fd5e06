package provider

import (
	"context"
	"errors"

	"github.com/askdeck/askdeck/config"
	"github.com/askdeck/askdeck/models"
	gemini_provider "github.com/askdeck/askdeck/provider/gemini"
)

// Client represents different LLM providers
type Client string

const (
	Gemini    Client = "gemini"
	OpenAI    Client = "openai"
	Anthropic Client = "anthropic"
)

// Provider is the interface that all LLM implementations must satisfy
type Provider interface {
	// AnalyzeIntent classifies the message given rendered conversation history.
	AnalyzeIntent(ctx context.Context, message string, history string) (models.Intent, error)
	// AnswerFromDocuments produces an answer grounded in the supplied document
	// excerpts. The boolean is false when the model reports the documents do
	// not contain the answer.
	AnswerFromDocuments(ctx context.Context, message, documents, history string) (string, bool, error)
	// SmallTalk answers conversational messages that need no documents.
	SmallTalk(ctx context.Context, message string) (string, error)
}

// NewProvider creates a new LLM client based on the provided configuration
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	switch Client(cfg.Provider) {
	case Gemini:
		if cfg.APIKey == "" {
			return nil, errors.New("gemini API key not set")
		}
		return gemini_provider.NewGeminiClient(
			cfg.APIKey,
			cfg.Model,
			cfg.Temperature,
			cfg.MaxTokens,
			cfg.Timeout,
		), nil
	case OpenAI:
		return nil, errors.New("openai client not implemented yet")
	case Anthropic:
		return nil, errors.New("anthropic client not implemented yet")
	default:
		return nil, errors.New("unsupported LLM provider")
	}
}
