// Package provider builds CloudWeGo Eino chat models and embedders for the
// external collaborators described in spec.md §6 (the entity extractor and
// the embedder), across OpenAI, Gemini, Ollama, and Claude.
package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	geminiEmbed "github.com/cloudwego/eino-ext/components/embedding/gemini"
	ollamaEmbed "github.com/cloudwego/eino-ext/components/embedding/ollama"
	openaiEmbed "github.com/cloudwego/eino-ext/components/embedding/openai"
	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"
)

// Name identifies one of the supported providers.
type Name string

const (
	OpenAI Name = "openai"
	Gemini Name = "gemini"
	Ollama Name = "ollama"
	Claude Name = "claude"
)

// DefaultRequestTimeout bounds how long a single chat-model (entity
// extractor) request may block, per spec.md §5's context-deadline
// requirement. NewEmbedder does not apply it: embedder calls are bounded
// only by the deadline of the context the caller passes.
const DefaultRequestTimeout = 60 * time.Second

// DefaultOllamaURL is used when Config.BaseURL is empty and Provider is
// Ollama.
const DefaultOllamaURL = "http://localhost:11434"

// Config configures one chat model or embedder.
type Config struct {
	Provider Name
	Model    string
	APIKey   string        // required for OpenAI, Gemini, Claude
	BaseURL  string        // optional, OpenAI-compatible/Ollama only
	Timeout  time.Duration // chat models only; 0 uses DefaultRequestTimeout
}

func (c Config) effectiveTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultRequestTimeout
}

// CloseableChatModel wraps a chat model with optional cleanup. Callers must
// call Close when done (required for Gemini's underlying client).
type CloseableChatModel struct {
	model.BaseChatModel
	closer io.Closer
}

func (c *CloseableChatModel) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

// CloseableEmbedder wraps an embedder with optional cleanup.
type CloseableEmbedder struct {
	embedding.Embedder
	closer io.Closer
}

func (c *CloseableEmbedder) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

type genaiClientCloser struct {
	client *genai.Client
}

func (g *genaiClientCloser) Close() error {
	g.client = nil
	return nil
}

// NewChatModel builds the chat model used by the entity extractor
// (spec.md §4.B, §6). Callers must Close it when done.
func NewChatModel(ctx context.Context, cfg Config) (*CloseableChatModel, error) {
	timeout := cfg.effectiveTimeout()

	switch cfg.Provider {
	case OpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("provider: openai API key is required")
		}
		chatCfg := &openai.ChatModelConfig{Model: cfg.Model, APIKey: cfg.APIKey, Timeout: timeout}
		if cfg.BaseURL != "" {
			chatCfg.BaseURL = cfg.BaseURL
		}
		m, err := openai.NewChatModel(ctx, chatCfg)
		if err != nil {
			return nil, err
		}
		return &CloseableChatModel{BaseChatModel: m}, nil

	case Ollama:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = DefaultOllamaURL
		}
		m, err := ollama.NewChatModel(ctx, &ollama.ChatModelConfig{BaseURL: baseURL, Model: cfg.Model, Timeout: timeout})
		if err != nil {
			return nil, err
		}
		return &CloseableChatModel{BaseChatModel: m}, nil

	case Claude:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("provider: claude API key is required")
		}
		claudeCfg := &claude.Config{APIKey: cfg.APIKey, Model: cfg.Model}
		if timeout > 0 {
			claudeCfg.HTTPClient = &http.Client{Timeout: timeout}
		}
		m, err := claude.NewChatModel(ctx, claudeCfg)
		if err != nil {
			return nil, err
		}
		return &CloseableChatModel{BaseChatModel: m}, nil

	case Gemini:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("provider: gemini API key is required")
		}
		var httpClient *http.Client
		if timeout > 0 {
			httpClient = &http.Client{Timeout: timeout}
		}
		genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI, HTTPClient: httpClient})
		if err != nil {
			return nil, fmt.Errorf("provider: creating gemini client: %w", err)
		}
		m, err := gemini.NewChatModel(ctx, &gemini.Config{Client: genaiClient, Model: cfg.Model})
		if err != nil {
			return nil, fmt.Errorf("provider: creating gemini chat model: %w", err)
		}
		return &CloseableChatModel{BaseChatModel: m, closer: &genaiClientCloser{client: genaiClient}}, nil

	default:
		return nil, fmt.Errorf("provider: unsupported chat provider %q (supported: openai, ollama, claude, gemini)", cfg.Provider)
	}
}

// NewEmbedder builds the embedder used by the semantic edge builder
// (spec.md §4.C, §6). Callers must Close it when done. Claude has no
// embedding component in Eino, matching upstream reality.
func NewEmbedder(ctx context.Context, cfg Config) (*CloseableEmbedder, error) {
	switch cfg.Provider {
	case OpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("provider: openai API key is required")
		}
		embedCfg := &openaiEmbed.EmbeddingConfig{Model: cfg.Model, APIKey: cfg.APIKey}
		if cfg.BaseURL != "" {
			embedCfg.BaseURL = cfg.BaseURL
		}
		e, err := openaiEmbed.NewEmbedder(ctx, embedCfg)
		if err != nil {
			return nil, err
		}
		return &CloseableEmbedder{Embedder: e}, nil

	case Ollama:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = DefaultOllamaURL
		}
		e, err := ollamaEmbed.NewEmbedder(ctx, &ollamaEmbed.EmbeddingConfig{BaseURL: baseURL, Model: cfg.Model})
		if err != nil {
			return nil, err
		}
		return &CloseableEmbedder{Embedder: e}, nil

	case Gemini:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("provider: gemini API key is required")
		}
		genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI})
		if err != nil {
			return nil, fmt.Errorf("provider: creating gemini client: %w", err)
		}
		e, err := geminiEmbed.NewEmbedder(ctx, &geminiEmbed.EmbeddingConfig{Client: genaiClient, Model: cfg.Model})
		if err != nil {
			return nil, fmt.Errorf("provider: creating gemini embedder: %w", err)
		}
		return &CloseableEmbedder{Embedder: e, closer: &genaiClientCloser{client: genaiClient}}, nil

	default:
		return nil, fmt.Errorf("provider: unsupported embedding provider %q (supported: openai, ollama, gemini)", cfg.Provider)
	}
}
