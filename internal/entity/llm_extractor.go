package entity

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/josephgoksu/factwing/prompts"
)

// LLMExtractor is the Eino-backed implementation of Extractor: it sends the
// context text to a chat model with prompts.EntityExtractionSystemPrompt
// and parses the (possibly malformed) JSON response via ParseEntities.
type LLMExtractor struct {
	chatModel model.BaseChatModel
}

// NewLLMExtractor wraps an already-constructed Eino chat model (see
// internal/provider.NewChatModel).
func NewLLMExtractor(chatModel model.BaseChatModel) *LLMExtractor {
	return &LLMExtractor{chatModel: chatModel}
}

// Extract implements Extractor.
func (x *LLMExtractor) Extract(ctx context.Context, contextText string) ([]Entity, error) {
	messages := []*schema.Message{
		{Role: schema.System, Content: prompts.EntityExtractionSystemPrompt},
		{Role: schema.User, Content: contextText},
	}
	resp, err := x.chatModel.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("entity: chat model generate: %w", err)
	}
	entities, err := ParseEntities(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("entity: parsing extractor response: %w", err)
	}
	return entities, nil
}
