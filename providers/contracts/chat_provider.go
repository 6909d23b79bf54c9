package contracts

import (
	"context"

	"github.com/llmsh-dev/llmsh/providers/models"
)

// IChatAIProvider sends a conversation to a model provider and returns the
// assistant's response text. The call blocks for the whole round trip.
type IChatAIProvider interface {
	ChatCompletionRequest(ctx context.Context, messages []models.ChatMessage) (string, error)
}
