package contracts

import "github.com/llmsh-dev/llmsh/conversation/models"

type IConversationStore interface {
	Load() error
	Append(role string, content string)
	Messages() []models.Message
	Save() error
	Reset() error
	IsEmpty() bool
}
