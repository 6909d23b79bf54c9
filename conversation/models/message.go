package models

// Conversation roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged entry in the conversation log. Field names
// are part of the persisted format and must stay stable.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
