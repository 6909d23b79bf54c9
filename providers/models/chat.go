package models

// ChatMessage is a role-tagged message sent to a chat completion endpoint.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
