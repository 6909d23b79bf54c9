package conversation

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/llmsh-dev/llmsh/conversation/contracts"
	"github.com/llmsh-dev/llmsh/conversation/models"
)

// Store is the durable conversation log. It is loaded once at startup and
// rewritten whole on every save; at most one conversation is active per
// working directory, so there is no concurrent-writer hazard.
type Store struct {
	path     string
	messages []models.Message
}

// NewStore creates a store persisting to the given path. Call Load to pick
// up prior state.
func NewStore(path string) contracts.IConversationStore {
	return &Store{path: path}
}

// Load reads the persisted log. A missing file starts an empty conversation;
// a corrupt or unreadable one degrades to an empty conversation with a
// warning rather than failing the process.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.messages = nil
			return nil
		}
		log.Printf("Warning: could not read conversation file %s: %v. Starting a new conversation.", s.path, err)
		s.messages = nil
		return nil
	}

	var messages []models.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		log.Printf("Warning: invalid conversation file %s: %v. Starting a new conversation.", s.path, err)
		s.messages = nil
		return nil
	}

	s.messages = messages
	return nil
}

// Append adds a message to the in-memory log. Call Save to persist.
func (s *Store) Append(role string, content string) {
	s.messages = append(s.messages, models.Message{Role: role, Content: content})
}

// Messages returns the ordered message sequence.
func (s *Store) Messages() []models.Message {
	return s.messages
}

// IsEmpty reports whether the log holds no messages.
func (s *Store) IsEmpty() bool {
	return len(s.messages) == 0
}

// Save serializes the whole log with human-readable indentation, replacing
// the persisted state via a sibling temporary file and an atomic rename so
// an interruption never corrupts stored state.
func (s *Store) Save() error {
	messages := s.messages
	if messages == nil {
		// Persist an empty log as [], not null.
		messages = []models.Message{}
	}
	data, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize conversation: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write conversation file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace conversation file: %w", err)
	}
	return nil
}

// Reset discards the in-memory log and removes the persisted state. Used
// when the operator declines to continue a prior session.
func (s *Store) Reset() error {
	s.messages = nil
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove conversation file: %w", err)
	}
	return nil
}
