package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/llmsh-dev/llmsh/providers/contracts"
	"github.com/llmsh-dev/llmsh/providers/models"
	openai_models "github.com/llmsh-dev/llmsh/providers/openai/models"
	contracts2 "github.com/llmsh-dev/llmsh/token_management/contracts"
)

const defaultBaseURL = "https://api.openai.com/v1"

// OpenAIConfig implements the chat provider interface for the OpenAI API.
type OpenAIConfig struct {
	BaseURL         string
	Model           string
	ApiKey          string
	Organization    string
	MaxTokens       int
	Temperature     *float32
	TokenManagement contracts2.ITokenManagement
	Client          *http.Client
}

// NewOpenAIChatProvider initializes a new OpenAI provider.
func NewOpenAIChatProvider(config *OpenAIConfig) contracts.IChatAIProvider {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Client == nil {
		config.Client = http.DefaultClient
	}
	return config
}

// ChatCompletionRequest sends the conversation and returns the assistant's
// reply. When the model rejects the system role, the request is retried once
// with the system prompt folded into the first user message.
func (provider *OpenAIConfig) ChatCompletionRequest(ctx context.Context, messages []models.ChatMessage) (string, error) {
	content, retryable, err := provider.send(ctx, messages)
	if err == nil {
		return content, nil
	}
	if !retryable {
		return "", err
	}

	log.Printf("Warning: model does not support the 'system' role. Retrying without it.")
	content, _, err = provider.send(ctx, foldSystemIntoUser(messages))
	return content, err
}

// send performs one round trip. The middle return value reports whether the
// failure was a system-role rejection worth retrying.
func (provider *OpenAIConfig) send(ctx context.Context, messages []models.ChatMessage) (string, bool, error) {
	reqBody := openai_models.ChatCompletionRequest{
		Model:       provider.Model,
		Messages:    messages,
		MaxTokens:   provider.MaxTokens,
		Temperature: provider.Temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", false, fmt.Errorf("error marshalling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/chat/completions", provider.BaseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return "", false, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+provider.ApiKey)
	if provider.Organization != "" {
		req.Header.Set("OpenAI-Organization", provider.Organization)
	}

	resp, err := provider.Client.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode == http.StatusBadRequest && strings.Contains(string(body), "'system'")
		return "", retryable, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var completion openai_models.ChatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", false, fmt.Errorf("error decoding response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", false, fmt.Errorf("response contained no choices")
	}

	if provider.TokenManagement != nil {
		provider.TokenManagement.UsedTokens(completion.Usage.PromptTokens, completion.Usage.CompletionTokens)
	}

	return completion.Choices[0].Message.Content, false, nil
}

// foldSystemIntoUser removes system messages, prepending their content to
// the first user message (or inserting a user message when there is none).
func foldSystemIntoUser(messages []models.ChatMessage) []models.ChatMessage {
	var systemContent string
	var rest []models.ChatMessage
	for _, message := range messages {
		if message.Role == "system" {
			if systemContent == "" {
				systemContent = message.Content
			}
			continue
		}
		rest = append(rest, message)
	}

	if systemContent == "" {
		return rest
	}

	if len(rest) > 0 && rest[0].Role == "user" {
		rest[0].Content = fmt.Sprintf("%s\n\n%s", systemContent, rest[0].Content)
		return rest
	}

	return append([]models.ChatMessage{{Role: "user", Content: systemContent}}, rest...)
}
