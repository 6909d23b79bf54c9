package providers

// AIProviderConfig holds the settings for the chat model provider.
type AIProviderConfig struct {
	BaseURL      string   `mapstructure:"base_url"`
	Model        string   `mapstructure:"model"`
	ApiKey       string   `mapstructure:"api_key"`
	Organization string   `mapstructure:"organization"`
	MaxTokens    int      `mapstructure:"max_tokens"`
	Temperature  *float32 `mapstructure:"temperature"`
}
