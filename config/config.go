package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/llmsh-dev/llmsh/constants/lipgloss"
	"github.com/llmsh-dev/llmsh/providers"
)

// GithubConfig identifies the operator in the system prompt.
type GithubConfig struct {
	Username string `mapstructure:"username"`
	Fullname string `mapstructure:"fullname"`
	Email    string `mapstructure:"email"`
}

// Config represents the structure of the configuration file
type Config struct {
	Version          string                      `mapstructure:"version"`
	Theme            string                      `mapstructure:"theme"`
	EnableCache      bool                        `mapstructure:"enable_cache"`
	IncludeLarge     bool                        `mapstructure:"include_large"`
	Github           *GithubConfig               `mapstructure:"github"`
	AIProviderConfig *providers.AIProviderConfig `mapstructure:"ai_provider_config"`
}

// DefaultConfig values
var DefaultConfig = Config{
	Version:      "1.0.0",
	Theme:        "dracula",
	EnableCache:  true,
	IncludeLarge: false,
	Github: &GithubConfig{
		Username: "",
		Fullname: "",
		Email:    "",
	},
	AIProviderConfig: &providers.AIProviderConfig{
		BaseURL:      "https://api.openai.com/v1",
		Model:        "gpt-4",
		ApiKey:       "",
		Organization: "",
		MaxTokens:    4096,
		Temperature:  nil,
	},
}

// cfgFile holds the path to the configuration file (set via CLI)
var cfgFile string

// LoadConfigs initializes the configuration from file, flags, and environment variables, and returns the final config.
func LoadConfigs(rootCmd *cobra.Command, cwd string) *Config {
	var config *Config

	setDefaults()

	viper.AutomaticEnv()
	bindEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error reading config file: %v", err)))
			os.Exit(1)
		}
	} else {
		viper.SetConfigName("llmsh-config")
		viper.AddConfigPath(cwd)

		// Support both YAML and JSON formats
		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			viper.SetConfigType("json")
			// Missing config files are fine; defaults apply
			_ = viper.ReadInConfig()
		}
	}

	bindFlags(rootCmd)

	if err := viper.Unmarshal(&config); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Unable to decode into struct: %v", err)))
		os.Exit(1)
	}

	return config
}

// setDefaults sets all default configuration values
func setDefaults() {
	viper.SetDefault("version", DefaultConfig.Version)
	viper.SetDefault("theme", DefaultConfig.Theme)
	viper.SetDefault("enable_cache", DefaultConfig.EnableCache)
	viper.SetDefault("include_large", DefaultConfig.IncludeLarge)
	viper.SetDefault("github.username", DefaultConfig.Github.Username)
	viper.SetDefault("github.fullname", DefaultConfig.Github.Fullname)
	viper.SetDefault("github.email", DefaultConfig.Github.Email)
	viper.SetDefault("ai_provider_config.base_url", DefaultConfig.AIProviderConfig.BaseURL)
	viper.SetDefault("ai_provider_config.model", DefaultConfig.AIProviderConfig.Model)
	viper.SetDefault("ai_provider_config.api_key", DefaultConfig.AIProviderConfig.ApiKey)
	viper.SetDefault("ai_provider_config.organization", DefaultConfig.AIProviderConfig.Organization)
	viper.SetDefault("ai_provider_config.max_tokens", DefaultConfig.AIProviderConfig.MaxTokens)
	viper.SetDefault("ai_provider_config.temperature", DefaultConfig.AIProviderConfig.Temperature)
}

// bindEnv explicitly binds environment variables to configuration keys
func bindEnv() {
	_ = viper.BindEnv("theme", "LLM_SH_THEME")
	_ = viper.BindEnv("enable_cache", "LLM_SH_ENABLE_CACHE")
	_ = viper.BindEnv("ai_provider_config.api_key", "LLM_SH_OPENAI_KEY")
	_ = viper.BindEnv("ai_provider_config.organization", "LLM_SH_OPENAI_ORGANIZATION")
	_ = viper.BindEnv("ai_provider_config.base_url", "LLM_SH_OPENAI_BASE_URL")
	_ = viper.BindEnv("ai_provider_config.model", "LLM_SH_OPENAI_MODEL")
	_ = viper.BindEnv("ai_provider_config.max_tokens", "LLM_SH_OPENAI_MAX_TOKENS")
	_ = viper.BindEnv("github.username", "GITHUB_USERNAME")
	_ = viper.BindEnv("github.fullname", "GITHUB_FULLNAME")
	_ = viper.BindEnv("github.email", "GITHUB_EMAIL")
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(rootCmd *cobra.Command) {
	_ = viper.BindPFlag("theme", rootCmd.PersistentFlags().Lookup("theme"))
	_ = viper.BindPFlag("enable_cache", rootCmd.PersistentFlags().Lookup("enable_cache"))
	_ = viper.BindPFlag("include_large", rootCmd.PersistentFlags().Lookup("include-large"))
	_ = viper.BindPFlag("ai_provider_config.base_url", rootCmd.PersistentFlags().Lookup("base_url"))
	_ = viper.BindPFlag("ai_provider_config.model", rootCmd.PersistentFlags().Lookup("model"))
	_ = viper.BindPFlag("ai_provider_config.api_key", rootCmd.PersistentFlags().Lookup("api_key"))
	_ = viper.BindPFlag("ai_provider_config.max_tokens", rootCmd.PersistentFlags().Lookup("max_tokens"))
	_ = viper.BindPFlag("ai_provider_config.temperature", rootCmd.PersistentFlags().Lookup("temperature"))
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Specifies the path to a configuration file (JSON or YAML) that contains all the settings for the application.")

	rootCmd.PersistentFlags().String("theme", DefaultConfig.Theme, "Syntax highlighting theme for rendered responses (e.g., 'dracula', 'monokai').")
	rootCmd.PersistentFlags().Bool("enable_cache", DefaultConfig.EnableCache, "Enable or disable snapshot file caching between runs.")
	rootCmd.PersistentFlags().Bool("include-large", DefaultConfig.IncludeLarge, "Include the full content of large files in the workspace snapshot.")

	rootCmd.PersistentFlags().String("base_url", DefaultConfig.AIProviderConfig.BaseURL, "The base URL of the model provider API.")
	rootCmd.PersistentFlags().String("model", DefaultConfig.AIProviderConfig.Model, "The name of the model used for chat completions, such as 'gpt-4o'.")
	rootCmd.PersistentFlags().String("api_key", DefaultConfig.AIProviderConfig.ApiKey, "The API key used to authenticate with the model provider.")
	rootCmd.PersistentFlags().Int("max_tokens", DefaultConfig.AIProviderConfig.MaxTokens, "Maximum number of tokens in a model response.")
	rootCmd.PersistentFlags().Float32("temperature", 0, "Adjusts the model's creativity (0-1).")
}
