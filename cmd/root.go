package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/llmsh-dev/llmsh/config"
	"github.com/llmsh-dev/llmsh/constants/lipgloss"
	"github.com/llmsh-dev/llmsh/conversation"
	conversation_contracts "github.com/llmsh-dev/llmsh/conversation/contracts"
	providers_contracts "github.com/llmsh-dev/llmsh/providers/contracts"
	"github.com/llmsh-dev/llmsh/providers/openai"
	"github.com/llmsh-dev/llmsh/token_management"
	token_contracts "github.com/llmsh-dev/llmsh/token_management/contracts"
	"github.com/llmsh-dev/llmsh/utils"
	"github.com/llmsh-dev/llmsh/workspace_scanner"
	scanner_contracts "github.com/llmsh-dev/llmsh/workspace_scanner/contracts"
)

// ConversationFileName is the persisted conversation state in the working
// directory; TranscriptFileName is the human-edited prompt/response file.
const (
	ConversationFileName = ".llm.json"
	TranscriptFileName   = "llm.md"
)

// RootDependencies holds the wired collaborators shared by all commands.
type RootDependencies struct {
	Config              *config.Config
	Cwd                 string
	Scanner             scanner_contracts.IWorkspaceScanner
	CurrentChatProvider providers_contracts.IChatAIProvider
	TokenManagement     token_contracts.ITokenManagement
	Conversation        conversation_contracts.IConversationStore
	GitOps              *utils.GitOperations
}

var rootCmd = &cobra.Command{
	Use:   "llmsh [paths...]",
	Short: "Converse with a model about your codebase and apply its file updates.",
	Long: `llmsh captures a filtered snapshot of the current directory tree, hands it to
a chat model together with your prompt (written in llm.md), and parses the
response for marker-delimited file blocks which it can apply back to disk
atomically. Positional path arguments restrict the snapshot to matching files.`,
}

// handleRootCommand loads configuration and wires the dependency set used by
// the subcommands.
func handleRootCommand(cmd *cobra.Command) *RootDependencies {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		pterm.EnableDebugMessages()
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error getting current directory: %v", err)))
		os.Exit(1)
	}

	cfg := config.LoadConfigs(rootCmd, cwd)

	if cfg.AIProviderConfig.ApiKey == "" {
		fmt.Println(lipgloss.Red.Render("No API key found. Set LLM_SH_OPENAI_KEY or configure ai_provider_config.api_key."))
		os.Exit(1)
	}

	tokenManagement := token_management.NewTokenManager()

	chatProvider := openai.NewOpenAIChatProvider(&openai.OpenAIConfig{
		BaseURL:         cfg.AIProviderConfig.BaseURL,
		Model:           cfg.AIProviderConfig.Model,
		ApiKey:          cfg.AIProviderConfig.ApiKey,
		Organization:    cfg.AIProviderConfig.Organization,
		MaxTokens:       cfg.AIProviderConfig.MaxTokens,
		Temperature:     cfg.AIProviderConfig.Temperature,
		TokenManagement: tokenManagement,
	})

	return &RootDependencies{
		Config:              cfg,
		Cwd:                 cwd,
		Scanner:             workspace_scanner.NewWorkspaceScanner(cwd, cfg.EnableCache),
		CurrentChatProvider: chatProvider,
		TokenManagement:     tokenManagement,
		Conversation:        conversation.NewStore(filepath.Join(cwd, ConversationFileName)),
		GitOps:              utils.NewGitOperations(cwd),
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}
}

func init() {
	rootCmd.Run = func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd)
		handleChatCommand(rootDependencies, args)
	}
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print debug output.")
	config.InitFlags(rootCmd)
}
