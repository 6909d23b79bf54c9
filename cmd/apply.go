package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/llmsh-dev/llmsh/constants/lipgloss"
	"github.com/llmsh-dev/llmsh/conversation"
	conversation_models "github.com/llmsh-dev/llmsh/conversation/models"
	"github.com/llmsh-dev/llmsh/update_protocol"
	"github.com/llmsh-dev/llmsh/utils"
)

var applyAssumeYes bool

var applyCmd = &cobra.Command{
	Use:   "apply [response-file]",
	Short: "Extract file blocks from a saved response and write them to disk.",
	Long: `apply re-parses a model response for marker-delimited file blocks and writes
them into the current directory. With a file argument the response is read from
that file; without one the last assistant message of the stored conversation is
used.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		handleApplyCommand(args)
	},
}

func handleApplyCommand(args []string) {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error getting current directory: %v", err)))
		os.Exit(1)
	}

	responseContent, err := loadResponseContent(cwd, args)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}

	blocks, _ := update_protocol.ExtractFileBlocks(responseContent)
	if len(blocks) == 0 {
		fmt.Println(lipgloss.Yellow.Render("No file update blocks found in the response."))
		return
	}

	fmt.Println(lipgloss.Info.Render("The response contains updates to the following files:"))
	for _, block := range blocks {
		fmt.Println(lipgloss.BlueSky.Render(fmt.Sprintf("- %s", block.Filename)))
	}

	if !applyAssumeYes {
		accepted, err := utils.ConfirmPrompt("Do you wish to apply them?", bufio.NewReader(os.Stdin))
		if err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			os.Exit(1)
		}
		if !accepted {
			fmt.Println(lipgloss.Yellow.Render("Files were not updated."))
			return
		}
	}

	gitOps := utils.NewGitOperations(cwd)
	if gitOps.CheckGitRepo() == nil {
		dirty, err := gitOps.HasUncommittedChanges()
		if err == nil && dirty {
			fmt.Println(lipgloss.Yellow.Render("Git repository is not clean. Committing current changes."))
			if err := gitOps.CommitAll(); err != nil {
				fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
				os.Exit(1)
			}
		}
	}

	if err := update_protocol.ApplyBlocks(cwd, blocks); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error applying updates: %v", err)))
		os.Exit(1)
	}
	fmt.Println(lipgloss.Green.Render("✔️ Files have been updated."))
}

// loadResponseContent reads the response from the given file, or falls back
// to the last assistant message of the stored conversation.
func loadResponseContent(cwd string, args []string) (string, error) {
	if len(args) == 1 {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read response file: %w", err)
		}
		return string(raw), nil
	}

	store := conversation.NewStore(filepath.Join(cwd, ConversationFileName))
	if err := store.Load(); err != nil {
		return "", err
	}
	messages := store.Messages()
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == conversation_models.RoleAssistant {
			return messages[i].Content, nil
		}
	}
	return "", fmt.Errorf("no assistant response found in %s", ConversationFileName)
}

func init() {
	applyCmd.Flags().BoolVarP(&applyAssumeYes, "yes", "y", false, "Apply file updates without asking for confirmation.")
	rootCmd.AddCommand(applyCmd)
}
