package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/template"
	"time"

	"github.com/pterm/pterm"

	"github.com/llmsh-dev/llmsh/constants/lipgloss"
	conversation_models "github.com/llmsh-dev/llmsh/conversation/models"
	"github.com/llmsh-dev/llmsh/embed_data"
	provider_models "github.com/llmsh-dev/llmsh/providers/models"
	"github.com/llmsh-dev/llmsh/update_protocol"
	"github.com/llmsh-dev/llmsh/utils"
	scanner_models "github.com/llmsh-dev/llmsh/workspace_scanner/models"
)

const transcriptHeader = "# llm.md\n\nPlease provide your instructions under the \"Prompt\" section below.\n\n## Prompt\n\n"

const (
	promptHeading   = "## Prompt"
	responseHeading = "## Your Response"
	replyHeading    = "## Assistant's Response"
)

// pollInterval is how often the transcript file is re-checked while waiting
// for the operator to edit it.
const pollInterval = time.Second

func handleChatCommand(rootDependencies *RootDependencies, includeFilters []string) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reader := bufio.NewReader(os.Stdin)
	transcriptPath := filepath.Join(rootDependencies.Cwd, TranscriptFileName)

	_ = rootDependencies.Conversation.Load()
	if !rootDependencies.Conversation.IsEmpty() {
		keep, err := utils.ConfirmPrompt("A previous conversation is in progress. Do you wish to continue it?", reader)
		if err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			return
		}
		if !keep {
			_ = os.Remove(transcriptPath)
			if err := rootDependencies.Conversation.Reset(); err != nil {
				fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
				return
			}
			_ = rootDependencies.Conversation.Save()
		}
	}

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").WithDelay(100).WithRemoveWhenDone(true)

	spinnerLoadContext, _ := spinner.Start("Loading Context...")
	snapshot, err := rootDependencies.Scanner.Build(rootDependencies.Cwd, includeFilters, rootDependencies.Config.IncludeLarge)
	spinnerLoadContext.Stop()
	fmt.Print("\r")
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return
	}

	userPrompt, err := promptViaTranscript(ctx, rootDependencies, transcriptPath)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return
	}

	systemPrompt, err := buildSystemPrompt(rootDependencies, snapshot)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return
	}

	rootDependencies.Conversation.Append(conversation_models.RoleSystem, systemPrompt)
	rootDependencies.Conversation.Append(conversation_models.RoleUser, userPrompt)

	if !exchangeWithModel(ctx, rootDependencies, reader, transcriptPath) {
		return
	}

	// Interaction loop: keep the conversation going until the operator stops.
	for {
		respond, err := utils.ConfirmPrompt("Do you wish to respond to the assistant?", reader)
		if err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			return
		}
		if !respond {
			fmt.Println(lipgloss.Gray.Render("Conversation ended."))
			return
		}

		if err := appendToTranscript(transcriptPath, "\n"+responseHeading+"\n\n"); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			return
		}

		fmt.Println(lipgloss.BlueSky.Render(fmt.Sprintf("Please provide your response in %s under the '%s' section.", TranscriptFileName, strings.TrimPrefix(responseHeading, "## "))))
		userResponse, err := waitForSection(ctx, rootDependencies, transcriptPath, responseHeading)
		if err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			return
		}
		if userResponse == "" {
			fmt.Println(lipgloss.Yellow.Render("No response detected. Exiting the conversation."))
			return
		}

		rootDependencies.Conversation.Append(conversation_models.RoleUser, userResponse)

		if !exchangeWithModel(ctx, rootDependencies, reader, transcriptPath) {
			return
		}
	}
}

// exchangeWithModel sends the current conversation, persists the reply, and
// offers any extracted file updates to the operator. It returns false when
// the conversation cannot continue.
func exchangeWithModel(ctx context.Context, rootDependencies *RootDependencies, reader *bufio.Reader, transcriptPath string) bool {
	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgCyan)).WithDelay(200).WithRemoveWhenDone(true)
	spinnerSend, _ := spinner.Start("Waiting for the model...")

	responseContent, err := rootDependencies.CurrentChatProvider.ChatCompletionRequest(ctx, toChatMessages(rootDependencies))
	spinnerSend.Stop()
	fmt.Print("\r")
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return false
	}

	rootDependencies.Conversation.Append(conversation_models.RoleAssistant, responseContent)
	if err := rootDependencies.Conversation.Save(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
	}

	if err := appendToTranscript(transcriptPath, "\n"+replyHeading+"\n\n"+responseContent+"\n"); err != nil {
		fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Warning: could not update transcript: %v", err)))
	}

	if err := utils.RenderResponse(responseContent, rootDependencies.Config.Theme); err != nil {
		fmt.Println(responseContent)
	}

	processFileUpdates(rootDependencies, reader, responseContent)

	rootDependencies.TokenManagement.DisplayTokens(rootDependencies.Config.AIProviderConfig.Model)
	return true
}

// processFileUpdates extracts marker-delimited file blocks from the response
// and, with the operator's confirmation, applies them to disk. A dirty git
// tree is checkpointed first.
func processFileUpdates(rootDependencies *RootDependencies, reader *bufio.Reader, responseContent string) {
	blocks, files := update_protocol.ExtractFileBlocks(responseContent)
	if len(blocks) == 0 {
		return
	}

	fmt.Println(lipgloss.Info.Render("The assistant has provided updates to the following files:"))
	for _, block := range blocks {
		fmt.Println(lipgloss.BlueSky.Render(fmt.Sprintf("- %s", block.Filename)))
	}

	accepted, err := utils.ConfirmPrompt("Do you wish to automatically update them?", reader)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return
	}
	if !accepted {
		fmt.Println(lipgloss.Yellow.Render("Files were not updated."))
		return
	}

	if rootDependencies.GitOps.CheckGitRepo() == nil {
		dirty, err := rootDependencies.GitOps.HasUncommittedChanges()
		if err == nil && dirty {
			fmt.Println(lipgloss.Yellow.Render("Git repository is not clean. Committing current changes."))
			if err := rootDependencies.GitOps.CommitAll(); err != nil {
				fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
				return
			}
		}
	}

	if err := update_protocol.ApplyFileBlocks(rootDependencies.Cwd, files); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error applying updates: %v", err)))
		return
	}
	fmt.Println(lipgloss.Green.Render("✔️ Files have been updated."))
}

// promptViaTranscript creates the transcript skeleton when missing, blocks
// until the operator edits it, and returns the prompt section.
func promptViaTranscript(ctx context.Context, rootDependencies *RootDependencies, transcriptPath string) (string, error) {
	if _, err := os.Stat(transcriptPath); os.IsNotExist(err) {
		if err := os.WriteFile(transcriptPath, []byte(transcriptHeader), 0644); err != nil {
			return "", fmt.Errorf("failed to create %s: %w", TranscriptFileName, err)
		}
	}

	fmt.Println(lipgloss.BlueSky.Render(fmt.Sprintf("Please open %s and provide your prompt under the '%s' section.", TranscriptFileName, strings.TrimPrefix(promptHeading, "## "))))

	prompt, err := waitForSection(ctx, rootDependencies, transcriptPath, promptHeading)
	if err != nil {
		return "", err
	}
	if prompt == "" {
		return "", fmt.Errorf("no prompt detected in %s", TranscriptFileName)
	}
	return prompt, nil
}

// waitForSection blocks until the transcript changes, then returns the text
// after the last occurrence of the given heading.
func waitForSection(ctx context.Context, rootDependencies *RootDependencies, transcriptPath string, heading string) (string, error) {
	fmt.Println(lipgloss.Gray.Render(fmt.Sprintf("Waiting for you to write in %s...", TranscriptFileName)))

	watcher := utils.NewFileWatcher(pollInterval)
	if err := watcher.WaitForChange(ctx, transcriptPath); err != nil {
		if errors.Is(err, utils.ErrWatchedFileRemoved) {
			return "", fmt.Errorf("%s has been deleted", TranscriptFileName)
		}
		return "", err
	}

	content, err := os.ReadFile(transcriptPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", TranscriptFileName, err)
	}

	return sectionAfterLastHeading(string(content), heading), nil
}

// sectionAfterLastHeading returns the trimmed text following the last
// occurrence of heading, or "" when the heading is absent.
func sectionAfterLastHeading(content string, heading string) string {
	idx := strings.LastIndex(content, heading)
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(content[idx+len(heading):])
}

// buildSystemPrompt renders the embedded prompt template and appends the
// workspace tree listing and per-file content sections.
func buildSystemPrompt(rootDependencies *RootDependencies, snapshot *scanner_models.Snapshot) (string, error) {
	tmpl, err := template.New("system_prompt").Parse(string(embed_data.SystemPromptTemplate))
	if err != nil {
		return "", fmt.Errorf("failed to parse system prompt template: %w", err)
	}

	var builder strings.Builder
	err = tmpl.Execute(&builder, struct {
		CurrentDate    string
		GithubUsername string
		GithubFullname string
		GithubEmail    string
	}{
		CurrentDate:    time.Now().Format("Monday, 02 January 2006"),
		GithubUsername: rootDependencies.Config.Github.Username,
		GithubFullname: rootDependencies.Config.Github.Fullname,
		GithubEmail:    rootDependencies.Config.Github.Email,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render system prompt template: %w", err)
	}

	builder.WriteString("\n\n## Workspace File Tree\n\n")
	builder.WriteString(rootDependencies.Scanner.RenderTree(snapshot))
	builder.WriteString("\n\n## File Contents\n\n")
	builder.WriteString(rootDependencies.Scanner.RenderContents(snapshot))

	return builder.String(), nil
}

func toChatMessages(rootDependencies *RootDependencies) []provider_models.ChatMessage {
	history := rootDependencies.Conversation.Messages()
	messages := make([]provider_models.ChatMessage, 0, len(history))
	for _, message := range history {
		messages = append(messages, provider_models.ChatMessage{Role: message.Role, Content: message.Content})
	}
	return messages
}

func appendToTranscript(transcriptPath string, text string) error {
	file, err := os.OpenFile(transcriptPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", TranscriptFileName, err)
	}
	defer file.Close()

	if _, err := file.WriteString(text); err != nil {
		return fmt.Errorf("failed to append to %s: %w", TranscriptFileName, err)
	}
	return nil
}
