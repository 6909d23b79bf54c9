package utils

import (
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// GitOperations handles git-related operations
type GitOperations struct {
	workingDir string
}

// NewGitOperations creates a new GitOperations instance
func NewGitOperations(workingDir string) *GitOperations {
	return &GitOperations{workingDir: workingDir}
}

// CheckGitRepo checks if the current directory is a git repository
func (g *GitOperations) CheckGitRepo() error {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = g.workingDir
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("not a git repository")
	}
	return nil
}

// GetGitStatus returns the current git status
func (g *GitOperations) GetGitStatus() (string, error) {
	cmd := exec.Command("git", "status", "--porcelain")
	cmd.Dir = g.workingDir
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get git status: %w", err)
	}
	return string(output), nil
}

// HasUncommittedChanges checks if there are uncommitted changes
func (g *GitOperations) HasUncommittedChanges() (bool, error) {
	status, err := g.GetGitStatus()
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(status) != "", nil
}

// AddFiles adds all modified files to staging
func (g *GitOperations) AddFiles() error {
	cmd := exec.Command("git", "add", ".")
	cmd.Dir = g.workingDir
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to add files to git: %w", err)
	}
	return nil
}

// Commit creates a git commit with the given message
func (g *GitOperations) Commit(message string) error {
	cmd := exec.Command("git", "commit", "-m", message)
	cmd.Dir = g.workingDir
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to create commit: %w", err)
	}
	return nil
}

// CommitAll stages everything and commits with a timestamped message. Used
// to checkpoint a dirty tree before model-proposed file updates are applied.
func (g *GitOperations) CommitAll() error {
	if err := g.AddFiles(); err != nil {
		return err
	}
	message := fmt.Sprintf("LLM auto commit %s", time.Now().Format("2006-01-02 15:04:05"))
	return g.Commit(message)
}
