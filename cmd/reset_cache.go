package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/llmsh-dev/llmsh/constants/lipgloss"
	"github.com/llmsh-dev/llmsh/workspace_scanner"
)

var resetCacheShowStats bool

var resetCacheCmd = &cobra.Command{
	Use:   "reset-cache",
	Short: "Remove the snapshot classification cache for the current directory.",
	Run: func(cmd *cobra.Command, args []string) {
		handleResetCacheCommand()
	},
}

func handleResetCacheCommand() {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error getting current directory: %v", err)))
		os.Exit(1)
	}

	cacheDir := filepath.Join(cwd, workspace_scanner.CacheDirName)
	cacheManager, err := workspace_scanner.NewCacheManager(cacheDir)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Failed to open cache: %v", err)))
		os.Exit(1)
	}

	if resetCacheShowStats {
		files, totalSize, err := cacheManager.Stats()
		if err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Failed to read cache stats: %v", err)))
			os.Exit(1)
		}
		fmt.Println(lipgloss.Info.Render(fmt.Sprintf("Cache: %d entries, %d bytes", files, totalSize)))
	}

	if err := cacheManager.Clear(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Failed to clear cache: %v", err)))
		os.Exit(1)
	}
	fmt.Println(lipgloss.Green.Render("✔️ Cache has been cleared."))
}

func init() {
	resetCacheCmd.Flags().BoolVar(&resetCacheShowStats, "stats", false, "Print cache entry count and size before clearing.")
	rootCmd.AddCommand(resetCacheCmd)
}
