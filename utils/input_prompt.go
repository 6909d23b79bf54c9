package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/llmsh-dev/llmsh/constants/lipgloss"
)

// ConfirmPrompt asks a yes/no question and re-asks until it gets one.
func ConfirmPrompt(question string, reader *bufio.Reader) (bool, error) {
	for {
		fmt.Print(lipgloss.BlueSky.Render(fmt.Sprintf("%s (yes/no): ", question)))

		answer, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return false, nil
			}
			return false, fmt.Errorf("error reading input: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "yes", "y":
			return true, nil
		case "no", "n":
			return false, nil
		default:
			fmt.Println(lipgloss.Yellow.Render("Please enter 'yes' or 'no'."))
		}
	}
}
