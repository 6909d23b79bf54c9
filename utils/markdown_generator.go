package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

// RenderResponse prints an assistant response to the terminal, syntax
// highlighting the contents of fenced code blocks with the language tag on
// the fence. Lines outside code blocks are printed as-is.
func RenderResponse(content string, theme string) error {
	var insideCodeBlock bool
	var language string

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			insideCodeBlock = !insideCodeBlock
			if insideCodeBlock {
				language = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
				if language == "" {
					language = "markdown"
				}
			}
			fmt.Println(line)
			continue
		}

		if insideCodeBlock {
			if err := quick.Highlight(os.Stdout, line+"\n", language, "terminal256", theme); err != nil {
				// Unknown language tags fall back to plain output.
				fmt.Println(line)
			}
			continue
		}

		fmt.Println(line)
	}

	return nil
}
