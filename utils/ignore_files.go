package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ignoreFileNames are the line-oriented pattern files consulted in the scan
// root. Either or both may be absent.
var ignoreFileNames = []string{".gitignore", ".llmignore"}

// defaultIgnorePatterns are always in effect regardless of ignore file
// contents: version control metadata, the conversation state file, the
// running transcript, and the tool's own config.
var defaultIgnorePatterns = []string{
	".git",
	".llm.json",
	"llm.md",
	"llmsh",
	"llmsh-config.yml",
	".llmsh-cache",
}

// LoadIgnorePatterns reads glob patterns from the ignore files in cwd and
// appends the built-in defaults. Missing ignore files are not an error.
func LoadIgnorePatterns(cwd string) ([]string, error) {
	var patterns []string
	for _, name := range ignoreFileNames {
		path := filepath.Join(cwd, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		} else if err != nil {
			return nil, fmt.Errorf("error checking %s: %w", name, err)
		}
		filePatterns, err := readIgnoreFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		patterns = append(patterns, filePatterns...)
	}
	patterns = append(patterns, defaultIgnorePatterns...)
	return patterns, nil
}

// readIgnoreFile returns the patterns in a single ignore file, skipping
// blank lines and comments.
func readIgnoreFile(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var patterns []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns, nil
}

// IsIgnored reports whether relPath matches any of the patterns. A pattern
// matches when the whole path satisfies it verbatim, or when it matches the
// path rooted at any depth (the "**/pattern" form). Negation is not
// supported; one matching pattern is enough.
func IsIgnored(relPath string, patterns []string) bool {
	relPath = strings.TrimPrefix(filepath.ToSlash(relPath), "./")
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if matchAtAnyDepth(relPath, pattern) {
			return true
		}
	}
	return false
}

// matchAtAnyDepth tries the pattern against the full path and against every
// suffix of it, which is how "**/pattern" behaves without relying on the
// platform glob understanding "**".
func matchAtAnyDepth(relPath, pattern string) bool {
	if ok, _ := filepath.Match(pattern, relPath); ok {
		return true
	}
	parts := strings.Split(relPath, "/")
	for i := 1; i < len(parts); i++ {
		if ok, _ := filepath.Match(pattern, strings.Join(parts[i:], "/")); ok {
			return true
		}
	}
	return false
}

// MatchesAnyFilter reports whether relPath matches at least one include
// filter, under the same glob semantics as IsIgnored. An empty filter list
// matches everything.
func MatchesAnyFilter(relPath string, filters []string) bool {
	if len(filters) == 0 {
		return true
	}
	return IsIgnored(relPath, filters)
}
