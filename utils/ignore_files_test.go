package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsIgnored_VerbatimAndAnyDepth(t *testing.T) {
	patterns := []string{"*.log", "node_modules", "build/output.txt"}

	cases := []struct {
		path    string
		ignored bool
	}{
		{"app.log", true},
		{"deep/nested/app.log", true},
		{"node_modules", true},
		{"src/node_modules", true},
		{"build/output.txt", true},
		{"src/main.go", false},
		{"logs/readme.md", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.ignored, IsIgnored(tc.path, patterns), "path %s", tc.path)
	}
}

func TestIsIgnored_UnrelatedPatternDoesNotChangeResult(t *testing.T) {
	withExtra := []string{"*.tmp", "vendor", "docs/*.pdf"}
	withoutExtra := []string{"*.tmp", "docs/*.pdf"}

	for _, path := range []string{"cache.tmp", "a/b/c.tmp", "docs/spec.pdf", "src/main.go"} {
		assert.Equal(t, IsIgnored(path, withoutExtra), IsIgnored(path, withExtra), "path %s", path)
	}
}

func TestIsIgnored_NormalizesSeparators(t *testing.T) {
	assert.True(t, IsIgnored(`sub\dir\secret.key`, []string{"*.key"}))
	assert.True(t, IsIgnored("./relative.log", []string{"*.log"}))
}

func TestIsIgnored_NoNegation(t *testing.T) {
	// A "!" pattern is just a literal glob, never an un-ignore rule.
	patterns := []string{"*.log", "!keep.log"}
	assert.True(t, IsIgnored("keep.log", patterns))
}

func TestLoadIgnorePatterns_MissingFilesYieldDefaultsOnly(t *testing.T) {
	tempDir := t.TempDir()

	patterns, err := LoadIgnorePatterns(tempDir)
	require.NoError(t, err)
	assert.Equal(t, defaultIgnorePatterns, patterns)
}

func TestLoadIgnorePatterns_ReadsBothFilesAndSkipsComments(t *testing.T) {
	tempDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, ".gitignore"),
		[]byte("# build artifacts\nbin\n\n*.o\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, ".llmignore"),
		[]byte("secrets/*\n"), 0644))

	patterns, err := LoadIgnorePatterns(tempDir)
	require.NoError(t, err)

	assert.Contains(t, patterns, "bin")
	assert.Contains(t, patterns, "*.o")
	assert.Contains(t, patterns, "secrets/*")
	assert.NotContains(t, patterns, "# build artifacts")
	for _, def := range defaultIgnorePatterns {
		assert.Contains(t, patterns, def)
	}
}

func TestMatchesAnyFilter(t *testing.T) {
	assert.True(t, MatchesAnyFilter("anything.go", nil))
	assert.True(t, MatchesAnyFilter("src/app.go", []string{"*.go"}))
	assert.False(t, MatchesAnyFilter("src/app.py", []string{"*.go"}))
}
