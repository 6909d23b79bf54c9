package workspace_scanner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmsh-dev/llmsh/workspace_scanner/models"
)

func writeFile(t *testing.T, root, relPath, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(relPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestBuild_ClassifiesAndFilters(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n")
	writeFile(t, root, "assets/logo.png", "")
	writeFile(t, root, "docs/readme.md", "# readme\n")
	writeFile(t, root, ".gitignore", "secrets\n")
	writeFile(t, root, "secrets/key.pem", "private")

	scanner := NewWorkspaceScanner(root, false)
	snapshot, err := scanner.Build(root, nil, false)
	require.NoError(t, err)

	assert.Contains(t, snapshot.Files, "main.go")
	assert.Contains(t, snapshot.Files, "docs/readme.md")
	assert.Contains(t, snapshot.Files, "assets/logo.png")
	assert.NotContains(t, snapshot.Files, "secrets/key.pem")

	assert.Equal(t, models.KindFull, snapshot.Records["main.go"].Kind)
	assert.Equal(t, "package main\n", snapshot.Records["main.go"].Content)

	// Zero-byte binary is still omitted by extension, never opened.
	assert.Equal(t, models.KindBinaryOmitted, snapshot.Records["assets/logo.png"].Kind)

	// The record map's key set equals the file list exactly, no duplicates.
	assert.Len(t, snapshot.Records, len(snapshot.Files))
	seen := make(map[string]bool)
	for _, path := range snapshot.Files {
		assert.False(t, seen[path], "duplicate path %s", path)
		seen[path] = true
		_, ok := snapshot.Records[path]
		assert.True(t, ok, "missing record for %s", path)
	}
}

func TestBuild_SizeOmittedAndSkeletonized(t *testing.T) {
	root := t.TempDir()

	bigText := strings.Repeat("x", LargeFileThreshold+1)
	writeFile(t, root, "big.txt", bigText)

	bigJSON := `{"name": "demo", "items": [` + strings.Repeat(`{"id": 1},`, 110000) + `{"id": 1}]}`
	require.Greater(t, len(bigJSON), LargeFileThreshold)
	writeFile(t, root, "big.json", bigJSON)

	// Tab-indented blocks are invalid YAML, and this is not JSON either.
	bigBroken := strings.Repeat("key:\n\tvalue\n", 100000)
	require.Greater(t, len(bigBroken), LargeFileThreshold)
	writeFile(t, root, "broken.yaml", bigBroken)

	scanner := NewWorkspaceScanner(root, false)
	snapshot, err := scanner.Build(root, nil, false)
	require.NoError(t, err)

	assert.Equal(t, models.KindSizeOmitted, snapshot.Records["big.txt"].Kind)
	assert.Equal(t, sizeOmittedPlaceholder, snapshot.Records["big.txt"].Content)

	skeletonized := snapshot.Records["big.json"]
	assert.Equal(t, models.KindSkeletonized, skeletonized.Kind)
	assert.Contains(t, skeletonized.Content, `"name": "<string>"`)
	assert.Contains(t, skeletonized.Content, `"id": "<int>"`)
	// The item list collapses to one representative element.
	assert.Equal(t, 1, strings.Count(skeletonized.Content, `"id"`))

	broken := snapshot.Records["broken.yaml"]
	assert.Equal(t, models.KindReadError, broken.Kind)
	assert.Contains(t, broken.Content, "[Could not read file for skeletonization:")
}

func TestBuild_IncludeLargeOverride(t *testing.T) {
	root := t.TempDir()
	bigText := strings.Repeat("y", LargeFileThreshold+1)
	writeFile(t, root, "big.txt", bigText)

	scanner := NewWorkspaceScanner(root, false)
	snapshot, err := scanner.Build(root, nil, true)
	require.NoError(t, err)

	assert.Equal(t, models.KindFull, snapshot.Records["big.txt"].Kind)
	assert.Equal(t, bigText, snapshot.Records["big.txt"].Content)
}

func TestBuild_IncludeFilters(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n")
	writeFile(t, root, "notes.txt", "notes\n")

	scanner := NewWorkspaceScanner(root, false)
	snapshot, err := scanner.Build(root, []string{"*.go"}, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"main.go"}, snapshot.Files)
}

func TestBuild_IgnoredDirectoryIsPruned(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "node_modules\n")
	writeFile(t, root, "node_modules/pkg/deep/index.js", "module.exports = {}\n")
	writeFile(t, root, "app.js", "console.log('hi')\n")

	scanner := NewWorkspaceScanner(root, false)
	snapshot, err := scanner.Build(root, nil, false)
	require.NoError(t, err)

	for _, path := range snapshot.Files {
		assert.False(t, strings.HasPrefix(path, "node_modules/"), "path %s escaped pruning", path)
	}
	assert.Contains(t, snapshot.Files, "app.js")
}

func TestBuild_DefaultIgnoresApplyWithoutIgnoreFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".git/config", "[core]\n")
	writeFile(t, root, ".llm.json", "[]")
	writeFile(t, root, "llm.md", "# transcript\n")
	writeFile(t, root, "kept.txt", "kept\n")

	scanner := NewWorkspaceScanner(root, false)
	snapshot, err := scanner.Build(root, nil, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"kept.txt"}, snapshot.Files)
}

func TestRenderTreeAndContents(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "alpha")

	scanner := NewWorkspaceScanner(root, false)
	snapshot, err := scanner.Build(root, nil, false)
	require.NoError(t, err)

	tree := scanner.RenderTree(snapshot)
	assert.Equal(t, "- a.txt\n", tree)

	contents := scanner.RenderContents(snapshot)
	assert.Contains(t, contents, "### a.txt\n\n```\nalpha\n```\n")
}

func TestDecodeLossy_DropsInvalidBytes(t *testing.T) {
	raw := []byte("hel\xfflo \xfeworld")
	assert.Equal(t, "hello world", DecodeLossy(raw))

	valid := []byte("plain ascii and unicode ✓")
	assert.Equal(t, string(valid), DecodeLossy(valid))
}
