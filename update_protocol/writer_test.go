package update_protocol

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFileBlocks_CreatesDirectories(t *testing.T) {
	root := t.TempDir()

	err := ApplyFileBlocks(root, map[string]string{"x/y.txt": "content"})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "x", "y.txt"))
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestApplyFileBlocks_ReplacesExistingFile(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "existing.txt")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0644))

	err := ApplyFileBlocks(root, map[string]string{"existing.txt": "new"})
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestApplyFileBlocks_FailedWriteLeavesDestinationUntouched(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced the same way on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	root := t.TempDir()
	lockedDir := filepath.Join(root, "locked")
	require.NoError(t, os.MkdirAll(lockedDir, 0755))
	target := filepath.Join(lockedDir, "file.txt")
	require.NoError(t, os.WriteFile(target, []byte("original"), 0644))

	// Read-only directory: the sibling temporary file cannot be created.
	require.NoError(t, os.Chmod(lockedDir, 0555))
	t.Cleanup(func() { _ = os.Chmod(lockedDir, 0755) })

	err := ApplyFileBlocks(root, map[string]string{"locked/file.txt": "replacement"})
	assert.Error(t, err)

	data, readErr := os.ReadFile(target)
	require.NoError(t, readErr)
	assert.Equal(t, "original", string(data))
}

func TestApplyBlocks_DuplicateFilenameLastWinsOnDisk(t *testing.T) {
	root := t.TempDir()

	blocks := []FileBlock{
		{Filename: "dup.txt", Content: "first"},
		{Filename: "dup.txt", Content: "second"},
	}
	require.NoError(t, ApplyBlocks(root, blocks))

	data, err := os.ReadFile(filepath.Join(root, "dup.txt"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestApplyFileBlocks_IndependentFiles(t *testing.T) {
	root := t.TempDir()

	err := ApplyFileBlocks(root, map[string]string{
		"a/one.txt": "one",
		"b/two.txt": "two",
	})
	require.NoError(t, err)

	for rel, want := range map[string]string{"a/one.txt": "one", "b/two.txt": "two"} {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		require.NoError(t, err)
		assert.Equal(t, want, string(data))
	}
}
