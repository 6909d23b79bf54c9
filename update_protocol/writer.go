package update_protocol

import (
	"fmt"
	"os"
	"path/filepath"
)

// ApplyFileBlocks writes each filename/content pair under rootDir without
// ever leaving a half-written destination: content goes to a sibling
// temporary file which is then renamed onto the final path in one step.
// Parent directories are created as needed. Each file's replacement is
// independently atomic; a failure partway through the set leaves earlier
// files updated and is reported for the file that failed.
func ApplyFileBlocks(rootDir string, files map[string]string) error {
	for filename, content := range files {
		if err := applyFile(rootDir, filename, content); err != nil {
			return err
		}
	}
	return nil
}

// ApplyBlocks is ApplyFileBlocks over an ordered block slice, applying in
// block order so a later duplicate filename wins on disk as well.
func ApplyBlocks(rootDir string, blocks []FileBlock) error {
	for _, block := range blocks {
		if err := applyFile(rootDir, block.Filename, block.Content); err != nil {
			return err
		}
	}
	return nil
}

func applyFile(rootDir string, filename string, content string) error {
	destination := filepath.Join(rootDir, filepath.FromSlash(filename))

	if dir := filepath.Dir(destination); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", filename, err)
		}
	}

	tmpPath := destination + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write temporary file for %s: %w", filename, err)
	}

	if err := os.Rename(tmpPath, destination); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", filename, err)
	}

	return nil
}
