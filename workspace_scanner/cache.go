package workspace_scanner

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/llmsh-dev/llmsh/workspace_scanner/models"
)

// cacheEntry is a persisted file classification plus the metadata used to
// decide whether it is still valid.
type cacheEntry struct {
	Kind        int
	Content     string
	FileSize    int64
	ModTime     time.Time
	ContentHash uint64
}

// CacheManager persists file classification records between runs so an
// unchanged workspace rebuilds its snapshot without re-reading every file.
// Entries are invalidated when the source file's size or modification time
// changes; corrupt entries are silently discarded and rebuilt.
type CacheManager struct {
	cacheDir string
	mutex    sync.RWMutex
}

// NewCacheManager creates a cache rooted at cacheDir, creating the directory
// if needed.
func NewCacheManager(cacheDir string) (*CacheManager, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &CacheManager{cacheDir: cacheDir}, nil
}

// cachePath derives the entry file for a source path. The large-file flag is
// part of the key because it changes how the same file is classified.
func (cm *CacheManager) cachePath(filePath string, includeLarge bool) string {
	key := fmt.Sprintf("%s|large=%t", filePath, includeLarge)
	return filepath.Join(cm.cacheDir, fmt.Sprintf("%016x.cache", xxh3.HashString(key)))
}

// GetRecordCache returns the cached record for filePath if present and still
// valid.
func (cm *CacheManager) GetRecordCache(filePath string, includeLarge bool) (models.FileRecord, bool) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	cachePath := cm.cachePath(filePath, includeLarge)
	data, err := os.ReadFile(cachePath)
	if err != nil {
		return models.FileRecord{}, false
	}

	var entry cacheEntry
	decoder := gob.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&entry); err != nil {
		os.Remove(cachePath)
		return models.FileRecord{}, false
	}

	info, err := os.Stat(filePath)
	if err != nil || info.Size() != entry.FileSize || !info.ModTime().Equal(entry.ModTime) {
		os.Remove(cachePath)
		return models.FileRecord{}, false
	}

	return models.FileRecord{Kind: models.RecordKind(entry.Kind), Content: entry.Content}, true
}

// SetRecordCache stores a record for filePath. Failures are deliberately
// swallowed: caching is an optimization, never a requirement.
func (cm *CacheManager) SetRecordCache(filePath string, includeLarge bool, record models.FileRecord) {
	info, err := os.Stat(filePath)
	if err != nil {
		return
	}

	entry := cacheEntry{
		Kind:        int(record.Kind),
		Content:     record.Content,
		FileSize:    info.Size(),
		ModTime:     info.ModTime(),
		ContentHash: xxh3.HashString(record.Content),
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&entry); err != nil {
		return
	}

	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	cachePath := cm.cachePath(filePath, includeLarge)
	tmpPath := cachePath + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0644); err != nil {
		return
	}
	_ = os.Rename(tmpPath, cachePath)
}

// Clear removes every cache entry.
func (cm *CacheManager) Clear() error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	entries, err := os.ReadDir(cm.cacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".cache" {
			continue
		}
		if err := os.Remove(filepath.Join(cm.cacheDir, entry.Name())); err != nil {
			return fmt.Errorf("failed to remove cache entry %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// Stats reports the entry count and total size of the cache.
func (cm *CacheManager) Stats() (files int, totalSize int64, err error) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	entries, err := os.ReadDir(cm.cacheDir)
	if err != nil {
		return 0, 0, err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".cache" {
			continue
		}
		info, infoErr := entry.Info()
		if infoErr != nil {
			continue
		}
		files++
		totalSize += info.Size()
	}
	return files, totalSize, nil
}
