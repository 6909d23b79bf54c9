package workspace_scanner

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/llmsh-dev/llmsh/utils"
	"github.com/llmsh-dev/llmsh/workspace_scanner/contracts"
	"github.com/llmsh-dev/llmsh/workspace_scanner/models"
)

// LargeFileThreshold is the size in bytes above which a file's content is
// not inlined into the snapshot unless the large-file override is set.
const LargeFileThreshold = 1_000_000

// CacheDirName is the directory under the working directory holding cached
// classification records.
const CacheDirName = ".llmsh-cache"

const (
	binaryOmittedPlaceholder = "[Binary file content omitted]"
	sizeOmittedPlaceholder   = "[File content omitted due to size]"
)

// binaryExtensions are never opened; their content is always omitted,
// regardless of file size.
var binaryExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".pdf":  {},
	".zip":  {},
	".exe":  {},
	".dll":  {},
	".bin":  {},
}

// structuredExtensions denote data formats that can be skeletonized when the
// file is too large to inline whole.
var structuredExtensions = map[string]struct{}{
	".json": {},
	".yaml": {},
	".yml":  {},
}

// WorkspaceScanner walks a directory tree and captures a filtered,
// size-bounded textual snapshot of it.
type WorkspaceScanner struct {
	Cwd          string
	cacheManager *CacheManager
}

// NewWorkspaceScanner initializes a new WorkspaceScanner.
func NewWorkspaceScanner(cwd string, enableCache bool) contracts.IWorkspaceScanner {
	var cacheManager *CacheManager
	if enableCache {
		var err error
		cacheManager, err = NewCacheManager(filepath.Join(cwd, CacheDirName))
		if err != nil {
			// Fall back to no caching if cache initialization fails
			log.Printf("Warning: Failed to initialize cache manager: %v", err)
			cacheManager = nil
		}
	}

	return &WorkspaceScanner{
		Cwd:          cwd,
		cacheManager: cacheManager,
	}
}

// Build walks rootDir and returns the snapshot. Ignored directories are
// pruned before descent; files survive only when not ignored and, if
// includeFilters is non-empty, matching at least one filter. Traversal order
// follows the filesystem's native enumeration order.
func (scanner *WorkspaceScanner) Build(rootDir string, includeFilters []string, includeLarge bool) (*models.Snapshot, error) {
	patterns, err := utils.LoadIgnorePatterns(rootDir)
	if err != nil {
		return nil, err
	}

	snapshot := &models.Snapshot{Records: make(map[string]models.FileRecord)}

	err = filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// An unreadable directory degrades to its absence from the
			// snapshot; the walk goes on.
			return nil
		}

		relativePath, relErr := filepath.Rel(rootDir, path)
		if relErr != nil {
			return nil
		}
		relativePath = strings.ReplaceAll(relativePath, "\\", "/")
		if relativePath == "." {
			return nil
		}

		if utils.IsIgnored(relativePath, patterns) {
			if d.IsDir() {
				// Skip the whole directory so excluded subtrees are cheap
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if !utils.MatchesAnyFilter(relativePath, includeFilters) {
			return nil
		}

		snapshot.Add(relativePath, scanner.classifyFile(path, includeLarge))
		return nil
	})

	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

// classifyFile decides how a single file's content is captured. The decision
// order matters: binary detection precedes the size check (a small binary
// file is still omitted), and the structured-format check precedes the
// generic size fallback.
func (scanner *WorkspaceScanner) classifyFile(path string, includeLarge bool) models.FileRecord {
	ext := strings.ToLower(filepath.Ext(path))

	if _, isBinary := binaryExtensions[ext]; isBinary {
		return models.FileRecord{Kind: models.KindBinaryOmitted, Content: binaryOmittedPlaceholder}
	}

	if scanner.cacheManager != nil {
		if record, found := scanner.cacheManager.GetRecordCache(path, includeLarge); found {
			return record
		}
	}

	record := classifyBySize(path, ext, includeLarge)

	if scanner.cacheManager != nil && record.Kind != models.KindReadError {
		scanner.cacheManager.SetRecordCache(path, includeLarge, record)
	}

	return record
}

func classifyBySize(path string, ext string, includeLarge bool) models.FileRecord {
	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}

	if size > LargeFileThreshold && !includeLarge {
		if _, isStructured := structuredExtensions[ext]; isStructured {
			raw, err := os.ReadFile(path)
			if err != nil {
				return models.FileRecord{
					Kind:    models.KindReadError,
					Content: fmt.Sprintf("[Could not read file for skeletonization: %v]", err),
				}
			}
			skeleton, err := Skeletonize(DecodeLossy(raw))
			if err != nil {
				return models.FileRecord{
					Kind:    models.KindReadError,
					Content: fmt.Sprintf("[Could not read file for skeletonization: %v]", err),
				}
			}
			return models.FileRecord{Kind: models.KindSkeletonized, Content: skeleton}
		}
		return models.FileRecord{Kind: models.KindSizeOmitted, Content: sizeOmittedPlaceholder}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return models.FileRecord{
			Kind:    models.KindReadError,
			Content: fmt.Sprintf("[Could not read file: %v]", err),
		}
	}
	return models.FileRecord{Kind: models.KindFull, Content: DecodeLossy(raw)}
}

// RenderTree renders the snapshot's file list as a markdown bullet list.
func (scanner *WorkspaceScanner) RenderTree(snapshot *models.Snapshot) string {
	var builder strings.Builder
	for _, path := range snapshot.Files {
		builder.WriteString(fmt.Sprintf("- %s\n", path))
	}
	return builder.String()
}

// RenderContents renders per-file content sections, each introduced by a
// path header and a fenced code block.
func (scanner *WorkspaceScanner) RenderContents(snapshot *models.Snapshot) string {
	var builder strings.Builder
	for _, path := range snapshot.Files {
		record := snapshot.Records[path]
		builder.WriteString(fmt.Sprintf("### %s\n\n", path))
		builder.WriteString(fmt.Sprintf("```\n%s\n```\n\n", record.Content))
	}
	return builder.String()
}

// ClearCache removes all cached file classifications.
func (scanner *WorkspaceScanner) ClearCache() error {
	if scanner.cacheManager == nil {
		return nil
	}
	return scanner.cacheManager.Clear()
}
