package contracts

import "github.com/llmsh-dev/llmsh/workspace_scanner/models"

type IWorkspaceScanner interface {
	Build(rootDir string, includeFilters []string, includeLarge bool) (*models.Snapshot, error)
	RenderTree(snapshot *models.Snapshot) string
	RenderContents(snapshot *models.Snapshot) string
	ClearCache() error
}
