// Package usecases contains the application business logic.
// This package orchestrates domain entities and interfaces to fulfill use cases.
package usecases

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/benjaminmgross/thoughts-publish/internal/domain"
)

// ResolveDocument derives the canonical content-repository location of the
// requested document and verifies it exists as a file.
//
// The repository slug comes from the consumer workspace's directory basename,
// normalized per domain.NormalizeRepoName. Only the basename of the requested
// file path participates; the document must already live at
// {contentRoot}/repos/{repoName}/{dirName}/{filename}.
func ResolveDocument(contentRoot, workspaceDir string, req domain.PublishRequest) (*domain.ResolvedDocument, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	repoName := domain.NormalizeRepoName(filepath.Base(workspaceDir))
	filename := filepath.Base(req.FilePath)
	relPath := path.Join("repos", repoName, req.DocType.DirName(), filename)
	absPath := filepath.Join(contentRoot, filepath.FromSlash(relPath))

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, absPath)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrDocumentNotFound, absPath)
	}

	return &domain.ResolvedDocument{
		RepoName: repoName,
		DirName:  req.DocType.DirName(),
		Filename: filename,
		RelPath:  relPath,
		AbsPath:  absPath,
	}, nil
}
