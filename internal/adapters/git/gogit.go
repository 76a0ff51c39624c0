// Package git provides adapters for interacting with the local content repository.
// This package implements the domain.ContentRepository interface using go-git/v5.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/benjaminmgross/thoughts-publish/internal/domain"
)

// Logger defines the logging interface for the git adapter.
// This interface enables dependency injection and testability.
type Logger interface {
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
}

// Fallback commit identity when neither git config nor the environment
// provides one. go-git, unlike the git CLI, refuses to commit without an
// explicit signature.
const (
	fallbackAuthorName  = "thoughts-publish"
	fallbackAuthorEmail = "thoughts-publish@localhost"
)

// GoGitRepository implements domain.ContentRepository using go-git/v5.
type GoGitRepository struct {
	repo     *gogit.Repository
	worktree *gogit.Worktree
	path     string
	logger   Logger
}

// NewGoGitRepository opens the content repository at the given path.
// Returns domain.ErrRepositoryNotFound if the path is not a valid Git
// repository with a working tree.
func NewGoGitRepository(path string, log Logger) (*GoGitRepository, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrRepositoryNotFound, path)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("%w: %s has no working tree", domain.ErrRepositoryNotFound, path)
	}

	return &GoGitRepository{
		repo:     repo,
		worktree: worktree,
		path:     path,
		logger:   log,
	}, nil
}

// UnrelatedChanges returns the paths of uncommitted changes (staged,
// modified, or untracked) whose basename does not match the given filename.
func (r *GoGitRepository) UnrelatedChanges(ctx context.Context, filename string) ([]string, error) {
	status, err := r.worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree status: %w", err)
	}

	var unrelated []string
	for path, fileStatus := range status {
		if fileStatus.Staging == gogit.Unmodified && fileStatus.Worktree == gogit.Unmodified {
			continue
		}
		if filepath.Base(path) == filename {
			continue
		}
		unrelated = append(unrelated, path)
	}

	r.logger.Debug(ctx, "inspected worktree status", map[string]interface{}{
		"unrelated_changes": len(unrelated),
	})

	return unrelated, nil
}

// Stage stages exactly the given path, relative to the repository root.
func (r *GoGitRepository) Stage(ctx context.Context, relPath string) error {
	if _, err := r.worktree.Add(relPath); err != nil {
		return fmt.Errorf("failed to stage %s: %w", relPath, err)
	}
	return nil
}

// HasStagedChanges reports whether the given relative path has a staged
// diff against HEAD.
func (r *GoGitRepository) HasStagedChanges(ctx context.Context, relPath string) (bool, error) {
	status, err := r.worktree.Status()
	if err != nil {
		return false, fmt.Errorf("failed to get worktree status: %w", err)
	}

	fileStatus := status.File(relPath)
	staged := fileStatus.Staging != gogit.Unmodified && fileStatus.Staging != gogit.Untracked

	r.logger.Debug(ctx, "checked staged state", map[string]interface{}{
		"path":   relPath,
		"staged": staged,
	})

	return staged, nil
}

// Commit creates a commit with the given message and returns its SHA.
// The signature comes from git config, falling back to GIT_AUTHOR_NAME /
// GIT_AUTHOR_EMAIL and finally a fixed identity.
func (r *GoGitRepository) Commit(ctx context.Context, message string) (string, error) {
	sig := r.signature()

	hash, err := r.worktree.Commit(message, &gogit.CommitOptions{
		Author:    sig,
		Committer: sig,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create commit: %w", err)
	}

	return hash.String(), nil
}

// Push pushes the current branch to the "origin" remote. An already
// up-to-date remote is not an error.
func (r *GoGitRepository) Push(ctx context.Context) error {
	err := r.repo.PushContext(ctx, &gogit.PushOptions{
		RemoteName: gogit.DefaultRemoteName,
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return fmt.Errorf("%w: %w", domain.ErrPushFailed, err)
	}
	return nil
}

// RemoteURL returns the first URL of the "origin" remote, or empty when no
// remote is configured.
func (r *GoGitRepository) RemoteURL() string {
	remote, err := r.repo.Remote(gogit.DefaultRemoteName)
	if err != nil {
		return ""
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return ""
	}
	return urls[0]
}

// Close releases any resources held by the repository.
// For go-git, this is a no-op as the repository doesn't hold persistent resources.
func (r *GoGitRepository) Close() error {
	return nil
}

// signature resolves the commit identity: git config first,
// then the standard author environment variables, then the fixed fallback.
func (r *GoGitRepository) signature() *object.Signature {
	name := fallbackAuthorName
	email := fallbackAuthorEmail

	if cfg, err := r.repo.ConfigScoped(gitconfig.GlobalScope); err == nil {
		if cfg.User.Name != "" {
			name = cfg.User.Name
		}
		if cfg.User.Email != "" {
			email = cfg.User.Email
		}
	}

	if envName := os.Getenv("GIT_AUTHOR_NAME"); envName != "" {
		name = envName
	}
	if envEmail := os.Getenv("GIT_AUTHOR_EMAIL"); envEmail != "" {
		email = envEmail
	}

	return &object.Signature{
		Name:  name,
		Email: email,
		When:  time.Now(),
	}
}
