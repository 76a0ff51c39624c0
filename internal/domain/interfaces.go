// Package domain defines the core business entities and interfaces for thoughts-publish.
// This package contains no external dependencies and represents the innermost layer
// of the CLEAN architecture.
package domain

import (
	"context"
	"errors"
)

// Domain errors. The validation and commit paths are the only sources of
// hard failures (exit 2); everything in the discussion path degrades to a
// warning and at worst a partial success (exit 1).
var (
	// ErrInvalidDocType indicates the document type argument was not
	// "research" or "plan".
	ErrInvalidDocType = errors.New("invalid document type")

	// ErrEmptyFilePath indicates the file path argument was empty.
	ErrEmptyFilePath = errors.New("file path must not be empty")

	// ErrRepositoryNotFound indicates the content repository root is not a
	// valid Git repository.
	ErrRepositoryNotFound = errors.New("git repository not found at content repository root")

	// ErrDocumentNotFound indicates the resolved document path does not
	// exist as a file inside the content repository.
	ErrDocumentNotFound = errors.New("document not found in content repository")

	// ErrCommitFailed indicates staging or committing the document failed.
	// Always fatal.
	ErrCommitFailed = errors.New("failed to commit document")

	// ErrPushFailed indicates the push to the configured upstream failed.
	// Non-fatal: the commit stands and the caller is told to push manually.
	ErrPushFailed = errors.New("failed to push to upstream")

	// ErrIdentityUnresolved indicates the repository identifier could not
	// be obtained from the hosting API. Non-fatal.
	ErrIdentityUnresolved = errors.New("could not resolve repository identifier")

	// ErrCategoryUnresolved indicates the needed discussion category was
	// not found among the repository's categories. Non-fatal.
	ErrCategoryUnresolved = errors.New("discussion category not found")

	// ErrDiscussionCreateFailed indicates the discussion-creation call
	// failed or returned no URL. Non-fatal.
	ErrDiscussionCreateFailed = errors.New("failed to create discussion")
)

// ContentRepository provides version-control operations on the content
// repository that holds the thoughts documents.
type ContentRepository interface {
	// UnrelatedChanges returns the paths of uncommitted changes whose
	// basename does not match the given filename. Such changes never
	// block a publish; they are only reported as a warning.
	UnrelatedChanges(ctx context.Context, filename string) ([]string, error)

	// Stage stages exactly the given path, relative to the repository root.
	Stage(ctx context.Context, relPath string) error

	// HasStagedChanges reports whether the given relative path has a
	// staged diff against HEAD.
	HasStagedChanges(ctx context.Context, relPath string) (bool, error)

	// Commit creates a commit with the given message and returns its SHA.
	Commit(ctx context.Context, message string) (string, error)

	// Push pushes the current branch to the configured upstream.
	Push(ctx context.Context) error

	// RemoteURL returns the first URL of the "origin" remote, or empty
	// when no remote is configured.
	RemoteURL() string

	// Close releases any resources held by the repository.
	Close() error
}

// DiscussionService talks to the remote hosting API's GraphQL surface.
// All methods block with transport-default timeouts and are never retried.
type DiscussionService interface {
	// RepositoryID looks up the GraphQL node ID of the repository.
	RepositoryID(ctx context.Context, identity RemoteIdentity) (string, error)

	// DiscussionCategories lists up to 25 discussion categories of the
	// repository. Categories are otherwise unordered.
	DiscussionCategories(ctx context.Context, identity RemoteIdentity) ([]DiscussionCategory, error)

	// FindDiscussionByTitle searches existing discussions for an exact
	// title match. Returns the discussion URL, or empty when none exists.
	FindDiscussionByTitle(ctx context.Context, identity RemoteIdentity, title string) (string, error)

	// CreateDiscussion creates a discussion and returns its URL.
	CreateDiscussion(ctx context.Context, repositoryID, categoryID, title, body string) (string, error)
}

// CacheStore persists the single-slot identity cache across invocations.
type CacheStore interface {
	// Load reads the cached identity block. Returns (nil, nil) when no
	// block exists.
	Load() (*IdentityCache, error)

	// Save writes the identity block, fully replacing any prior block
	// regardless of which remote URL it was keyed by.
	Save(cache *IdentityCache) error
}

// SummaryWriter reports user-visible output: warnings with actionable next
// steps on the error stream, and the final summary block on standard output.
type SummaryWriter interface {
	// WriteWarning writes a warning line to the error stream.
	WriteWarning(msg string)

	// WriteSummary writes the compact end-of-run summary block.
	WriteSummary(result *PublishResult) error
}

// Publisher runs the full publish pipeline for a single document.
type Publisher interface {
	// Publish commits, pushes, and publishes a discussion for the resolved
	// document. A returned error is always a hard failure (exit 2);
	// degraded outcomes are expressed through PublishResult.Outcome.
	Publish(ctx context.Context, req PublishRequest, doc *ResolvedDocument) (*PublishResult, error)
}
