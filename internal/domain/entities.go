// Package domain defines the core business entities and interfaces for thoughts-publish.
package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// DocType identifies the kind of thoughts document being published.
type DocType string

// Recognized document types.
const (
	DocTypeResearch DocType = "research"
	DocTypePlan     DocType = "plan"
)

// ParseDocType validates and converts a raw string into a DocType.
// Returns ErrInvalidDocType for anything other than "research" or "plan".
func ParseDocType(s string) (DocType, error) {
	switch DocType(s) {
	case DocTypeResearch:
		return DocTypeResearch, nil
	case DocTypePlan:
		return DocTypePlan, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDocType, s)
	}
}

// DirName returns the directory name for this document type inside the
// content repository. Note the pluralization asymmetry ("research" vs
// "plans") - this matches the content repository layout and is intentional.
func (d DocType) DirName() string {
	if d == DocTypePlan {
		return "plans"
	}
	return "research"
}

// CategoryName returns the discussion category name for this document type.
// Category matching against the hosting API is case-sensitive and exact.
func (d DocType) CategoryName() string {
	if d == DocTypePlan {
		return "Plans"
	}
	return "Research"
}

// CategorySlug returns the URL slug of the discussion category, used when
// constructing manual-recovery links.
func (d DocType) CategorySlug() string {
	return strings.ToLower(d.CategoryName())
}

// PublishRequest is the immutable input for a single publish invocation.
type PublishRequest struct {
	// DocType is the kind of document being published.
	DocType DocType

	// FilePath is the document path as given on the command line,
	// relative to the consumer workspace. Only its basename participates
	// in resolution.
	FilePath string

	// SkipDiscussion disables the discussion phase entirely.
	SkipDiscussion bool
}

// Validate checks the request fields. A request with an unrecognized
// DocType or an empty FilePath is invalid.
func (r PublishRequest) Validate() error {
	if _, err := ParseDocType(string(r.DocType)); err != nil {
		return err
	}
	if r.FilePath == "" {
		return ErrEmptyFilePath
	}
	return nil
}

// ResolvedDocument is the canonical location of a document inside the
// content repository, derived deterministically from a PublishRequest.
type ResolvedDocument struct {
	// RepoName is the normalized slug of the consumer workspace basename.
	RepoName string

	// DirName is "research" or "plans" depending on the document type.
	DirName string

	// Filename is the basename of the requested file path.
	Filename string

	// RelPath is the slash-separated path relative to the content
	// repository root: repos/{RepoName}/{DirName}/{Filename}.
	RelPath string

	// AbsPath is the absolute path of the document on disk.
	AbsPath string
}

// repoNameSanitizer matches every character that is not allowed in a
// normalized repository slug.
var repoNameSanitizer = regexp.MustCompile(`[^a-z0-9_-]`)

// NormalizeRepoName lower-cases the given name and replaces any character
// outside [a-z0-9_-] with "-".
func NormalizeRepoName(name string) string {
	return repoNameSanitizer.ReplaceAllString(strings.ToLower(name), "-")
}

// SHAAlreadyCommitted is the sentinel SHA reported when staging the document
// produced no diff against HEAD.
const SHAAlreadyCommitted = "already-committed"

// CommitResult captures the outcome of the commit/push phase.
// It is never persisted beyond the run.
type CommitResult struct {
	// Committed is true when a new commit was created this run.
	Committed bool

	// SHA is the commit SHA, or SHAAlreadyCommitted when staging produced
	// no diff against HEAD.
	SHA string

	// Pushed is true when the push to the configured upstream succeeded.
	Pushed bool
}

// IdentityCache is the persistent record of remote identifiers discovered
// through the hosting API. It is valid only when RemoteURL exactly equals
// the currently configured remote URL; entries are never partially trusted.
type IdentityCache struct {
	RemoteURL          string
	RepositoryID       string
	ResearchCategoryID string
	PlansCategoryID    string
}

// Complete reports whether all three identifiers are present.
func (c *IdentityCache) Complete() bool {
	return c.RepositoryID != "" && c.ResearchCategoryID != "" && c.PlansCategoryID != ""
}

// CategoryIDFor returns the cached category identifier for the given
// document type, or empty when it was never resolved.
func (c *IdentityCache) CategoryIDFor(d DocType) string {
	if d == DocTypePlan {
		return c.PlansCategoryID
	}
	return c.ResearchCategoryID
}

// DiscussionCategory is a named bucket that discussions are filed under.
type DiscussionCategory struct {
	ID   string
	Name string
}

// PublishOutcome is the overall result of a publish invocation.
type PublishOutcome int

// Publish outcomes, in order of increasing severity.
const (
	// OutcomeFullSuccess: commit and push succeeded, and the discussion
	// was created, reused, intentionally skipped, or unavailable for lack
	// of a remote.
	OutcomeFullSuccess PublishOutcome = iota

	// OutcomePartialSuccess: the document is committed but either the push
	// or the discussion phase failed; manual follow-up is required.
	OutcomePartialSuccess

	// OutcomeFailure: bad input, bad environment, or commit failure.
	OutcomeFailure
)

// ExitCode maps the outcome to the process exit code.
func (o PublishOutcome) ExitCode() int {
	switch o {
	case OutcomeFullSuccess:
		return 0
	case OutcomePartialSuccess:
		return 1
	default:
		return 2
	}
}

// String returns a human-readable outcome name.
func (o PublishOutcome) String() string {
	switch o {
	case OutcomeFullSuccess:
		return "success"
	case OutcomePartialSuccess:
		return "partial-success"
	default:
		return "failure"
	}
}

// DiscussionState describes what happened to the discussion phase.
type DiscussionState int

// Discussion phase states.
const (
	// DiscussionSkipped: the caller disabled the discussion phase.
	DiscussionSkipped DiscussionState = iota

	// DiscussionUnavailable: no remote URL is configured, so there is no
	// hosting API to target. Not a failure.
	DiscussionUnavailable

	// DiscussionCreated: a new discussion was created.
	DiscussionCreated

	// DiscussionReused: a discussion with the same title already existed
	// and its URL was reused.
	DiscussionReused

	// DiscussionFailed: the phase was attempted and aborted or errored.
	DiscussionFailed
)

// Succeeded reports whether the discussion phase ended in a state that
// counts as success for outcome derivation.
func (s DiscussionState) Succeeded() bool {
	return s != DiscussionFailed
}

// String returns a human-readable state name.
func (s DiscussionState) String() string {
	switch s {
	case DiscussionSkipped:
		return "skipped"
	case DiscussionUnavailable:
		return "unavailable"
	case DiscussionCreated:
		return "created"
	case DiscussionReused:
		return "reused"
	default:
		return "failed"
	}
}

// RecoveryHint carries the information needed to create the discussion
// manually after a failed discussion phase. Only populated when owner/repo
// are known.
type RecoveryHint struct {
	// CreateURL is a direct link to the hosting UI's discussion-creation
	// page with the category preselected.
	CreateURL string

	// CategoryName is the discussion category the document belongs in.
	CategoryName string

	// FilePath is the resolved absolute path of the document.
	FilePath string
}

// DiscussionOutcome captures the result of the discussion phase.
type DiscussionOutcome struct {
	State DiscussionState

	// URL is the discussion URL when State is Created or Reused.
	URL string

	// Reason explains a Failed or Unavailable state.
	Reason string

	// Recovery holds manual-recovery details for a Failed state, when
	// owner/repo could be determined.
	Recovery *RecoveryHint
}

// PublishResult is the full result of a publish invocation, reported to the
// user as a summary block with commit and discussion outcomes listed
// independently.
type PublishResult struct {
	Outcome    PublishOutcome
	Commit     CommitResult
	Discussion DiscussionOutcome
}
