package usecases

import (
	"context"
	"fmt"
	"os"

	"github.com/benjaminmgross/thoughts-publish/internal/domain"
)

// Logger defines the logging interface required by the publisher.
// This abstracts the logger dependency to avoid coupling to a specific implementation.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, err error, fields map[string]interface{})
}

// Publisher implements the publish pipeline: commit, push, then the
// discussion phase. Each phase produces a tagged outcome that decides
// whether the pipeline continues, degrades, or aborts:
//
//   - validation and commit failures are fatal (exit 2),
//   - push failure degrades to partial success (exit 1) and dominates the
//     final outcome,
//   - everything in the discussion phase degrades to a warning and at worst
//     exit 1.
//
// The discussion phase runs even after a push failure; only the
// --no-discussion flag suppresses it. The summary then reports both
// outcomes independently.
type Publisher struct {
	repo        domain.ContentRepository
	discussions domain.DiscussionService
	cache       domain.CacheStore
	out         domain.SummaryWriter
	logger      Logger
}

// NewPublisher creates a Publisher with the given dependencies.
// All dependencies are injected to support testing.
func NewPublisher(
	repo domain.ContentRepository,
	discussions domain.DiscussionService,
	cache domain.CacheStore,
	out domain.SummaryWriter,
	log Logger,
) *Publisher {
	return &Publisher{
		repo:        repo,
		discussions: discussions,
		cache:       cache,
		out:         out,
		logger:      log,
	}
}

// Publish runs the pipeline for a single resolved document. A returned
// error is always a hard failure; degraded outcomes are expressed through
// PublishResult.Outcome.
func (p *Publisher) Publish(
	ctx context.Context,
	req domain.PublishRequest,
	doc *domain.ResolvedDocument,
) (*domain.PublishResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	result := &domain.PublishResult{}

	if err := p.commitPhase(ctx, req, doc, result); err != nil {
		return nil, err
	}

	if req.SkipDiscussion {
		result.Discussion.State = domain.DiscussionSkipped
		p.logger.Info(ctx, "discussion phase skipped by request", nil)
	} else {
		p.discussionPhase(ctx, req, doc, result)
	}

	result.Outcome = deriveOutcome(result)

	p.logger.Info(ctx, "publish complete", map[string]interface{}{
		"outcome":    result.Outcome.String(),
		"sha":        result.Commit.SHA,
		"pushed":     result.Commit.Pushed,
		"discussion": result.Discussion.State.String(),
	})

	return result, nil
}

// commitPhase stages exactly the resolved relative path, commits it when a
// diff exists, and pushes. Commit failure is fatal; push failure is reported
// and remembered but does not invalidate the commit.
func (p *Publisher) commitPhase(
	ctx context.Context,
	req domain.PublishRequest,
	doc *domain.ResolvedDocument,
	result *domain.PublishResult,
) error {
	unrelated, err := p.repo.UnrelatedChanges(ctx, doc.Filename)
	if err != nil {
		// Status failure only affects the warning; staging decides the rest.
		p.logger.Warn(ctx, "could not inspect working tree status", map[string]interface{}{
			"error": err.Error(),
		})
	} else if len(unrelated) > 0 {
		p.out.WriteWarning(fmt.Sprintf(
			"content repository has %d unrelated uncommitted change(s); continuing with %s only",
			len(unrelated), doc.RelPath))
		p.logger.Warn(ctx, "unrelated uncommitted changes in content repository", map[string]interface{}{
			"count": len(unrelated),
			"paths": unrelated,
		})
	}

	if err := p.repo.Stage(ctx, doc.RelPath); err != nil {
		return fmt.Errorf("%w: staging %s: %w", domain.ErrCommitFailed, doc.RelPath, err)
	}

	staged, err := p.repo.HasStagedChanges(ctx, doc.RelPath)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrCommitFailed, err)
	}

	if !staged {
		result.Commit.SHA = domain.SHAAlreadyCommitted
		p.logger.Info(ctx, "document already committed", map[string]interface{}{
			"path": doc.RelPath,
		})
	} else {
		message := fmt.Sprintf("%s(%s): %s", req.DocType, doc.RepoName, doc.Filename)
		sha, err := p.repo.Commit(ctx, message)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrCommitFailed, err)
		}
		result.Commit.Committed = true
		result.Commit.SHA = sha
		p.logger.Info(ctx, "document committed", map[string]interface{}{
			"sha":     sha,
			"message": message,
		})
	}

	// Push regardless of whether this run created the commit; an earlier
	// run may have committed without pushing.
	if err := p.repo.Push(ctx); err != nil {
		p.out.WriteWarning("push failed; run 'git push' in the content repository to publish the commit")
		p.logger.Warn(ctx, "push failed", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		result.Commit.Pushed = true
	}

	return nil
}

// discussionPhase idempotently ensures a discussion exists for the document.
// Every failure in this phase degrades to a warning plus a failed discussion
// outcome; it can never escalate to a hard failure.
func (p *Publisher) discussionPhase(
	ctx context.Context,
	req domain.PublishRequest,
	doc *domain.ResolvedDocument,
	result *domain.PublishResult,
) {
	remoteURL := p.repo.RemoteURL()
	if remoteURL == "" {
		p.out.WriteWarning("content repository has no remote configured; skipping discussion")
		result.Discussion.State = domain.DiscussionUnavailable
		result.Discussion.Reason = "no remote configured"
		return
	}

	identity := domain.ParseRemoteIdentity(remoteURL)
	if !identity.Valid() {
		p.logger.Warn(ctx, "could not parse owner/repo from remote URL", map[string]interface{}{
			"remote_url": remoteURL,
		})
	}

	ids, err := p.resolveIdentifiers(ctx, remoteURL, identity)
	if err != nil {
		p.failDiscussion(result, req, doc, identity,
			fmt.Sprintf("could not determine repository identifier: %v", err))
		return
	}

	categoryID := ids.CategoryIDFor(req.DocType)
	if categoryID == "" {
		p.failDiscussion(result, req, doc, identity,
			fmt.Sprintf("%v: %q", domain.ErrCategoryUnresolved, req.DocType.CategoryName()))
		return
	}

	title := domain.DiscussionTitle(doc.RepoName, doc.Filename)

	existing, err := p.discussions.FindDiscussionByTitle(ctx, identity, title)
	if err != nil {
		// A failed duplicate search does not abort the phase; worst case
		// the creation call produces a duplicate that a later run reuses.
		p.logger.Warn(ctx, "discussion title search failed", map[string]interface{}{
			"title": title,
			"error": err.Error(),
		})
	}
	if existing != "" {
		result.Discussion.State = domain.DiscussionReused
		result.Discussion.URL = existing
		p.logger.Info(ctx, "discussion already exists", map[string]interface{}{
			"title": title,
			"url":   existing,
		})
		return
	}

	content, err := os.ReadFile(doc.AbsPath)
	if err != nil {
		p.failDiscussion(result, req, doc, identity,
			fmt.Sprintf("could not read document: %v", err))
		return
	}

	body := domain.DiscussionBody(domain.BodyInput{
		Identity: identity,
		RepoName: doc.RepoName,
		RelPath:  doc.RelPath,
		SHA:      result.Commit.SHA,
		Content:  content,
	})

	url, err := p.discussions.CreateDiscussion(ctx, ids.RepositoryID, categoryID, title, body)
	if err != nil {
		p.failDiscussion(result, req, doc, identity,
			fmt.Sprintf("%v: %v", domain.ErrDiscussionCreateFailed, err))
		return
	}
	if url == "" {
		p.failDiscussion(result, req, doc, identity,
			fmt.Sprintf("%v: response contained no URL", domain.ErrDiscussionCreateFailed))
		return
	}

	result.Discussion.State = domain.DiscussionCreated
	result.Discussion.URL = url
	p.logger.Info(ctx, "discussion created", map[string]interface{}{
		"title": title,
		"url":   url,
	})
}

// resolveIdentifiers returns the repository and category identifiers,
// consulting the cache first. The cache is reused only on an exact
// remote-URL match with all three identifiers present; anything else is a
// miss and re-queries the hosting API. A fully resolved set replaces the
// single cache slot.
func (p *Publisher) resolveIdentifiers(
	ctx context.Context,
	remoteURL string,
	identity domain.RemoteIdentity,
) (*domain.IdentityCache, error) {
	cached, err := p.cache.Load()
	if err != nil {
		p.logger.Warn(ctx, "could not load identity cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if cached != nil && cached.RemoteURL == remoteURL && cached.Complete() {
		p.logger.Debug(ctx, "identity cache hit", map[string]interface{}{
			"remote_url": remoteURL,
		})
		return cached, nil
	}

	repoID, err := p.discussions.RepositoryID(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIdentityUnresolved, err)
	}
	if repoID == "" {
		return nil, domain.ErrIdentityUnresolved
	}

	ids := &domain.IdentityCache{
		RemoteURL:    remoteURL,
		RepositoryID: repoID,
	}

	categories, err := p.discussions.DiscussionCategories(ctx, identity)
	if err != nil {
		// Leave the category IDs empty; the caller reports the missing
		// category for this document type.
		p.logger.Warn(ctx, "could not list discussion categories", map[string]interface{}{
			"error": err.Error(),
		})
		return ids, nil
	}

	// Exact, case-sensitive name match; first match wins.
	for _, cat := range categories {
		switch cat.Name {
		case domain.DocTypeResearch.CategoryName():
			if ids.ResearchCategoryID == "" {
				ids.ResearchCategoryID = cat.ID
			}
		case domain.DocTypePlan.CategoryName():
			if ids.PlansCategoryID == "" {
				ids.PlansCategoryID = cat.ID
			}
		}
	}

	if ids.Complete() {
		if err := p.cache.Save(ids); err != nil {
			p.logger.Warn(ctx, "could not persist identity cache", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return ids, nil
}

// failDiscussion records a failed discussion phase with an actionable
// warning and, when owner/repo are known, manual-recovery details.
func (p *Publisher) failDiscussion(
	result *domain.PublishResult,
	req domain.PublishRequest,
	doc *domain.ResolvedDocument,
	identity domain.RemoteIdentity,
	reason string,
) {
	result.Discussion.State = domain.DiscussionFailed
	result.Discussion.Reason = reason

	warning := "discussion not published: " + reason
	if identity.Valid() {
		result.Discussion.Recovery = &domain.RecoveryHint{
			CreateURL:    domain.NewDiscussionURL(identity, req.DocType),
			CategoryName: req.DocType.CategoryName(),
			FilePath:     doc.AbsPath,
		}
		warning += fmt.Sprintf("; create it manually at %s (category %q, file %s)",
			result.Discussion.Recovery.CreateURL,
			result.Discussion.Recovery.CategoryName,
			result.Discussion.Recovery.FilePath)
	}
	p.out.WriteWarning(warning)
}

// deriveOutcome applies the dominance rules: push failure always yields
// partial success; otherwise the discussion state decides between full and
// partial success. The discussion path can never produce a hard failure.
func deriveOutcome(result *domain.PublishResult) domain.PublishOutcome {
	if !result.Commit.Pushed {
		return domain.OutcomePartialSuccess
	}
	if result.Discussion.State.Succeeded() {
		return domain.OutcomeFullSuccess
	}
	return domain.OutcomePartialSuccess
}
