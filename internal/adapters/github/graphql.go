// Package github provides the GraphQL adapter for the hosting API.
// This package implements the domain.DiscussionService interface using
// shurcooL/githubv4.
package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/benjaminmgross/thoughts-publish/internal/domain"
)

// Logger defines the logging interface for the GitHub adapter.
type Logger interface {
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
}

// categoryPageSize caps the category listing; repositories with more than
// 25 discussion categories are not supported.
const categoryPageSize = 25

// searchPageSize caps the duplicate-title search result page.
const searchPageSize = 10

// Client implements domain.DiscussionService against the GitHub GraphQL API.
// Calls block with the transport's default timeouts and are never retried;
// a failed call is terminal for its pipeline step.
type Client struct {
	gql    *githubv4.Client
	logger Logger
}

// NewClient creates a Client authenticating with the given token. An empty
// token produces an unauthenticated client whose queries fail; the publisher
// degrades those failures to warnings.
func NewClient(token string, log Logger) *Client {
	var httpClient *http.Client
	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), src)
	}

	return &Client{
		gql:    githubv4.NewClient(httpClient),
		logger: log,
	}
}

// RepositoryID looks up the GraphQL node ID of the repository.
func (c *Client) RepositoryID(ctx context.Context, identity domain.RemoteIdentity) (string, error) {
	var query struct {
		Repository struct {
			ID githubv4.ID
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	variables := map[string]interface{}{
		"owner": githubv4.String(identity.Owner),
		"name":  githubv4.String(identity.Repo),
	}

	if err := c.gql.Query(ctx, &query, variables); err != nil {
		return "", fmt.Errorf("repository lookup for %s failed: %w", identity, err)
	}

	id := fmt.Sprintf("%v", query.Repository.ID)
	c.logger.Debug(ctx, "resolved repository id", map[string]interface{}{
		"repository": identity.String(),
		"id":         id,
	})

	return id, nil
}

// DiscussionCategories lists up to 25 discussion categories of the repository.
func (c *Client) DiscussionCategories(ctx context.Context, identity domain.RemoteIdentity) ([]domain.DiscussionCategory, error) {
	var query struct {
		Repository struct {
			DiscussionCategories struct {
				Nodes []struct {
					ID   githubv4.ID
					Name githubv4.String
				}
			} `graphql:"discussionCategories(first: $first)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	variables := map[string]interface{}{
		"owner": githubv4.String(identity.Owner),
		"name":  githubv4.String(identity.Repo),
		"first": githubv4.Int(categoryPageSize),
	}

	if err := c.gql.Query(ctx, &query, variables); err != nil {
		return nil, fmt.Errorf("category listing for %s failed: %w", identity, err)
	}

	categories := make([]domain.DiscussionCategory, 0, len(query.Repository.DiscussionCategories.Nodes))
	for _, node := range query.Repository.DiscussionCategories.Nodes {
		categories = append(categories, domain.DiscussionCategory{
			ID:   fmt.Sprintf("%v", node.ID),
			Name: string(node.Name),
		})
	}

	c.logger.Debug(ctx, "listed discussion categories", map[string]interface{}{
		"repository": identity.String(),
		"count":      len(categories),
	})

	return categories, nil
}

// FindDiscussionByTitle searches existing discussions for an exact title
// match. Returns the discussion URL, or empty when none exists.
func (c *Client) FindDiscussionByTitle(ctx context.Context, identity domain.RemoteIdentity, title string) (string, error) {
	var query struct {
		Search struct {
			Nodes []struct {
				Discussion struct {
					Title githubv4.String
					URL   githubv4.URI
				} `graphql:"... on Discussion"`
			}
		} `graphql:"search(query: $query, type: DISCUSSION, first: $first)"`
	}

	variables := map[string]interface{}{
		"query": githubv4.String(fmt.Sprintf("repo:%s in:title %q", identity, title)),
		"first": githubv4.Int(searchPageSize),
	}

	if err := c.gql.Query(ctx, &query, variables); err != nil {
		return "", fmt.Errorf("discussion search for %q failed: %w", title, err)
	}

	// The search is fuzzy; only an exact title counts as a duplicate.
	for _, node := range query.Search.Nodes {
		if string(node.Discussion.Title) == title && node.Discussion.URL.URL != nil {
			return node.Discussion.URL.String(), nil
		}
	}

	return "", nil
}

// CreateDiscussion creates a discussion and returns its URL. A response
// without a URL is reported as domain.ErrDiscussionCreateFailed.
func (c *Client) CreateDiscussion(ctx context.Context, repositoryID, categoryID, title, body string) (string, error) {
	var mutation struct {
		CreateDiscussion struct {
			Discussion struct {
				URL githubv4.URI
			}
		} `graphql:"createDiscussion(input: $input)"`
	}

	input := githubv4.CreateDiscussionInput{
		RepositoryID: githubv4.ID(repositoryID),
		CategoryID:   githubv4.ID(categoryID),
		Title:        githubv4.String(title),
		Body:         githubv4.String(body),
	}

	if err := c.gql.Mutate(ctx, &mutation, input, nil); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrDiscussionCreateFailed, err)
	}

	if mutation.CreateDiscussion.Discussion.URL.URL == nil {
		return "", fmt.Errorf("%w: response contained no URL", domain.ErrDiscussionCreateFailed)
	}

	return mutation.CreateDiscussion.Discussion.URL.String(), nil
}
