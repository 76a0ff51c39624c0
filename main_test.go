package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcmd "github.com/benjaminmgross/thoughts-publish/cmd"
	"github.com/benjaminmgross/thoughts-publish/internal/domain"
)

func TestBuildDependencies(t *testing.T) {
	deps := buildDependencies()

	require.NotNil(t, deps)
	assert.NotNil(t, deps.LoggerFactory)
	assert.NotNil(t, deps.ConfigLoader)
	assert.NotNil(t, deps.DocumentResolver)
	assert.NotNil(t, deps.ContentRepoFactory)
	assert.NotNil(t, deps.DiscussionServiceFactory)
	assert.NotNil(t, deps.CacheStoreFactory)
	assert.NotNil(t, deps.SummaryWriterFactory)
	assert.NotNil(t, deps.PublisherFactory)
	assert.NotNil(t, deps.Stderr)
}

func TestBuildDependencies_Factories(t *testing.T) {
	deps := buildDependencies()
	cfg := &appcmd.AppConfig{WorkspaceDir: t.TempDir()}

	log := deps.LoggerFactory()
	assert.NotNil(t, log)

	assert.NotNil(t, deps.DiscussionServiceFactory(cfg, log))
	assert.NotNil(t, deps.CacheStoreFactory(cfg))

	writer := deps.SummaryWriterFactory()
	assert.NotNil(t, writer)

	assert.NotNil(t, deps.PublisherFactory(nil, nil, nil, writer, log))
}

func TestBuildDependencies_ContentRepoFactory(t *testing.T) {
	deps := buildDependencies()

	// A plain directory is not a git repository.
	_, err := deps.ContentRepoFactory(t.TempDir(), deps.LoggerFactory())

	assert.ErrorIs(t, err, domain.ErrRepositoryNotFound)
}
