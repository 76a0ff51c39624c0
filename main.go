// Package main is the entry point for the thoughts-publish CLI application.
// thoughts-publish commits a thoughts document (research note or plan) to the
// content repository, pushes it, and idempotently ensures a matching
// discussion thread exists in the hosting service, caching the discovered
// remote identifiers for reuse.
package main

import (
	"os"
	"path/filepath"

	"github.com/benjaminmgross/thoughts-publish/cmd"
	"github.com/benjaminmgross/thoughts-publish/internal/adapters/cache"
	gitadapter "github.com/benjaminmgross/thoughts-publish/internal/adapters/git"
	"github.com/benjaminmgross/thoughts-publish/internal/adapters/github"
	logadapter "github.com/benjaminmgross/thoughts-publish/internal/adapters/logger"
	"github.com/benjaminmgross/thoughts-publish/internal/adapters/output"
	"github.com/benjaminmgross/thoughts-publish/internal/domain"
	"github.com/benjaminmgross/thoughts-publish/internal/infrastructure/config"
	"github.com/benjaminmgross/thoughts-publish/internal/usecases"
)

func main() {
	cmd.SetDefaultDependencies(buildDependencies())
	cmd.Execute()
}

// buildDependencies wires up the production dependencies.
func buildDependencies() *cmd.Dependencies {
	return &cmd.Dependencies{
		LoggerFactory: func() cmd.Logger {
			return logadapter.NewZapAdapter(logadapter.New(os.Getenv(config.EnvLogLevel)))
		},

		ConfigLoader: func() (*cmd.AppConfig, error) {
			cfg, err := config.Load()
			if err != nil {
				return nil, err
			}
			return &cmd.AppConfig{
				ContentRoot:       cfg.ContentRoot,
				WorkspaceDir:      cfg.WorkspaceDir,
				GithubToken:       cfg.GithubToken,
				ProtectedBranches: cfg.ProtectedBranches,
				LogLevel:          cfg.LogLevel,
			}, nil
		},

		DocumentResolver: func(cfg *cmd.AppConfig, req domain.PublishRequest) (*domain.ResolvedDocument, error) {
			return usecases.ResolveDocument(cfg.ContentRoot, cfg.WorkspaceDir, req)
		},

		ContentRepoFactory: func(path string, log cmd.Logger) (domain.ContentRepository, error) {
			return gitadapter.NewGoGitRepository(path, log)
		},

		DiscussionServiceFactory: func(cfg *cmd.AppConfig, log cmd.Logger) domain.DiscussionService {
			return github.NewClient(cfg.GithubToken, log)
		},

		CacheStoreFactory: func(cfg *cmd.AppConfig) domain.CacheStore {
			return cache.NewYAMLStore(filepath.Join(cfg.WorkspaceDir, config.ConfigFileName))
		},

		SummaryWriterFactory: func() domain.SummaryWriter {
			return output.NewWriter()
		},

		PublisherFactory: func(
			repo domain.ContentRepository,
			discussions domain.DiscussionService,
			cacheStore domain.CacheStore,
			out domain.SummaryWriter,
			log cmd.Logger,
		) domain.Publisher {
			return usecases.NewPublisher(repo, discussions, cacheStore, out, log)
		},

		Stderr: os.Stderr,
	}
}
