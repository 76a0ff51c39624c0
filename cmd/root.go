// Package cmd provides the CLI commands for thoughts-publish.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/benjaminmgross/thoughts-publish/internal/domain"
)

// Logger defines the logging interface used by the command.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, err error, fields map[string]interface{})
}

// Dependencies holds all injectable dependencies for the command.
// This enables testing by allowing mock implementations to be injected.
type Dependencies struct {
	// LoggerFactory creates a logger instance.
	LoggerFactory func() Logger

	// ConfigLoader loads application configuration.
	ConfigLoader func() (*AppConfig, error)

	// DocumentResolver resolves the document's canonical location in the
	// content repository.
	DocumentResolver func(cfg *AppConfig, req domain.PublishRequest) (*domain.ResolvedDocument, error)

	// ContentRepoFactory opens the content repository at the given path.
	ContentRepoFactory func(path string, log Logger) (domain.ContentRepository, error)

	// DiscussionServiceFactory creates the hosting API client.
	DiscussionServiceFactory func(cfg *AppConfig, log Logger) domain.DiscussionService

	// CacheStoreFactory creates the identity cache store for the workspace.
	CacheStoreFactory func(cfg *AppConfig) domain.CacheStore

	// SummaryWriterFactory creates the user-facing output writer.
	SummaryWriterFactory func() domain.SummaryWriter

	// PublisherFactory creates the publish pipeline.
	PublisherFactory func(
		repo domain.ContentRepository,
		discussions domain.DiscussionService,
		cache domain.CacheStore,
		out domain.SummaryWriter,
		log Logger,
	) domain.Publisher

	// Stderr is the writer for errors reported outside the pipeline.
	Stderr io.Writer
}

// AppConfig holds application configuration loaded by ConfigLoader.
type AppConfig struct {
	// ContentRoot is the content repository root directory.
	ContentRoot string

	// WorkspaceDir is the consumer workspace root directory.
	WorkspaceDir string

	// GithubToken authenticates hosting API calls; may be empty.
	GithubToken string

	// ProtectedBranches is the branch-protection override for the external
	// gatekeeping step.
	ProtectedBranches []string

	// LogLevel is the log level setting.
	LogLevel string
}

// Command-line flags.
var (
	noDiscussion bool
	verbose      bool
)

// defaultDeps holds the production dependencies.
// This is set by the production wiring in main or via SetDefaultDependencies.
var defaultDeps *Dependencies

// SetDefaultDependencies sets the default dependencies for production use.
// This should be called from main() before Execute().
func SetDefaultDependencies(deps *Dependencies) {
	defaultDeps = deps
}

// outcomeError carries a non-zero publish outcome through cobra's error
// path so Execute can map it to the right exit code.
type outcomeError struct {
	result *domain.PublishResult
}

func (e *outcomeError) Error() string {
	return fmt.Sprintf("publish finished with %s", e.result.Outcome)
}

// ExitCode returns the process exit code for the outcome.
func (e *outcomeError) ExitCode() int {
	return e.result.Outcome.ExitCode()
}

// NewRootCmd creates the root command for thoughts-publish.
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithDeps(defaultDeps)
}

// NewRootCmdWithDeps creates the root command with explicit dependencies.
// This is the primary constructor that enables testing via dependency injection.
func NewRootCmdWithDeps(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "thoughts-publish <research|plan> <file_path>",
		Short: "Publish a thoughts document and its discussion thread",
		Long: `thoughts-publish commits a research or plan document to the content
repository, pushes it, and idempotently ensures a matching discussion thread
exists in the repository's hosting service.

The document must already live at its canonical location,
{THOUGHTS_REPO}/repos/{repo}/{research|plans}/{filename}, where {repo} is the
normalized basename of WORKSPACE_DIR. Discovered remote identifiers are cached
in the workspace configuration file and reused while the remote URL is
unchanged.

Exit codes: 0 full success, 1 partial success (push or discussion failed after
a successful commit), 2 hard failure (bad input, bad environment, or commit
failure).

Examples:
  # Publish a research note
  thoughts-publish research notes/2026-08-25-cache-design.md

  # Publish a plan without opening a discussion
  thoughts-publish --no-discussion plan plans/rollout.md`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd, args, deps)
		},
	}

	// Define flags
	rootCmd.Flags().BoolVar(&noDiscussion, "no-discussion", false,
		"Commit and push only; never touch the discussion API")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose/debug logging")

	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// runPublish executes the publish pipeline with injected dependencies.
// Any error returned here is a hard failure (exit 2); degraded outcomes
// surface as an outcomeError with the derived exit code.
func runPublish(cmd *cobra.Command, args []string, deps *Dependencies) error {
	if deps == nil {
		return errors.New("dependencies not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	docType, err := domain.ParseDocType(args[0])
	if err != nil {
		return err
	}

	req := domain.PublishRequest{
		DocType:        docType,
		FilePath:       args[1],
		SkipDiscussion: noDiscussion,
	}
	if err := req.Validate(); err != nil {
		return err
	}

	// Set log level based on verbose flag (best-effort)
	if verbose {
		if err := os.Setenv("LOG_LEVEL", "debug"); err != nil {
			writeWarningf(deps.stderr(), "warning: could not set log level: %v\n", err)
		}
	}

	log := deps.LoggerFactory()

	log.Info(ctx, "starting thoughts-publish", map[string]interface{}{
		"doc_type":      string(docType),
		"file_path":     req.FilePath,
		"no_discussion": noDiscussion,
	})

	cfg, err := deps.ConfigLoader()
	if err != nil {
		log.Error(ctx, "failed to load configuration", err, nil)
		return fmt.Errorf("configuration error: %w", err)
	}

	doc, err := deps.DocumentResolver(cfg, req)
	if err != nil {
		log.Error(ctx, "failed to resolve document", err, map[string]interface{}{
			"file_path": req.FilePath,
		})
		return err
	}

	contentRepo, err := deps.ContentRepoFactory(cfg.ContentRoot, log)
	if err != nil {
		log.Error(ctx, "failed to open content repository", err, map[string]interface{}{
			"path": cfg.ContentRoot,
		})
		if errors.Is(err, domain.ErrRepositoryNotFound) {
			return fmt.Errorf("not a git repository: %s", cfg.ContentRoot)
		}
		return err
	}
	defer func() {
		if closeErr := contentRepo.Close(); closeErr != nil {
			log.Warn(ctx, "failed to close content repository", map[string]interface{}{
				"error": closeErr.Error(),
			})
		}
	}()

	writer := deps.SummaryWriterFactory()
	publisher := deps.PublisherFactory(
		contentRepo,
		deps.DiscussionServiceFactory(cfg, log),
		deps.CacheStoreFactory(cfg),
		writer,
		log,
	)

	result, err := publisher.Publish(ctx, req, doc)
	if err != nil {
		log.Error(ctx, "publish failed", err, nil)
		return err
	}

	if err := writer.WriteSummary(result); err != nil {
		log.Warn(ctx, "failed to write summary", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if result.Outcome.ExitCode() != 0 {
		return &outcomeError{result: result}
	}
	return nil
}

// Execute runs the root command and exits the process with the derived
// exit code on any non-success outcome.
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		var oe *outcomeError
		if errors.As(err, &oe) {
			// The summary already reported the details.
			os.Exit(oe.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(domain.OutcomeFailure.ExitCode())
	}
}

// stderr returns the configured error writer, defaulting to os.Stderr.
func (d *Dependencies) stderr() io.Writer {
	if d.Stderr != nil {
		return d.Stderr
	}
	return os.Stderr
}

// writeWarningf writes a warning message to the given writer.
// This is a best-effort operation; errors are intentionally ignored
// because there is no recovery action if stderr writes fail.
func writeWarningf(w io.Writer, format string, args ...any) {
	_, err := fmt.Fprintf(w, format, args...)
	if err != nil {
		// Intentionally ignored: no recovery action for failed stderr writes
		return
	}
}
