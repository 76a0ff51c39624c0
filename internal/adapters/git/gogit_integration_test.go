// Package git provides adapters for interacting with the local content repository.
package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjaminmgross/thoughts-publish/internal/domain"
)

// testLogger is a minimal logger for testing that doesn't output anything.
type testLogger struct{}

func (l *testLogger) Debug(_ context.Context, _ string, _ map[string]interface{}) {}
func (l *testLogger) Warn(_ context.Context, _ string, _ map[string]interface{})  {}

// runGit executes a git command in the given directory.
func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
}

// setupContentRepo creates a temporary content repository with one document
// committed and the target document written but not yet staged.
// Returns the repository path and the document's relative path.
func setupContentRepo(t *testing.T) (string, string) {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	dir := t.TempDir()
	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")

	// Seed commit so HEAD exists.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# thoughts\n"), 0o644))
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "Initial commit")

	relPath := "repos/my-repo/research/cache.md"
	absPath := filepath.Join(dir, filepath.FromSlash(relPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(absPath), 0o755))
	require.NoError(t, os.WriteFile(absPath, []byte("# Cache design\n"), 0o644))

	return dir, relPath
}

func TestNewGoGitRepository_NotARepository(t *testing.T) {
	_, err := NewGoGitRepository(t.TempDir(), &testLogger{})

	assert.ErrorIs(t, err, domain.ErrRepositoryNotFound)
}

func TestGoGitRepository_StageCommitCycle(t *testing.T) {
	dir, relPath := setupContentRepo(t)
	ctx := context.Background()

	repo, err := NewGoGitRepository(dir, &testLogger{})
	require.NoError(t, err)
	defer repo.Close()

	// The new document stages with a diff against HEAD.
	require.NoError(t, repo.Stage(ctx, relPath))
	staged, err := repo.HasStagedChanges(ctx, relPath)
	require.NoError(t, err)
	assert.True(t, staged)

	sha, err := repo.Commit(ctx, "research(my-repo): cache.md")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{40}$`), sha)

	// Re-staging the unchanged document produces no diff.
	require.NoError(t, repo.Stage(ctx, relPath))
	staged, err = repo.HasStagedChanges(ctx, relPath)
	require.NoError(t, err)
	assert.False(t, staged)
}

func TestGoGitRepository_UnrelatedChanges(t *testing.T) {
	dir, relPath := setupContentRepo(t)
	ctx := context.Background()

	// An unrelated modification alongside the target document.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# changed\n"), 0o644))

	repo, err := NewGoGitRepository(dir, &testLogger{})
	require.NoError(t, err)
	defer repo.Close()

	unrelated, err := repo.UnrelatedChanges(ctx, "cache.md")
	require.NoError(t, err)
	assert.Contains(t, unrelated, "README.md")
	assert.NotContains(t, unrelated, relPath)
}

func TestGoGitRepository_RemoteURL(t *testing.T) {
	dir, _ := setupContentRepo(t)

	repo, err := NewGoGitRepository(dir, &testLogger{})
	require.NoError(t, err)
	defer repo.Close()

	// No remote configured yet.
	assert.Equal(t, "", repo.RemoteURL())

	runGit(t, dir, "remote", "add", "origin", "https://github.com/acme/thoughts.git")

	// Reopen to pick up the new remote configuration.
	repo, err = NewGoGitRepository(dir, &testLogger{})
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/acme/thoughts.git", repo.RemoteURL())
}

func TestGoGitRepository_PushToLocalBare(t *testing.T) {
	dir, relPath := setupContentRepo(t)
	ctx := context.Background()

	bare := t.TempDir()
	runGit(t, bare, "init", "--bare")
	runGit(t, dir, "remote", "add", "origin", bare)

	repo, err := NewGoGitRepository(dir, &testLogger{})
	require.NoError(t, err)
	defer repo.Close()

	require.NoError(t, repo.Stage(ctx, relPath))
	_, err = repo.Commit(ctx, "research(my-repo): cache.md")
	require.NoError(t, err)

	require.NoError(t, repo.Push(ctx))

	// A second push with nothing new is not an error.
	require.NoError(t, repo.Push(ctx))
}

func TestGoGitRepository_PushWithoutRemote(t *testing.T) {
	dir, _ := setupContentRepo(t)

	repo, err := NewGoGitRepository(dir, &testLogger{})
	require.NoError(t, err)
	defer repo.Close()

	err = repo.Push(context.Background())
	assert.ErrorIs(t, err, domain.ErrPushFailed)
}
