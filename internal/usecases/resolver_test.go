package usecases

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjaminmgross/thoughts-publish/internal/domain"
)

// writeDocument creates the document at its canonical location under the
// given content root.
func writeDocument(t *testing.T, contentRoot, repoName, dirName, filename string) string {
	t.Helper()

	dir := filepath.Join(contentRoot, "repos", repoName, dirName)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	path := filepath.Join(dir, filename)
	require.NoError(t, os.WriteFile(path, []byte("# doc\n"), 0o644))
	return path
}

func TestResolveDocument(t *testing.T) {
	contentRoot := t.TempDir()
	workspaceDir := filepath.Join(t.TempDir(), "My Project")
	require.NoError(t, os.MkdirAll(workspaceDir, 0o755))

	absPath := writeDocument(t, contentRoot, "my-project", "research", "cache.md")

	doc, err := ResolveDocument(contentRoot, workspaceDir, domain.PublishRequest{
		DocType:  domain.DocTypeResearch,
		FilePath: "notes/cache.md",
	})

	require.NoError(t, err)
	assert.Equal(t, "my-project", doc.RepoName)
	assert.Equal(t, "research", doc.DirName)
	assert.Equal(t, "cache.md", doc.Filename)
	assert.Equal(t, "repos/my-project/research/cache.md", doc.RelPath)
	assert.Equal(t, absPath, doc.AbsPath)
}

func TestResolveDocument_PlanUsesPluralDir(t *testing.T) {
	contentRoot := t.TempDir()
	workspaceDir := filepath.Join(t.TempDir(), "proj")
	require.NoError(t, os.MkdirAll(workspaceDir, 0o755))

	writeDocument(t, contentRoot, "proj", "plans", "rollout.md")

	doc, err := ResolveDocument(contentRoot, workspaceDir, domain.PublishRequest{
		DocType:  domain.DocTypePlan,
		FilePath: "rollout.md",
	})

	require.NoError(t, err)
	assert.Equal(t, "plans", doc.DirName)
	assert.Equal(t, "repos/proj/plans/rollout.md", doc.RelPath)
}

func TestResolveDocument_MissingDocument(t *testing.T) {
	contentRoot := t.TempDir()
	workspaceDir := filepath.Join(t.TempDir(), "proj")
	require.NoError(t, os.MkdirAll(workspaceDir, 0o755))

	_, err := ResolveDocument(contentRoot, workspaceDir, domain.PublishRequest{
		DocType:  domain.DocTypeResearch,
		FilePath: "missing.md",
	})

	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestResolveDocument_DirectoryIsNotADocument(t *testing.T) {
	contentRoot := t.TempDir()
	workspaceDir := filepath.Join(t.TempDir(), "proj")
	require.NoError(t, os.MkdirAll(workspaceDir, 0o755))
	require.NoError(t, os.MkdirAll(
		filepath.Join(contentRoot, "repos", "proj", "research", "cache.md"), 0o755))

	_, err := ResolveDocument(contentRoot, workspaceDir, domain.PublishRequest{
		DocType:  domain.DocTypeResearch,
		FilePath: "cache.md",
	})

	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestResolveDocument_InvalidRequest(t *testing.T) {
	_, err := ResolveDocument(t.TempDir(), t.TempDir(), domain.PublishRequest{
		DocType:  "bogus",
		FilePath: "cache.md",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidDocType)
}
