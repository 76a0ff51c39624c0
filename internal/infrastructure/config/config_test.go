package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) string {
	t.Helper()

	contentRoot := t.TempDir()
	t.Setenv(EnvContentRepo, contentRoot)
	t.Setenv(EnvWorkspaceDir, filepath.Join(t.TempDir(), "my-project"))
	return contentRoot
}

func TestLoad(t *testing.T) {
	contentRoot := setRequiredEnv(t)
	t.Setenv(EnvGithubToken, "ghp_test")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, contentRoot, cfg.ContentRoot)
	assert.NotEmpty(t, cfg.WorkspaceDir)
	assert.Equal(t, "ghp_test", cfg.GithubToken)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, DefaultProtectedBranches, cfg.ProtectedBranches)
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv(EnvGithubToken, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvProtectedBranches, "")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Empty(t, cfg.GithubToken)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultProtectedBranches, cfg.ProtectedBranches)
}

func TestLoad_ContentRepoNotSet(t *testing.T) {
	t.Setenv(EnvContentRepo, "")
	t.Setenv(EnvWorkspaceDir, t.TempDir())

	_, err := Load()

	assert.ErrorIs(t, err, ErrContentRepoNotSet)
}

func TestLoad_ContentRepoMissing(t *testing.T) {
	t.Setenv(EnvContentRepo, filepath.Join(t.TempDir(), "does-not-exist"))
	t.Setenv(EnvWorkspaceDir, t.TempDir())

	_, err := Load()

	assert.ErrorIs(t, err, ErrContentRepoMissing)
}

func TestLoad_ContentRepoIsAFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	t.Setenv(EnvContentRepo, file)
	t.Setenv(EnvWorkspaceDir, t.TempDir())

	_, err := Load()

	assert.ErrorIs(t, err, ErrContentRepoMissing)
}

func TestLoad_WorkspaceNotSet(t *testing.T) {
	t.Setenv(EnvContentRepo, t.TempDir())
	t.Setenv(EnvWorkspaceDir, "")

	_, err := Load()

	assert.ErrorIs(t, err, ErrWorkspaceNotSet)
}

func TestParseProtectedBranches(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty uses defaults", raw: "", want: DefaultProtectedBranches},
		{name: "single branch", raw: "release", want: []string{"release"}},
		{name: "comma separated", raw: "main,release", want: []string{"main", "release"}},
		{name: "whitespace trimmed", raw: " main , release ", want: []string{"main", "release"}},
		{name: "only separators uses defaults", raw: " , ", want: DefaultProtectedBranches},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseProtectedBranches(tt.raw))
		})
	}
}
