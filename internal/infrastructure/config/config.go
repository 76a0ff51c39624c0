// Package config provides configuration loading for the thoughts-publish
// application. All configuration comes from environment variables, read
// through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Environment variable names.
const (
	// EnvContentRepo is the root of the content repository holding the
	// thoughts documents. Required; must reference an existing directory.
	EnvContentRepo = "THOUGHTS_REPO"

	// EnvWorkspaceDir is the root of the consumer workspace. Required; its
	// basename becomes the repository slug, and the identity cache file
	// lives inside it.
	EnvWorkspaceDir = "WORKSPACE_DIR"

	// EnvGithubToken authenticates discussion API calls. Optional; when
	// absent the discussion phase degrades to a warning.
	EnvGithubToken = "GITHUB_TOKEN"

	// EnvProtectedBranches overrides which branches the external
	// gatekeeping step treats as protected. Not consumed by the publisher
	// itself; surfaced read-only for the workflow.
	EnvProtectedBranches = "PROTECTED_BRANCHES"

	// EnvLogLevel is the log level (debug, info, warn, error).
	EnvLogLevel = "LOG_LEVEL"
)

// Default values.
const DefaultLogLevel = "info"

// DefaultProtectedBranches is used when no override is configured.
var DefaultProtectedBranches = []string{"main", "master"}

// ConfigFileName is the workspace configuration file that carries the
// identity cache block.
const ConfigFileName = ".thoughts-config.yaml"

// Configuration errors. All of them are hard failures (exit 2).
var (
	// ErrContentRepoNotSet indicates THOUGHTS_REPO is not set.
	ErrContentRepoNotSet = errors.New("THOUGHTS_REPO must be set to the content repository root")

	// ErrContentRepoMissing indicates THOUGHTS_REPO does not reference an
	// existing directory.
	ErrContentRepoMissing = errors.New("THOUGHTS_REPO does not reference an existing directory")

	// ErrWorkspaceNotSet indicates WORKSPACE_DIR is not set.
	ErrWorkspaceNotSet = errors.New("WORKSPACE_DIR must be set to the consumer workspace root")
)

// Config holds all application configuration.
type Config struct {
	// ContentRoot is the content repository root directory.
	ContentRoot string

	// WorkspaceDir is the consumer workspace root directory.
	WorkspaceDir string

	// GithubToken authenticates hosting API calls; may be empty.
	GithubToken string

	// ProtectedBranches is the branch-protection override consumed by the
	// external gatekeeping collaborator.
	ProtectedBranches []string

	// LogLevel is the logging level.
	LogLevel string
}

// Load reads the application configuration from the environment and
// validates the required paths.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault(EnvLogLevel, DefaultLogLevel)

	contentRoot := v.GetString(EnvContentRepo)
	if contentRoot == "" {
		return nil, ErrContentRepoNotSet
	}
	info, err := os.Stat(contentRoot)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrContentRepoMissing, contentRoot)
	}

	workspaceDir := v.GetString(EnvWorkspaceDir)
	if workspaceDir == "" {
		return nil, ErrWorkspaceNotSet
	}

	return &Config{
		ContentRoot:       contentRoot,
		WorkspaceDir:      workspaceDir,
		GithubToken:       v.GetString(EnvGithubToken),
		ProtectedBranches: parseProtectedBranches(v.GetString(EnvProtectedBranches)),
		LogLevel:          v.GetString(EnvLogLevel),
	}, nil
}

// parseProtectedBranches splits the comma-separated override, falling back
// to the defaults when unset.
func parseProtectedBranches(raw string) []string {
	if raw == "" {
		return DefaultProtectedBranches
	}

	var branches []string
	for _, branch := range strings.Split(raw, ",") {
		branch = strings.TrimSpace(branch)
		if branch != "" {
			branches = append(branches, branch)
		}
	}
	if len(branches) == 0 {
		return DefaultProtectedBranches
	}
	return branches
}
