package domain

import (
	"regexp"
	"strings"
)

// RemoteIdentity is the owner/repo pair parsed from a version-control
// remote URL. Both fields are empty when the URL does not match a known
// syntax; parsing never fails.
type RemoteIdentity struct {
	Owner string
	Repo  string
}

// Valid reports whether both owner and repo were recovered from the URL.
func (i RemoteIdentity) Valid() bool {
	return i.Owner != "" && i.Repo != ""
}

// String returns "owner/repo", or empty when the identity is not valid.
func (i RemoteIdentity) String() string {
	if !i.Valid() {
		return ""
	}
	return i.Owner + "/" + i.Repo
}

// Regular expressions for the two supported remote URL syntaxes.
var (
	// urlStylePattern matches scheme://host/owner/repo[.git], e.g.
	// https://github.com/owner/repo.git or ssh://git@github.com/owner/repo.
	urlStylePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://[^/]+/([^/]+)/([^/]+?)(?:\.git)?$`)

	// scpStylePattern matches [user@]host:owner/repo[.git], e.g.
	// git@github.com:owner/repo.git.
	scpStylePattern = regexp.MustCompile(`^(?:[^@:/]+@)?[^:/]+:([^:/]+)/([^/]+?)(?:\.git)?$`)
)

// ParseRemoteIdentity extracts owner/repo from a remote URL. Both URL-style
// and SSH-style syntaxes are supported; anything else yields a zero
// RemoteIdentity so downstream lookups degrade to a warning instead of
// crashing.
func ParseRemoteIdentity(rawURL string) RemoteIdentity {
	rawURL = strings.TrimSpace(rawURL)

	if matches := urlStylePattern.FindStringSubmatch(rawURL); len(matches) == 3 {
		return RemoteIdentity{Owner: matches[1], Repo: matches[2]}
	}
	if matches := scpStylePattern.FindStringSubmatch(rawURL); len(matches) == 3 {
		return RemoteIdentity{Owner: matches[1], Repo: matches[2]}
	}

	return RemoteIdentity{}
}
