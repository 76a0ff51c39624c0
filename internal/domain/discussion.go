package domain

import (
	"fmt"
	"strings"
)

// MaxDocumentBytes is the byte budget for the embedded document content,
// leaving headroom under the hosting platform's 65,536-byte body limit.
const MaxDocumentBytes = 60000

// TruncationNotice is appended to the body when the document content
// exceeds MaxDocumentBytes.
const TruncationNotice = "\n\n---\n*Document truncated to fit the discussion size limit. See the content repository for the full document.*"

// DiscussionTitle builds the discussion title for a document:
// "[{repoName}] {filename}". Duplicate prevention matches on this exact
// string.
func DiscussionTitle(repoName, filename string) string {
	return fmt.Sprintf("[%s] %s", repoName, filename)
}

// BodyInput holds everything needed to construct a discussion body.
type BodyInput struct {
	// Identity is the parsed remote identity; when valid, the provenance
	// header links to the file on the hosting service.
	Identity RemoteIdentity

	// RepoName is the normalized consumer workspace slug.
	RepoName string

	// RelPath is the document path relative to the content repository root.
	RelPath string

	// SHA is the commit SHA, or the already-committed sentinel.
	SHA string

	// Content is the raw document content.
	Content []byte
}

// DiscussionBody builds the discussion body: a provenance header (repo,
// file link, commit SHA) followed by the document content. Content beyond
// MaxDocumentBytes is truncated and the fixed truncation notice appended.
func DiscussionBody(in BodyInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "**Repo:** %s\n", in.RepoName)
	if in.Identity.Valid() {
		fmt.Fprintf(&b, "**File:** https://github.com/%s/%s/blob/main/%s\n", in.Identity.Owner, in.Identity.Repo, in.RelPath)
	} else {
		fmt.Fprintf(&b, "**File:** %s\n", in.RelPath)
	}
	fmt.Fprintf(&b, "**Commit:** %s\n\n---\n\n", in.SHA)

	if len(in.Content) > MaxDocumentBytes {
		b.Write(in.Content[:MaxDocumentBytes])
		b.WriteString(TruncationNotice)
	} else {
		b.Write(in.Content)
	}

	return b.String()
}

// NewDiscussionURL builds a direct link to the hosting UI's
// discussion-creation page for manual recovery.
func NewDiscussionURL(identity RemoteIdentity, d DocType) string {
	if !identity.Valid() {
		return ""
	}
	return fmt.Sprintf("https://github.com/%s/%s/discussions/new?category=%s", identity.Owner, identity.Repo, d.CategorySlug())
}
