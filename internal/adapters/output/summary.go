// Package output provides adapters for writing user-visible output.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/benjaminmgross/thoughts-publish/internal/domain"
)

// Writer reports warnings on the error stream and the end-of-run summary
// block on standard output. It implements domain.SummaryWriter.
type Writer struct {
	out    io.Writer
	errOut io.Writer
}

// NewWriter creates a Writer targeting stdout and stderr.
func NewWriter() *Writer {
	return &Writer{out: os.Stdout, errOut: os.Stderr}
}

// NewWriterWithOutput creates a Writer with custom destinations.
// This is useful for testing.
func NewWriterWithOutput(out, errOut io.Writer) *Writer {
	return &Writer{out: out, errOut: errOut}
}

// WriteWarning writes a warning line to the error stream. Warnings always
// carry the actionable next step composed by the caller.
func (w *Writer) WriteWarning(msg string) {
	// Best-effort: there is no recovery action if stderr writes fail.
	fmt.Fprintf(w.errOut, "warning: %s\n", msg)
}

// WriteSummary writes the compact summary block, listing the commit and
// discussion outcomes independently.
func (w *Writer) WriteSummary(result *domain.PublishResult) error {
	if _, err := fmt.Fprintf(w.out, "Commit:     %s\n", result.Commit.SHA); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w.out, "Push:       %s\n", pushLine(result.Commit)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w.out, "Discussion: %s\n", discussionLine(result.Discussion)); err != nil {
		return err
	}
	return nil
}

func pushLine(commit domain.CommitResult) string {
	if commit.Pushed {
		return "ok"
	}
	return "FAILED (run 'git push' in the content repository)"
}

func discussionLine(d domain.DiscussionOutcome) string {
	switch d.State {
	case domain.DiscussionSkipped:
		return "skipped"
	case domain.DiscussionUnavailable:
		return "skipped (" + d.Reason + ")"
	case domain.DiscussionCreated:
		return "created " + d.URL
	case domain.DiscussionReused:
		return "exists " + d.URL
	default:
		line := "FAILED"
		if d.Recovery != nil {
			line += " (create manually: " + d.Recovery.CreateURL + ")"
		}
		return line
	}
}
