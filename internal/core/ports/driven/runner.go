package driven

import "context"

// CommandRunner executes an external command and returns its stdout.
// Used by loaders that shell out to extraction tools (pdftotext).
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
