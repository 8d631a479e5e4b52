package domain

import "context"

// Uploader is a live session against one remote directory. Implementations
// are created per operation and released with Close on every exit path.
type Uploader interface {
	// Upload stores localPath under remoteName. A localPath that does not
	// exist produces an empty remote entry.
	Upload(ctx context.Context, localPath string, remoteName string) error
	List(ctx context.Context) ([]string, error)
	// Delete removes one entry. An already missing entry yields an error
	// matching ErrNotFound.
	Delete(ctx context.Context, remoteName string) error
	Close() error
}
