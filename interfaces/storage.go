package interfaces

import (
	"context"
	"errors"
)

var (
	// ErrContentNotFound is returned when no backend holds the requested content.
	ErrContentNotFound = errors.New("content not found")
	// ErrBackendUnavailable is returned when a backend cannot be reached.
	ErrBackendUnavailable = errors.New("storage backend unavailable")
)

// ContentBackend fetches content published under a content hash, such as the
// website referenced by a domain's ipfs.html.value record.
type ContentBackend interface {
	Fetch(ctx context.Context, hash string) ([]byte, error)
	Available(ctx context.Context) bool
	Name() string
}
