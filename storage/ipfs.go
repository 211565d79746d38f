package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	shell "github.com/ipfs/go-ipfs-api"

	"github.com/ruteri/domain-resolution/interfaces"
)

// ipfsShell is the part of the IPFS HTTP API client the backend uses.
type ipfsShell interface {
	IsUp() bool
	Cat(path string) (io.ReadCloser, error)
}

// IPFSBackend fetches content from an IPFS node over its HTTP API.
type IPFSBackend struct {
	shell  ipfsShell
	apiURL string
	log    *slog.Logger
}

// NewIPFSBackend connects to the IPFS HTTP API at apiURL (host:port).
func NewIPFSBackend(apiURL string, timeout time.Duration, log *slog.Logger) (*IPFSBackend, error) {
	if apiURL == "" {
		return nil, errors.New("ipfs api address is required")
	}

	sh := shell.NewShell(apiURL)
	if timeout > 0 {
		sh.SetTimeout(timeout)
	}

	return newIPFSBackend(sh, apiURL, log), nil
}

func newIPFSBackend(sh ipfsShell, apiURL string, log *slog.Logger) *IPFSBackend {
	return &IPFSBackend{
		shell:  sh,
		apiURL: apiURL,
		log:    log,
	}
}

// Fetch returns the content published under hash. Directory hashes resolve to
// their index.html.
func (b *IPFSBackend) Fetch(ctx context.Context, hash string) ([]byte, error) {
	start := time.Now()

	hash = strings.TrimPrefix(strings.TrimSpace(hash), "/ipfs/")
	if hash == "" {
		return nil, interfaces.ErrContentNotFound
	}

	if !b.shell.IsUp() {
		b.log.Warn("IPFS node unavailable", slog.String("api", b.apiURL))
		return nil, interfaces.ErrBackendUnavailable
	}

	path := "/ipfs/" + hash
	data, err := b.cat(ctx, path)
	if err != nil && isDirectory(err) {
		path += "/index.html"
		data, err = b.cat(ctx, path)
	}
	if err != nil {
		if isNotFound(err) {
			b.log.Debug("Content not found in IPFS",
				slog.String("path", path),
				slog.Duration("duration", time.Since(start)))
			return nil, interfaces.ErrContentNotFound
		}

		b.log.Error("Failed to fetch data from IPFS",
			slog.String("path", path),
			"err", err,
			slog.Duration("duration", time.Since(start)))
		return nil, fmt.Errorf("failed to fetch data from IPFS: %w", err)
	}

	b.log.Debug("Fetched content from IPFS",
		slog.String("path", path),
		slog.Int("size", len(data)),
		slog.Duration("duration", time.Since(start)))

	return data, nil
}

func (b *IPFSBackend) cat(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := b.shell.Cat(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}

// Available checks if the IPFS node is accessible.
func (b *IPFSBackend) Available(ctx context.Context) bool {
	return b.shell.IsUp()
}

func (b *IPFSBackend) Name() string {
	return "ipfs-" + b.apiURL
}

func isDirectory(err error) bool {
	return strings.Contains(err.Error(), "is a directory")
}

func isNotFound(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "no link named") || strings.Contains(msg, "not found")
}
