package storage

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/ruteri/domain-resolution/interfaces"
)

const defaultIPFSTimeout = 30 * time.Second

// BackendFactory creates content backends from location URIs.
type BackendFactory struct {
	log *slog.Logger
}

func NewBackendFactory(logger *slog.Logger) *BackendFactory {
	return &BackendFactory{log: logger}
}

// BackendFor creates a content backend from a location URI.
//
// Supported schemes:
//   - ipfs://host:port/?timeout=30s - IPFS HTTP API
//   - s3://bucket/prefix/?region=us-east-1&endpoint=https://minio:9000 - public bucket mirror
//   - file:///absolute/path/ - local directory mirror
func (f *BackendFactory) BackendFor(locationURI string) (interfaces.ContentBackend, error) {
	u, err := url.Parse(locationURI)
	if err != nil {
		return nil, fmt.Errorf("invalid content location %q: %w", locationURI, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "ipfs":
		return f.createIPFSBackend(u)
	case "s3":
		return f.createS3Backend(u)
	case "file":
		return f.createFileBackend(u)
	default:
		return nil, fmt.Errorf("unsupported backend scheme: %s", u.Scheme)
	}
}

// CreateMultiBackend creates a fallback backend from every valid location.
// Invalid locations are logged and skipped.
func (f *BackendFactory) CreateMultiBackend(locationURIs []string) (*MultiBackend, error) {
	backends := make([]interfaces.ContentBackend, 0, len(locationURIs))

	for _, uri := range locationURIs {
		backend, err := f.BackendFor(uri)
		if err != nil {
			f.log.Warn("Failed to create content backend",
				"err", err,
				slog.String("locationURI", uri))
			continue
		}
		backends = append(backends, backend)
	}

	if len(backends) == 0 {
		return nil, fmt.Errorf("no valid content backends created")
	}

	return NewMultiBackend(backends, f.log), nil
}

func (f *BackendFactory) createIPFSBackend(u *url.URL) (interfaces.ContentBackend, error) {
	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("missing host in IPFS location %s", u.String())
	}
	port := u.Port()
	if port == "" {
		port = "5001"
	}

	timeout := defaultIPFSTimeout
	if raw := u.Query().Get("timeout"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid IPFS timeout %q: %w", raw, err)
		}
		timeout = parsed
	}

	return NewIPFSBackend(host+":"+port, timeout, f.log)
}

func (f *BackendFactory) createS3Backend(u *url.URL) (interfaces.ContentBackend, error) {
	query := u.Query()
	region := query.Get("region")
	if region == "" {
		region = "us-east-1"
	}

	return NewS3Backend(u.Host, strings.TrimPrefix(u.Path, "/"), region, query.Get("endpoint"), f.log)
}

func (f *BackendFactory) createFileBackend(u *url.URL) (interfaces.ContentBackend, error) {
	path := u.Path
	if u.Host != "" {
		path = u.Host + "/" + strings.TrimPrefix(path, "/")
	}
	if path == "" {
		return nil, fmt.Errorf("empty path in file URI: %s", u.String())
	}

	return NewFileBackend(path, f.log)
}
