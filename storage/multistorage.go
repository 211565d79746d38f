package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ruteri/domain-resolution/interfaces"
)

// MultiBackend fetches from several backends in order, falling back on failure.
type MultiBackend struct {
	backends []interfaces.ContentBackend
	log      *slog.Logger
}

func NewMultiBackend(backends []interfaces.ContentBackend, logger *slog.Logger) *MultiBackend {
	if logger == nil {
		logger = slog.Default()
	}

	return &MultiBackend{
		backends: backends,
		log:      logger,
	}
}

// Fetch returns the content from the first available backend that has it.
// It reports ErrContentNotFound when every reachable backend lacks the content
// and ErrBackendUnavailable when none is reachable.
func (m *MultiBackend) Fetch(ctx context.Context, hash string) ([]byte, error) {
	start := time.Now()
	var errs []error
	tried := 0

	for _, backend := range m.backends {
		if !backend.Available(ctx) {
			m.log.Debug("Backend unavailable",
				slog.String("backend_name", backend.Name()),
				slog.String("hash", hash))
			continue
		}
		tried++

		data, err := backend.Fetch(ctx, hash)
		if err == nil {
			m.log.Debug("Fetched content",
				slog.String("backend_name", backend.Name()),
				slog.String("hash", hash),
				slog.Duration("duration", time.Since(start)))
			return data, nil
		}

		errs = append(errs, fmt.Errorf("%s: %w", backend.Name(), err))
		m.log.Debug("Failed to fetch from backend",
			slog.String("backend_name", backend.Name()),
			slog.String("hash", hash),
			"err", err)
	}

	if tried == 0 {
		return nil, interfaces.ErrBackendUnavailable
	}

	allMissing := true
	for _, err := range errs {
		if !errors.Is(err, interfaces.ErrContentNotFound) {
			allMissing = false
			break
		}
	}
	if allMissing {
		return nil, interfaces.ErrContentNotFound
	}

	m.log.Error("All backends failed to fetch content",
		slog.String("hash", hash),
		slog.Int("failed_backends", len(errs)),
		slog.Duration("duration", time.Since(start)))

	return nil, fmt.Errorf("all backends failed to fetch %s: %w", hash, errors.Join(errs...))
}

// Available checks if any backend is available.
func (m *MultiBackend) Available(ctx context.Context) bool {
	for _, backend := range m.backends {
		if backend.Available(ctx) {
			return true
		}
	}
	return false
}

func (m *MultiBackend) Name() string {
	names := make([]string, 0, len(m.backends))
	for _, backend := range m.backends {
		names = append(names, backend.Name())
	}
	return "multi:[" + strings.Join(names, ",") + "]"
}
