package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ruteri/domain-resolution/interfaces"
)

// FileBackend serves website content from a local directory, one file or
// directory per content hash.
type FileBackend struct {
	baseDir string
	log     *slog.Logger
}

func NewFileBackend(baseDir string, log *slog.Logger) (*FileBackend, error) {
	info, err := os.Stat(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open content directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content path %s is not a directory", baseDir)
	}

	return &FileBackend{
		baseDir: baseDir,
		log:     log,
	}, nil
}

// Fetch reads <baseDir>/<hash>, or <baseDir>/<hash>/index.html for directories.
func (b *FileBackend) Fetch(ctx context.Context, hash string) ([]byte, error) {
	if hash == "" || strings.ContainsAny(hash, `/\`) || hash == "." || hash == ".." {
		return nil, interfaces.ErrContentNotFound
	}

	filePath := filepath.Join(b.baseDir, hash)
	info, err := os.Stat(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, interfaces.ErrContentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		filePath = filepath.Join(filePath, "index.html")
	}

	data, err := os.ReadFile(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, interfaces.ErrContentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	b.log.Debug("Fetched content from file",
		slog.String("path", filePath),
		slog.Int("size", len(data)))

	return data, nil
}

func (b *FileBackend) Available(ctx context.Context) bool {
	_, err := os.Stat(b.baseDir)
	return err == nil
}

func (b *FileBackend) Name() string {
	return "file-" + b.baseDir
}
