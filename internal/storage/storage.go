package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Provider stores uploaded files (avatars)
type Provider interface {
	Save(ctx context.Context, filename string, content io.Reader) error
	Delete(ctx context.Context, filename string) error
}

type diskProvider struct {
	dir string
}

// NewDiskProvider stores files under dir, creating it if needed
func NewDiskProvider(dir string) (Provider, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &diskProvider{dir: dir}, nil
}

func (p *diskProvider) Save(_ context.Context, filename string, content io.Reader) error {
	dst, err := os.Create(filepath.Join(p.dir, filepath.Base(filename)))
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, content); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func (p *diskProvider) Delete(_ context.Context, filename string) error {
	err := os.Remove(filepath.Join(p.dir, filepath.Base(filename)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
