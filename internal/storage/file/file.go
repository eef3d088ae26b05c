package file

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/DMarby/bgremove/internal/storage"
)

// Provider implements a file-based image storage rooted at a directory
type Provider struct {
	root string
}

// New returns a new Provider instance
func New(root string) (*Provider, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}

	return &Provider{
		root,
	}, nil
}

func (p *Provider) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(p.root, path)
}

// Exists reports whether there is a filesystem entry at path
func (p *Provider) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(p.resolve(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// Get returns the contents of the file at path
func (p *Provider) Get(ctx context.Context, path string) ([]byte, error) {
	file, err := os.Open(p.resolve(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, storage.ErrNotFound
		}

		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

// Put creates or truncates the file at path and writes data to it.
// The parent directory must already exist.
func (p *Provider) Put(ctx context.Context, path string, data []byte) (err error) {
	file, err := os.OpenFile(p.resolve(path), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
	}()

	_, err = file.Write(data)
	return err
}
