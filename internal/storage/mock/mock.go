package mock

import (
	"context"
	"sync"

	"github.com/DMarby/bgremove/internal/storage"
)

// Provider implements an in-memory image storage
type Provider struct {
	ExistsErr error
	GetErr    error
	PutErr    error

	files map[string][]byte
	mutex sync.RWMutex
}

// New returns a Provider holding the given files
func New(files map[string][]byte) *Provider {
	p := &Provider{
		files: make(map[string][]byte),
	}

	for path, data := range files {
		p.files[path] = data
	}

	return p
}

// Exists reports whether path is stored
func (p *Provider) Exists(ctx context.Context, path string) (bool, error) {
	if p.ExistsErr != nil {
		return false, p.ExistsErr
	}

	p.mutex.RLock()
	defer p.mutex.RUnlock()

	_, exists := p.files[path]
	return exists, nil
}

// Get returns the data stored at path
func (p *Provider) Get(ctx context.Context, path string) ([]byte, error) {
	if p.GetErr != nil {
		return nil, p.GetErr
	}

	p.mutex.RLock()
	defer p.mutex.RUnlock()

	data, exists := p.files[path]
	if !exists {
		return nil, storage.ErrNotFound
	}

	return data, nil
}

// Put stores data at path
func (p *Provider) Put(ctx context.Context, path string, data []byte) error {
	if p.PutErr != nil {
		return p.PutErr
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.files == nil {
		p.files = make(map[string][]byte)
	}
	p.files[path] = data

	return nil
}
