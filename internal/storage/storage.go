package storage

import (
	"context"
	"errors"
)

// Provider is an interface for reading and writing image payloads by path
type Provider interface {
	Exists(ctx context.Context, path string) (bool, error)
	Get(ctx context.Context, path string) ([]byte, error)
	Put(ctx context.Context, path string, data []byte) error
}

// Errors
var (
	ErrNotFound = errors.New("Image does not exist")
)
