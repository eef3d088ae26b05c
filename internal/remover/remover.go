package remover

import (
	"context"
	"errors"
)

// Remover removes the background from an encoded image, returning a new encoded image
type Remover interface {
	Remove(ctx context.Context, data []byte) ([]byte, error)
}

// Errors
var (
	ErrEmptyResult = errors.New("background remover returned no data")
)
