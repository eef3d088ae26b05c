package mock

import (
	"context"
)

// Remover is a mock background remover that reverses its input
type Remover struct {
	Err   error
	Input []byte
	Calls int
}

// Remove records the input and returns it reversed, or Err if set
func (r *Remover) Remove(ctx context.Context, data []byte) ([]byte, error) {
	r.Calls++
	r.Input = append([]byte(nil), data...)

	if r.Err != nil {
		return nil, r.Err
	}

	reversed := make([]byte, len(data))
	for i, b := range data {
		reversed[len(data)-1-i] = b
	}

	return reversed, nil
}
