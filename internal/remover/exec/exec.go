package exec

import (
	"bytes"
	"context"
	"fmt"
	osexec "os/exec"
	"strings"

	"github.com/DMarby/bgremove/internal/remover"
)

// DefaultCommand runs the rembg command line, reading from stdin and writing to stdout
var DefaultCommand = []string{"rembg", "i", "-", "-"}

// Remover runs an external command that reads an image on stdin and writes the result to stdout
type Remover struct {
	command string
	args    []string
}

// New returns a new Remover instance
func New(command string, args ...string) (*Remover, error) {
	if command == "" {
		return nil, fmt.Errorf("no command given")
	}

	if _, err := osexec.LookPath(command); err != nil {
		return nil, err
	}

	return &Remover{
		command: command,
		args:    args,
	}, nil
}

// Remove pipes data through the command
func (r *Remover) Remove(ctx context.Context, data []byte) ([]byte, error) {
	var stdout, stderr bytes.Buffer

	cmd := osexec.CommandContext(ctx, r.command, r.args...)
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("error running %s: %w: %s", r.command, err, msg)
		}

		return nil, fmt.Errorf("error running %s: %w", r.command, err)
	}

	if stdout.Len() == 0 {
		return nil, remover.ErrEmptyResult
	}

	return stdout.Bytes(), nil
}
