package processor

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/DMarby/bgremove/internal/logger"
	"github.com/DMarby/bgremove/internal/remover"
	"github.com/DMarby/bgremove/internal/storage"
	"github.com/DMarby/bgremove/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrInputNotFound is matched by errors returned when the input image is missing
var ErrInputNotFound = errors.New("input not found")

// InputNotFoundError reports a missing input image
type InputNotFoundError struct {
	Path string
}

func (e *InputNotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Path)
}

// Is makes errors.Is(err, ErrInputNotFound) match
func (e *InputNotFoundError) Is(target error) bool {
	return target == ErrInputNotFound
}

// Processor removes the background of a single stored image
type Processor struct {
	Storage storage.Provider
	Remover remover.Remover
	Log     *logger.Logger
	Tracer  *tracing.Tracer
	Output  io.Writer // Receives the success message
}

// Process reads inputPath, removes its background and writes the result to outputPath.
// Nothing is read or written when inputPath does not exist.
func (p *Processor) Process(ctx context.Context, inputPath, outputPath string) (err error) {
	ctx, span := p.Tracer.Start(ctx, "processor.Process", trace.WithAttributes(
		attribute.String("input", inputPath),
		attribute.String("output", outputPath),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	traceID, _ := tracing.TraceInfo(ctx)
	log := p.Log.With("trace-id", traceID, "input", inputPath, "output", outputPath)

	exists, err := p.exists(ctx, inputPath)
	if err != nil {
		return fmt.Errorf("error checking for %s: %w", inputPath, err)
	}

	if !exists {
		return &InputNotFoundError{Path: inputPath}
	}

	input, err := p.read(ctx, inputPath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Removed between the check and the read
			return &InputNotFoundError{Path: inputPath}
		}

		return fmt.Errorf("error reading %s: %w", inputPath, err)
	}
	log.Debugw("read input", "bytes", len(input))

	output, err := p.remove(ctx, input)
	if err != nil {
		return fmt.Errorf("error removing background from %s: %w", inputPath, err)
	}
	log.Debugw("removed background", "bytes", len(output))

	if err := p.write(ctx, outputPath, output); err != nil {
		return fmt.Errorf("error writing %s: %w", outputPath, err)
	}
	log.Debugw("wrote output", "bytes", len(output))

	_, err = fmt.Fprintf(p.Output, "Successfully processed %s to %s\n", inputPath, outputPath)
	return err
}

func (p *Processor) exists(ctx context.Context, path string) (bool, error) {
	ctx, span := p.Tracer.Start(ctx, "processor.exists")
	defer span.End()

	return p.Storage.Exists(ctx, path)
}

func (p *Processor) read(ctx context.Context, path string) ([]byte, error) {
	ctx, span := p.Tracer.Start(ctx, "processor.read")
	defer span.End()

	return p.Storage.Get(ctx, path)
}

func (p *Processor) remove(ctx context.Context, data []byte) ([]byte, error) {
	ctx, span := p.Tracer.Start(ctx, "processor.remove", trace.WithAttributes(
		attribute.Int("bytes", len(data)),
	))
	defer span.End()

	return p.Remover.Remove(ctx, data)
}

func (p *Processor) write(ctx context.Context, path string, data []byte) error {
	ctx, span := p.Tracer.Start(ctx, "processor.write", trace.WithAttributes(
		attribute.Int("bytes", len(data)),
	))
	defer span.End()

	return p.Storage.Put(ctx, path, data)
}
