package tracing_test

import (
	"context"
	"testing"

	"github.com/DMarby/bgremove/internal/logger"
	"github.com/DMarby/bgremove/internal/tracing"
	"go.uber.org/zap"
)

func TestNoop(t *testing.T) {
	log := logger.New(zap.ErrorLevel)
	defer log.Sync()

	tracer := tracing.Noop(log, "test")
	defer tracer.Shutdown(context.Background())

	ctx, span := tracer.Start(context.Background(), "test")
	defer span.End()

	if span.IsRecording() {
		t.Error("noop span is recording")
	}

	traceID, spanID := tracing.TraceInfo(ctx)
	if traceID != "00000000000000000000000000000000" || spanID != "0000000000000000" {
		t.Errorf("unexpected ids %s %s", traceID, spanID)
	}
}
