package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/DMarby/bgremove/internal/logger"
	"github.com/DMarby/bgremove/internal/processor"
	removerMock "github.com/DMarby/bgremove/internal/remover/mock"
	fileStorage "github.com/DMarby/bgremove/internal/storage/file"
	storageMock "github.com/DMarby/bgremove/internal/storage/mock"
	"github.com/DMarby/bgremove/internal/tracing"
	"go.uber.org/zap"
)

func setup(t *testing.T, input []byte) (string, *processor.Processor, *removerMock.Remover, *bytes.Buffer) {
	log := logger.New(zap.FatalLevel)
	t.Cleanup(func() { log.Sync() })

	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "public"), 0755); err != nil {
		t.Fatal(err)
	}

	if input != nil {
		if err := os.WriteFile(filepath.Join(root, inputPath), input, 0644); err != nil {
			t.Fatal(err)
		}
	}

	storage, err := fileStorage.New(root)
	if err != nil {
		t.Fatal(err)
	}

	remover := &removerMock.Remover{}
	stdout := new(bytes.Buffer)

	return root, &processor.Processor{
		Storage: storage,
		Remover: remover,
		Log:     log,
		Tracer:  tracing.Noop(log, "test"),
		Output:  stdout,
	}, remover, stdout
}

func TestRun(t *testing.T) {
	log := logger.New(zap.FatalLevel)
	defer log.Sync()

	t.Run("exits 0 and reports success", func(t *testing.T) {
		input := []byte("\x89PNG\r\n\x1a\nbrain")
		root, p, _, stdout := setup(t, input)

		if code := run(context.Background(), log, p, stdout); code != exitOK {
			t.Fatalf("wrong exit code %d", code)
		}

		result, _ := os.ReadFile(filepath.Join(root, outputPath))
		if !reflect.DeepEqual(result, []byte("niarb\n\x1a\n\rGNP\x89")) {
			t.Errorf("wrong output %q", result)
		}

		expected := "Successfully processed public/brain-3d.png to public/brain-3d-transparent.png\n"
		if stdout.String() != expected {
			t.Errorf("wrong message %q", stdout.String())
		}
	})

	t.Run("exits 1 when the input is missing", func(t *testing.T) {
		root, p, _, stdout := setup(t, nil)

		if code := run(context.Background(), log, p, stdout); code != exitInputNotFound {
			t.Fatalf("wrong exit code %d", code)
		}

		if stdout.String() != "Error: public/brain-3d.png not found.\n" {
			t.Errorf("wrong message %q", stdout.String())
		}

		if _, err := os.Stat(filepath.Join(root, outputPath)); !os.IsNotExist(err) {
			t.Error("output was created")
		}
	})

	t.Run("exits 2 when the remover fails", func(t *testing.T) {
		_, p, remover, stdout := setup(t, []byte("image"))
		remover.Err = fmt.Errorf("model failed")

		if code := run(context.Background(), log, p, stdout); code != exitFailure {
			t.Fatalf("wrong exit code %d", code)
		}

		if stdout.Len() != 0 {
			t.Errorf("unexpected message %q", stdout.String())
		}
	})

	t.Run("exits 2 when the output can't be written", func(t *testing.T) {
		_, p, _, stdout := setup(t, nil)
		storage := storageMock.New(map[string][]byte{inputPath: []byte("image")})
		storage.PutErr = fmt.Errorf("read-only file system")
		p.Storage = storage

		if code := run(context.Background(), log, p, stdout); code != exitFailure {
			t.Fatalf("wrong exit code %d", code)
		}

		if stdout.Len() != 0 {
			t.Errorf("unexpected message %q", stdout.String())
		}
	})
}

func TestSetupBackends(t *testing.T) {
	defer func(storage, remover string) {
		*storageBackend = storage
		*removerBackend = remover
	}(*storageBackend, *removerBackend)

	t.Run("rejects an invalid storage backend", func(t *testing.T) {
		*storageBackend = "invalid"
		*removerBackend = "http"

		if _, _, err := setupBackends(); err == nil || err.Error() != "invalid storage backend" {
			t.Errorf("wrong error %v", err)
		}
	})

	t.Run("rejects an invalid remover backend", func(t *testing.T) {
		*storageBackend = "file"
		*removerBackend = "invalid"

		if _, _, err := setupBackends(); err == nil || err.Error() != "invalid remover backend" {
			t.Errorf("wrong error %v", err)
		}
	})

	t.Run("sets up file storage and the http remover", func(t *testing.T) {
		*storageBackend = "file"
		*removerBackend = "http"

		storage, remover, err := setupBackends()
		if err != nil {
			t.Fatal(err)
		}

		if storage == nil || remover == nil {
			t.Error("backend missing")
		}
	})
}
