package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/DMarby/bgremove/internal/logger"
	"github.com/DMarby/bgremove/internal/processor"
	"github.com/DMarby/bgremove/internal/remover"
	execRemover "github.com/DMarby/bgremove/internal/remover/exec"
	httpRemover "github.com/DMarby/bgremove/internal/remover/http"
	"github.com/DMarby/bgremove/internal/storage"
	fileStorage "github.com/DMarby/bgremove/internal/storage/file"
	"github.com/DMarby/bgremove/internal/storage/spaces"
	"github.com/DMarby/bgremove/internal/tracing"

	"github.com/jamiealquiza/envy"
	"github.com/joho/godotenv"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
)

const serviceName = "remove-bg"

// Image paths, relative to the storage root
const (
	inputPath  = "public/brain-3d.png"
	outputPath = "public/brain-3d-transparent.png"
)

// Exit codes
const (
	exitOK            = 0
	exitInputNotFound = 1
	exitFailure       = 2
)

// Comandline flags
var (
	// Global
	loglevel       = zap.LevelFlag("log-level", zap.WarnLevel, "log level (default \"warn\") (debug, info, warn, error, dpanic, panic, fatal)")
	tracingEnabled = flag.Bool("tracing", false, "export traces over otlp/grpc, configured through the OTEL_EXPORTER_OTLP_* environment variables")

	// Storage
	storageBackend = flag.String("storage", "file", "which storage backend to use (file, spaces)")

	// Storage - File
	storageFilePath = flag.String("storage-file-path", ".", "directory the image paths are relative to")

	// Storage - Spaces
	storageSpacesSpace          = flag.String("storage-spaces-space", "", "digitalocean space to use")
	storageSpacesEndpoint       = flag.String("storage-spaces-endpoint", "", "spaces endpoint")
	storageSpacesAccessKey      = flag.String("storage-spaces-access-key", "", "spaces access key")
	storageSpacesSecretKey      = flag.String("storage-spaces-secret-key", "", "spaces secret key")
	storageSpacesForcePathStyle = flag.Bool("storage-spaces-force-path-style", false, "use path style addressing for the space")

	// Remover
	removerBackend = flag.String("remover", "exec", "which background remover to use (exec, http)")

	// Remover - Exec
	removerExecCommand = flag.String("remover-exec-command", strings.Join(execRemover.DefaultCommand, " "), "command that reads an image on stdin and writes the result to stdout")

	// Remover - HTTP
	removerHTTPURL     = flag.String("remover-http-url", "http://127.0.0.1:7000/api/remove", "rembg server endpoint")
	removerHTTPTimeout = flag.Duration("remover-http-timeout", 5*time.Minute, "timeout for a single request to the rembg server")
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	// Load a .env file if there is one
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "error loading .env: %s\n", err)
		return exitFailure
	}

	// Parse environment variables
	envy.Parse("REMOVEBG")

	// Parse commandline flags
	flag.Parse()

	// Initialize the logger
	log := logger.New(*loglevel)
	defer log.Sync()

	// Set GOMAXPROCS
	maxprocs.Set(maxprocs.Logger(log.Debugf))

	ctx := context.Background()

	// Initialize tracing
	tracer := tracing.Noop(log, serviceName)
	if *tracingEnabled {
		var err error
		tracer, err = tracing.New(ctx, log, serviceName)
		if err != nil {
			log.Errorf("error initializing tracing: %s", err)
			return exitFailure
		}
	}
	defer tracer.Shutdown(context.Background())

	// Initialize the storage, remover
	storage, remover, err := setupBackends()
	if err != nil {
		log.Errorf("error initializing backends: %s", err)
		return exitFailure
	}

	p := &processor.Processor{
		Storage: storage,
		Remover: remover,
		Log:     log,
		Tracer:  tracer,
		Output:  os.Stdout,
	}

	return run(ctx, log, p, os.Stdout)
}

// run processes the image and maps the outcome to an exit code
func run(ctx context.Context, log *logger.Logger, p *processor.Processor, stdout io.Writer) int {
	err := p.Process(ctx, inputPath, outputPath)
	if err == nil {
		return exitOK
	}

	var notFound *processor.InputNotFoundError
	if errors.As(err, &notFound) {
		fmt.Fprintf(stdout, "Error: %s not found.\n", notFound.Path)
		return exitInputNotFound
	}

	log.Errorw("error processing image",
		"input", inputPath,
		"output", outputPath,
		"error", err,
	)
	return exitFailure
}

func setupBackends() (storage storage.Provider, remover remover.Remover, err error) {
	// Storage
	switch *storageBackend {
	case "file":
		storage, err = fileStorage.New(*storageFilePath)
	case "spaces":
		storage, err = spaces.New(*storageSpacesSpace, *storageSpacesEndpoint, *storageSpacesAccessKey, *storageSpacesSecretKey, *storageSpacesForcePathStyle)
	default:
		err = fmt.Errorf("invalid storage backend")
	}

	if err != nil {
		return
	}

	// Remover
	switch *removerBackend {
	case "exec":
		command := strings.Fields(*removerExecCommand)
		if len(command) == 0 {
			err = fmt.Errorf("empty remover command")
			return
		}
		remover, err = execRemover.New(command[0], command[1:]...)
	case "http":
		remover = httpRemover.New(*removerHTTPURL, *removerHTTPTimeout)
	default:
		err = fmt.Errorf("invalid remover backend")
	}

	return
}
