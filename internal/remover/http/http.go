package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/DMarby/bgremove/internal/remover"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Size of the response body included in error messages
const errorBodyLimit = 512

// Remover uploads images to a rembg http server
type Remover struct {
	url    string
	client *http.Client
}

// New returns a new Remover posting to url, typically http://host:7000/api/remove
func New(url string, timeout time.Duration) *Remover {
	return &Remover{
		url: url,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Remove uploads data as a multipart form file and returns the response body
func (r *Remover) Remove(ctx context.Context, data []byte) ([]byte, error) {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "image")
	if err != nil {
		return nil, err
	}

	if _, err := part.Write(data); err != nil {
		return nil, err
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return nil, fmt.Errorf("background remover responded with %s: %s", resp.Status, bytes.TrimSpace(excerpt))
	}

	result, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, remover.ErrEmptyResult
	}

	return result, nil
}
