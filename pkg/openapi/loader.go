package openapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"
)

// LoaderOptions configures how Load resolves sources. HTTP stays disabled
// unless a client or the fallback is configured.
type LoaderOptions struct {
	FileSystem        fs.FS
	HTTPClient        *http.Client
	AllowHTTPFallback bool
	RequestTimeout    time.Duration
}

// LoaderOption mutates LoaderOptions.
type LoaderOption func(*LoaderOptions)

// WithFileSystem sets the fs.FS used for SourceFromFS.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.FileSystem = files
	}
}

// WithHTTPClient injects the client used for URL sources.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.HTTPClient = client
	}
}

// WithHTTPFallback enables URL sources with a default client.
func WithHTTPFallback(timeout time.Duration) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.AllowHTTPFallback = true
		opts.RequestTimeout = timeout
	}
}

// Load reads the raw document behind src.
func Load(ctx context.Context, src Source, options ...LoaderOption) ([]byte, error) {
	if src == nil {
		return nil, errors.New("openapi loader: source is nil")
	}
	cfg := LoaderOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch src.Kind() {
	case SourceKindFile:
		return os.ReadFile(src.Location())
	case SourceKindFS:
		if cfg.FileSystem == nil {
			return nil, errors.New("openapi loader: filesystem is not configured")
		}
		return fs.ReadFile(cfg.FileSystem, src.Location())
	case SourceKindURL:
		client := httpClient(cfg)
		if client == nil {
			return nil, errors.New("openapi loader: http support disabled")
		}
		return loadHTTP(ctx, client, src.Location())
	default:
		return nil, fmt.Errorf("openapi loader: unsupported source kind %q", src.Kind())
	}
}

func httpClient(cfg LoaderOptions) *http.Client {
	switch {
	case cfg.HTTPClient != nil:
		clone := *cfg.HTTPClient
		if cfg.RequestTimeout > 0 && clone.Timeout == 0 {
			clone.Timeout = cfg.RequestTimeout
		}
		return &clone
	case cfg.AllowHTTPFallback:
		return &http.Client{Timeout: cfg.RequestTimeout}
	}
	return nil
}

func loadHTTP(ctx context.Context, client *http.Client, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("openapi loader: build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openapi loader: fetch %s: %w", location, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openapi loader: fetch %s: unexpected status %d", location, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
