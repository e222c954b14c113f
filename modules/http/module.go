// Package http fetches and uploads documents over HTTP.
//
//	Note = echo shipped.
//	upload to https://bucket.example.com/note.txt?X-Signature=abc Note.
//	upload to https://bucket.example.com/copy.txt HttpFile https://example.com/a.txt.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/vk/cookery/internal/ctxlog"
	"github.com/vk/cookery/pkg/registry"
)

// DefaultTimeout bounds a single request when the engine has no call timeout.
const DefaultTimeout = 30 * time.Second

// Module implements the registry.Module interface for this package.
type Module struct {
	// Client is used for every request; nil selects a shared client.
	Client *http.Client
}

// sharedClient reuses TCP connections across calls.
var sharedClient = &http.Client{
	Timeout: DefaultTimeout,
	Transport: &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	},
}

// Register registers the package's functions.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterSubject("http_file", registry.MustPattern(`(\S+)`), 1, m.HttpFile)
	r.RegisterAction("upload", registry.MustPattern(`(?:to\s+)?(\S+)`), 2, m.Upload)
}

func (m *Module) client() *http.Client {
	if m.Client != nil {
		return m.Client
	}
	return sharedClient
}

// HttpFile returns the body of a GET request as text.
func (m *Module) HttpFile(ctx context.Context, args []any) (any, error) {
	target := args[0].(string)
	logger := ctxlog.FromContext(ctx).With("subject", "HttpFile", "url", target)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	logger.Debug("Fetching document.")
	resp, err := m.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s failed with status: %s", target, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	logger.Debug("Received document.", "status", resp.Status, "size", len(body))
	return string(body), nil
}

// Upload PUTs the first subject to a (typically pre-signed) URL and returns
// a record with the response status.
func (m *Module) Upload(ctx context.Context, args []any) (any, error) {
	subs, _ := args[0].([]any)
	target, _ := args[1].(string)
	if len(subs) != 1 {
		return nil, fmt.Errorf("upload expects exactly one subject, got %d", len(subs))
	}

	body, contentType, err := encodeBody(subs[0])
	if err != nil {
		return nil, err
	}
	if ct := contentTypeOf(target); ct != "" {
		contentType = ct
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(body))

	logger := ctxlog.FromContext(ctx).With("action", "upload")
	logger.Info("Uploading document.", "size", len(body), "contentType", contentType)

	resp, err := m.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("upload failed with status: %s", resp.Status)
	}

	logger.Info("Successfully uploaded document.", "status", resp.Status)
	return map[string]any{
		"success": true,
		"status":  resp.Status,
	}, nil
}

func encodeBody(v any) ([]byte, string, error) {
	if s, ok := v.(string); ok {
		return []byte(s), "text/plain; charset=utf-8", nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode upload body: %w", err)
	}
	return data, "application/json", nil
}

// contentTypeOf guesses the content type from the URL path extension.
func contentTypeOf(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return ""
	}
	return mime.TypeByExtension(path.Ext(u.Path))
}
