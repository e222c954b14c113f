// Package socketio emits values to a socket.io server.
//
//	Report = echo quarterly numbers.
//	emit {url = "http://localhost:3000", event = "report"} Report.
//
// When on_event is set, emit waits for that event and returns its payload;
// otherwise it returns the emitted subjects.
package socketio

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/vk/cookery/internal/ctxlog"
	"github.com/vk/cookery/pkg/registry"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultTimeout bounds connecting and waiting for the reply event.
const DefaultTimeout = 10 * time.Second

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the package's functions.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAction("emit", registry.Structured(), 2, Emit)
}

// Options are the structured arguments of emit.
type Options struct {
	URL                string
	Namespace          string
	Event              string
	OnEvent            string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// DecodeOptions reads Options from a structured literal.
func DecodeOptions(v any) (*Options, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("emit expects a record argument, got %T", v)
	}
	opts := &Options{Namespace: "/", Timeout: DefaultTimeout}

	fields := []struct {
		key      string
		dst      *string
		required bool
	}{
		{"url", &opts.URL, true},
		{"event", &opts.Event, true},
		{"namespace", &opts.Namespace, false},
		{"on_event", &opts.OnEvent, false},
	}
	for _, f := range fields {
		raw, present := m[f.key]
		if !present {
			if f.required {
				return nil, fmt.Errorf("emit: missing required attribute %q", f.key)
			}
			continue
		}
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("emit: attribute %q must be text, got %T", f.key, raw)
		}
		*f.dst = s
	}

	if raw, ok := m["timeout"]; ok {
		s, isText := raw.(string)
		if !isText {
			return nil, fmt.Errorf("emit: attribute \"timeout\" must be a duration like \"5s\", got %T", raw)
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("emit: invalid timeout: %w", err)
		}
		opts.Timeout = d
	}
	if raw, ok := m["insecure_skip_verify"]; ok {
		b, isBool := raw.(bool)
		if !isBool {
			return nil, fmt.Errorf("emit: attribute \"insecure_skip_verify\" must be a bool, got %T", raw)
		}
		opts.InsecureSkipVerify = b
	}

	for key := range m {
		switch key {
		case "url", "event", "namespace", "on_event", "timeout", "insecure_skip_verify":
		default:
			return nil, fmt.Errorf("emit: unsupported attribute %q", key)
		}
	}
	return opts, nil
}

type opResult struct {
	value any
	err   error
}

// Emit connects, emits every subject as one event each and, if requested,
// waits for the reply event.
func Emit(ctx context.Context, args []any) (any, error) {
	subs, _ := args[0].([]any)
	opts, err := DecodeOptions(args[1])
	if err != nil {
		return nil, err
	}

	logger := ctxlog.FromContext(ctx).With("action", "emit", "url", opts.URL, "event", opts.Event)
	logger.Debug("Handler started.")
	defer logger.Debug("Handler finished.")

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	opCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	sopts := socket.DefaultOptions()
	sopts.SetPath(parsedURL.Path)
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification.")
		sopts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sopts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sopts)
	io := manager.Socket(opts.Namespace, sopts)
	defer func() {
		logger.Debug("Disconnecting socket client.")
		io.Disconnect()
	}()

	connected := make(chan error, 1)
	done := make(chan opResult, 1)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Successfully connected.", "namespace", opts.Namespace, "sid", io.Id())
		notify(connected, nil)
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		var err error = fmt.Errorf("connection failed")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		notify(connected, err)
	})
	if opts.OnEvent != "" {
		io.Once(types.EventName(opts.OnEvent), func(data ...any) {
			var reply any
			if len(data) > 0 {
				reply = data[0]
			}
			notify(done, opResult{value: reply})
		})
	}

	io.Connect()

	select {
	case err := <-connected:
		if err != nil {
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-opCtx.Done():
		return nil, fmt.Errorf("timed out after %v while waiting for initial connection", opts.Timeout)
	}

	for _, s := range subs {
		logger.Debug("Emitting event.", "data", s)
		io.Emit(opts.Event, s)
	}

	if opts.OnEvent == "" {
		return subs, nil
	}

	select {
	case <-opCtx.Done():
		return nil, fmt.Errorf("timed out after connecting while waiting for event '%s'", opts.OnEvent)
	case res := <-done:
		return res.value, res.err
	}
}

// notify sends v without blocking. Only the first result is delivered.
func notify[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}
