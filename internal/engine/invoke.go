package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/vk/cookery/internal/ctxlog"
	"github.com/vk/cookery/pkg/registry"
)

// callResult is a private struct to safely pass results through the done channel.
type callResult struct {
	value any
	err   error
}

// invoke binds the arguments and runs the function on a worker goroutine.
// The caller waits for the result, the call timeout or cancellation,
// whichever comes first. An abandoned call keeps its semaphore slot until
// the function actually returns.
func (e *Engine) invoke(ctx context.Context, b *registry.Binding, contextArgs []any, in registry.Arguments) (any, error) {
	args, err := b.Bind(contextArgs, in)
	if err != nil {
		return nil, err
	}

	logger := ctxlog.FromContext(ctx).With("role", b.Role, "name", b.Name)
	logger.Debug("Calling registered function.")

	if err := e.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%s '%s' not started: %w", b.Role, b.Name, err)
	}

	callCtx, cancel := e.callContext(ctx)
	defer cancel()

	done := make(chan callResult, 1)
	go func() {
		defer e.sem.Release(1)
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Registered function panicked.", "panic", r, "stack", string(debug.Stack()))
				done <- callResult{err: fmt.Errorf("%s '%s' panicked: %v", b.Role, b.Name, r)}
			}
		}()
		v, err := b.Fn(callCtx, args)
		done <- callResult{value: v, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("%s '%s': %w", b.Role, b.Name, res.err)
		}
		return res.value, nil
	case <-callCtx.Done():
		if ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			logger.Warn("Registered function timed out.", "timeout", e.timeout)
			return nil, fmt.Errorf("%s '%s' after %s: %w", b.Role, b.Name, e.timeout, ErrCallTimeout)
		}
		return nil, fmt.Errorf("%s '%s': %w", b.Role, b.Name, ctx.Err())
	}
}

// callContext derives the context a registered function runs with. It is
// bounded by the call timeout when one is configured.
func (e *Engine) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout > 0 {
		return context.WithTimeout(ctx, e.timeout)
	}
	return context.WithCancel(ctx)
}
