package cookery

import (
	"context"

	"github.com/google/uuid"
	"github.com/vk/cookery/internal/ctxlog"
	"github.com/vk/cookery/internal/engine"
)

// Session is an interactive evaluation context. The value produced by one
// expression and the variables it binds carry over to the next.
type Session struct {
	ID string

	e     *Engine
	scope *engine.Scope
	value any
}

// NewSession starts a session with the configured globals bound.
func (e *Engine) NewSession() *Session {
	s := &Session{ID: uuid.NewString(), e: e}
	s.Reset()
	return s
}

// ExecuteExpressionInteractive runs text starting from the session value.
// The session value only advances when the expression succeeds.
func (s *Session) ExecuteExpressionInteractive(ctx context.Context, text string) (any, error) {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()

	ctx = ctxlog.With(s.e.context(ctx), "session", s.ID)
	result, err := s.e.execute(ctx, text, s.scope, s.value)
	if err != nil {
		return nil, err
	}
	s.value = result
	return result, nil
}

// Complete suggests continuations of prefix, offering the session's
// variables as subjects.
func (s *Session) Complete(prefix string) []string {
	s.e.mu.Lock()
	names := s.scope.Names()
	s.e.mu.Unlock()
	return s.e.advisor.Complete(prefix, names)
}

// Value returns the result of the last successful expression.
func (s *Session) Value() any {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()
	return s.value
}

// Variables returns the names bound in the session, sorted.
func (s *Session) Variables() []string {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()
	return s.scope.Names()
}

// Reset drops the session value and every variable except the globals.
func (s *Session) Reset() {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()
	s.scope = engine.NewScope(s.e.cfg.Globals)
	s.value = nil
}
