package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/vk/cookery/internal/ctxlog"
	"github.com/vk/cookery/internal/lexer"
	"github.com/vk/cookery/modules/core"
	"github.com/vk/cookery/pkg/cookery"
)

const (
	newPrompt    = "\033[32m>\033[0m "
	contPrompt   = "\033[32m.\033[0m "
	resultPrompt = "= "
)

// lineReader is the part of *readline.Instance the loop uses.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(string)
}

// REPL runs an interactive session on the terminal. historyFile may be
// empty to disable history.
func (a *App) REPL(ctx context.Context, historyFile string) error {
	session := a.engine.NewSession()
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            newPrompt,
		HistoryFile:       historyFile,
		AutoComplete:      &completer{session: session},
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to start line editor: %w", err)
	}
	defer rl.Close()

	a.logger.Debug("Interactive session started.", "session", session.ID)
	return a.repl(ctxlog.WithLogger(ctx, a.logger), session, rl)
}

func (a *App) repl(ctx context.Context, s *cookery.Session, r lineReader) error {
	pending := ""
	for ctx.Err() == nil {
		line, err := r.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			if pending == "" && line == "" {
				return nil
			}
			pending = ""
			r.SetPrompt(newPrompt)
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}

		text := strings.TrimSpace(pending + line)
		if text == "" {
			continue
		}
		if pending == "" && strings.HasPrefix(text, ":") {
			if !a.command(s, text) {
				return nil
			}
			continue
		}

		result, err := s.ExecuteExpressionInteractive(ctx, text)
		if incomplete(err) {
			pending = text + "\n"
			r.SetPrompt(contPrompt)
			continue
		}
		pending = ""
		r.SetPrompt(newPrompt)

		if err != nil {
			fmt.Fprintln(a.outW, "error:", err)
			continue
		}
		fmt.Fprintln(a.outW, resultPrompt+core.Format(result))
	}
	return nil
}

// command handles a REPL command line and reports whether to continue.
func (a *App) command(s *cookery.Session, line string) bool {
	switch line {
	case ":quit", ":q":
		return false
	case ":vars":
		for _, name := range s.Variables() {
			fmt.Fprintln(a.outW, name)
		}
	case ":reset":
		s.Reset()
		fmt.Fprintln(a.outW, "session reset")
	case ":help":
		fmt.Fprintln(a.outW, "Enter statements ending with '.'. Commands: :vars, :reset, :quit")
	default:
		fmt.Fprintf(a.outW, "unknown command %s, try :help\n", line)
	}
	return true
}

// incomplete reports whether err means the input stopped mid-statement.
func incomplete(err error) bool {
	var se *cookery.SyntaxError
	return errors.As(err, &se) && se.Found.Type == lexer.EOF
}

// completer adapts session completion to the line editor, which expects
// the suffixes to insert and the length of the word they complete.
type completer struct {
	session *cookery.Session
}

func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	prefix := string(line[:pos])
	suggestions := c.session.Complete(prefix)
	word := lastWord(prefix)

	partial := word != ""
	for _, s := range suggestions {
		if len(s) <= len(word) || !strings.HasPrefix(s, word) {
			partial = false
			break
		}
	}

	out := make([][]rune, 0, len(suggestions))
	if partial {
		for _, s := range suggestions {
			out = append(out, []rune(s[len(word):]))
		}
		return out, len([]rune(word))
	}
	for _, s := range suggestions {
		out = append(out, []rune(s))
	}
	return out, 0
}

func lastWord(s string) string {
	i := strings.LastIndexAny(s, " \t\n")
	return s[i+1:]
}
