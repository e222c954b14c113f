package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newRunCommand(f *flags, outW, errW io.Writer) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Run a module file.",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), f, outW, errW)
			if err != nil {
				return err
			}
			if watch {
				return a.Watch(cmd.Context(), args[0])
			}
			return a.Run(cmd.Context(), args[0])
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Run again whenever a module or companion file changes.")
	return cmd
}

func newEvalCommand(f *flags, outW, errW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "eval EXPRESSION...",
		Short: "Evaluate an expression and print its result.",
		Args:  minimumArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), f, outW, errW)
			if err != nil {
				return err
			}
			return a.Eval(cmd.Context(), strings.Join(args, " "))
		},
	}
}

func newREPLCommand(f *flags, outW, errW io.Writer) *cobra.Command {
	var history string
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session with tab completion.",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), f, outW, errW)
			if err != nil {
				return err
			}
			return a.REPL(cmd.Context(), history)
		},
	}
	cmd.Flags().StringVar(&history, "history", defaultHistoryFile(), "File the session history is kept in. Empty disables history.")
	return cmd
}

func newNewCommand(f *flags, outW, errW io.Writer) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "new NAME",
		Short: "Create NAME.cookery and its companion NAME.go.",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), f, outW, errW)
			if err != nil {
				return err
			}
			created, err := a.Scaffold(dir, args[0])
			if err != nil {
				return err
			}
			for _, p := range created {
				fmt.Fprintln(outW, "created", p)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to create the files in.")
	return cmd
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cookery_history")
}

func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", s)
	}
	return d, nil
}
