package registry

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

type (
	basePathKey struct{}
	outputKey   struct{}
)

// WithBasePath returns a context carrying the directory of the module whose
// statement is being executed.
func WithBasePath(ctx context.Context, dir string) context.Context {
	return context.WithValue(ctx, basePathKey{}, dir)
}

// BasePath returns the execution base path, or "" when none is set.
func BasePath(ctx context.Context) string {
	dir, _ := ctx.Value(basePathKey{}).(string)
	return dir
}

// ResolvePath resolves p against the execution base path. Absolute paths
// and paths without a base are returned cleaned.
func ResolvePath(ctx context.Context, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	if dir := BasePath(ctx); dir != "" {
		return filepath.Join(dir, p)
	}
	return filepath.Clean(p)
}

// WithOutput returns a context carrying the writer registered functions
// print to.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

// Output returns the engine output writer, or os.Stdout when none is set.
func Output(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}
	return os.Stdout
}
