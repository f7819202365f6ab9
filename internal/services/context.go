package services

import "context"

type contextKey string

const (
	runIDKey      contextKey = "run_id"
	sourcePathKey contextKey = "source_path"
)

// WithRunID annotates context with the journal run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext returns the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(runIDKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithSourcePath annotates context with the plan entry currently being processed.
func WithSourcePath(ctx context.Context, path string) context.Context {
	if path == "" {
		return ctx
	}
	return context.WithValue(ctx, sourcePathKey, path)
}

// SourcePathFromContext returns the in-flight source path if present.
func SourcePathFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(sourcePathKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}
