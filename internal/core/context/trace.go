// Package appctx provides typed accessors for request-scoped context values.
package appctx

import "context"

// TraceInfo carries request correlation identifiers.
type TraceInfo struct {
	RequestID string
}

type traceKey struct{}

// WithTrace stores trace info in context.
func WithTrace(ctx context.Context, trace *TraceInfo) context.Context {
	return context.WithValue(ctx, traceKey{}, trace)
}

// GetTrace returns trace info from context or nil.
func GetTrace(ctx context.Context) *TraceInfo {
	if t, ok := ctx.Value(traceKey{}).(*TraceInfo); ok {
		return t
	}
	return nil
}
