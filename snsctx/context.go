// Package snsctx carries per-invocation flags through bus calls.
package snsctx

import "context"

type verboseKey struct{}

// IsVerbose reports whether wire traffic should be dumped for ctx.
func IsVerbose(ctx context.Context) bool {
	val, ok := ctx.Value(verboseKey{}).(bool)
	return ok && val
}

func WithVerbose(parent context.Context, value bool) context.Context {
	return context.WithValue(parent, verboseKey{}, value)
}
