// Package fallback isolates best-effort enrichment calls so that their
// failures never reach the primary flow they decorate.
package fallback

import (
	"context"
	"fmt"

	"planora.app/configs/configslog"

	"go.uber.org/zap"
)

// WithFallback runs op and returns its result. Any error or panic from op is
// logged and replaced by def. A cancelled ctx short-circuits to def.
func WithFallback[T any](ctx context.Context, name string, op func(context.Context) (T, error), def T) (out T) {
	if err := ctx.Err(); err != nil {
		return def
	}

	defer func() {
		if r := recover(); r != nil {
			configslog.Log.Warn("enrichment panicked, using fallback",
				zap.String("enrichment", name), zap.String("panic", fmt.Sprint(r)))
			out = def
		}
	}()

	v, err := op(ctx)
	if err != nil {
		configslog.Log.Warn("enrichment failed, using fallback",
			zap.String("enrichment", name), zap.Error(err))
		return def
	}
	return v
}
