package fallback

import (
	"context"
	"errors"
	"testing"

	"planora.app/configs/configslog"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestWithFallback(t *testing.T) {
	configslog.SetLogger(zaptest.NewLogger(t))
	ctx := context.Background()

	t.Run("success returns value", func(t *testing.T) {
		got := WithFallback(ctx, "ok", func(context.Context) (string, error) { return "value", nil }, "default")
		assert.Equal(t, "value", got)
	})

	t.Run("error returns default", func(t *testing.T) {
		got := WithFallback(ctx, "err", func(context.Context) (string, error) { return "partial", errors.New("boom") }, "default")
		assert.Equal(t, "default", got)
	})

	t.Run("panic returns default", func(t *testing.T) {
		got := WithFallback(ctx, "panic", func(context.Context) ([]int, error) { panic("nil map") }, []int{1})
		assert.Equal(t, []int{1}, got)
	})

	t.Run("cancelled context skips op", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		called := false
		got := WithFallback(cancelled, "cancelled", func(context.Context) (int, error) {
			called = true
			return 1, nil
		}, 7)
		assert.False(t, called)
		assert.Equal(t, 7, got)
	})
}
