package service

import (
	"context"
	"log/slog"

	"inkwell/internal/stream"
)

// watch derives an initial value, then re-derives and republishes on every
// engine change tick until ctx ends. Derivation errors are logged and the
// previous value stays current.
func watch[T any](
	ctx context.Context,
	notifier *stream.Notifier,
	logger *slog.Logger,
	derive func(context.Context) (T, error),
) *stream.Stream[T] {
	out := stream.New[T]()

	if v, err := derive(ctx); err != nil {
		logger.Error("initial derivation failed", "error", err)
	} else {
		out.Publish(v)
	}

	sub := notifier.Watch()
	go func() {
		defer out.Close()
		defer sub.Cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-sub.C():
				if !ok {
					return
				}
				v, err := derive(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					logger.Error("derivation failed", "error", err)
					continue
				}
				out.Publish(v)
			}
		}
	}()
	return out
}
