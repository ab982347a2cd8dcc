package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

const (
	bindInitialInterval = 100 * time.Millisecond
	bindMaxInterval     = 2 * time.Second
)

// Listen binds address:port, retrying with exponential backoff up to attempts
// times. If the port stays unavailable it falls back to an OS-assigned port
// on the same address.
func Listen(ctx context.Context, address string, port int, attempts int) (net.Listener, error) {
	log := zap.S().Named("listener")
	if attempts <= 0 {
		attempts = 1
	}

	var lc net.ListenConfig
	addr := net.JoinHostPort(address, strconv.Itoa(port))

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = bindInitialInterval
	b.MaxInterval = bindMaxInterval

	ln, err := backoff.Retry(ctx,
		func() (net.Listener, error) {
			return lc.Listen(ctx, "tcp", addr)
		},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(attempts)),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warnw("failed to bind; retrying", "address", addr, "error", err, "next", next)
		}),
	)
	if err == nil {
		log.Infow("listening", "address", ln.Addr().String())
		return ln, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	fallback := net.JoinHostPort(address, "0")
	log.Warnw("address unavailable; falling back to an OS-assigned port", "address", addr, "error", err)

	ln, fallbackErr := lc.Listen(ctx, "tcp", fallback)
	if fallbackErr != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", addr, errors.Join(err, fallbackErr))
	}

	log.Infow("listening", "address", ln.Addr().String())
	return ln, nil
}
