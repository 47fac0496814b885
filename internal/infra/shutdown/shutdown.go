package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/yndnr/hbr-recover/internal/telemetry/logger"
)

// Signals are the signals that cancel a run.
var Signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}

// SignalError is the cancellation cause of a context cancelled by a signal.
type SignalError struct {
	Signal os.Signal
}

func (e *SignalError) Error() string {
	return "interrupted by " + e.Signal.String()
}

// WithSignals returns a context that is cancelled when the process receives
// SIGINT or SIGTERM. The returned stop function releases the signal handler
// and cancels the context.
func WithSignals(parent context.Context, log logger.Logger) (context.Context, context.CancelFunc) {
	if log == nil {
		log = logger.Discard()
	}
	ctx, cancel := context.WithCancelCause(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, Signals...)

	go func() {
		select {
		case sig := <-sigCh:
			log.Warn("signal received, cancelling", "signal", sig.String())
			cancel(&SignalError{Signal: sig})
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel(context.Canceled)
	}
}

// Interrupted reports whether ctx was cancelled by a signal, and by which.
func Interrupted(ctx context.Context) (os.Signal, bool) {
	var se *SignalError
	if errors.As(context.Cause(ctx), &se) {
		return se.Signal, true
	}
	return nil, false
}
