// Package shutdown turns process termination signals into context
// cancellation.
//
// Usage:
//
//	ctx, stop := shutdown.WithSignals(context.Background(), log)
//	defer stop()
//	err := run(ctx) // sees ctx.Done() on SIGINT/SIGTERM
//
// The cancellation cause is a *SignalError, so callers can tell an
// interrupted run from other failures.
package shutdown
