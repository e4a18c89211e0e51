// Package failures tracks consecutive failed authentication attempts
// per username. The counter is process-local and best-effort: under a
// multi-instance deployment each instance keeps its own counts.
package failures

// Counter is the injected failed-attempt tracker the authentication
// middleware drives. Increment records a confirmed failure and returns
// the new count; Clear resets the count after a successful
// authentication.
type Counter interface {
	Increment(username string) int
	Clear(username string)
}
