package route

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRouteFound matches any *NoRouteError with errors.Is.
	ErrNoRouteFound = errors.New("route: no route found")
	// ErrSearchCancelled matches any *CancelledError with errors.Is.
	ErrSearchCancelled = errors.New("route: search cancelled")
	// ErrInvalidConfig matches any *InvalidConfigError with errors.Is.
	ErrInvalidConfig = errors.New("route: invalid configuration")
	// ErrEmptyPath reports an empty state chain handed to the waypoint
	// builder. Unreachable through the public API; seeing it means an
	// engine invariant broke.
	ErrEmptyPath = errors.New("route: empty path")
)

// NoRouteError reports a search that exhausted its frontier without
// reaching the goal.
type NoRouteError struct {
	Reason     string
	Expansions uint64
}

func (e *NoRouteError) Error() string {
	return fmt.Sprintf("route: no route found after %d expansions: %s", e.Expansions, e.Reason)
}

func (e *NoRouteError) Is(target error) bool {
	return target == ErrNoRouteFound
}

// CancelledError reports a search stopped by its context or iteration
// cap. No partial route is returned: a truncated frontier carries no
// optimality guarantee.
type CancelledError struct {
	Cause      string
	Iterations int
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("route: search cancelled after %d iterations: %s", e.Iterations, e.Cause)
}

func (e *CancelledError) Is(target error) bool {
	return target == ErrSearchCancelled
}

// InvalidConfigError reports a rejected configuration value.
type InvalidConfigError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("route: invalid configuration: %s %s", e.Field, e.Reason)
}

func (e *InvalidConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}
