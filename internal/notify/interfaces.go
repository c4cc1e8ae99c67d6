package notify

import (
	"context"
	"time"
)

// Permission is the delivery permission state reported by the platform.
type Permission string

const (
	PermissionGranted      Permission = "granted"
	PermissionDenied       Permission = "denied"
	PermissionUndetermined Permission = "undetermined"
)

// PermissionSource reports whether notification delivery is available.
// Absence of permission is not an error: it silently suppresses arming.
type PermissionSource interface {
	// Query returns the current permission without prompting.
	Query() Permission

	// Request asks the underlying platform for permission and returns the
	// resulting state.
	Request(ctx context.Context) (Permission, error)
}

// Notification is a single message handed to the delivery sink. Tag
// identifies the event and lead time so the delivery surface can collapse
// duplicates for the same pair.
type Notification struct {
	Title              string
	Body               string
	Tag                string
	RequireInteraction bool
}

// Sink delivers notifications. Delivery is fire-and-forget from the
// scheduler's point of view; errors are logged, never retried by it.
type Sink interface {
	Deliver(ctx context.Context, n Notification) error
}

// TimerHandle is a cancellable armed timer.
type TimerHandle interface {
	// Stop cancels the timer. It reports whether the timer was stopped
	// before firing.
	Stop() bool
}

// TimerFactory arms a callback to run after the given delay. Tests replace
// it to drive firing without wall-clock sleeps.
type TimerFactory func(d time.Duration, fn func()) TimerHandle

// StandardTimers is the production TimerFactory backed by time.AfterFunc.
func StandardTimers(d time.Duration, fn func()) TimerHandle {
	return time.AfterFunc(d, fn)
}

// StaticPermission is a PermissionSource pinned to one state.
type StaticPermission Permission

func (p StaticPermission) Query() Permission { return Permission(p) }

func (p StaticPermission) Request(context.Context) (Permission, error) {
	return Permission(p), nil
}
