package clock

import "time"

// Clock is the time source services stamp records with.
// The indirection exists so tests can drive time with a manual implementation
// while production wiring injects the system clock.
type Clock interface {
	Now() time.Time
}
