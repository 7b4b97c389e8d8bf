package registry

import (
	"time"
)

// Clock supplies the current time for phase computation. The hosting
// environment guarantees a monotonic wall clock; tests substitute a fake.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the OS wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
