package watcher

import "time"

// Clock abstracts timer creation so the timeout race is deterministic in
// tests.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// SystemClock returns the wall-clock backed Clock.
func SystemClock() Clock { return systemClock{} }
