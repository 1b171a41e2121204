package services

import "time"

// Clock abstracts wall-clock time so the time-window policy can be tested with
// simulated elapsed time instead of sleeping.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// NewRealClock returns the production clock.
func NewRealClock() Clock { return realClock{} }
