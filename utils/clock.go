package utils

import "time"

// Clock abstracts wall-clock access so expiry logic can be tested deterministically.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// RealClock returns a Clock backed by time.Now in UTC.
func RealClock() Clock { return realClock{} }
