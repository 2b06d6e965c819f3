package bff

import "sync/atomic"

// Loading is a reference-counted busy indicator. Overlapping calls keep it
// visible until the last one finishes.
type Loading struct {
	inFlight atomic.Int64
}

func NewLoading() *Loading {
	return &Loading{}
}

func (l *Loading) Begin() {
	l.inFlight.Add(1)
}

// End never drives the count below zero.
func (l *Loading) End() {
	for {
		cur := l.inFlight.Load()
		if cur <= 0 {
			return
		}
		if l.inFlight.CompareAndSwap(cur, cur-1) {
			return
		}
	}
}

// Visible reports whether any call is in flight.
func (l *Loading) Visible() bool {
	return l.inFlight.Load() > 0
}

func (l *Loading) InFlight() int64 {
	return l.inFlight.Load()
}
