// Package barrier implements a one-shot N-party rendezvous: every
// participant blocks in Wait until all N have called it, then all are
// released together. It is used once per engine, by its producer
// workers, before any of them touches the device.
//
// The standard library has no cyclic-barrier primitive and none of the
// concurrency packages this module otherwise draws on (atomix, spin,
// iox, golang.org/x/sync) provide one either, so this is a small
// hand-rolled counter-and-channel implementation rather than a
// dependency substitution.
package barrier

import "sync/atomic"

// Barrier releases all Wait callers once exactly n of them have arrived.
type Barrier struct {
	n     int32
	count atomic.Int32
	done  chan struct{}
}

// New creates a barrier for n participants. n must be >= 1.
func New(n int) *Barrier {
	return &Barrier{n: int32(n), done: make(chan struct{})}
}

// Wait blocks until all n participants have called Wait, then returns for
// every caller. Calling Wait more than n times total is a programming
// error: the barrier is single-use, waited on exactly once per
// participant.
func (b *Barrier) Wait() {
	if b.count.Add(1) == b.n {
		close(b.done)
		return
	}
	<-b.done
}
