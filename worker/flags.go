package worker

import (
	"sync"

	"code.hybscloud.com/atomix"
)

// Flags holds the three shared atomic control booleans plus the wake
// gate workers park on. Pause and CanAcquire are independent: pause
// gates the device-read side, can_acquire gates the ring-write side, so a
// flush can freeze production without discarding a device read already in
// flight.
//
// The booleans are atomix.Bool so the hot loop's run/pause check never
// takes a lock; the embedded condition variable is purely a wake signal
// for parked workers and is never the source of truth for any flag's
// value. Teardown always wakes every waiter before returning, so a
// condition variable is safe here even though it is not itself the
// source of truth.
type Flags struct {
	run        atomix.Bool
	pause      atomix.Bool
	canAcquire atomix.Bool

	mu   sync.Mutex
	cond *sync.Cond
}

// NewFlags creates the engine's shared flags in the paused construction
// state: run=true, pause=true, can_acquire=true.
func NewFlags() *Flags {
	f := &Flags{}
	f.cond = sync.NewCond(&f.mu)
	f.run.StoreRelease(true)
	f.pause.StoreRelease(true)
	f.canAcquire.StoreRelease(true)
	return f
}

// Wake broadcasts to every parked worker. Call after mutating Pause or
// Run so a worker blocked in ParkIfPaused re-checks immediately.
func (f *Flags) Wake() {
	f.mu.Lock()
	f.cond.Broadcast()
	f.mu.Unlock()
}

// ParkIfPaused blocks the calling worker while Pause is true and Run is
// still true. Spurious wakes are harmless: the loop simply re-checks
// both flags.
func (f *Flags) ParkIfPaused() {
	f.mu.Lock()
	for f.pause.LoadAcquire() && f.run.LoadAcquire() {
		f.cond.Wait()
	}
	f.mu.Unlock()
}

// SetRun publishes the shutdown flag. false means "shut down".
func (f *Flags) SetRun(v bool) {
	f.run.StoreRelease(v)
}

// IsRunning reports Run with relaxed ordering, safe for the hot loop
// because shutdown always follows SetRun with a Wake.
func (f *Flags) IsRunning() bool {
	return f.run.LoadRelaxed()
}

// SetPause publishes the device-read gate.
func (f *Flags) SetPause(v bool) {
	f.pause.StoreRelease(v)
}

// IsPaused reports the device-read gate with acquire ordering.
func (f *Flags) IsPaused() bool {
	return f.pause.LoadAcquire()
}

// SetCanAcquire publishes the ring-write gate.
func (f *Flags) SetCanAcquire(v bool) {
	f.canAcquire.StoreRelease(v)
}

// CanAcquire reports the ring-write gate with acquire ordering.
func (f *Flags) CanAcquire() bool {
	return f.canAcquire.LoadAcquire()
}
