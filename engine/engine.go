// Package engine implements the acquisition engine: the owner of the
// per-channel rings, the producer workers, and the shared control
// flags, exposed through the lifecycle operations Create/Start/
// Stop/Flush/Read/ReadBlocking/FifoSize/DeviceSession/Destroy.
package engine

import (
	"fmt"
	"sync"
	"time"

	"code.hybscloud.com/spin"
	"go.uber.org/zap"

	"github.com/edurenesto/aoldaq-go/device"
	"github.com/edurenesto/aoldaq-go/internal/barrier"
	"github.com/edurenesto/aoldaq-go/ring"
	"github.com/edurenesto/aoldaq-go/worker"
)

// pollInterval is the fixed polling period ReadBlocking sleeps between
// ring-length checks.
const pollInterval = time.Millisecond

// Engine owns the per-channel rings, their producer workers, and the
// shared control flags. Exactly one goroutine (the worker for channel
// i) ever pushes into rings[i]; Engine itself is the only consumer of
// every ring.
type Engine struct {
	nChannels int
	mode      Mode

	flags   *worker.Flags
	rings   []*ring.Ring
	workers []*worker.Worker
	wg      *sync.WaitGroup
	dev     device.Device
	log     *zap.SugaredLogger

	// mu serializes the control-plane operations (Start, Stop, Flush,
	// Destroy) against each other. Read, ReadBlocking, and FifoSize never
	// take it: they only touch the lock-free rings.
	mu        sync.Mutex
	destroyed bool
}

// Create constructs the device, the per-channel rings, and the N
// producer workers, and leaves the engine paused (pause=true,
// can_acquire=true, run=true). It returns once every worker has been
// spawned; they may still be waiting at the startup barrier when
// Create returns.
//
// The only failure mode is a construction failure: invalid channel
// count, or the Hardware device's driver refusing to initialize or
// open.
func Create(cfg Config) (*Engine, error) {
	if cfg.nChannels < 1 {
		return nil, fmt.Errorf("%w: n_channels must be >= 1", ErrConstruction)
	}

	log := cfg.log
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	var dev device.Device
	switch cfg.mode {
	case ModeRandom:
		dev = device.NewRandom()
	case ModeHardware:
		if cfg.hardware == nil {
			return nil, fmt.Errorf("%w: hardware mode requires a HardwareConfig", ErrConstruction)
		}
		hw, err := device.NewHardware(*cfg.hardware, cfg.nChannels, log)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrConstruction, err)
		}
		dev = hw
	default:
		return nil, fmt.Errorf("%w: unknown mode %v", ErrConstruction, cfg.mode)
	}

	log.Infow("creating acquisition engine",
		"channels", cfg.nChannels,
		"block_size", cfg.blockSize,
		"ring_size_per_channel", cfg.ringSize().String(),
		"mode", cfg.mode,
	)

	flags := worker.NewFlags()
	start := barrier.New(cfg.nChannels)

	rings := make([]*ring.Ring, cfg.nChannels)
	workers := make([]*worker.Worker, cfg.nChannels)
	for i := 0; i < cfg.nChannels; i++ {
		rings[i] = ring.New(cfg.ringCapacity)
		workers[i] = worker.New(i, cfg.blockSize, dev, rings[i], flags, start, log)
	}

	e := &Engine{
		nChannels: cfg.nChannels,
		mode:      cfg.mode,
		flags:     flags,
		rings:     rings,
		workers:   workers,
		dev:       dev,
		log:       log,
	}
	e.wg = worker.RunAll(workers)

	return e, nil
}

// Start publishes pause=false and can_acquire=true, then wakes every
// parked worker. Idempotent.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.startLocked()
}

func (e *Engine) startLocked() {
	e.flags.SetCanAcquire(true)
	e.flags.SetPause(false)
	e.flags.Wake()
}

// Stop publishes pause=true and can_acquire=false. It does not block: an
// in-flight device read completes on its own timeline. Idempotent.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

func (e *Engine) stopLocked() {
	e.flags.SetPause(true)
	e.flags.SetCanAcquire(false)
}

// Read pops up to len(dst) samples from channel without blocking. The
// returned count may be short of len(dst): that is underflow, not an
// error. An out-of-range channel returns 0.
func (e *Engine) Read(channel int, dst []uint32) int {
	if !e.validChannel(channel) {
		return 0
	}
	n := e.rings[channel].PopSlice(dst)
	if n < len(dst) {
		e.log.Debugw("short read from channel ring", "channel", channel, "got", n, "wanted", len(dst))
	}
	return n
}

// ReadBlocking polls channel's ring length every millisecond until it
// holds at least len(dst) samples or timeout has elapsed, then performs a
// single non-blocking pop. It never sleeps if enough data is already
// present, and a timeout is not an error: the caller simply sees a short
// count.
//
// The underflow log, if any, is deferred until after the wait: logging
// before the wait would record spurious underflows on the common path
// where the data arrives during the poll window.
func (e *Engine) ReadBlocking(channel int, dst []uint32, timeout time.Duration) int {
	if !e.validChannel(channel) {
		return 0
	}

	r := e.rings[channel]
	want := len(dst)
	deadline := time.Now().Add(timeout)

	for r.Len() < want && time.Now().Before(deadline) {
		time.Sleep(pollInterval)
	}

	n := r.PopSlice(dst)
	if n < want {
		e.log.Debugw("read_blocking timed out short", "channel", channel, "got", n, "wanted", want, "timeout", timeout)
	}
	return n
}

// FifoSize returns channel's current ring fill level. An out-of-range
// channel returns 0.
func (e *Engine) FifoSize(channel int) int {
	if !e.validChannel(channel) {
		return 0
	}
	return e.rings[channel].Len()
}

// Flush drains channel's ring while guaranteeing the producer cannot
// refill it mid-drain. It always leaves the engine in the state it
// found it, and is a no-op for an out-of-range channel.
func (e *Engine) Flush(channel int) {
	if !e.validChannel(channel) {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	wasRunning := !e.flags.IsPaused()
	wasAcquiring := e.flags.CanAcquire()

	if wasRunning {
		e.stopLocked()
	}
	e.flags.SetCanAcquire(false)

	r := e.rings[channel]
	sw := spin.Wait{}
	for r.Len() > 0 {
		r.Discard(r.Len())
		sw.Once()
	}

	e.flags.SetCanAcquire(wasAcquiring)
	if wasRunning {
		e.startLocked()
	}
}

// DeviceSession returns the NI-FPGA session id when the active device is
// the Hardware variant. The second return value is false for Random or
// any device that does not implement device.Introspection.
func (e *Engine) DeviceSession() (uint32, bool) {
	intro, ok := e.dev.(device.Introspection)
	if !ok {
		return 0, false
	}
	return intro.Session(), true
}

// Destroy publishes run=false, releases parked workers, joins every
// worker, then closes the device if it has a Close method. The rings
// stay allocated. Safe to call more than once.
func (e *Engine) Destroy() error {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return nil
	}
	e.destroyed = true

	e.flags.SetRun(false)
	e.startLocked() // unparks anyone still waiting
	e.mu.Unlock()

	e.wg.Wait()

	e.log.Info("acquisition engine finished")

	// rings are left intact: Read/FifoSize/Flush never check destroyed,
	// so niling the slice here would turn a post-Destroy call into a
	// nil-slice panic instead of the harmless no-op/zero-read a finished
	// engine's rings already produce.
	e.workers = nil

	if closer, ok := e.dev.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

func (e *Engine) validChannel(channel int) bool {
	return channel >= 0 && channel < e.nChannels
}
