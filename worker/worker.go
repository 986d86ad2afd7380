// Package worker implements the producer side of a single acquisition
// channel: a fill-loop gated by three shared control flags and
// synchronized with its siblings at a one-shot startup barrier.
package worker

import (
	"sync"

	"code.hybscloud.com/iox"
	"go.uber.org/zap"

	"github.com/edurenesto/aoldaq-go/device"
	"github.com/edurenesto/aoldaq-go/internal/barrier"
	"github.com/edurenesto/aoldaq-go/ring"
)

// Worker owns the producer side of one channel's ring: it is the only
// goroutine that ever calls ring.Ring.PushSlice on its ring.
type Worker struct {
	channel   int
	blockSize int
	dev       device.Device
	ring      *ring.Ring
	flags     *Flags
	barrier   *barrier.Barrier
	log       *zap.SugaredLogger
}

// New creates a worker for channel, reading blockSize samples per
// iteration from dev into r. It does not start running; call Run in its
// own goroutine.
func New(channel, blockSize int, dev device.Device, r *ring.Ring, flags *Flags, start *barrier.Barrier, log *zap.SugaredLogger) *Worker {
	return &Worker{
		channel:   channel,
		blockSize: blockSize,
		dev:       dev,
		ring:      r,
		flags:     flags,
		barrier:   start,
		log:       log.With(zap.Int("channel", channel)),
	}
}

// Run is the worker's body. It blocks until run is cleared, so it must
// be launched in its own goroutine. It allocates its staging buffer,
// waits at the startup barrier, then loops: park while paused, read a
// block from the device, and copy that block into the ring for as long
// as can_acquire holds.
func (w *Worker) Run() {
	staging := make([]uint32, w.blockSize)

	w.barrier.Wait()

	for w.flags.IsRunning() {
		w.flags.ParkIfPaused()
		if !w.flags.IsRunning() {
			return
		}

		n, err := w.dev.ReadInto(w.channel, staging)
		if err != nil {
			w.log.Debugw("device read failed", "error", err)
			continue
		}

		w.pushBlock(staging[:n])
	}
}

// pushBlock copies block into the ring using repeated PushSlice calls on
// the unwritten suffix, for as long as can_acquire and run remain true.
// Any samples left over when can_acquire goes false are dropped: that is
// the ring-write gate doing its job for a concurrent flush. Samples left
// over when run is cleared are dropped too, so shutdown never waits on a
// full ring.
func (w *Worker) pushBlock(block []uint32) {
	written := 0
	backoff := iox.Backoff{}

	for written < len(block) && w.flags.CanAcquire() && w.flags.IsRunning() {
		n := w.ring.PushSlice(block[written:])
		if n == 0 {
			backoff.Wait()
			continue
		}
		backoff.Reset()
		written += n
	}

	if written < len(block) {
		w.log.Debugw("short write into channel ring",
			"wrote", written,
			"wanted", len(block),
			"flushing", !w.flags.CanAcquire(),
		)
	}
}

// RunAll launches one goroutine per worker and returns a WaitGroup whose
// Wait unblocks once every one of them has returned (i.e. after run is
// cleared and they have all observed it).
func RunAll(workers []*Worker) *sync.WaitGroup {
	var wg sync.WaitGroup
	wg.Add(len(workers))
	for _, w := range workers {
		go func(w *Worker) {
			defer wg.Done()
			w.Run()
		}(w)
	}
	return &wg
}
