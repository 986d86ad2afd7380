package worker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edurenesto/aoldaq-go/device"
	"github.com/edurenesto/aoldaq-go/internal/barrier"
	"github.com/edurenesto/aoldaq-go/ring"
	"github.com/edurenesto/aoldaq-go/worker"
)

func newTestWorker(r *ring.Ring, flags *worker.Flags, dev device.Device) *worker.Worker {
	b := barrier.New(1)
	return worker.New(0, 16, dev, r, flags, b, zap.NewNop().Sugar())
}

// TestWorkerFillsRingFromDevice is a basic drain check: started, running
// against the Random device, a worker should produce samples into its
// ring.
func TestWorkerFillsRingFromDevice(t *testing.T) {
	r := ring.New(256)
	flags := worker.NewFlags()
	flags.SetPause(false)

	w := newTestWorker(r, flags, device.NewRandom())
	go w.Run()

	require.Eventually(t, func() bool {
		return r.Len() > 0
	}, time.Second, time.Millisecond)

	flags.SetRun(false)
	flags.Wake()
}

// erroringDevice always fails ReadInto, exercising the device-error
// path: the worker must log and continue rather than crash or deadlock.
type erroringDevice struct{ calls int }

func (d *erroringDevice) ReadInto(_ int, _ []uint32) (int, error) {
	d.calls++
	return 0, errors.New("simulated device failure")
}

func (d *erroringDevice) Poll(_ int) (int, bool) { return 0, false }

func TestWorkerSurvivesDeviceErrors(t *testing.T) {
	r := ring.New(64)
	flags := worker.NewFlags()
	flags.SetPause(false)

	dev := &erroringDevice{}
	w := newTestWorker(r, flags, dev)
	go w.Run()

	require.Eventually(t, func() bool {
		return dev.calls > 2
	}, time.Second, time.Millisecond)

	require.Equal(t, 0, r.Len(), "no samples should be produced from a failing read")

	flags.SetRun(false)
	flags.Wake()
}

// TestWorkerParksWhilePaused checks that a paused worker does not touch
// the device at all.
func TestWorkerParksWhilePaused(t *testing.T) {
	r := ring.New(64)
	flags := worker.NewFlags() // pause=true by construction

	dev := &erroringDevice{}
	w := newTestWorker(r, flags, dev)
	go w.Run()

	time.Sleep(20 * time.Millisecond)
	require.Equal(t, 0, dev.calls, "a parked worker must not read the device")

	flags.SetRun(false)
	flags.Wake()
}

// TestWorkerDropsResidualOnFlush simulates the can_acquire-goes-false
// mid-block case: the worker must not block or panic, it just drops
// whatever it could not push.
func TestWorkerDropsResidualOnFlush(t *testing.T) {
	r := ring.New(4) // tiny ring: guarantees a short write on a 16-sample block
	flags := worker.NewFlags()
	flags.SetPause(false)
	flags.SetCanAcquire(false) // ring-write gate already closed

	w := newTestWorker(r, flags, device.NewRandom())
	done := make(chan struct{})
	go func() {
		w.Run()
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	flags.SetRun(false)
	flags.Wake()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not exit after run was cleared")
	}
}
