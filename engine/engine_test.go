package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edurenesto/aoldaq-go/engine"
)

func newRandomEngine(t *testing.T, channels int) *engine.Engine {
	t.Helper()
	cfg, err := engine.New(channels).BlockSize(64).RingCapacity(4096).Build()
	require.NoError(t, err)
	e, err := engine.Create(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, e.Destroy()) })
	return e
}

// TestBasicDrain checks that a started engine against the Random device
// produces samples on every channel that Read can pop out.
func TestBasicDrain(t *testing.T) {
	e := newRandomEngine(t, 3)
	e.Start()

	for ch := 0; ch < 3; ch++ {
		require.Eventually(t, func() bool {
			return e.FifoSize(ch) > 0
		}, time.Second, time.Millisecond)
	}

	buf := make([]uint32, 8)
	n := e.Read(0, buf)
	require.True(t, n > 0 && n <= len(buf))
}

// TestFlushMidAcquisition checks that Flush drains a channel to zero
// and leaves the engine running afterward.
func TestFlushMidAcquisition(t *testing.T) {
	e := newRandomEngine(t, 2)
	e.Start()

	require.Eventually(t, func() bool {
		return e.FifoSize(0) > 0
	}, time.Second, time.Millisecond)

	e.Flush(0)
	require.Equal(t, 0, e.FifoSize(0))

	// running state survived the flush: new samples keep arriving.
	require.Eventually(t, func() bool {
		return e.FifoSize(0) > 0
	}, time.Second, time.Millisecond)
}

// TestPausePreservesData checks that Stop halts production but never
// discards what had already accumulated.
func TestPausePreservesData(t *testing.T) {
	e := newRandomEngine(t, 1)
	e.Start()

	require.Eventually(t, func() bool {
		return e.FifoSize(0) > 0
	}, time.Second, time.Millisecond)

	e.Stop()
	held := e.FifoSize(0)
	require.True(t, held > 0)

	time.Sleep(20 * time.Millisecond)
	require.Equal(t, held, e.FifoSize(0), "a paused channel must not lose or gain samples")
}

// TestOverflowTolerance checks that a ring far smaller than the
// produced volume never panics and never keeps Destroy from returning;
// Read still returns what the ring holds.
func TestOverflowTolerance(t *testing.T) {
	cfg, err := engine.New(1).BlockSize(256).RingCapacity(32).Build()
	require.NoError(t, err)
	e, err := engine.Create(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, e.Destroy()) })

	e.Start()
	time.Sleep(100 * time.Millisecond)

	require.True(t, e.FifoSize(0) <= 32)
	buf := make([]uint32, 32)
	n := e.Read(0, buf)
	require.True(t, n > 0)
}

// TestBlockingReadTimeout checks that ReadBlocking never waits past
// its deadline, and that a timeout is reported as a short count, not
// an error.
func TestBlockingReadTimeout(t *testing.T) {
	e := newRandomEngine(t, 1)
	// left paused: nothing will ever arrive.

	buf := make([]uint32, 10_000)
	start := time.Now()
	n := e.ReadBlocking(0, buf, 20*time.Millisecond)
	elapsed := time.Since(start)

	require.Less(t, n, len(buf))
	require.True(t, elapsed < time.Second)
	require.True(t, elapsed >= 20*time.Millisecond)
}

// TestBlockingReadZeroTimeoutIsOneShot checks that a zero timeout
// performs exactly one non-blocking pop rather than spinning.
func TestBlockingReadZeroTimeoutIsOneShot(t *testing.T) {
	e := newRandomEngine(t, 1)

	buf := make([]uint32, 10)
	n := e.ReadBlocking(0, buf, 0)
	require.Equal(t, 0, n, "paused engine with zero timeout must return immediately with nothing")
}

// TestCleanShutdownWhilePaused checks that a never-started engine
// destroys cleanly, with every worker parked at the startup barrier or
// in ParkIfPaused.
func TestCleanShutdownWhilePaused(t *testing.T) {
	cfg, err := engine.New(4).Build()
	require.NoError(t, err)
	e, err := engine.Create(cfg)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- e.Destroy() }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("destroy of a never-started engine did not return")
	}
}

// TestStartStopIdempotent covers the round-trip/idempotence invariant:
// calling Start or Stop twice in a row must not panic or deadlock.
func TestStartStopIdempotent(t *testing.T) {
	e := newRandomEngine(t, 1)
	e.Start()
	e.Start()
	e.Stop()
	e.Stop()
}

// TestFlushTwiceIsIdempotent covers flush(c) called twice in a row.
func TestFlushTwiceIsIdempotent(t *testing.T) {
	e := newRandomEngine(t, 1)
	e.Start()
	require.Eventually(t, func() bool { return e.FifoSize(0) > 0 }, time.Second, time.Millisecond)

	e.Flush(0)
	e.Flush(0)
	require.Equal(t, 0, e.FifoSize(0))
}

// TestDestroyIsIdempotent checks Destroy is safe to call more than once.
func TestDestroyIsIdempotent(t *testing.T) {
	cfg, err := engine.New(1).Build()
	require.NoError(t, err)
	e, err := engine.Create(cfg)
	require.NoError(t, err)

	require.NoError(t, e.Destroy())
	require.NoError(t, e.Destroy())
}

// TestInvalidChannelIsRejected checks that channel == n is rejected as
// out of range (the valid set is [0, n)).
func TestInvalidChannelIsRejected(t *testing.T) {
	e := newRandomEngine(t, 2)

	require.Equal(t, 0, e.FifoSize(2))
	require.Equal(t, 0, e.FifoSize(-1))
	require.Equal(t, 0, e.Read(2, make([]uint32, 4)))
	e.Flush(2) // must not panic
}

// TestDeviceSessionFalseForRandom checks the Random device never
// reports a hardware session.
func TestDeviceSessionFalseForRandom(t *testing.T) {
	e := newRandomEngine(t, 1)
	_, ok := e.DeviceSession()
	require.False(t, ok)
}

// TestConstructionFailureRejectsBadChannelCount covers the
// construction-failure path for an invalid channel count.
func TestConstructionFailureRejectsBadChannelCount(t *testing.T) {
	_, err := engine.New(0).Build()
	require.Error(t, err)
	require.ErrorIs(t, err, engine.ErrConstruction)
}

