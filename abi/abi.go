// Package abi implements the non-cgo half of the C-ABI surface: engine
// construction-argument marshaling and the
// create/destroy/get_data/flush/start/stop/get_device_session dispatch
// logic, kept free of "C" imports so it can be unit tested directly.
//
// cmd/libaoldaq is the thin cgo layer on top of this package: it
// translates C types to the Go types used here and wraps every Engine
// handle as a runtime/cgo.Handle.
package abi

import (
	"fmt"
	"runtime/cgo"

	"go.uber.org/zap"

	"github.com/edurenesto/aoldaq-go/device"
	"github.com/edurenesto/aoldaq-go/engine"
)

// Args mirrors the C aoldaq_args_t the host passes to Create: the
// construction arguments after marshaling out of C (string/pointer
// fields already converted to Go values).
type Args struct {
	BlockSize int
	NChannels int
	Mode      engine.Mode
	Hardware  *device.HardwareConfig
}

// Create builds an Engine from args and wraps it as a cgo.Handle. The
// returned handle is the opaque `engine*` the C surface hands back to the
// host; it is 0 on construction failure, so the host never holds a
// handle to an engine that failed to start.
func Create(args Args, log *zap.SugaredLogger) (cgo.Handle, error) {
	b := engine.New(args.NChannels).BlockSize(args.BlockSize).Logger(log)
	if args.Mode == engine.ModeHardware {
		if args.Hardware == nil {
			return 0, fmt.Errorf("%w: hardware mode requires a HardwareConfig", engine.ErrConstruction)
		}
		b = b.Hardware(*args.Hardware)
	}

	cfg, err := b.Build()
	if err != nil {
		return 0, err
	}

	e, err := engine.Create(cfg)
	if err != nil {
		return 0, err
	}

	return cgo.NewHandle(e), nil
}

// Destroy joins every worker and releases all resources for the engine
// behind h, then invalidates h. Safe to call with a zero handle.
func Destroy(h cgo.Handle) error {
	if h == 0 {
		return nil
	}
	e := h.Value().(*engine.Engine)
	defer h.Delete()
	return e.Destroy()
}

// Start is the create/destroy-agnostic passthrough for the `start`
// C symbol.
func Start(h cgo.Handle) {
	h.Value().(*engine.Engine).Start()
}

// Stop is the passthrough for the `stop` C symbol.
func Stop(h cgo.Handle) {
	h.Value().(*engine.Engine).Stop()
}

// Flush is the passthrough for the `flush` C symbol.
func Flush(h cgo.Handle, channel int) {
	h.Value().(*engine.Engine).Flush(channel)
}

// GetData implements the `get_data` symbol's dual contract: when n is 0
// it returns the channel's current ring fill without mutating it;
// otherwise it pops up to n samples into buf and returns the count
// actually popped.
func GetData(h cgo.Handle, channel int, n int, buf []uint32) int {
	e := h.Value().(*engine.Engine)
	if n == 0 {
		return e.FifoSize(channel)
	}
	return e.Read(channel, buf[:n])
}

// GetDeviceSession is the passthrough for the `get_device_session` C
// symbol. It returns 0 when the active device has no hardware session
// (Random mode, or Hardware construction never happened).
func GetDeviceSession(h cgo.Handle) uint32 {
	session, ok := h.Value().(*engine.Engine).DeviceSession()
	if !ok {
		return 0
	}
	return session
}
