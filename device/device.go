// Package device abstracts the hardware collaborator the acquisition
// engine pulls samples from. Two concrete variants are provided: Random,
// a synthetic generator for tests, and Hardware, a thin wrapper around the
// vendor NI-FPGA driver (internal/nifpga).
//
// A Device knows nothing about rings or workers: the worker package is the
// adapter between a Device's per-channel read and a channel's ring.
package device

// Device is the capability the acquisition core consumes. Implementations
// must be safe for concurrent use by one goroutine per channel: each
// channel index is only ever touched by its own worker goroutine, but the
// Device itself is shared read-only across all of them.
type Device interface {
	// ReadInto blocks (with an implementation-defined timeout policy)
	// until buf is filled with fresh samples for channel, or until an
	// error occurs. On success it returns len(buf). The hardware variant
	// blocks with an infinite timeout; the random variant never blocks.
	ReadInto(channel int, buf []uint32) (int, error)

	// Poll reports the device-side FIFO fill for channel without
	// consuming it. The second return value is false when the device
	// does not support polling. Used only for diagnostics by callers.
	Poll(channel int) (int, bool)
}

// Introspection is a secondary capability only the hardware variant
// implements. Rather than type-asserting through the polymorphic Device
// interface, callers that need a hardware-only detail (the NI-FPGA
// session id) check for this interface explicitly.
type Introspection interface {
	// Session returns the underlying driver session handle.
	Session() uint32
}
