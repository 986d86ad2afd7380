// Package nifpga provides minimal cgo bindings to the National
// Instruments FPGA Interface C API: session lifecycle
// (Initialize/Open/Close/Finalize) and a blocking U32 FIFO read. Nothing
// beyond what the acquisition engine's Hardware device needs is bound;
// the vendor SDK itself is out of scope.
package nifpga

/*
#cgo CFLAGS: -I/usr/local/natinst/nifpga/include
#cgo LDFLAGS: -L/usr/local/natinst/nifpga/lib64 -lNiFpga
#include <NiFpga.h>
#include <stdlib.h>
*/
import "C"

import (
	"strconv"
	"unsafe"
)

// Session identifies an open NI-FPGA driver context.
type Session = uint32

// InfiniteTimeout requests a blocking read with no timeout, matching
// NiFpga_InfiniteTimeout in the vendor header.
const InfiniteTimeout = int32(C.NiFpga_InfiniteTimeout)

// Status mirrors NiFpga_Status: zero is success, negative values are
// errors, positive values are warnings.
type Status int32

func (s Status) Error() string {
	return "nifpga: status " + strconv.Itoa(int(s))
}

// Ok reports whether s represents NiFpga_Status_Success.
func (s Status) Ok() bool {
	return s == 0
}

// Initialize must be called once before any session is opened.
func Initialize() error {
	ret := Status(C.NiFpga_Initialize())
	if !ret.Ok() {
		return ret
	}
	return nil
}

// Finalize releases driver-global resources. Safe to call after every
// session has been closed.
func Finalize() error {
	ret := Status(C.NiFpga_Finalize())
	if !ret.Ok() {
		return ret
	}
	return nil
}

// Open opens a bitfile against a resource and returns a session handle.
func Open(bitfile, signature, resource string, attribute uint32) (Session, error) {
	cBitfile := C.CString(bitfile)
	defer C.free(unsafe.Pointer(cBitfile))
	cSignature := C.CString(signature)
	defer C.free(unsafe.Pointer(cSignature))
	cResource := C.CString(resource)
	defer C.free(unsafe.Pointer(cResource))

	var session C.NiFpga_Session
	ret := Status(C.NiFpga_Open(cBitfile, cSignature, cResource, C.uint32_t(attribute), &session))
	if !ret.Ok() {
		return 0, ret
	}
	return Session(session), nil
}

// Close closes a session previously returned by Open.
func Close(session Session, attribute uint32) error {
	ret := Status(C.NiFpga_Close(C.NiFpga_Session(session), C.uint32_t(attribute)))
	if !ret.Ok() {
		return ret
	}
	return nil
}

// ReadFifoU32 blocks until buf is filled from the FIFO at addr, up to
// timeoutMs milliseconds (InfiniteTimeout to block forever). When buf is
// empty this becomes a fill-level poll: elementsRemaining reports the
// current FIFO depth without consuming anything.
func ReadFifoU32(session Session, addr uint32, buf []uint32, timeoutMs int32) (elementsRemaining uint32, err error) {
	var remaining C.uint32_t
	var ptr *C.uint32_t
	if len(buf) > 0 {
		ptr = (*C.uint32_t)(unsafe.Pointer(&buf[0]))
	}

	ret := Status(C.NiFpga_ReadFifoU32(
		C.NiFpga_Session(session),
		C.uint32_t(addr),
		ptr,
		C.size_t(len(buf)),
		C.uint32_t(timeoutMs),
		&remaining,
	))
	if !ret.Ok() {
		return 0, ret
	}
	return uint32(remaining), nil
}
