package main

/*
#include <stdint.h>
#include <stdlib.h>

typedef struct {
	const char *bitfile;
	const char *signature;
	const char *resource;
	uint32_t attribute;
	const uint32_t *addrs;
	int dump;
} aoldaq_nifpga_args_t;
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"github.com/edurenesto/aoldaq-go/device"
)

func handleOf(instance C.uintptr_t) cgo.Handle {
	return cgo.Handle(instance)
}

// hardwareConfigFromC translates the optional aoldaq_nifpga_args_t
// pointer into a device.HardwareConfig. Returns nil when args is nil,
// matching the original's AoldaqArgs.nifpga == null case.
func hardwareConfigFromC(args *C.aoldaq_nifpga_args_t, nChannels int) *device.HardwareConfig {
	if args == nil {
		return nil
	}

	cfg := &device.HardwareConfig{
		Bitfile:   C.GoString(args.bitfile),
		Signature: C.GoString(args.signature),
		Resource:  C.GoString(args.resource),
		Attribute: uint32(args.attribute),
		Dump:      args.dump != 0,
	}

	if args.addrs != nil {
		cfg.Addrs = append([]uint32(nil), unsafe.Slice((*uint32)(unsafe.Pointer(args.addrs)), nChannels)...)
	}

	return cfg
}
