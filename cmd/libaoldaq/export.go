// Command libaoldaq builds a C-callable shared library
// (`go build -buildmode=c-shared`). It is a thin glue layer: all
// marshaling of the generated aoldaq_args_t into abi.Args happens here,
// all dispatch logic lives in package abi, keeping the cgo surface thin
// over Go-side state.
package main

/*
#include <stdint.h>
#include <stdlib.h>

typedef enum {
	AOLDAQ_MODE_RANDOM = 0,
	AOLDAQ_MODE_NIFPGA = 1,
} aoldaq_mode_t;

typedef struct {
	const char *bitfile;
	const char *signature;
	const char *resource;
	uint32_t attribute;
	const uint32_t *addrs;
	int dump;
} aoldaq_nifpga_args_t;

typedef struct {
	size_t n_channels;
	aoldaq_mode_t mode;
	size_t block_size;
	const aoldaq_nifpga_args_t *nifpga;
} aoldaq_args_t;
*/
import "C"

import (
	"unsafe"

	"go.uber.org/zap"

	"github.com/edurenesto/aoldaq-go/abi"
	"github.com/edurenesto/aoldaq-go/device"
	"github.com/edurenesto/aoldaq-go/engine"
)

var log = mustLogger()

func mustLogger() *zap.SugaredLogger {
	l, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

//export aoldaq_create_instance
func aoldaq_create_instance(args *C.aoldaq_args_t) C.uintptr_t {
	if args == nil {
		return 0
	}

	a := abi.Args{
		BlockSize: int(args.block_size),
		NChannels: int(args.n_channels),
	}

	switch args.mode {
	case C.AOLDAQ_MODE_RANDOM:
		a.Mode = engine.ModeRandom
	case C.AOLDAQ_MODE_NIFPGA:
		a.Mode = engine.ModeHardware
		a.Hardware = hardwareConfigFromC(args.nifpga, a.NChannels)
	}

	h, err := abi.Create(a, log)
	if err != nil {
		log.Errorw("aoldaq_create_instance failed", "error", err)
		return 0
	}
	return C.uintptr_t(h)
}

//export aoldaq_destroy_instance
func aoldaq_destroy_instance(instance C.uintptr_t) {
	if err := abi.Destroy(handleOf(instance)); err != nil {
		log.Errorw("aoldaq_destroy_instance failed", "error", err)
	}
}

//export aoldaq_get_data
func aoldaq_get_data(instance C.uintptr_t, channel C.size_t, n C.size_t, buf *C.uint32_t) C.size_t {
	var dst []uint32
	if n > 0 {
		dst = unsafe.Slice((*uint32)(unsafe.Pointer(buf)), int(n))
	}
	return C.size_t(abi.GetData(handleOf(instance), int(channel), int(n), dst))
}

//export aoldaq_flush_fifo
func aoldaq_flush_fifo(instance C.uintptr_t, channel C.size_t) {
	abi.Flush(handleOf(instance), int(channel))
}

//export aoldaq_start
func aoldaq_start(instance C.uintptr_t) {
	abi.Start(handleOf(instance))
}

//export aoldaq_stop
func aoldaq_stop(instance C.uintptr_t) {
	abi.Stop(handleOf(instance))
}

//export aoldaq_get_nifpga_session
func aoldaq_get_nifpga_session(instance C.uintptr_t) C.uint32_t {
	return C.uint32_t(abi.GetDeviceSession(handleOf(instance)))
}

func main() {}
