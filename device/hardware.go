package device

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/edurenesto/aoldaq-go/internal/nifpga"
)

// HardwareConfig carries everything needed to open an NI-FPGA session, the
// Go-side mirror of the original crate's #[repr(C)] NiFpgaArgs.
type HardwareConfig struct {
	Bitfile   string
	Signature string
	Resource  string
	Attribute uint32
	// Addrs gives the FIFO address for each channel. When nil, channel i
	// defaults to address i.
	Addrs []uint32
	// Dump, when true, makes every successful ReadInto append a debug
	// line to a log file under os.TempDir(). Off by default: this is a
	// debugging aid, not something production acquisition should pay for.
	Dump bool
}

// Hardware reads fixed-width sample blocks from an NI FPGA FIFO through
// internal/nifpga. It owns the session for its entire lifetime and closes
// it on Close.
type Hardware struct {
	session nifpga.Session
	addrs   []uint32
	log     *zap.SugaredLogger

	dumpMu   sync.Mutex
	dumpFile *os.File

	attribute uint32
}

var _ Device = (*Hardware)(nil)
var _ Introspection = (*Hardware)(nil)

// NewHardware initializes the NI-FPGA driver and opens cfg's bitfile
// against cfg.Resource. A construction failure here means the caller
// must not proceed to spawn workers against a Device that failed to
// open.
func NewHardware(cfg HardwareConfig, nChannels int, log *zap.SugaredLogger) (*Hardware, error) {
	if err := nifpga.Initialize(); err != nil {
		return nil, fmt.Errorf("nifpga: initialize: %w", err)
	}

	session, err := nifpga.Open(cfg.Bitfile, cfg.Signature, cfg.Resource, cfg.Attribute)
	if err != nil {
		_ = nifpga.Finalize()
		return nil, fmt.Errorf("nifpga: open %q: %w", cfg.Resource, err)
	}

	addrs := cfg.Addrs
	if addrs == nil {
		addrs = make([]uint32, nChannels)
		for i := range addrs {
			addrs[i] = uint32(i)
		}
	}

	h := &Hardware{
		session:   session,
		addrs:     addrs,
		log:       log,
		attribute: cfg.Attribute,
	}

	if cfg.Dump {
		path := filepath.Join(os.TempDir(), "aoldaq-nifpga-out.log")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			log.Warnw("failed to open nifpga debug dump file, continuing without it", "path", path, "error", err)
		} else {
			h.dumpFile = f
		}
	}

	return h, nil
}

// ReadInto blocks with an infinite timeout until buf is filled for
// channel, or until the driver reports an error.
func (h *Hardware) ReadInto(channel int, buf []uint32) (int, error) {
	_, err := nifpga.ReadFifoU32(h.session, h.addrs[channel], buf, nifpga.InfiniteTimeout)
	if err != nil {
		return 0, err
	}

	if h.dumpFile != nil {
		h.dumpMu.Lock()
		fmt.Fprintf(h.dumpFile, "channel %d: %v\n", channel, buf)
		h.dumpMu.Unlock()
	}

	return len(buf), nil
}

// Poll reads the FIFO's current depth without consuming any elements.
func (h *Hardware) Poll(channel int) (int, bool) {
	remaining, err := nifpga.ReadFifoU32(h.session, h.addrs[channel], nil, nifpga.InfiniteTimeout)
	if err != nil {
		return 0, false
	}
	return int(remaining), true
}

// Session returns the underlying NI-FPGA session handle.
func (h *Hardware) Session() uint32 {
	return uint32(h.session)
}

// Close closes the driver session and releases driver-global resources.
// Safe to call once, after every worker reading from this device has
// exited.
func (h *Hardware) Close() error {
	if h.dumpFile != nil {
		_ = h.dumpFile.Close()
	}
	closeErr := nifpga.Close(h.session, h.attribute)
	finalizeErr := nifpga.Finalize()
	if closeErr != nil {
		return closeErr
	}
	return finalizeErr
}
