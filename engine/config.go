package engine

import (
	"fmt"

	"github.com/c2h5oh/datasize"
	"go.uber.org/zap"

	"github.com/edurenesto/aoldaq-go/device"
)

// Mode selects which Device variant Create constructs.
type Mode int

const (
	// ModeRandom uses the synthetic device.Random generator.
	ModeRandom Mode = iota
	// ModeHardware uses device.Hardware against a real NI FPGA.
	ModeHardware
)

// defaultBlockSize is the design default: samples per worker read.
const defaultBlockSize = 2000

// defaultRingCapacity is the design default: large enough that transient
// producer/consumer rate mismatches never drop data (~1 GiB of uint32
// samples per channel).
const defaultRingCapacity = 1 << 28

// Config carries everything Create needs: the construction arguments
// plus the ambient logger.
type Config struct {
	blockSize    int
	nChannels    int
	mode         Mode
	hardware     *device.HardwareConfig
	ringCapacity int
	log          *zap.SugaredLogger
}

// Builder constructs a Config with a fluent-option shape, generalized
// from code.hybscloud.com/lfq's queue-algorithm selection to acquisition
// construction arguments.
type Builder struct {
	cfg Config
}

// New starts a builder for an engine with nChannels channels, each using
// the design-default block size and ring capacity, the Random device,
// and a no-op logger.
func New(nChannels int) *Builder {
	return &Builder{cfg: Config{
		blockSize:    defaultBlockSize,
		nChannels:    nChannels,
		mode:         ModeRandom,
		ringCapacity: defaultRingCapacity,
		log:          zap.NewNop().Sugar(),
	}}
}

// BlockSize overrides the samples-per-read read into each staging buffer.
func (b *Builder) BlockSize(n int) *Builder {
	b.cfg.blockSize = n
	return b
}

// RingCapacity overrides the per-channel ring capacity.
func (b *Builder) RingCapacity(n int) *Builder {
	b.cfg.ringCapacity = n
	return b
}

// Random selects the synthetic test device. This is the default.
func (b *Builder) Random() *Builder {
	b.cfg.mode = ModeRandom
	b.cfg.hardware = nil
	return b
}

// Hardware selects the NI FPGA device with the given configuration.
func (b *Builder) Hardware(cfg device.HardwareConfig) *Builder {
	b.cfg.mode = ModeHardware
	b.cfg.hardware = &cfg
	return b
}

// Logger attaches a structured logger. Defaults to a no-op logger.
func (b *Builder) Logger(log *zap.SugaredLogger) *Builder {
	b.cfg.log = log
	return b
}

// Build validates and returns the finished Config.
func (b *Builder) Build() (Config, error) {
	cfg := b.cfg
	if cfg.nChannels < 1 {
		return Config{}, fmt.Errorf("%w: n_channels must be >= 1, got %d", ErrConstruction, cfg.nChannels)
	}
	if cfg.blockSize < 1 {
		return Config{}, fmt.Errorf("%w: block_size must be >= 1, got %d", ErrConstruction, cfg.blockSize)
	}
	if cfg.mode == ModeHardware && cfg.hardware == nil {
		return Config{}, fmt.Errorf("%w: hardware mode requires a HardwareConfig", ErrConstruction)
	}
	return cfg, nil
}

// ringSize reports the per-channel ring footprint for logging as a
// human-readable byte count.
func (c Config) ringSize() datasize.ByteSize {
	return datasize.ByteSize(c.ringCapacity) * datasize.ByteSize(4) // uint32 samples
}
