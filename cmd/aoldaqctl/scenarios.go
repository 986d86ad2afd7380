package main

import (
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/edurenesto/aoldaq-go/engine"
)

const demoChannels = 4

var basicDrainCmd = &cobra.Command{
	Use:   "basic-drain",
	Short: "start the engine and drain one block from every channel",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		e, err := engine.New(demoChannels).BlockSize(256).Logger(log).Build()
		if err != nil {
			return err
		}
		eng, err := engine.Create(e)
		if err != nil {
			return err
		}
		defer eng.Destroy()

		eng.Start()

		g, _ := errgroup.WithContext(cmd.Context())
		for ch := 0; ch < demoChannels; ch++ {
			ch := ch
			g.Go(func() error {
				buf := make([]uint32, 256)
				n := eng.ReadBlocking(ch, buf, 2*time.Second)
				log.Infow("basic-drain read", "channel", ch, "got", n)
				return nil
			})
		}
		return g.Wait()
	},
}

var flushCmd = &cobra.Command{
	Use:   "flush",
	Short: "start the engine, let channel 0 accumulate, then flush it",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		cfg, err := engine.New(demoChannels).BlockSize(256).Logger(log).Build()
		if err != nil {
			return err
		}
		eng, err := engine.Create(cfg)
		if err != nil {
			return err
		}
		defer eng.Destroy()

		eng.Start()
		time.Sleep(50 * time.Millisecond)
		before := eng.FifoSize(0)
		eng.Flush(0)
		after := eng.FifoSize(0)
		log.Infow("flush result", "channel", 0, "before", before, "after", after)
		return nil
	},
}

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "pause preserves whatever is already in the ring",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		cfg, err := engine.New(demoChannels).BlockSize(256).Logger(log).Build()
		if err != nil {
			return err
		}
		eng, err := engine.Create(cfg)
		if err != nil {
			return err
		}
		defer eng.Destroy()

		eng.Start()
		time.Sleep(50 * time.Millisecond)
		eng.Stop()
		held := eng.FifoSize(0)
		time.Sleep(50 * time.Millisecond)
		stillHeld := eng.FifoSize(0)
		log.Infow("pause result", "channel", 0, "held_at_stop", held, "held_after_wait", stillHeld)
		return nil
	},
}

var overflowCmd = &cobra.Command{
	Use:   "overflow",
	Short: "a tiny ring fills up; the producer retries until it is drained",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		cfg, err := engine.New(1).BlockSize(256).RingCapacity(64).Logger(log).Build()
		if err != nil {
			return err
		}
		eng, err := engine.Create(cfg)
		if err != nil {
			return err
		}
		defer eng.Destroy()

		eng.Start()
		time.Sleep(200 * time.Millisecond)
		log.Infow("overflow result", "channel", 0, "fifo_size", eng.FifoSize(0))
		return nil
	},
}

var blockingReadCmd = &cobra.Command{
	Use:   "blocking-read",
	Short: "read_blocking with a short timeout returns whatever arrived",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		cfg, err := engine.New(1).BlockSize(256).Logger(log).Build()
		if err != nil {
			return err
		}
		eng, err := engine.Create(cfg)
		if err != nil {
			return err
		}
		defer eng.Destroy()

		eng.Start()
		buf := make([]uint32, 10_000)
		n := eng.ReadBlocking(0, buf, 10*time.Millisecond)
		log.Infow("blocking-read result", "wanted", len(buf), "got", n)
		return nil
	},
}

var shutdownCmd = &cobra.Command{
	Use:   "shutdown",
	Short: "destroy a paused, never-started engine cleanly",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		cfg, err := engine.New(demoChannels).Logger(log).Build()
		if err != nil {
			return err
		}
		eng, err := engine.Create(cfg)
		if err != nil {
			return err
		}
		return eng.Destroy()
	},
}
