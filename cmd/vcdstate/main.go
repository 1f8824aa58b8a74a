// Command vcdstate loads a VCD waveform trace, replays it cycle by cycle,
// and either prints the result, dumps the header, or serves it live over
// HTTP/WebSocket.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/thomashk0/wave/internal/source"
	"github.com/thomashk0/wave/internal/wlog"
	"github.com/thomashk0/wave/server"
	"github.com/thomashk0/wave/simulation"
	"github.com/thomashk0/wave/vcd"
)

var log = wlog.New("vcdstate")

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	chunkSizeFlag = cli.IntFlag{
		Name:  "chunk-size",
		Usage: "refill chunk size in bytes",
		Value: 4096,
	}
	snappyFlag = cli.BoolFlag{
		Name:  "snappy",
		Usage: "input is Snappy-framed compressed",
	}
	mmapFlag = cli.BoolFlag{
		Name:  "mmap",
		Usage: "memory-map the input file instead of streaming reads",
	}
	followFlag = cli.BoolFlag{
		Name:  "follow",
		Usage: "follow the input file as it grows, like tail -f",
	}
	trackFlag = cli.StringSliceFlag{
		Name:  "track",
		Usage: "restrict the simulated state to this variable id (repeatable)",
	}
	verboseFlag = cli.BoolFlag{
		Name:  "verbose",
		Usage: "dump full cycle state (ignored header directives are not logged)",
	}
	addrFlag = cli.StringFlag{
		Name:  "addr",
		Usage: "address to serve on",
		Value: ":8080",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "vcdstate"
	app.Usage = "stream, replay, and serve VCD waveform traces"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{configFlag}
	app.Commands = []cli.Command{
		headerCommand,
		simCommand,
		serveCommand,
	}

	if err := app.Run(os.Args); err != nil {
		log.Error("vcdstate exiting with error", "error", err)
		os.Exit(1)
	}
}

func buildConfig(ctx *cli.Context) (vcdConfig, error) {
	cfg := defaultConfig()
	if path := ctx.GlobalString(configFlag.Name); path != "" {
		if err := loadConfig(path, &cfg); err != nil {
			return cfg, err
		}
	}
	if ctx.NArg() > 0 {
		cfg.Input.Path = ctx.Args().First()
	}
	if ctx.IsSet(chunkSizeFlag.Name) {
		cfg.Input.ChunkSize = ctx.Int(chunkSizeFlag.Name)
	}
	if ctx.IsSet(snappyFlag.Name) {
		cfg.Input.Snappy = ctx.Bool(snappyFlag.Name)
	}
	if ctx.IsSet(mmapFlag.Name) {
		cfg.Input.MMap = ctx.Bool(mmapFlag.Name)
	}
	if ctx.IsSet(followFlag.Name) {
		cfg.Input.Follow = ctx.Bool(followFlag.Name)
	}
	if ctx.IsSet(trackFlag.Name) {
		cfg.Simulation.Track = ctx.StringSlice(trackFlag.Name)
	}
	if ctx.IsSet(verboseFlag.Name) {
		cfg.Simulation.Verbose = ctx.Bool(verboseFlag.Name)
	}
	if ctx.IsSet(addrFlag.Name) {
		cfg.Server.Addr = ctx.String(addrFlag.Name)
	}
	if cfg.Input.Path == "" {
		return cfg, fmt.Errorf("vcdstate: no input file given")
	}
	return cfg, nil
}

// openInput resolves the configured input adapters (Snappy, mmap, follow)
// into a single io.Reader, per SPEC_FULL.md's domain-stack wiring: these
// only change where bytes come from, never how they are parsed.
func openInput(ctx context.Context, cfg inputConfig) (io.Reader, func() error, error) {
	if cfg.Follow && cfg.MMap {
		warnf("vcdstate: --follow and --mmap both set, ignoring --mmap\n")
	}

	if cfg.Follow {
		fr, err := source.OpenFollow(ctx, cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		var r io.Reader = fr
		if cfg.Snappy {
			r = source.OpenSnappy(fr)
		}
		return r, fr.Close, nil
	}

	if cfg.MMap {
		ms, err := source.OpenMMap(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		var r io.Reader = ms
		if cfg.Snappy {
			r = source.OpenSnappy(ms)
		}
		return r, ms.Close, nil
	}

	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, nil, err
	}
	var r io.Reader = f
	if cfg.Snappy {
		r = source.OpenSnappy(f)
	}
	return r, f.Close, nil
}

func newSimulation(ctx context.Context, cfg vcdConfig) (*simulation.StateSimulation, func() error, error) {
	r, closeFn, err := openInput(ctx, cfg.Input)
	if err != nil {
		return nil, nil, err
	}
	sim := simulation.New(r, cfg.Input.ChunkSize)
	if len(cfg.Simulation.Track) > 0 {
		sim.TrackVariables(cfg.Simulation.Track)
	}
	if err := sim.LoadHeader(); err != nil {
		closeFn()
		return nil, nil, err
	}
	if err := sim.AllocateState(); err != nil {
		closeFn()
		return nil, nil, err
	}
	return sim, closeFn, nil
}

var headerCommand = cli.Command{
	Name:  "header",
	Usage: "print the variables declared by a VCD trace",
	Flags: []cli.Flag{chunkSizeFlag, snappyFlag, mmapFlag},
	Action: func(ctx *cli.Context) error {
		cfg, err := buildConfig(ctx)
		if err != nil {
			return err
		}
		sim, closeFn, err := newSimulation(context.Background(), cfg)
		if err != nil {
			return err
		}
		defer closeFn()

		info, err := sim.HeaderInfo()
		if err != nil {
			return err
		}
		h := &vcd.Header{Variables: make([]vcd.VariableInfo, 0, len(info))}
		for _, v := range info {
			h.Variables = append(h.Variables, v.Info)
		}
		printHeaderTable(h)
		return nil
	},
}

var simCommand = cli.Command{
	Name:  "sim",
	Usage: "replay a VCD trace cycle by cycle, printing each step",
	Flags: []cli.Flag{chunkSizeFlag, snappyFlag, mmapFlag, trackFlag, verboseFlag},
	Action: func(ctx *cli.Context) error {
		cfg, err := buildConfig(ctx)
		if err != nil {
			return err
		}
		sim, closeFn, err := newSimulation(context.Background(), cfg)
		if err != nil {
			return err
		}
		defer closeFn()

		for !sim.Done() {
			cycle, state, err := sim.NextCycle()
			if err != nil {
				return err
			}
			printCycle(cycle, state, cfg.Simulation.Verbose)
		}
		return nil
	},
}

var serveCommand = cli.Command{
	Name:  "serve",
	Usage: "serve a live cycle stream over HTTP/WebSocket",
	Flags: []cli.Flag{chunkSizeFlag, snappyFlag, mmapFlag, followFlag, trackFlag, addrFlag},
	Action: func(ctx *cli.Context) error {
		cfg, err := buildConfig(ctx)
		if err != nil {
			return err
		}

		runCtx, cancel := context.WithCancel(context.Background())
		defer cancel()
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt)
		go func() {
			<-sigCh
			cancel()
		}()

		sim, closeFn, err := newSimulation(runCtx, cfg)
		if err != nil {
			return err
		}
		defer closeFn()

		log.Info("serving cycle stream", "addr", cfg.Server.Addr)
		return server.New(sim).Run(runCtx, cfg.Server.Addr)
	},
}
