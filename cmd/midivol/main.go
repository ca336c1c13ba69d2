package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/leandrodaf/midivol/internal/config"
	"github.com/leandrodaf/midivol/internal/console"
	"github.com/leandrodaf/midivol/internal/logger"
	"github.com/leandrodaf/midivol/internal/midi/virtual"
	"github.com/leandrodaf/midivol/internal/volume"
	"github.com/leandrodaf/midivol/sdk/bridge"
	"github.com/leandrodaf/midivol/sdk/contracts"
)

func main() {
	var (
		configPath  string
		device      int
		channel     int
		cc          int
		sampleTime  time.Duration
		logLevel    string
		driverName  string
		virtualDevs string
		dryRun      bool
		autoRestart time.Duration
	)

	defaultPath, _ := config.DefaultPath()
	flag.StringVar(&configPath, "config", defaultPath, "start-up configuration file")
	flag.IntVar(&device, "device", 0, "MIDI source index")
	flag.IntVar(&channel, "channel", 0, "MIDI channel 1-16, 0 for all")
	flag.IntVar(&cc, "cc", -1, "controller number 0-127, -1 for all")
	flag.DurationVar(&sampleTime, "sample-time", 0, "minimum interval between volume writes")
	flag.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	flag.StringVar(&driverName, "driver", "auto", "MIDI driver: auto or virtual")
	flag.StringVar(&virtualDevs, "virtual-devices", "Virtual Knob", "comma-separated source names for the virtual driver")
	flag.BoolVar(&dryRun, "dry-run", false, "log volume changes instead of applying them")
	flag.DurationVar(&autoRestart, "auto-restart", 0, "retry a faulted source at this interval (0 disables)")
	flag.Parse()

	log := logger.NewZapLogger()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal("Failed to load configuration", log.Field().Error("error", err))
	}
	if flag.CommandLine.Changed("device") {
		cfg.MIDI.Device = device
	}
	if flag.CommandLine.Changed("channel") {
		cfg.MIDI.Channel = channel
	}
	if flag.CommandLine.Changed("cc") {
		cfg.MIDI.Controller = &cc
	}
	if flag.CommandLine.Changed("sample-time") {
		cfg.Volume.SampleTime = sampleTime
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	opts, err := cfg.Options()
	if err != nil {
		log.Fatal("Invalid configuration", log.Field().Error("error", err))
	}
	opts = append(opts, contracts.WithLogger(log))

	var inject console.Injector
	switch driverName {
	case "auto":
	case "virtual":
		drv := virtual.New(strings.Split(virtualDevs, ",")...)
		opts = append(opts, contracts.WithDriver(drv))
		inject = drv.Broadcast
	default:
		log.Fatal("Unknown driver", log.Field().String("driver", driverName))
	}
	if dryRun {
		opts = append(opts, contracts.WithVolumeWriter(volume.LogWriter{Logger: log}))
	}

	b, err := bridge.NewBridge(opts...)
	if err != nil {
		log.Fatal("Failed to start bridge", log.Field().Error("error", err))
	}
	defer b.Close()

	if msg := b.GetError(); msg != "" {
		log.Warn("Bridge started without an active source", log.Field().String("status", msg))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if autoRestart > 0 {
		go superviseRestarts(ctx, b, autoRestart, log)
	}

	fmt.Println("midivol running. Type 'help' for commands.")
	if err := console.New(b, inject, os.Stdout).Run(ctx, os.Stdin); err != nil {
		log.Error("Console stopped", log.Field().Error("error", err))
	}
}

// superviseRestarts retries the binding while it is faulted and enabled.
func superviseRestarts(ctx context.Context, s contracts.SettingsSurface, every time.Duration, log contracts.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.Enabled() || s.GetError() == "" {
				continue
			}
			if msg := s.AttemptRestart(); msg != "" {
				log.Debug("Restart attempt failed", log.Field().String("status", msg))
				continue
			}
			log.Info("MIDI source recovered")
		}
	}
}
