// cmd/collidesim/main.go
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opd-ai/go-collide/pkg/collision"
	"github.com/opd-ai/go-collide/pkg/config"
	"github.com/opd-ai/go-collide/pkg/layer"
	"github.com/opd-ai/go-collide/pkg/logging"
	"github.com/opd-ai/go-collide/pkg/render"
)

func main() {
	logger := logging.NewLogger()
	ctx := context.Background()

	configPath := flag.String("config", "collide.json", "Path to configuration file (.json, .yaml or .yml)")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	layerPath := flag.String("layers", config.LayerFileFromEnv(), "Path to a YAML layer definition file")
	frames := flag.Int("frames", 600, "Number of frames to simulate")
	bodies := flag.Int("bodies", 200, "Number of bodies to spawn")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	interval := flag.Duration("interval", 0, "Delay between frames")
	renderView := flag.Bool("render", false, "Draw the world to the terminal every frame")
	flag.Parse()

	// Create default configuration file if requested
	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return
	}

	cfg, err := loadConfig(ctx, logger, *configPath, *layerPath)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err,
			"config_path", *configPath,
		)
		os.Exit(1)
	}

	world := collision.NewWorld(cfg, collision.WithLogger(logger))
	bounds := world.Config().WorldBounds.Rect()

	var layers []string
	for _, def := range cfg.Layers {
		layers = append(layers, def.Name)
	}
	sim, err := newSimulation(world, bounds, *bodies, *seed, layers)
	if err != nil {
		logger.Error(ctx, "Failed to spawn bodies", err)
		os.Exit(1)
	}

	var view *render.TerminalRenderer
	if *renderView {
		view = render.NewTerminalRenderer(os.Stdout, 80, 40, bounds.Width/80)
		view.SetOrigin(bounds.Position)
		view.SetClearScreen(true)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting simulation",
		"bodies", *bodies,
		"frames", *frames,
		"seed", *seed,
		"index", world.Config().Index,
		"resolve", world.ResolveCollisions(),
	)

	start := time.Now()
	ran := run(ctx, world, sim, *frames, *interval, func() {
		if view != nil {
			if err := render.DrawWorld(view, world, false); err != nil {
				logger.Error(ctx, "Failed to draw frame", err)
			}
		}
	})

	logger.Info(ctx, "Simulation finished",
		"frames", ran,
		"elapsed", time.Since(start).String(),
		"started", sim.totals.Started,
		"persisting", sim.totals.Persisting,
		"stopped", sim.totals.Stopped,
	)
}

// loadConfig reads the configuration file, or the defaults when it does
// not exist, then applies environment overrides and an optional layer file
func loadConfig(ctx context.Context, logger *logging.Logger, path, layerPath string) (*config.Config, error) {
	var cfg *config.Config

	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", path,
		)
		cfg = config.DefaultConfig()
	} else {
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}

	if err := config.ApplyEnvironmentOverrides(cfg); err != nil {
		return nil, logging.WrapError(err, "failed to apply environment configuration")
	}

	if layerPath != "" {
		defs, err := layer.LoadFile(layerPath)
		if err != nil {
			return nil, logging.WrapError(err, "failed to load layer file %s", layerPath)
		}
		cfg.Layers = defs
	}
	return cfg, nil
}

// run advances the simulation until frames have elapsed or ctx is done and
// returns the number of frames run
func run(ctx context.Context, world *collision.World, sim *simulation, frames int, interval time.Duration, afterFrame func()) int {
	var ticker *time.Ticker
	if interval > 0 {
		ticker = time.NewTicker(interval)
		defer ticker.Stop()
	}

	for frame := 0; frame < frames; frame++ {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return frame
			case <-ticker.C:
			}
		} else if ctx.Err() != nil {
			return frame
		}

		sim.step()
		world.Update(ctx)
		if afterFrame != nil {
			afterFrame()
		}
	}
	return frames
}
