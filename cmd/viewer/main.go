package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/friendseek/internal/config"
	"github.com/mitchelldurbincs/friendseek/internal/monitoring"
	"github.com/mitchelldurbincs/friendseek/internal/sim"
	"github.com/mitchelldurbincs/friendseek/internal/stream"
	"github.com/mitchelldurbincs/friendseek/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	seed := flag.Int64("seed", 0, "Random seed (0 seeds from the clock)")
	serve := flag.String("serve", "", "Also stream snapshots over websocket on this address")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	cfg := config.Get()

	if *seed == 0 {
		*seed = cfg.Simulation.Seed
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	if *serve == "" && cfg.Stream.Enabled {
		*serve = cfg.Stream.Addr
	}

	logger := setupLogging(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info().Int64("seed", *seed).Msg("Starting viewer")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Restarts keep drawing from the same source, so a seed fixes the
	// whole sequence of episodes
	rng := rand.New(rand.NewSource(*seed))
	newEngine := func(ctx context.Context) (*sim.Engine, error) {
		return sim.NewEngine(ctx, sim.EngineConfig{Rng: rng, Logger: logger})
	}

	var observer sim.Renderer
	if *serve != "" {
		hub := stream.NewHub(logger)
		go func() {
			if err := hub.Serve(ctx, *serve); err != nil {
				logger.Error().Err(err).Msg("Websocket server failed")
			}
		}()
		monitor := monitoring.NewMonitor(10*time.Second, logger)
		monitor.Register("viewers", hub.ClientCount)
		go monitor.Run(ctx)

		observer = hub
	}

	uiGame, err := ui.NewUIGame(ctx, newEngine, observer, logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create viewer")
	}

	ebiten.SetWindowSize(ui.ScreenWidth(), ui.ScreenHeight())
	ebiten.SetWindowTitle(cfg.UI.Window.Title)

	if err := ebiten.RunGame(uiGame); err != nil {
		log.Fatal().Err(err).Msg("Viewer stopped")
	}
}

func setupLogging(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	return log.Logger
}
