package main

import (
	"context"
	"flag"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/friendseek/internal/chart"
	"github.com/mitchelldurbincs/friendseek/internal/config"
	"github.com/mitchelldurbincs/friendseek/internal/monitoring"
	"github.com/mitchelldurbincs/friendseek/internal/render"
	"github.com/mitchelldurbincs/friendseek/internal/sim"
	"github.com/mitchelldurbincs/friendseek/internal/sim/events"
	"github.com/mitchelldurbincs/friendseek/internal/sim/events/subscribers"
	"github.com/mitchelldurbincs/friendseek/internal/stream"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to config file")
	seed := flag.Int64("seed", 0, "Random seed (0 seeds from the clock)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	delay := flag.Duration("delay", 0, "Pause between rendered steps, e.g. 250ms")
	noRender := flag.Bool("no-render", false, "Do not draw the grid")
	color := flag.Bool("color", false, "Colour the terminal grid")
	serve := flag.String("serve", "", "Stream snapshots over websocket on this address, e.g. localhost:8089")
	chartPath := flag.String("chart", "", "Write a distance chart to this HTML file")
	flag.Parse()

	// Initialize configuration
	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}

	// Flags that were given override the config
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			config.Set("simulation.seed", *seed)
		case "log-level":
			config.Set("logging.level", *logLevel)
		case "delay":
			config.Set("simulation.frame_delay_ms", int(delay.Milliseconds()))
		case "no-render":
			config.Set("render.enabled", !*noRender)
		case "color":
			config.Set("render.color", *color)
		case "serve":
			config.Set("stream.enabled", *serve != "")
			config.Set("stream.addr", *serve)
		case "chart":
			config.Set("chart.enabled", *chartPath != "")
			config.Set("chart.path", *chartPath)
		}
	})

	cfg := config.Get()
	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("Invalid flags")
	}

	logger := setupLogging(cfg.Logging.Level, cfg.Logging.Format)

	// Handle shutdown signals
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a := newApp(*cfg, os.Stdout, logger)

	if config.ConfigFilePath() != "" {
		config.WatchConfig(func(c *config.Config) {
			a.setFrameDelay(c.Simulation.FrameDelay())
			logger.Info().Dur("frame_delay", c.Simulation.FrameDelay()).Msg("Config reloaded")
		}, func(err error) {
			logger.Warn().Err(err).Msg("Ignoring config change")
		})
	}

	if _, err := a.run(ctx); err != nil {
		logger.Warn().Err(err).Msg("Simulation interrupted")
	}
}

// app wires one episode: engine, event subscribers, renderers and exports
type app struct {
	cfg    config.Config
	out    io.Writer
	logger zerolog.Logger

	// set once the episode exists; read by the config watcher
	runner atomic.Pointer[sim.Runner]
}

func newApp(cfg config.Config, out io.Writer, logger zerolog.Logger) *app {
	return &app{cfg: cfg, out: out, logger: logger}
}

func (a *app) setFrameDelay(d time.Duration) {
	if r := a.runner.Load(); r != nil {
		r.SetFrameDelay(d)
	}
}

// run plays one episode to the end and prints the report. The report is
// printed even when ctx is cancelled part way.
func (a *app) run(ctx context.Context) (sim.Report, error) {
	seed := a.cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	a.logger.Info().Int64("seed", seed).Msg("Starting simulation")

	bus := events.NewEventBus()
	bus.Subscribe(subscribers.NewLoggerSubscriber("event-log", a.logger, zerolog.DebugLevel))
	recorder := subscribers.NewTrajectoryRecorder("trajectory")
	bus.Subscribe(recorder)

	engine, err := sim.NewEngine(ctx, sim.EngineConfig{
		Rng:      rand.New(rand.NewSource(seed)),
		Logger:   a.logger,
		EventBus: bus,
	})
	if err != nil {
		return sim.Report{}, err
	}

	var renderers render.Multi
	if a.cfg.Render.Enabled {
		renderers = append(renderers, render.NewTerminal(a.out, render.TerminalOptions{
			Color:       a.cfg.Render.Color,
			ClearScreen: a.cfg.Render.ClearScreen,
		}))
	}

	if a.cfg.Stream.Enabled {
		hub := stream.NewHub(a.logger)
		serveCtx, stopServe := context.WithCancel(ctx)
		defer stopServe()
		go func() {
			if err := hub.Serve(serveCtx, a.cfg.Stream.Addr); err != nil {
				a.logger.Error().Err(err).Str("addr", a.cfg.Stream.Addr).Msg("Websocket server failed")
			}
		}()
		monitor := monitoring.NewMonitor(10*time.Second, a.logger)
		monitor.Register("viewers", hub.ClientCount)
		go monitor.Run(serveCtx)

		renderers = append(renderers, hub)
	}

	runner := sim.NewRunner(engine, renderers, a.logger)
	runner.SetFrameDelay(a.cfg.Simulation.FrameDelay())
	a.runner.Store(runner)

	report, runErr := runner.Run(ctx)

	if _, err := report.WriteTo(a.out); err != nil {
		a.logger.Error().Err(err).Msg("Failed to write report")
	}

	if a.cfg.Chart.Enabled {
		if err := chart.SaveDistanceChart(a.cfg.Chart.Path, recorder.Trajectory()); err != nil {
			a.logger.Error().Err(err).Msg("Failed to save distance chart")
		} else {
			a.logger.Info().Str("path", a.cfg.Chart.Path).Msg("Distance chart written")
		}
	}

	return report, runErr
}

func setupLogging(level, format string) zerolog.Logger {
	// Parse log level
	var logLevel zerolog.Level
	switch level {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "info":
		logLevel = zerolog.InfoLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	// Logs go to stderr; stdout carries the grid and the report
	if format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	return log.Logger
}
