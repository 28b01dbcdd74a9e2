package subscribers

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/friendseek/internal/sim/events"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables development mode logging
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	eventLogger := ls.logger.With().
		Str("event_type", event.Type()).
		Str("episode_id", event.EpisodeID()).
		Time("timestamp", event.Timestamp()).
		Logger()

	logEvent := eventLogger.WithLevel(ls.logLevel)

	switch e := event.(type) {
	case *events.EpisodeStartedEvent:
		logEvent.
			Int("grid_size", e.GridSize).
			Int("num_agents", len(e.Agents)).
			Int("target_x", e.Target.X).
			Int("target_y", e.Target.Y)

	case *events.StepCompletedEvent:
		logEvent.
			Int("step", e.Step).
			Bool("found", e.Found)
		arr := zerolog.Arr()
		for _, a := range e.Agents {
			arr.Str(a.Action.String() + "->" + a.Position.String())
		}
		logEvent.Array("moves", arr)

	case *events.TargetFoundEvent:
		logEvent.
			Int("step", e.Step).
			Int("discoverer", e.Discoverer).
			Int("target_x", e.Target.X).
			Int("target_y", e.Target.Y)

	case *events.EpisodeEndedEvent:
		logEvent.
			Str("phase", e.Phase).
			Int("steps", e.Steps).
			Bool("found", e.Found).
			Int("discoverer", e.Discoverer).
			Dur("duration", e.Duration)

	case *events.PhaseTransitionEvent:
		logEvent.
			Str("from_phase", e.FromPhase).
			Str("to_phase", e.ToPhase).
			Str("reason", e.Reason)
	}

	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Simulation event")
}
