package events

import (
	"time"
)

// Event is the base interface for all simulation events
type Event interface {
	// Type returns the event type as a string for filtering and logging
	Type() string
	// Timestamp returns when the event occurred
	Timestamp() time.Time
	// EpisodeID returns the ID of the episode this event belongs to
	EpisodeID() string
}

// BaseEvent provides common fields for all events
type BaseEvent struct {
	EventType string    `json:"type"`
	Time      time.Time `json:"timestamp"`
	Episode   string    `json:"episode_id"`
}

// Type implements Event interface
func (e BaseEvent) Type() string {
	return e.EventType
}

// Timestamp implements Event interface
func (e BaseEvent) Timestamp() time.Time {
	return e.Time
}

// EpisodeID implements Event interface
func (e BaseEvent) EpisodeID() string {
	return e.Episode
}

func newBaseEvent(eventType, episodeID string) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      time.Now(),
		Episode:   episodeID,
	}
}

// EventHandler is a function that processes events
type EventHandler func(Event)

// Subscriber represents an entity that can receive events
type Subscriber interface {
	// ID returns a unique identifier for this subscriber
	ID() string
	// HandleEvent processes an event
	HandleEvent(Event)
	// InterestedIn returns true if the subscriber wants to receive this event type
	InterestedIn(eventType string) bool
}

// Publisher is the interface for publishing events
type Publisher interface {
	// Publish sends an event to all interested subscribers
	Publish(Event)
}
