package api

import "time"

// EventKind enumerates the session events the runtime publishes.
type EventKind int

const (
	EventSessionConfigured EventKind = iota + 1
	EventSessionComplete
	EventSessionExit
)

func (k EventKind) String() string {
	switch k {
	case EventSessionConfigured:
		return "session-configured"
	case EventSessionComplete:
		return "session-complete"
	case EventSessionExit:
		return "session-exit"
	}
	return "unknown"
}

// SessionConfig summarizes the plan a session was configured from.
type SessionConfig struct {
	PlanID          string
	PlanName        string
	Focus           string
	DurationMinutes int
	SectionCount    int
}

// Event is a session lifecycle event. Each kind has its own payload type.
type Event interface {
	Kind() EventKind
}

// SessionConfigured is published exactly once per successful session start.
type SessionConfigured struct {
	ScoreID string
	Config  SessionConfig
}

func (SessionConfigured) Kind() EventKind { return EventSessionConfigured }

// SessionComplete is published when all sections of a plan have been
// practiced. SectionNotes holds every note captured during the session,
// keyed by the section's highlight id.
type SessionComplete struct {
	ScoreID      string
	Config       SessionConfig
	Duration     time.Duration
	SectionNotes map[string]string
}

func (SessionComplete) Kind() EventKind { return EventSessionComplete }

// SessionExit is published when a session is ended before completion.
type SessionExit struct {
	ScoreID string
}

func (SessionExit) Kind() EventKind { return EventSessionExit }

// Observer receives published session events. Delivery is fire-and-forget:
// observers are never awaited and a misbehaving observer cannot stall the
// session.
type Observer interface {
	HandleSessionEvent(ev Event)
}
