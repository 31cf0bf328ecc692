package models

import "time"

// EventType categorizes a public game event. The same values form the
// normalized stream pushed to the platform-sync collaborator.
type EventType string

const (
	EventPhaseChange  EventType = "phase_change"
	EventDeath        EventType = "death"
	EventExecution    EventType = "execution"
	EventNomination   EventType = "nomination"
	EventVoteResult   EventType = "vote_result"
	EventStatusUpdate EventType = "status_update"
	EventTimeoutSkip  EventType = "timeout_skip"
	EventGameEnd      EventType = "game_end"
)

// PublicEvent is one entry of the append-only public event log
type PublicEvent struct {
	// ID is the unique event identifier
	ID string `json:"id"`

	// Type categorizes the event
	Type EventType `json:"type"`

	// Day the event happened on
	Day int `json:"day"`

	// Phase the game was in
	Phase Phase `json:"phase"`

	// ActorID is the player who caused the event, if any
	ActorID string `json:"actor_id,omitempty"`

	// TargetID is the player affected, if any
	TargetID string `json:"target_id,omitempty"`

	// Message is a narration-ready description
	Message string `json:"message"`

	// Timestamp is when the event was appended
	Timestamp time.Time `json:"timestamp"`
}
