package models

import "time"

// DecisionRecord is one storyteller ruling: what was true, what was
// delivered, and why. Records are append-only and never mutated; they are
// the audit trail and the context tracker's source of truth.
type DecisionRecord struct {
	// ID is the unique decision identifier
	ID string `json:"id"`

	// Character whose ability was resolved
	Character string `json:"character"`

	// ActorID is the player holding the character
	ActorID string `json:"actor_id"`

	// ActorTeam is the actor's alignment at resolution time
	ActorTeam Team `json:"actor_team"`

	// TargetIDs are the chosen targets, in choice order
	TargetIDs []string `json:"target_ids,omitempty"`

	// TrueResult is the computed correct answer
	TrueResult string `json:"true_result"`

	// DeliveredResult is what the player was actually told
	DeliveredResult string `json:"delivered_result"`

	// Corrupted is true when the delivered result differs from the truth
	Corrupted bool `json:"corrupted"`

	// EfficacyFailed marks a non-informational action that was silently
	// nullified (e.g. a poisoned Monk's protection)
	EfficacyFailed bool `json:"efficacy_failed,omitempty"`

	// TruthProbability is the resolved probability the sample was drawn
	// against, recorded for auditability
	TruthProbability float64 `json:"truth_probability"`

	// Confidence is the engine's confidence in this ruling
	Confidence float64 `json:"confidence"`

	// Reasoning is the free-text explanation of the ruling
	Reasoning string `json:"reasoning"`

	// Day is the day/night index the decision belongs to
	Day int `json:"day"`

	// Night is true for night-phase decisions
	Night bool `json:"night"`

	// Timestamp is when the decision was made
	Timestamp time.Time `json:"timestamp"`
}
