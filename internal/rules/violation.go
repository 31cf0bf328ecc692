package rules

import "fmt"

// ReasonCode is a stable identifier for a rule violation, suitable for
// narration lookup on the caller side
type ReasonCode string

// Define reason codes
const (
	ReasonUnknownPlayer        ReasonCode = "unknown_player"
	ReasonWrongPhase           ReasonCode = "wrong_phase"
	ReasonNominatorDead        ReasonCode = "nominator_dead"
	ReasonNomineeDead          ReasonCode = "nominee_dead"
	ReasonNominatorSpent       ReasonCode = "nominator_already_nominated"
	ReasonNomineeAlreadyOnTrial ReasonCode = "nominee_already_nominated"
	ReasonExecutionLimit       ReasonCode = "execution_limit_reached"
	ReasonSelfNomination       ReasonCode = "self_nomination"
	ReasonGameEnded            ReasonCode = "game_ended"
)

// RuleViolation reports an illegal player action. It is recoverable,
// surfaced to the actor, and never mutates state.
type RuleViolation struct {
	// Code is the stable reason code
	Code ReasonCode

	// Detail is a human-readable explanation
	Detail string
}

// Error implements the error interface
func (e *RuleViolation) Error() string {
	return fmt.Sprintf("rule violation (%s): %s", e.Code, e.Detail)
}

func violation(code ReasonCode, format string, args ...any) *RuleViolation {
	return &RuleViolation{
		Code:   code,
		Detail: fmt.Sprintf(format, args...),
	}
}
