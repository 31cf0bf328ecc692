package models

// StateError is returned when a mutation would break an Entity Model
// invariant. It indicates a caller or integration bug, not a player mistake;
// mutators fail atomically before touching any state.
type StateError string

// Error implements the error interface
func (e StateError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrCharacterAlreadyAssigned StateError = "player already has a character assigned"
	ErrCharacterUnknown         StateError = "character is not in the catalog"
	ErrPlayerAlreadyDead        StateError = "player is already dead"
	ErrNoResurrectionRule       StateError = "dead player cannot return to life without an explicit resurrection rule"
	ErrGhostVoteSpent           StateError = "ghost vote has already been used"
	ErrGhostVoteAlive           StateError = "living players do not use ghost votes"
	ErrSeatTaken                StateError = "seat is already occupied"
	ErrSeatOrderFrozen          StateError = "seat order is immutable after setup"
	ErrUnknownStatusFlag        StateError = "unknown status flag"
	ErrPlayerNotFound           StateError = "player not found"
	ErrDuplicateToken           StateError = "identical reminder token already present"
)
