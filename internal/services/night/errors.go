package night

// MachineError is a custom error type for night-machine errors
type MachineError string

// Error implements the error interface
func (e MachineError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig      MachineError = "config cannot be nil"
	ErrNilRepository  MachineError = "snapshot repository cannot be nil"
	ErrNilEngine      MachineError = "decision engine cannot be nil"
	ErrNilPlayerInput MachineError = "player input cannot be nil"
	ErrNilNotifier    MachineError = "notifier cannot be nil"
	ErrNilTracker     MachineError = "tracker cannot be nil"
	ErrNilSampler     MachineError = "sampler cannot be nil"
	ErrNilClock       MachineError = "clock cannot be nil"
	ErrNilUUID        MachineError = "UUID generator cannot be nil"
	ErrNilGame        MachineError = "game state cannot be nil"

	// ErrWrongPhase is returned when an operation is attempted outside the
	// phase it belongs to
	ErrWrongPhase MachineError = "operation not valid in the current phase"

	// ErrGameEnded is returned when an operation reaches a finished game
	ErrGameEnded MachineError = "the game is over"

	// ErrTimedOut marks a player-input deadline expiry; the machine resolves
	// it to a logged default, callers of collaborators surface it
	ErrTimedOut MachineError = "player input timed out"

	// ErrDesync is returned when an external correction contradicts the
	// local entity model
	ErrDesync MachineError = "platform state contradicts the local model"

	ErrUnknownPlayer      MachineError = "player not found"
	ErrUnknownCorrection  MachineError = "unknown correction kind"
	ErrAbilitySpent       MachineError = "ability already spent"
	ErrWrongCharacter     MachineError = "player does not hold that ability"
	ErrNoOpenNomination   MachineError = "no nomination awaiting a vote"
	ErrUnsupportedPlayers MachineError = "unsupported player count"
)
