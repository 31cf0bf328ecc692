package storyteller

// EngineError is a custom error type for decision-engine errors
type EngineError string

// Error implements the error interface
func (e EngineError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig       EngineError = "config cannot be nil"
	ErrNilSampler      EngineError = "sampler cannot be nil"
	ErrNilTracker      EngineError = "tracker cannot be nil"
	ErrNilClock        EngineError = "clock cannot be nil"
	ErrNilUUID         EngineError = "UUID generator cannot be nil"
	ErrNilGame         EngineError = "game state cannot be nil"
	ErrNilActor        EngineError = "actor cannot be nil"
	ErrUnknownHandler  EngineError = "no handler registered for character"
	ErrMissingTargets  EngineError = "ability requires targets"
	ErrUnknownTarget   EngineError = "target player not found"
	ErrIllegalTarget   EngineError = "target not allowed for this ability"
	ErrNoLegalTargets  EngineError = "no legal targets available"
)
