package night

import (
	"github.com/ravenshollow/grimoire/internal/models"
)

// Seat is one player joining a new game, in clockwise order
type Seat struct {
	// PlayerID is the stable platform identifier
	PlayerID string

	// Name is the display name
	Name string
}

// CreateGameInput holds the parameters for CreateGame
type CreateGameInput struct {
	// Seats in clockwise order; 5 to 15 players
	Seats []Seat
}

// CreateGameOutput is the result of CreateGame
type CreateGameOutput struct {
	// Game is the fully set up state, ready for the first night
	Game *models.GameState
}

// RunNightInput holds the parameters for RunNight
type RunNightInput struct {
	// GameID identifies the game
	GameID string
}

// RunNightOutput is the result of one full night
type RunNightOutput struct {
	// Game is the state at dawn
	Game *models.GameState

	// Deaths are the players who died during the night, in order
	Deaths []string

	// Ended is true if the night decided the game
	Ended bool
}

// NominateInput holds the parameters for Nominate
type NominateInput struct {
	GameID      string
	NominatorID string
	NomineeID   string
}

// NominateOutput is the result of Nominate
type NominateOutput struct {
	Game *models.GameState

	// Nomination is the recorded nomination
	Nomination *models.Nomination

	// VirginTriggered is true when the nomination executed the nominator
	// on the spot
	VirginTriggered bool
}

// ConductVoteInput holds the parameters for ConductVote
type ConductVoteInput struct {
	GameID string

	// NomineeID selects today's open nomination to vote on
	NomineeID string
}

// ConductVoteOutput is the result of ConductVote
type ConductVoteOutput struct {
	Game *models.GameState

	// Nomination carries the collected votes and final tally
	Nomination *models.Nomination

	// Threshold is the tally needed to execute
	Threshold int

	// Executed is true when the vote led to an execution
	Executed bool
}

// SlayerShotInput holds the parameters for SlayerShot
type SlayerShotInput struct {
	GameID   string
	SlayerID string
	TargetID string
}

// SlayerShotOutput is the result of SlayerShot
type SlayerShotOutput struct {
	Game *models.GameState

	// Killed is true when the shot felled the demon
	Killed bool
}

// EndDayInput holds the parameters for EndDay
type EndDayInput struct {
	GameID string
}

// EndDayOutput is the result of EndDay
type EndDayOutput struct {
	Game *models.GameState

	// Ended is true when dusk decided the game (Mayor win)
	Ended bool
}

// OverrideInput holds the parameters for Override: a manual target choice
// that preempts the player prompt for the given player's next wake
type OverrideInput struct {
	GameID    string
	PlayerID  string
	TargetIDs []string
}

// CorrectionKind identifies the mutation an external correction requests
type CorrectionKind string

const (
	CorrectionMarkDead   CorrectionKind = "mark_dead"
	CorrectionMarkAlive  CorrectionKind = "mark_alive"
	CorrectionSetStatus  CorrectionKind = "set_status"
	CorrectionSpendGhost CorrectionKind = "spend_ghost_vote"
)

// ApplyCorrectionInput holds the parameters for ApplyCorrection
type ApplyCorrectionInput struct {
	GameID   string
	Kind     CorrectionKind
	PlayerID string

	// Status and Active apply to CorrectionSetStatus
	Status models.StatusFlag
	Active bool

	// Source is the character responsible, for status corrections
	Source string

	// Rule names the resurrection rule for CorrectionMarkAlive
	Rule string
}

// ExportSnapshotInput holds the parameters for ExportSnapshot
type ExportSnapshotInput struct {
	GameID string
}

// ImportSnapshotInput holds the parameters for ImportSnapshot
type ImportSnapshotInput struct {
	Game *models.GameState
}

// RequestTargetsInput asks a player to choose ability targets
type RequestTargetsInput struct {
	GameID   string
	PlayerID string

	// Character the player is acting as
	Character string

	// Count of targets required
	Count int
}

// RequestTargetsOutput carries the chosen targets
type RequestTargetsOutput struct {
	TargetIDs []string
}

// RequestVoteInput asks a player for their vote on a nomination
type RequestVoteInput struct {
	GameID    string
	VoterID   string
	NomineeID string
}

// RequestVoteOutput carries the cast vote
type RequestVoteOutput struct {
	InFavor bool
}

// PrivateInfo is a piece of information delivered to a single player
type PrivateInfo struct {
	GameID   string
	PlayerID string
	Message  string
}

// SyncEvent is one entry of the normalized stream pushed to the platform
type SyncEvent struct {
	GameID string

	// Event is the public event being mirrored
	Event *models.PublicEvent
}
