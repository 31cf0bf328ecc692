package night

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/ravenshollow/grimoire/internal/services/night Service,PlayerInput,Notifier,PlatformSync

import (
	"context"

	"github.com/ravenshollow/grimoire/internal/models"
)

// Service is the night order machine: the phase state machine that owns all
// GameState mutation and orchestrates setup, nights, days and votes
type Service interface {
	// CreateGame seats the players, assigns characters and prepares the
	// first night
	CreateGame(ctx context.Context, input *CreateGameInput) (*CreateGameOutput, error)

	// RunNight resolves one full night in night order and ends at dawn
	RunNight(ctx context.Context, input *RunNightInput) (*RunNightOutput, error)

	// Nominate puts a player on the block
	Nominate(ctx context.Context, input *NominateInput) (*NominateOutput, error)

	// ConductVote collects votes on today's open nomination and executes
	// when the threshold is reached
	ConductVote(ctx context.Context, input *ConductVoteInput) (*ConductVoteOutput, error)

	// SlayerShot resolves the Slayer's public once-per-game shot
	SlayerShot(ctx context.Context, input *SlayerShotInput) (*SlayerShotOutput, error)

	// EndDay closes nominations, checks the Mayor's condition and moves to
	// night
	EndDay(ctx context.Context, input *EndDayInput) (*EndDayOutput, error)

	// Override records a manual target choice that preempts the player's
	// next prompt; applying the same override twice is a no-op
	Override(ctx context.Context, input *OverrideInput) error

	// ApplyCorrection re-runs an external state correction through the
	// entity model's mutators, returning ErrDesync on contradiction
	ApplyCorrection(ctx context.Context, input *ApplyCorrectionInput) error

	// ExportSnapshot returns the persisted full state of a game
	ExportSnapshot(ctx context.Context, input *ExportSnapshotInput) (*models.GameState, error)

	// ImportSnapshot replaces a game's state wholesale and rebuilds the
	// narrative context from its logs
	ImportSnapshot(ctx context.Context, input *ImportSnapshotInput) error
}

// PlayerInput collects choices from players. Implementations block until
// the player answers or the context expires.
type PlayerInput interface {
	// RequestTargets asks a player to choose ability targets
	RequestTargets(ctx context.Context, input *RequestTargetsInput) (*RequestTargetsOutput, error)

	// RequestVote asks a player for their vote on a nomination
	RequestVote(ctx context.Context, input *RequestVoteInput) (*RequestVoteOutput, error)
}

// Notifier delivers information to players. Failures are logged, never
// fatal to adjudication.
type Notifier interface {
	// DeliverPrivateInfo sends information only its recipient may see
	DeliverPrivateInfo(ctx context.Context, info *PrivateInfo) error

	// AnnouncePublic broadcasts a public event to the table
	AnnouncePublic(ctx context.Context, event *models.PublicEvent) error
}

// PlatformSync mirrors the normalized event stream to an external platform
type PlatformSync interface {
	// Publish pushes one event to the platform
	Publish(ctx context.Context, event *SyncEvent) error
}
