package snapshot

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/ravenshollow/grimoire/internal/repositories/snapshot Repository

import (
	"context"

	"github.com/ravenshollow/grimoire/internal/models"
)

// Repository defines the interface for game snapshot persistence. A snapshot
// is the full GameState; saving and loading one must round-trip exactly.
type Repository interface {
	// SaveSnapshot persists the full state of a game
	SaveSnapshot(ctx context.Context, input *SaveSnapshotInput) error

	// GetSnapshot retrieves a game's state by ID
	GetSnapshot(ctx context.Context, input *GetSnapshotInput) (*models.GameState, error)

	// DeleteSnapshot removes a game's state
	DeleteSnapshot(ctx context.Context, input *DeleteSnapshotInput) error

	// GetActiveGames retrieves the IDs of all unfinished games
	GetActiveGames(ctx context.Context) ([]string, error)
}
