package snapshot

import (
	"github.com/ravenshollow/grimoire/internal/models"
)

// SaveSnapshotInput holds the parameters for SaveSnapshot
type SaveSnapshotInput struct {
	// Game is the full state to persist
	Game *models.GameState
}

// GetSnapshotInput holds the parameters for GetSnapshot
type GetSnapshotInput struct {
	// GameID identifies the game
	GameID string
}

// DeleteSnapshotInput holds the parameters for DeleteSnapshot
type DeleteSnapshotInput struct {
	// GameID identifies the game
	GameID string
}
