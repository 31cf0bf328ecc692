package archive

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/ravenshollow/grimoire/internal/repositories/archive Repository

import (
	"context"

	"github.com/ravenshollow/grimoire/internal/models"
)

// Repository is the append-only archive of storyteller decisions and public
// events. Rows are written through after every append and never updated.
type Repository interface {
	// AppendDecision archives one decision record
	AppendDecision(ctx context.Context, input *AppendDecisionInput) error

	// AppendEvent archives one public event
	AppendEvent(ctx context.Context, input *AppendEventInput) error

	// ListDecisions retrieves a game's decision log in append order
	ListDecisions(ctx context.Context, input *ListDecisionsInput) ([]*models.DecisionRecord, error)

	// ListEvents retrieves a game's public events, optionally for one day
	ListEvents(ctx context.Context, input *ListEventsInput) ([]*models.PublicEvent, error)

	// Close releases the underlying database
	Close() error
}
