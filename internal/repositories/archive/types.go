package archive

import (
	"github.com/ravenshollow/grimoire/internal/models"
)

// AppendDecisionInput holds the parameters for AppendDecision
type AppendDecisionInput struct {
	// GameID identifies the game the decision belongs to
	GameID string

	// Decision is the record to archive
	Decision *models.DecisionRecord
}

// AppendEventInput holds the parameters for AppendEvent
type AppendEventInput struct {
	// GameID identifies the game the event belongs to
	GameID string

	// Event is the public event to archive
	Event *models.PublicEvent
}

// ListDecisionsInput holds the parameters for ListDecisions
type ListDecisionsInput struct {
	// GameID identifies the game
	GameID string
}

// ListEventsInput holds the parameters for ListEvents
type ListEventsInput struct {
	// GameID identifies the game
	GameID string

	// Day filters to a single day when non-negative; pass -1 for all days
	Day int
}
