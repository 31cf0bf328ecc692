package storyteller

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/ravenshollow/grimoire/internal/services/storyteller Service

// Service is the decision engine: it computes the true answer for an
// ability, decides whether to corrupt it, and records the ruling
type Service interface {
	// Resolve adjudicates one ability trigger
	Resolve(ctx context.Context, input *ResolveInput) (*ResolveOutput, error)

	// SelectKill chooses the demon's victim when the role leaves the
	// choice to storyteller discretion
	SelectKill(ctx context.Context, input *SelectKillInput) (*SelectKillOutput, error)

	// ChooseBluffs draws the three demon bluffs at setup
	ChooseBluffs(ctx context.Context, input *ChooseBluffsInput) (*ChooseBluffsOutput, error)
}
