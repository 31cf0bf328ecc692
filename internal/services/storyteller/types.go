package storyteller

import (
	"github.com/ravenshollow/grimoire/internal/models"
)

// EffectKind identifies a state mutation decided by the engine. The night
// machine owns the entity model, so effects are returned for it to apply,
// never applied here.
type EffectKind string

const (
	// EffectKill marks a player for death
	EffectKill EffectKind = "kill"

	// EffectProtect places tonight's protection token
	EffectProtect EffectKind = "protect"

	// EffectPoison moves the poisoner's token to a new victim
	EffectPoison EffectKind = "poison"

	// EffectSetMaster rebinds the Butler's master and vote restriction
	EffectSetMaster EffectKind = "set_master"

	// EffectBecomeDemon promotes a minion to the Imp (star-pass or
	// Scarlet Woman)
	EffectBecomeDemon EffectKind = "become_demon"
)

// Effect is one mutation the machine should apply, in order
type Effect struct {
	// Kind of mutation
	Kind EffectKind

	// TargetID is the affected player
	TargetID string

	// Source is the character responsible
	Source string
}

// ResolveInput describes one ability trigger to adjudicate
type ResolveInput struct {
	// Game is the shared entity model (read-only for the engine)
	Game *models.GameState

	// Actor is the waking player
	Actor *models.Player

	// Character is the ability being resolved; for the Drunk this is the
	// apparent townsfolk, not the Drunk itself
	Character string

	// TargetIDs are the actor's chosen targets, if the ability takes any
	TargetIDs []string

	// FirstNight is true during the first night
	FirstNight bool
}

// ResolveOutput is the engine's ruling
type ResolveOutput struct {
	// Record is the appended-ready decision record
	Record *models.DecisionRecord

	// Delivery is the private information to forward to the notifier;
	// empty when the ability grants none
	Delivery string

	// Effects are mutations for the machine to apply, in order
	Effects []Effect
}

// SelectKillInput asks the engine to choose the demon's victim when the
// selection is delegated to storyteller discretion
type SelectKillInput struct {
	Game *models.GameState

	// DemonID is the acting demon
	DemonID string
}

// SelectKillOutput is the chosen victim
type SelectKillOutput struct {
	TargetID string

	// Reasoning explains the strategic choice
	Reasoning string
}

// ChooseBluffsInput asks for the three demon bluffs at setup
type ChooseBluffsInput struct {
	Game *models.GameState
}

// ChooseBluffsOutput carries the chosen bluff characters
type ChooseBluffsOutput struct {
	Bluffs []string
}
