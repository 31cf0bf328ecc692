package models

// Team represents a player's alignment
type Team string

const (
	// TeamGood is the townsfolk/outsider alignment
	TeamGood Team = "good"

	// TeamEvil is the minion/demon alignment
	TeamEvil Team = "evil"
)

// Category represents a character's role category
type Category string

const (
	CategoryTownsfolk Category = "townsfolk"
	CategoryOutsider  Category = "outsider"
	CategoryMinion    Category = "minion"
	CategoryDemon     Category = "demon"
)

// AbilityKind tags how a character's ability is resolved. The night machine
// dispatches on this tag rather than on the character name.
type AbilityKind string

const (
	// AbilityInfoReveal grants information that may be corrupted
	AbilityInfoReveal AbilityKind = "info_reveal"

	// AbilityTargetedAction mutates state (kill, protect, poison, choose)
	AbilityTargetedAction AbilityKind = "targeted_action"

	// AbilityPassive never wakes; the rules consult it directly
	AbilityPassive AbilityKind = "passive"

	// AbilitySetupModifier alters setup (bag composition, false identity)
	AbilitySetupModifier AbilityKind = "setup_modifier"
)

// Character is one row of the read-only catalog
type Character struct {
	// Name is the unique character name
	Name string `json:"name"`

	// Team is the default alignment for holders of this character
	Team Team `json:"team"`

	// Category is the role category
	Category Category `json:"category"`

	// Ability tags how the night machine resolves this character
	Ability AbilityKind `json:"ability"`

	// Targets is the number of players the holder chooses when woken
	Targets int `json:"targets"`

	// FirstNightRank orders first-night resolution; 0 means the character
	// does not act on the first night
	FirstNightRank int `json:"first_night_rank"`

	// OtherNightRank orders resolution on every later night; 0 means the
	// character does not act on those nights
	OtherNightRank int `json:"other_night_rank"`

	// WakesOnDeath marks death-triggered abilities (e.g. Ravenkeeper);
	// these are pushed to the front of the pending queue when the holder
	// dies mid-night
	WakesOnDeath bool `json:"wakes_on_death"`
}

// IsGood reports whether the character's default alignment is good
func (c *Character) IsGood() bool {
	return c.Team == TeamGood
}

// ActsOnNight reports whether the character appears in the order for the
// given night kind
func (c *Character) ActsOnNight(firstNight bool) bool {
	if firstNight {
		return c.FirstNightRank > 0
	}
	return c.OtherNightRank > 0
}

// Rank returns the night-order rank for the given night kind
func (c *Character) Rank(firstNight bool) int {
	if firstNight {
		return c.FirstNightRank
	}
	return c.OtherNightRank
}
