package models

// StatusFlag identifies a toggleable player status
type StatusFlag string

const (
	// StatusDrunk marks a player whose ability malfunctions (Drunk outsider)
	StatusDrunk StatusFlag = "drunk"

	// StatusPoisoned marks a player poisoned by another character
	StatusPoisoned StatusFlag = "poisoned"
)

// TokenKind identifies a reminder token's effect
type TokenKind string

const (
	// TokenPoisoned marks the Poisoner's current victim
	TokenPoisoned TokenKind = "poisoned"

	// TokenProtected marks the Monk's protected player for tonight
	TokenProtected TokenKind = "protected"

	// TokenMaster marks the Butler's chosen master
	TokenMaster TokenKind = "master"

	// TokenRedHerring marks the player who always reads as the demon to
	// the Fortune Teller
	TokenRedHerring TokenKind = "red_herring"

	// TokenVoteRestriction gates a player's vote on another player's vote
	TokenVoteRestriction TokenKind = "vote_restriction"

	// TokenVoteMultiplier doubles the weight of a player's vote
	TokenVoteMultiplier TokenKind = "vote_multiplier"

	// TokenAbilitySpent marks a once-per-game ability as used
	TokenAbilitySpent TokenKind = "ability_spent"

	// TokenFalseIdentity marks a player who believes they are a different
	// character (the Drunk's townsfolk token)
	TokenFalseIdentity TokenKind = "false_identity"
)

// ReminderToken is a marker attached to a player denoting an ongoing effect
type ReminderToken struct {
	// Kind is the token's effect
	Kind TokenKind `json:"kind"`

	// Source is the character that placed the token
	Source string `json:"source"`

	// TargetID optionally references another player (e.g. the Butler's
	// master, the restriction's gate)
	TargetID string `json:"target_id,omitempty"`

	// Detail carries token-specific data, such as the character the Drunk
	// believes they are
	Detail string `json:"detail,omitempty"`
}

// Player represents one seat at the table
type Player struct {
	// ID is the stable unique identifier for the player
	ID string `json:"id"`

	// Name is the display name
	Name string `json:"name"`

	// Seat is the position in clockwise order; immutable after setup
	Seat int `json:"seat"`

	// Character is the assigned character name; empty until setup completes
	Character string `json:"character"`

	// Team is the current alignment; may differ from the character default
	Team Team `json:"team"`

	// Alive is the life status
	Alive bool `json:"alive"`

	// Traveler players do not count toward the evil win condition
	Traveler bool `json:"traveler"`

	// Drunk and DrunkSource track the drunk status flag and its origin
	Drunk       bool   `json:"drunk"`
	DrunkSource string `json:"drunk_source,omitempty"`

	// Poisoned and PoisonSource track the poisoned status flag and its origin
	Poisoned     bool   `json:"poisoned"`
	PoisonSource string `json:"poison_source,omitempty"`

	// GhostVoteUsed is set once a dead player spends their single extra vote
	GhostVoteUsed bool `json:"ghost_vote_used"`

	// Tokens is the ordered set of reminder tokens on this player
	Tokens []ReminderToken `json:"tokens,omitempty"`
}

// AssignCharacter sets the player's character and alignment during setup.
// Assigning twice is an invariant breach.
func (p *Player) AssignCharacter(character string, team Team) error {
	if p.Character != "" {
		return ErrCharacterAlreadyAssigned
	}
	p.Character = character
	p.Team = team
	return nil
}

// SetStatus toggles a status flag, recording the source character when the
// flag is raised. Dead players keep their flags; they still matter for
// ability interactions.
func (p *Player) SetStatus(flag StatusFlag, active bool, source string) error {
	switch flag {
	case StatusDrunk:
		p.Drunk = active
		if active {
			p.DrunkSource = source
		} else {
			p.DrunkSource = ""
		}
	case StatusPoisoned:
		p.Poisoned = active
		if active {
			p.PoisonSource = source
		} else {
			p.PoisonSource = ""
		}
	default:
		return ErrUnknownStatusFlag
	}
	return nil
}

// AddReminderToken appends a token; an identical kind/source/target triple
// is rejected so repeated applies stay idempotent at the call site.
func (p *Player) AddReminderToken(token ReminderToken) error {
	for _, t := range p.Tokens {
		if t.Kind == token.Kind && t.Source == token.Source && t.TargetID == token.TargetID {
			return ErrDuplicateToken
		}
	}
	p.Tokens = append(p.Tokens, token)
	return nil
}

// RemoveRemindersBySource drops every token placed by the given character.
// Used when a source character dies or retargets its effect.
func (p *Player) RemoveRemindersBySource(source string) {
	kept := p.Tokens[:0]
	for _, t := range p.Tokens {
		if t.Source != source {
			kept = append(kept, t)
		}
	}
	p.Tokens = kept
	if len(p.Tokens) == 0 {
		p.Tokens = nil
	}
}

// HasToken reports whether the player carries a token of the given kind
func (p *Player) HasToken(kind TokenKind) bool {
	for _, t := range p.Tokens {
		if t.Kind == kind {
			return true
		}
	}
	return false
}

// TokenBy returns the first token of the given kind, if present
func (p *Player) TokenBy(kind TokenKind) (ReminderToken, bool) {
	for _, t := range p.Tokens {
		if t.Kind == kind {
			return t, true
		}
	}
	return ReminderToken{}, false
}

// MarkDead moves the player to dead. Status flags and tokens persist.
func (p *Player) MarkDead() error {
	if !p.Alive {
		return ErrPlayerAlreadyDead
	}
	p.Alive = false
	return nil
}

// MarkAlive resurrects a dead player. The rule name is required: moving a
// dead player to alive without an explicit resurrection rule is an
// invariant breach.
func (p *Player) MarkAlive(rule string) error {
	if rule == "" {
		return ErrNoResurrectionRule
	}
	p.Alive = true
	return nil
}

// UseGhostVote spends the dead player's one extra vote
func (p *Player) UseGhostVote() error {
	if p.Alive {
		return ErrGhostVoteAlive
	}
	if p.GhostVoteUsed {
		return ErrGhostVoteSpent
	}
	p.GhostVoteUsed = true
	return nil
}

// Incapacitated reports whether the player's ability currently malfunctions
func (p *Player) Incapacitated() bool {
	return p.Drunk || p.Poisoned
}

// ApparentCharacter returns the character the player believes they hold:
// the false-identity token's detail if present, otherwise the real one. The
// night machine wakes players by apparent character so the Drunk goes
// through the motions of their townsfolk.
func (p *Player) ApparentCharacter() string {
	if t, ok := p.TokenBy(TokenFalseIdentity); ok && t.Detail != "" {
		return t.Detail
	}
	return p.Character
}
