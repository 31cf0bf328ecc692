package models

import (
	"sort"
	"time"
)

// Phase represents the current state-machine phase
type Phase string

const (
	PhaseSetup      Phase = "setup"
	PhaseFirstNight Phase = "first_night"
	PhaseDay        Phase = "day"
	PhaseNomination Phase = "nomination"
	PhaseVoting     Phase = "voting"
	PhaseExecution  Phase = "execution"
	PhaseNight      Phase = "night"
	PhaseEnded      Phase = "ended"
)

// Winner identifies the winning team once a game has ended
type Winner string

const (
	WinnerNone Winner = ""
	GoodWin    Winner = "good_win"
	EvilWin    Winner = "evil_win"
)

// Vote is a single cast vote on a nomination
type Vote struct {
	// VoterID is the voting player
	VoterID string `json:"voter_id"`

	// InFavor is true for a raised hand
	InFavor bool `json:"in_favor"`

	// Ghost marks a dead player's one-time vote
	Ghost bool `json:"ghost"`
}

// Nomination records one nomination and its vote
type Nomination struct {
	// Day the nomination happened on
	Day int `json:"day"`

	// NominatorID is the nominating player
	NominatorID string `json:"nominator_id"`

	// NomineeID is the player put on the block
	NomineeID string `json:"nominee_id"`

	// Votes in seat order, starting clockwise from the nominee
	Votes []Vote `json:"votes,omitempty"`

	// Tally is the effective vote count after token transforms
	Tally int `json:"tally"`

	// Executed is true if this nomination led to an execution
	Executed bool `json:"executed"`
}

// GameState is the full mutable state of one game. It is owned exclusively
// by that game's night machine; every other component only reads it.
type GameState struct {
	// ID is the unique game identifier
	ID string `json:"id"`

	// Phase is the current state-machine phase
	Phase Phase `json:"phase"`

	// Day is the day counter; 0 until the first dawn
	Day int `json:"day"`

	// Winner is set exactly once, when the game ends
	Winner Winner `json:"winner"`

	// WinReason is the narration-ready reason for the result
	WinReason string `json:"win_reason,omitempty"`

	// Script is the set of character names available in this game
	Script []string `json:"script"`

	// Bluffs are the three good characters shown to the demon as decoys
	Bluffs []string `json:"bluffs,omitempty"`

	// Players in seat order
	Players []*Player `json:"players"`

	// Nominations is the full nomination history; today's entries are the
	// ones whose Day matches the current day
	Nominations []*Nomination `json:"nominations,omitempty"`

	// ExecutionsToday enforces the one-execution-per-day rule
	ExecutionsToday int `json:"executions_today"`

	// ExecutedToday is the player executed today, consumed by the
	// Undertaker on the following night
	ExecutedToday string `json:"executed_today,omitempty"`

	// Decisions is the append-only storyteller decision log
	Decisions []*DecisionRecord `json:"decisions,omitempty"`

	// Events is the append-only public event log
	Events []*PublicEvent `json:"events,omitempty"`

	// CreatedAt is when the game was created
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the state last changed
	UpdatedAt time.Time `json:"updated_at"`
}

// PlayerByID returns the player with the given id, or nil
func (g *GameState) PlayerByID(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PlayerWithCharacter returns the first player holding the given character,
// or nil. Character assignments are unique, so first is only.
func (g *GameState) PlayerWithCharacter(character string) *Player {
	for _, p := range g.Players {
		if p.Character == character {
			return p
		}
	}
	return nil
}

// LivingPlayers returns all living players in seat order
func (g *GameState) LivingPlayers() []*Player {
	var living []*Player
	for _, p := range g.seated() {
		if p.Alive {
			living = append(living, p)
		}
	}
	return living
}

// LivingNonTravelers returns living players who count toward the evil win
// condition
func (g *GameState) LivingNonTravelers() []*Player {
	var living []*Player
	for _, p := range g.Players {
		if p.Alive && !p.Traveler {
			living = append(living, p)
		}
	}
	return living
}

// LivingByTeam returns the number of living players on the given team
func (g *GameState) LivingByTeam(team Team) int {
	count := 0
	for _, p := range g.Players {
		if p.Alive && p.Team == team {
			count++
		}
	}
	return count
}

// Neighbors returns the living left and right neighbors of a player in seat
// order, wrapping around the circle. The player itself may be dead (the
// Empath's neighbors are always the nearest living players).
func (g *GameState) Neighbors(playerID string) (left, right *Player) {
	living := g.LivingPlayers()
	self := g.PlayerByID(playerID)
	if self == nil || len(living) == 0 {
		return nil, nil
	}

	// Walk the full seat circle from the player's seat in both directions
	// until a living player is found.
	seated := g.seated()
	idx := -1
	for i, p := range seated {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, nil
	}

	n := len(seated)
	for step := 1; step < n; step++ {
		p := seated[((idx-step)%n+n)%n]
		if p.Alive && p.ID != playerID {
			left = p
			break
		}
	}
	for step := 1; step < n; step++ {
		p := seated[(idx+step)%n]
		if p.Alive && p.ID != playerID {
			right = p
			break
		}
	}
	return left, right
}

// NominationsToday returns today's nominations
func (g *GameState) NominationsToday() []*Nomination {
	var today []*Nomination
	for _, n := range g.Nominations {
		if n.Day == g.Day {
			today = append(today, n)
		}
	}
	return today
}

// HasNominatedToday reports whether the player already made a nomination today
func (g *GameState) HasNominatedToday(playerID string) bool {
	for _, n := range g.NominationsToday() {
		if n.NominatorID == playerID {
			return true
		}
	}
	return false
}

// WasNominatedToday reports whether the player was already put on the block
// today
func (g *GameState) WasNominatedToday(playerID string) bool {
	for _, n := range g.NominationsToday() {
		if n.NomineeID == playerID {
			return true
		}
	}
	return false
}

// Ended reports whether a winner has been decided
func (g *GameState) Ended() bool {
	return g.Winner != WinnerNone
}

// seated returns players sorted by seat position
func (g *GameState) seated() []*Player {
	seated := make([]*Player, len(g.Players))
	copy(seated, g.Players)
	sort.Slice(seated, func(i, j int) bool {
		return seated[i].Seat < seated[j].Seat
	})
	return seated
}
