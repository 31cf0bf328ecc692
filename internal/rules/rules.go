// Package rules holds the stateless predicates of the adjudicator:
// nomination legality, vote tallying, execution thresholds and win
// conditions. Every function reads a GameState snapshot and mutates nothing.
package rules

import (
	"github.com/ravenshollow/grimoire/internal/models"
	"github.com/ravenshollow/grimoire/internal/script"
)

// CanNominate reports whether nominator may put nominee on the block today.
// A nil return means the nomination is legal.
func CanNominate(g *models.GameState, nominatorID, nomineeID string) *RuleViolation {
	if g.Ended() {
		return violation(ReasonGameEnded, "the game is over")
	}

	nominator := g.PlayerByID(nominatorID)
	if nominator == nil {
		return violation(ReasonUnknownPlayer, "nominator %q not found", nominatorID)
	}
	nominee := g.PlayerByID(nomineeID)
	if nominee == nil {
		return violation(ReasonUnknownPlayer, "nominee %q not found", nomineeID)
	}

	if !nominator.Alive {
		return violation(ReasonNominatorDead, "%s is dead and cannot nominate", nominator.Name)
	}
	if !nominee.Alive {
		return violation(ReasonNomineeDead, "%s is dead and cannot be nominated", nominee.Name)
	}
	if g.HasNominatedToday(nominatorID) {
		return violation(ReasonNominatorSpent, "%s has already nominated today", nominator.Name)
	}
	if g.WasNominatedToday(nomineeID) {
		return violation(ReasonNomineeAlreadyOnTrial, "%s has already been nominated today", nominee.Name)
	}
	if g.ExecutionsToday > 0 {
		return violation(ReasonExecutionLimit, "an execution has already happened today")
	}

	return nil
}

// TallyVotes computes the effective vote count for a nomination. One vote
// per living voter in favor, one ghost vote per dead voter in favor who has
// not spent it. Token-driven transforms are applied afterwards: a
// vote-restriction token zeroes the vote unless its gate player also voted
// in favor, a vote-multiplier token doubles it. The snapshot is not
// mutated; spending ghost votes is the caller's job.
func TallyVotes(g *models.GameState, votes []models.Vote) int {
	inFavor := make(map[string]bool, len(votes))
	for _, v := range votes {
		if v.InFavor {
			inFavor[v.VoterID] = true
		}
	}

	tally := 0
	for _, v := range votes {
		if !v.InFavor {
			continue
		}
		voter := g.PlayerByID(v.VoterID)
		if voter == nil {
			continue
		}
		if !voter.Alive && voter.GhostVoteUsed {
			continue
		}

		weight := 1
		if t, ok := voter.TokenBy(models.TokenVoteRestriction); ok {
			if t.TargetID == "" || !inFavor[t.TargetID] {
				weight = 0
			}
		}
		if voter.HasToken(models.TokenVoteMultiplier) {
			weight *= 2
		}
		tally += weight
	}
	return tally
}

// ComputeThreshold returns the minimum effective vote count that executes:
// strictly more than half the living players. A tie with exactly half never
// executes.
func ComputeThreshold(g *models.GameState) int {
	return len(g.LivingPlayers())/2 + 1
}

// ExecutionReached reports whether a tally meets the execution threshold
func ExecutionReached(g *models.GameState, tally int) bool {
	return tally >= ComputeThreshold(g)
}

// CheckWinCondition evaluates terminal conditions over the current state.
// Deaths must already be fully applied to the entity model before calling.
// Exception roles are checked before the generic majority rule, and an
// already-ended game never changes winner.
func CheckWinCondition(g *models.GameState) (models.Winner, string) {
	if g.Ended() {
		return g.Winner, g.WinReason
	}

	// Saint: a wrongful execution ends the game on the spot, regardless of
	// anything else on the board.
	if executed := g.PlayerByID(g.ExecutedToday); executed != nil {
		if executed.Character == script.Saint && executed.Team == models.TeamGood {
			return models.EvilWin, "the town executed the Saint"
		}
	}

	// Good wins the moment the demon is dead. Scarlet Woman promotion is
	// applied before this check, so a standing demon means no win.
	demonAlive := false
	demonSeen := false
	for _, p := range g.Players {
		if script.IsDemon(p.Character) {
			demonSeen = true
			if p.Alive {
				demonAlive = true
			}
		}
	}
	if demonSeen && !demonAlive {
		return models.GoodWin, "the demon has been slain"
	}

	if len(g.LivingNonTravelers()) <= 2 {
		return models.EvilWin, "evil overwhelms the town"
	}

	return models.WinnerNone, ""
}

// CheckDayEndWin evaluates the Mayor's condition at dusk: exactly three
// players alive and no execution today. A drunk or poisoned Mayor has no
// ability at that moment.
func CheckDayEndWin(g *models.GameState) (models.Winner, string) {
	if g.Ended() {
		return g.Winner, g.WinReason
	}
	if g.ExecutionsToday > 0 || len(g.LivingPlayers()) != 3 {
		return models.WinnerNone, ""
	}
	mayor := g.PlayerWithCharacter(script.Mayor)
	if mayor == nil || !mayor.Alive || mayor.Incapacitated() {
		return models.WinnerNone, ""
	}
	return models.GoodWin, "the Mayor sees the town through a day without bloodshed"
}

// ProtectedFromDemon reports whether the demon's kill bounces off the
// target tonight: the Soldier's passive, or a standing Monk protection
// token. A poisoned Monk never places the token, so its absence already
// encodes that failure.
func ProtectedFromDemon(g *models.GameState, targetID string) bool {
	target := g.PlayerByID(targetID)
	if target == nil {
		return false
	}
	if target.Character == script.Soldier && !target.Incapacitated() {
		return true
	}
	return target.HasToken(models.TokenProtected)
}
