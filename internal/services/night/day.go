package night

import (
	"context"
	"errors"
	"fmt"

	"github.com/ravenshollow/grimoire/internal/models"
	"github.com/ravenshollow/grimoire/internal/rules"
	"github.com/ravenshollow/grimoire/internal/script"
)

// Nominate puts a player on the block. The nomination itself can end a life:
// nominating a sober Virgin as a townsfolk executes the nominator on the
// spot, consuming the day's execution.
func (s *service) Nominate(ctx context.Context, input *NominateInput) (*NominateOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, ErrNilGame
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.loadGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}
	if g.Ended() {
		return nil, ErrGameEnded
	}
	if g.Phase != models.PhaseDay && g.Phase != models.PhaseNomination {
		return nil, fmt.Errorf("%w: %s", ErrWrongPhase, g.Phase)
	}

	if v := rules.CanNominate(g, input.NominatorID, input.NomineeID); v != nil {
		return nil, v
	}

	nominator := g.PlayerByID(input.NominatorID)
	nominee := g.PlayerByID(input.NomineeID)

	nom := &models.Nomination{
		Day:         g.Day,
		NominatorID: nominator.ID,
		NomineeID:   nominee.ID,
	}
	g.Nominations = append(g.Nominations, nom)
	g.Phase = models.PhaseNomination

	s.appendEvent(ctx, g, &models.PublicEvent{
		Type:     models.EventNomination,
		ActorID:  nominator.ID,
		TargetID: nominee.ID,
		Message:  fmt.Sprintf("%s nominates %s", nominator.Name, nominee.Name),
	}, true)

	virginTriggered, err := s.maybeTriggerVirgin(ctx, g, nominator, nominee)
	if err != nil {
		return nil, err
	}
	if virginTriggered {
		if !s.checkEnd(ctx, g) {
			g.Phase = models.PhaseDay
		}
	}

	if err := s.saveGame(ctx, g); err != nil {
		return nil, err
	}

	return &NominateOutput{
		Game:            g,
		Nomination:      nom,
		VirginTriggered: virginTriggered,
	}, nil
}

// maybeTriggerVirgin applies the Virgin's once-per-game trigger. The ability
// is spent by the first nomination whether or not it fires; a drunk or
// poisoned Virgin spends it for nothing.
func (s *service) maybeTriggerVirgin(ctx context.Context, g *models.GameState, nominator, nominee *models.Player) (bool, error) {
	if nominee.Character != script.Virgin || nominee.HasToken(models.TokenAbilitySpent) {
		return false, nil
	}
	if err := nominee.AddReminderToken(models.ReminderToken{
		Kind:   models.TokenAbilitySpent,
		Source: script.Virgin,
	}); err != nil {
		return false, err
	}
	if nominee.Incapacitated() || !script.IsTownsfolk(nominator.Character) {
		return false, nil
	}

	died, err := s.killPlayer(ctx, g, nominator.ID)
	if err != nil || !died {
		return false, err
	}
	g.ExecutionsToday++
	g.ExecutedToday = nominator.ID

	s.appendEvent(ctx, g, &models.PublicEvent{
		Type:     models.EventExecution,
		ActorID:  nominee.ID,
		TargetID: nominator.ID,
		Message:  fmt.Sprintf("%s is executed the moment they nominate %s", nominator.Name, nominee.Name),
	}, true)
	return true, nil
}

// ConductVote collects votes on today's open nomination, applies the token
// transforms through the rule validator and executes on a strict majority.
// Ghost votes spent in favor are consumed even when the vote fails.
func (s *service) ConductVote(ctx context.Context, input *ConductVoteInput) (*ConductVoteOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, ErrNilGame
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.loadGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}
	if g.Ended() {
		return nil, ErrGameEnded
	}
	if g.Phase != models.PhaseNomination {
		return nil, fmt.Errorf("%w: %s", ErrWrongPhase, g.Phase)
	}

	nom := s.openNomination(g, input.NomineeID)
	if nom == nil {
		return nil, ErrNoOpenNomination
	}
	nominee := g.PlayerByID(nom.NomineeID)

	g.Phase = models.PhaseVoting

	votes, err := s.collectVotes(ctx, g, nom)
	if err != nil {
		return nil, err
	}
	nom.Votes = votes
	nom.Tally = rules.TallyVotes(g, votes)

	// Ghost votes are spent by raising the hand, win or lose.
	for _, v := range votes {
		if !v.Ghost || !v.InFavor {
			continue
		}
		voter := g.PlayerByID(v.VoterID)
		if voter == nil {
			continue
		}
		if err := voter.UseGhostVote(); err != nil {
			return nil, err
		}
	}

	threshold := rules.ComputeThreshold(g)
	executed := rules.ExecutionReached(g, nom.Tally) && g.ExecutionsToday == 0

	s.appendEvent(ctx, g, &models.PublicEvent{
		Type:     models.EventVoteResult,
		TargetID: nominee.ID,
		Message:  fmt.Sprintf("%d votes against %s; %d needed", nom.Tally, nominee.Name, threshold),
	}, true)

	if executed {
		g.Phase = models.PhaseExecution
		nom.Executed = true
		died, err := s.killPlayer(ctx, g, nominee.ID)
		if err != nil {
			return nil, err
		}
		if died {
			g.ExecutionsToday++
			g.ExecutedToday = nominee.ID
			s.appendEvent(ctx, g, &models.PublicEvent{
				Type:     models.EventExecution,
				TargetID: nominee.ID,
				Message:  fmt.Sprintf("%s is executed", nominee.Name),
			}, true)
		}
	}

	if !s.checkEnd(ctx, g) {
		g.Phase = models.PhaseDay
	}

	if err := s.saveGame(ctx, g); err != nil {
		return nil, err
	}

	return &ConductVoteOutput{
		Game:       g,
		Nomination: nom,
		Threshold:  threshold,
		Executed:   executed,
	}, nil
}

// openNomination finds today's nomination for the nominee that has not been
// voted yet
func (s *service) openNomination(g *models.GameState, nomineeID string) *models.Nomination {
	for _, n := range g.NominationsToday() {
		if n.NomineeID == nomineeID && n.Votes == nil {
			return n
		}
	}
	return nil
}

// collectVotes polls the table in seat order starting clockwise from the
// nominee. Living players always vote; dead players are only asked while
// their ghost vote is unspent. A timed-out voter keeps their hand down.
func (s *service) collectVotes(ctx context.Context, g *models.GameState, nom *models.Nomination) ([]models.Vote, error) {
	order := s.votingOrder(g, nom.NomineeID)

	var votes []models.Vote
	for _, voter := range order {
		if !voter.Alive && voter.GhostVoteUsed {
			continue
		}

		inFavor, err := s.requestVote(ctx, &RequestVoteInput{
			GameID:    g.ID,
			VoterID:   voter.ID,
			NomineeID: nom.NomineeID,
		})
		if err != nil {
			if !errors.Is(err, ErrTimedOut) {
				return nil, err
			}
			s.appendEvent(ctx, g, &models.PublicEvent{
				Type:    models.EventTimeoutSkip,
				ActorID: voter.ID,
				Message: fmt.Sprintf("%s did not vote in time", voter.Name),
			}, false)
			inFavor = false
		}

		votes = append(votes, models.Vote{
			VoterID: voter.ID,
			InFavor: inFavor,
			Ghost:   !voter.Alive,
		})
	}
	return votes, nil
}

// votingOrder returns all players in seat order starting with the player
// clockwise of the nominee
func (s *service) votingOrder(g *models.GameState, nomineeID string) []*models.Player {
	var seated []*models.Player
	for _, p := range g.Players {
		seated = append(seated, p)
	}
	// Players are seated in order already; rotate so the nominee votes last.
	start := 0
	for i, p := range seated {
		if p.ID == nomineeID {
			start = i + 1
			break
		}
	}
	n := len(seated)
	ordered := make([]*models.Player, 0, n)
	for i := 0; i < n; i++ {
		ordered = append(ordered, seated[(start+i)%n])
	}
	return ordered
}

// SlayerShot resolves the Slayer's public once-per-game claim. The shot is
// spent whether or not it lands; a drunk or poisoned Slayer hits nothing.
func (s *service) SlayerShot(ctx context.Context, input *SlayerShotInput) (*SlayerShotOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, ErrNilGame
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.loadGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}
	if g.Ended() {
		return nil, ErrGameEnded
	}
	if g.Phase != models.PhaseDay && g.Phase != models.PhaseNomination {
		return nil, fmt.Errorf("%w: %s", ErrWrongPhase, g.Phase)
	}

	slayer := g.PlayerByID(input.SlayerID)
	target := g.PlayerByID(input.TargetID)
	if slayer == nil || target == nil {
		return nil, ErrUnknownPlayer
	}
	if slayer.Character != script.Slayer {
		return nil, ErrWrongCharacter
	}
	if slayer.HasToken(models.TokenAbilitySpent) {
		return nil, ErrAbilitySpent
	}
	if err := slayer.AddReminderToken(models.ReminderToken{
		Kind:   models.TokenAbilitySpent,
		Source: script.Slayer,
	}); err != nil {
		return nil, err
	}

	killed := false
	if !slayer.Incapacitated() && target.Alive && script.IsDemon(target.Character) {
		killed, err = s.killPlayer(ctx, g, target.ID)
		if err != nil {
			return nil, err
		}
	}

	message := fmt.Sprintf("%s fires at %s. Nothing happens.", slayer.Name, target.Name)
	if killed {
		message = fmt.Sprintf("%s fires at %s, who falls dead.", slayer.Name, target.Name)
	}
	s.appendEvent(ctx, g, &models.PublicEvent{
		Type:     models.EventStatusUpdate,
		ActorID:  slayer.ID,
		TargetID: target.ID,
		Message:  message,
	}, true)
	if killed {
		s.appendEvent(ctx, g, &models.PublicEvent{
			Type:     models.EventDeath,
			TargetID: target.ID,
			Message:  fmt.Sprintf("%s is dead", target.Name),
		}, true)
	}

	s.checkEnd(ctx, g)

	if err := s.saveGame(ctx, g); err != nil {
		return nil, err
	}

	return &SlayerShotOutput{Game: g, Killed: killed}, nil
}

// EndDay is last call: nominations close, the Mayor's dusk condition is
// checked, expired protection falls off and the game moves to night
func (s *service) EndDay(ctx context.Context, input *EndDayInput) (*EndDayOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, ErrNilGame
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.loadGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}
	if g.Ended() {
		return nil, ErrGameEnded
	}
	if g.Phase != models.PhaseDay && g.Phase != models.PhaseNomination {
		return nil, fmt.Errorf("%w: %s", ErrWrongPhase, g.Phase)
	}

	if winner, reason := rules.CheckDayEndWin(g); winner != models.WinnerNone {
		s.endGame(ctx, g, winner, reason)
		if err := s.saveGame(ctx, g); err != nil {
			return nil, err
		}
		return &EndDayOutput{Game: g, Ended: true}, nil
	}

	// Last night's protection expires at dusk.
	for _, p := range g.Players {
		p.RemoveRemindersBySource(script.Monk)
	}

	g.Phase = models.PhaseNight
	s.appendEvent(ctx, g, &models.PublicEvent{
		Type:    models.EventPhaseChange,
		Message: fmt.Sprintf("Night falls on day %d.", g.Day),
	}, true)

	if err := s.saveGame(ctx, g); err != nil {
		return nil, err
	}

	return &EndDayOutput{Game: g, Ended: false}, nil
}
