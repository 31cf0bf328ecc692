package night

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ravenshollow/grimoire/internal/models"
	"github.com/ravenshollow/grimoire/internal/rules"
	"github.com/ravenshollow/grimoire/internal/script"
	"github.com/ravenshollow/grimoire/internal/services/storyteller"
)

// wake is one pending entry of the night queue: a player acting as a
// character. The character is the apparent one, so the Drunk wakes as the
// townsfolk they believe they are.
type wake struct {
	playerID  string
	character string
}

// RunNight resolves one full night: evil info on the first night, then the
// night order queue with death-triggered interrupts, ending at dawn with
// deaths announced and the day advanced.
func (s *service) RunNight(ctx context.Context, input *RunNightInput) (*RunNightOutput, error) {
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
	if g.Phase != models.PhaseFirstNight && g.Phase != models.PhaseNight {
		return nil, fmt.Errorf("%w: %s", ErrWrongPhase, g.Phase)
	}
	firstNight := g.Phase == models.PhaseFirstNight

	if firstNight {
		s.shareEvilInfo(ctx, g)
	}

	queue := s.buildQueue(g, firstNight)
	var deaths []string

	for len(queue) > 0 {
		w := queue[0]
		queue = queue[1:]

		actor := g.PlayerByID(w.playerID)
		if actor == nil {
			continue
		}
		// Dead players stay asleep unless this wake is their on-death
		// trigger, which is pushed after they die.
		if !actor.Alive && !wakesOnDeath(w.character) {
			continue
		}

		newDeaths, err := s.resolveWake(ctx, g, actor, w.character, firstNight, &queue)
		if err != nil {
			return nil, err
		}
		deaths = append(deaths, newDeaths...)

		if s.checkEnd(ctx, g) {
			break
		}
	}

	if !g.Ended() {
		s.dawn(ctx, g, deaths)
	}

	if err := s.saveGame(ctx, g); err != nil {
		return nil, err
	}

	return &RunNightOutput{
		Game:   g,
		Deaths: deaths,
		Ended:  g.Ended(),
	}, nil
}

// buildQueue assembles the initial night queue: acting characters in night
// order, matched to living players by apparent character. Passive and
// setup-only characters never enter the queue.
func (s *service) buildQueue(g *models.GameState, firstNight bool) []wake {
	var queue []wake
	for _, c := range script.NightOrder(firstNight) {
		if c.Ability == models.AbilityPassive || c.Ability == models.AbilitySetupModifier {
			continue
		}
		// On-death characters only ever enter through an interrupt.
		if c.WakesOnDeath {
			continue
		}
		for _, p := range g.Players {
			if p.Alive && p.ApparentCharacter() == c.Name {
				queue = append(queue, wake{playerID: p.ID, character: c.Name})
			}
		}
	}
	return queue
}

// resolveWake runs one queue entry end to end: targets, engine ruling, log
// appends, delivery and effects. Death-triggered wakes it causes are pushed
// to the front of the remaining queue.
func (s *service) resolveWake(ctx context.Context, g *models.GameState, actor *models.Player, character string, firstNight bool, queue *[]wake) ([]string, error) {
	targets, skipped, err := s.collectTargets(ctx, g, actor, character)
	if err != nil {
		return nil, err
	}
	if skipped {
		return nil, nil
	}

	out, err := s.engine.Resolve(ctx, &storyteller.ResolveInput{
		Game:       g,
		Actor:      actor,
		Character:  character,
		TargetIDs:  targets,
		FirstNight: firstNight,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s for %s: %w", character, actor.ID, err)
	}

	s.appendDecision(ctx, g, out.Record)
	s.deliver(ctx, g.ID, actor.ID, out.Delivery)

	var deaths []string
	for _, effect := range out.Effects {
		died, err := s.applyEffect(ctx, g, actor, effect)
		if err != nil {
			return nil, err
		}
		if died {
			deaths = append(deaths, effect.TargetID)
			s.interruptForDeath(g, effect.TargetID, queue)
		}
	}
	return deaths, nil
}

// collectTargets gathers the actor's choices: a pending override first,
// otherwise a prompt. Timeouts fall back to the storyteller default: the
// demon's kill is chosen by the engine, anything else is skipped with a
// logged timeout event.
func (s *service) collectTargets(ctx context.Context, g *models.GameState, actor *models.Player, character string) (targets []string, skipped bool, err error) {
	c, ok := script.Get(character)
	if !ok || c.Targets == 0 {
		return nil, false, nil
	}

	if override, ok := s.takeOverride(g.ID, actor.ID); ok {
		s.logger.Info("override consumed",
			zap.String("game_id", g.ID),
			zap.String("player_id", actor.ID),
			zap.String("character", character),
		)
		return override, false, nil
	}

	// An override arriving mid-prompt wins over the prompt.
	aborted, cancelWaiter := s.registerOverrideWaiter(g.ID, actor.ID)
	defer cancelWaiter()

	promptCtx, cancelPrompt := context.WithCancel(ctx)
	defer cancelPrompt()

	type promptResult struct {
		targets []string
		err     error
	}
	result := make(chan promptResult, 1)
	go func() {
		t, err := s.requestTargets(promptCtx, &RequestTargetsInput{
			GameID:    g.ID,
			PlayerID:  actor.ID,
			Character: character,
			Count:     c.Targets,
		})
		result <- promptResult{targets: t, err: err}
	}()

	select {
	case override := <-aborted:
		s.logger.Info("override consumed",
			zap.String("game_id", g.ID),
			zap.String("player_id", actor.ID),
			zap.String("character", character),
		)
		return override, false, nil
	case res := <-result:
		targets, err = res.targets, res.err
	}
	if err == nil {
		return targets, false, nil
	}
	if !errors.Is(err, ErrTimedOut) {
		return nil, false, err
	}

	if character == script.Imp {
		// The demon always attacks; a silent demon hands the choice to
		// the storyteller.
		kill, killErr := s.engine.SelectKill(ctx, &storyteller.SelectKillInput{Game: g, DemonID: actor.ID})
		if killErr != nil {
			if errors.Is(killErr, storyteller.ErrNoLegalTargets) {
				s.appendTimeoutSkip(ctx, g, actor, character)
				return nil, true, nil
			}
			return nil, false, killErr
		}
		s.logger.Info("demon target chosen by default",
			zap.String("game_id", g.ID),
			zap.String("target", kill.TargetID),
			zap.String("reasoning", kill.Reasoning),
		)
		return []string{kill.TargetID}, false, nil
	}

	s.appendTimeoutSkip(ctx, g, actor, character)
	return nil, true, nil
}

func (s *service) appendTimeoutSkip(ctx context.Context, g *models.GameState, actor *models.Player, character string) {
	s.appendEvent(ctx, g, &models.PublicEvent{
		Type:    models.EventTimeoutSkip,
		ActorID: actor.ID,
		Message: fmt.Sprintf("%s gave no answer in time; the night moves on", character),
	}, false)
}

// applyEffect is the single place night effects touch the entity model.
// Returns whether the effect killed its target.
func (s *service) applyEffect(ctx context.Context, g *models.GameState, actor *models.Player, effect storyteller.Effect) (bool, error) {
	target := g.PlayerByID(effect.TargetID)
	if target == nil {
		return false, fmt.Errorf("%w: %s", ErrUnknownPlayer, effect.TargetID)
	}

	switch effect.Kind {
	case storyteller.EffectKill:
		if script.IsDemon(effect.Source) && effect.TargetID != actor.ID && rules.ProtectedFromDemon(g, effect.TargetID) {
			s.logger.Info("demon attack bounced",
				zap.String("game_id", g.ID),
				zap.String("target", effect.TargetID),
			)
			return false, nil
		}
		return s.killPlayer(ctx, g, effect.TargetID)

	case storyteller.EffectProtect:
		for _, p := range g.Players {
			p.RemoveRemindersBySource(script.Monk)
		}
		return false, target.AddReminderToken(models.ReminderToken{
			Kind:   models.TokenProtected,
			Source: effect.Source,
		})

	case storyteller.EffectPoison:
		for _, p := range g.Players {
			if p.PoisonSource == script.Poisoner {
				if err := p.SetStatus(models.StatusPoisoned, false, ""); err != nil {
					return false, err
				}
			}
			p.RemoveRemindersBySource(script.Poisoner)
		}
		if err := target.SetStatus(models.StatusPoisoned, true, script.Poisoner); err != nil {
			return false, err
		}
		return false, target.AddReminderToken(models.ReminderToken{
			Kind:   models.TokenPoisoned,
			Source: effect.Source,
		})

	case storyteller.EffectSetMaster:
		for _, p := range g.Players {
			p.RemoveRemindersBySource(script.Butler)
		}
		if err := actor.AddReminderToken(models.ReminderToken{
			Kind:     models.TokenVoteRestriction,
			Source:   script.Butler,
			TargetID: target.ID,
		}); err != nil {
			return false, err
		}
		return false, target.AddReminderToken(models.ReminderToken{
			Kind:     models.TokenMaster,
			Source:   script.Butler,
			TargetID: actor.ID,
		})

	case storyteller.EffectBecomeDemon:
		target.Character = script.Imp
		target.Team = models.TeamEvil
		s.deliver(ctx, g.ID, target.ID, "The demon has fallen and its mantle passes to you. You are the Imp.")
		return false, nil

	default:
		return false, fmt.Errorf("unknown effect kind %q", effect.Kind)
	}
}

// interruptForDeath pushes the on-death wake of a newly dead player to the
// front of the remaining queue
func (s *service) interruptForDeath(g *models.GameState, playerID string, queue *[]wake) {
	p := g.PlayerByID(playerID)
	if p == nil {
		return
	}
	apparent := p.ApparentCharacter()
	if !wakesOnDeath(apparent) {
		return
	}
	*queue = append([]wake{{playerID: p.ID, character: apparent}}, *queue...)
	s.logger.Info("death interrupt queued",
		zap.String("game_id", g.ID),
		zap.String("player_id", p.ID),
		zap.String("character", apparent),
	)
}

// shareEvilInfo delivers the first-night evil team info: minions learn the
// demon and each other, the demon learns its minions and bluffs. Games too
// small for minions share nothing.
func (s *service) shareEvilInfo(ctx context.Context, g *models.GameState) {
	var demon *models.Player
	var minions []*models.Player
	for _, p := range g.Players {
		switch {
		case script.IsDemon(p.Character):
			demon = p
		case script.IsMinion(p.Character):
			minions = append(minions, p)
		}
	}
	if demon == nil || len(minions) == 0 {
		return
	}

	minionNames := make([]string, 0, len(minions))
	for _, m := range minions {
		minionNames = append(minionNames, m.Name)
	}

	for _, m := range minions {
		var others []string
		for _, o := range minions {
			if o.ID != m.ID {
				others = append(others, o.Name)
			}
		}
		msg := fmt.Sprintf("The demon is %s.", demon.Name)
		if len(others) > 0 {
			msg += fmt.Sprintf(" Your fellow minions: %s.", strings.Join(others, ", "))
		}
		s.deliver(ctx, g.ID, m.ID, msg)
	}

	s.deliver(ctx, g.ID, demon.ID, fmt.Sprintf(
		"Your minions: %s. These characters are not in play: %s.",
		strings.Join(minionNames, ", "),
		strings.Join(g.Bluffs, ", "),
	))
}

// dawn closes the night: deaths announced, day counter advanced, the
// one-execution budget reset
func (s *service) dawn(ctx context.Context, g *models.GameState, deaths []string) {
	g.Day++
	g.Phase = models.PhaseDay
	g.ExecutionsToday = 0
	g.ExecutedToday = ""

	if len(deaths) == 0 {
		s.appendEvent(ctx, g, &models.PublicEvent{
			Type:    models.EventPhaseChange,
			Message: fmt.Sprintf("Dawn of day %d. Nobody died in the night.", g.Day),
		}, true)
		return
	}

	for _, id := range deaths {
		p := g.PlayerByID(id)
		if p == nil {
			continue
		}
		s.appendEvent(ctx, g, &models.PublicEvent{
			Type:     models.EventDeath,
			TargetID: id,
			Message:  fmt.Sprintf("%s died in the night", p.Name),
		}, true)
	}
	s.appendEvent(ctx, g, &models.PublicEvent{
		Type:    models.EventPhaseChange,
		Message: fmt.Sprintf("Dawn of day %d.", g.Day),
	}, true)
}

func wakesOnDeath(character string) bool {
	c, ok := script.Get(character)
	return ok && c.WakesOnDeath
}
