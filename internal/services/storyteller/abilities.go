package storyteller

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ravenshollow/grimoire/internal/models"
	"github.com/ravenshollow/grimoire/internal/script"
)

// Chance that a Recluse registers as evil (or the Spy as good) when an
// information ability reads them. Sampled per reading, never stored.
const misregisterProbability = 0.5

func (s *service) fortuneTeller(ctx context.Context, input *ResolveInput) (*ResolveOutput, error) {
	t1, t2, err := s.twoTargets(input)
	if err != nil {
		return nil, err
	}

	actual := s.readsAsDemon(t1) || s.readsAsDemon(t2)
	trueResult := yesNo(actual)

	// Never contradict an earlier reading of the same pair.
	if prior, ok := s.priorDelivery(input.Actor.ID, input.Character, input.TargetIDs); ok {
		rec := s.record(input, input.TargetIDs, trueResult, prior, prior != trueResult, 1.0, 0.9,
			"repeat query; kept consistent with the earlier reading")
		return &ResolveOutput{
			Record:   rec,
			Delivery: fmt.Sprintf("You sense the Demon among your chosen players: %s", strings.ToUpper(prior)),
		}, nil
	}

	truthful, p, why := s.decideTruth(input.Game, input.Actor)
	delivered := actual
	if !truthful {
		delivered = !actual
	}

	rec := s.record(input, input.TargetIDs, trueResult, yesNo(delivered), delivered != actual, p, 0.8, why)
	return &ResolveOutput{
		Record:   rec,
		Delivery: fmt.Sprintf("You sense the Demon among your chosen players: %s", strings.ToUpper(yesNo(delivered))),
	}, nil
}

func (s *service) empath(ctx context.Context, input *ResolveInput) (*ResolveOutput, error) {
	left, right := input.Game.Neighbors(input.Actor.ID)
	if left == nil || right == nil {
		return nil, ErrNoLegalTargets
	}

	actual := 0
	if s.readsAsEvil(left) {
		actual++
	}
	if s.readsAsEvil(right) {
		actual++
	}

	truthful, p, why := s.decideTruth(input.Game, input.Actor)
	delivered := actual
	if !truthful {
		delivered = s.perturbCount(actual, 0, 2)
	}

	targets := []string{left.ID, right.ID}
	rec := s.record(input, targets, fmt.Sprintf("%d", actual), fmt.Sprintf("%d", delivered), delivered != actual, p, 0.85, why)
	return &ResolveOutput{
		Record:   rec,
		Delivery: fmt.Sprintf("You sense %d of your living neighbors %s evil", delivered, pluralIs(delivered)),
	}, nil
}

func (s *service) chef(ctx context.Context, input *ResolveInput) (*ResolveOutput, error) {
	players := seatOrdered(input.Game)
	evil := 0
	actual := 0
	for i, p := range players {
		reads := s.readsAsEvil(p)
		if reads {
			evil++
		}
		next := players[(i+1)%len(players)]
		if reads && s.readsAsEvil(next) {
			actual++
		}
	}

	truthful, p, why := s.decideTruth(input.Game, input.Actor)
	delivered := actual
	if !truthful {
		delivered = s.perturbCount(actual, 0, evil)
	}

	rec := s.record(input, nil, fmt.Sprintf("%d", actual), fmt.Sprintf("%d", delivered), delivered != actual, p, 0.85, why)
	return &ResolveOutput{
		Record:   rec,
		Delivery: fmt.Sprintf("You learn that %d pair(s) of evil players sit next to each other", delivered),
	}, nil
}

func (s *service) washerwoman(ctx context.Context, input *ResolveInput) (*ResolveOutput, error) {
	return s.learnPair(input, models.CategoryTownsfolk, "Townsfolk")
}

func (s *service) librarian(ctx context.Context, input *ResolveInput) (*ResolveOutput, error) {
	return s.learnPair(input, models.CategoryOutsider, "Outsider")
}

func (s *service) investigator(ctx context.Context, input *ResolveInput) (*ResolveOutput, error) {
	return s.learnPair(input, models.CategoryMinion, "Minion")
}

// learnPair implements the first-night "one of two players is a particular
// X" reveals. The engine itself chooses the shown pair; the player picks
// nothing.
func (s *service) learnPair(input *ResolveInput, category models.Category, label string) (*ResolveOutput, error) {
	g := input.Game

	var holders []*models.Player
	for _, p := range g.Players {
		if p.ID == input.Actor.ID {
			continue
		}
		c, ok := script.Get(p.Character)
		if !ok {
			continue
		}
		if c.Category == category {
			holders = append(holders, p)
			continue
		}
		// A Recluse may register as a minion to the Investigator.
		if category == models.CategoryMinion && p.Character == script.Recluse && s.sampler.Roll(misregisterProbability) {
			holders = append(holders, p)
		}
	}

	truthful, prob, why := s.decideTruth(g, input.Actor)

	if len(holders) == 0 {
		delivery := fmt.Sprintf("There are no %ss in play", label)
		rec := s.record(input, nil, "none", "none", false, prob, 0.85, why+"; no holders to reveal")
		return &ResolveOutput{Record: rec, Delivery: delivery}, nil
	}

	chosen := holders[s.sampler.Intn(len(holders))]

	var decoys []*models.Player
	for _, p := range g.Players {
		if p.ID != chosen.ID && p.ID != input.Actor.ID {
			decoys = append(decoys, p)
		}
	}
	decoy := decoys[s.sampler.Intn(len(decoys))]

	trueChar := chosen.Character
	deliveredChar := trueChar
	if !truthful {
		deliveredChar = s.plausibleAlternative(category, trueChar)
	}

	targets := []string{chosen.ID, decoy.ID}
	rec := s.record(input, targets, trueChar, deliveredChar, deliveredChar != trueChar, prob, 0.8, why)
	return &ResolveOutput{
		Record: rec,
		Delivery: fmt.Sprintf("You learn that one of %s or %s is the %s",
			chosen.Name, decoy.Name, deliveredChar),
	}, nil
}

func (s *service) undertaker(ctx context.Context, input *ResolveInput) (*ResolveOutput, error) {
	g := input.Game
	executed := g.PlayerByID(g.ExecutedToday)
	if executed == nil {
		rec := s.record(input, nil, "none", "none", false, 1.0, 0.95, "no execution today; nothing to learn")
		return &ResolveOutput{Record: rec, Delivery: "No one was executed today"}, nil
	}

	truthful, p, why := s.decideTruth(g, input.Actor)
	trueChar := executed.Character
	deliveredChar := trueChar
	if !truthful {
		deliveredChar = s.plausibleAlternative(categoryOf(trueChar), trueChar)
	}

	rec := s.record(input, []string{executed.ID}, trueChar, deliveredChar, deliveredChar != trueChar, p, 0.85, why)
	return &ResolveOutput{
		Record:   rec,
		Delivery: fmt.Sprintf("The executed player was the %s", deliveredChar),
	}, nil
}

func (s *service) ravenkeeper(ctx context.Context, input *ResolveInput) (*ResolveOutput, error) {
	target, err := s.oneTarget(input, true)
	if err != nil {
		return nil, err
	}

	truthful, p, why := s.decideTruth(input.Game, input.Actor)
	trueChar := target.Character
	deliveredChar := trueChar
	if !truthful {
		deliveredChar = s.plausibleAlternative(categoryOf(trueChar), trueChar)
	}

	rec := s.record(input, []string{target.ID}, trueChar, deliveredChar, deliveredChar != trueChar, p, 0.8, why)
	return &ResolveOutput{
		Record:   rec,
		Delivery: fmt.Sprintf("%s is the %s", target.Name, deliveredChar),
	}, nil
}

func (s *service) spy(ctx context.Context, input *ResolveInput) (*ResolveOutput, error) {
	g := input.Game

	truthful, p, why := s.decideTruth(g, input.Actor)

	var rows []string
	for _, player := range seatOrdered(g) {
		character := player.Character
		if !truthful && script.IsDemon(character) {
			// A poisoned Spy reads a grimoire with the demon hidden
			// behind a plausible good character.
			character = s.plausibleAlternative(models.CategoryTownsfolk, "")
		}
		row := fmt.Sprintf("%s: %s", player.Name, character)
		if !player.Alive {
			row += " (dead)"
		}
		rows = append(rows, row)
	}
	summary := strings.Join(rows, "; ")

	rec := s.record(input, nil, "grimoire", summary, !truthful, p, 0.9, why)
	return &ResolveOutput{
		Record:   rec,
		Delivery: "You see the Grimoire: " + summary,
	}, nil
}

func (s *service) monk(ctx context.Context, input *ResolveInput) (*ResolveOutput, error) {
	target, err := s.oneTarget(input, false)
	if err != nil {
		return nil, err
	}

	// Protection has no informational payload; a poisoned Monk's ability
	// simply does nothing, and the Monk is never told.
	if input.Actor.Incapacitated() {
		rec := s.record(input, []string{target.ID}, "protect:"+target.ID, "protect:"+target.ID, false, 1.0, 0.9,
			"protection silently nullified; actor is "+statusWord(input.Actor))
		rec.EfficacyFailed = true
		return &ResolveOutput{Record: rec}, nil
	}

	rec := s.record(input, []string{target.ID}, "protect:"+target.ID, "protect:"+target.ID, false, 1.0, 0.9,
		"protection placed")
	return &ResolveOutput{
		Record:  rec,
		Effects: []Effect{{Kind: EffectProtect, TargetID: target.ID, Source: script.Monk}},
	}, nil
}

func (s *service) poisoner(ctx context.Context, input *ResolveInput) (*ResolveOutput, error) {
	target, err := s.oneTarget(input, true)
	if err != nil {
		return nil, err
	}

	if input.Actor.Incapacitated() {
		rec := s.record(input, []string{target.ID}, "poison:"+target.ID, "poison:"+target.ID, false, 1.0, 0.9,
			"poisoning silently nullified; actor is "+statusWord(input.Actor))
		rec.EfficacyFailed = true
		return &ResolveOutput{Record: rec}, nil
	}

	rec := s.record(input, []string{target.ID}, "poison:"+target.ID, "poison:"+target.ID, false, 1.0, 0.9,
		"poison moved to chosen victim")
	return &ResolveOutput{
		Record:  rec,
		Effects: []Effect{{Kind: EffectPoison, TargetID: target.ID, Source: script.Poisoner}},
	}, nil
}

func (s *service) butler(ctx context.Context, input *ResolveInput) (*ResolveOutput, error) {
	target, err := s.oneTarget(input, false)
	if err != nil {
		return nil, err
	}

	if input.Actor.Incapacitated() {
		rec := s.record(input, []string{target.ID}, "master:"+target.ID, "master:"+target.ID, false, 1.0, 0.9,
			"vote restriction nullified; actor is "+statusWord(input.Actor))
		rec.EfficacyFailed = true
		return &ResolveOutput{Record: rec}, nil
	}

	rec := s.record(input, []string{target.ID}, "master:"+target.ID, "master:"+target.ID, false, 1.0, 0.9,
		"master chosen for tomorrow's votes")
	return &ResolveOutput{
		Record:  rec,
		Effects: []Effect{{Kind: EffectSetMaster, TargetID: target.ID, Source: script.Butler}},
	}, nil
}

func (s *service) imp(ctx context.Context, input *ResolveInput) (*ResolveOutput, error) {
	target, err := s.oneTarget(input, true)
	if err != nil {
		return nil, err
	}

	if input.Actor.Incapacitated() {
		rec := s.record(input, []string{target.ID}, "kill:"+target.ID, "kill:"+target.ID, false, 1.0, 0.9,
			"kill silently nullified; actor is "+statusWord(input.Actor))
		rec.EfficacyFailed = true
		return &ResolveOutput{Record: rec}, nil
	}

	// Star-pass: the Imp killing itself hands the mantle to a minion,
	// Scarlet Woman first.
	if target.ID == input.Actor.ID {
		successor := s.starPassSuccessor(input.Game)
		effects := []Effect{}
		reasoning := "star-pass with no living minion; the demon dies for nothing"
		if successor != nil {
			effects = append(effects, Effect{Kind: EffectBecomeDemon, TargetID: successor.ID, Source: script.Imp})
			reasoning = fmt.Sprintf("star-pass; %s becomes the Imp", successor.Name)
		}
		effects = append(effects, Effect{Kind: EffectKill, TargetID: input.Actor.ID, Source: script.Imp})

		rec := s.record(input, []string{target.ID}, "starpass", "starpass", false, 1.0, 0.85, reasoning)
		return &ResolveOutput{Record: rec, Effects: effects}, nil
	}

	rec := s.record(input, []string{target.ID}, "kill:"+target.ID, "kill:"+target.ID, false, 1.0, 0.9,
		"demon attack on chosen target")
	return &ResolveOutput{
		Record:  rec,
		Effects: []Effect{{Kind: EffectKill, TargetID: target.ID, Source: script.Imp}},
	}, nil
}

// starPassSuccessor picks the minion who inherits the Imp: the Scarlet
// Woman when alive, otherwise any living minion.
func (s *service) starPassSuccessor(g *models.GameState) *models.Player {
	if sw := g.PlayerWithCharacter(script.ScarletWoman); sw != nil && sw.Alive {
		return sw
	}
	var minions []*models.Player
	for _, p := range g.Players {
		if p.Alive && script.IsMinion(p.Character) {
			minions = append(minions, p)
		}
	}
	if len(minions) == 0 {
		return nil
	}
	return minions[s.sampler.Intn(len(minions))]
}

// readsAsDemon reports how a player registers to demon-detecting abilities:
// the demon itself, the Fortune Teller's red herring, and sometimes the
// Recluse.
func (s *service) readsAsDemon(p *models.Player) bool {
	if script.IsDemon(p.Character) {
		return true
	}
	if p.HasToken(models.TokenRedHerring) {
		return true
	}
	if p.Character == script.Recluse {
		return s.sampler.Roll(misregisterProbability)
	}
	return false
}

// readsAsEvil reports how a player registers to alignment-counting
// abilities. The Recluse may read evil; the Spy may read good.
func (s *service) readsAsEvil(p *models.Player) bool {
	if p.Character == script.Recluse {
		return s.sampler.Roll(misregisterProbability)
	}
	if p.Character == script.Spy {
		return !s.sampler.Roll(misregisterProbability)
	}
	return script.IsEvil(p.Character)
}

// perturbCount shifts a true count by one in either direction, clamped to
// the valid range and guaranteed to differ from the truth when the range
// allows it
func (s *service) perturbCount(actual, lo, hi int) int {
	if lo >= hi {
		return actual
	}
	delta := 1
	if s.sampler.Roll(0.5) {
		delta = -1
	}
	perturbed := actual + delta
	if perturbed < lo || perturbed > hi {
		perturbed = actual - delta
	}
	if perturbed < lo {
		perturbed = lo
	}
	if perturbed > hi {
		perturbed = hi
	}
	return perturbed
}

// plausibleAlternative picks a believable wrong character: same category,
// never the truth
func (s *service) plausibleAlternative(category models.Category, exclude string) string {
	var pool []string
	for _, c := range script.All() {
		if c.Category == category && c.Name != exclude {
			pool = append(pool, c.Name)
		}
	}
	if len(pool) == 0 {
		return exclude
	}
	return pool[s.sampler.Intn(len(pool))]
}

func (s *service) oneTarget(input *ResolveInput, allowSelf bool) (*models.Player, error) {
	if len(input.TargetIDs) != 1 {
		return nil, ErrMissingTargets
	}
	target := input.Game.PlayerByID(input.TargetIDs[0])
	if target == nil {
		return nil, ErrUnknownTarget
	}
	if !allowSelf && target.ID == input.Actor.ID {
		return nil, ErrIllegalTarget
	}
	return target, nil
}

func (s *service) twoTargets(input *ResolveInput) (*models.Player, *models.Player, error) {
	if len(input.TargetIDs) != 2 {
		return nil, nil, ErrMissingTargets
	}
	t1 := input.Game.PlayerByID(input.TargetIDs[0])
	t2 := input.Game.PlayerByID(input.TargetIDs[1])
	if t1 == nil || t2 == nil {
		return nil, nil, ErrUnknownTarget
	}
	return t1, t2, nil
}

func seatOrdered(g *models.GameState) []*models.Player {
	players := append([]*models.Player(nil), g.Players...)
	sort.Slice(players, func(i, j int) bool { return players[i].Seat < players[j].Seat })
	return players
}

func categoryOf(character string) models.Category {
	if c, ok := script.Get(character); ok {
		return c.Category
	}
	return models.CategoryTownsfolk
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func pluralIs(n int) string {
	if n == 1 {
		return "is"
	}
	return "are"
}
