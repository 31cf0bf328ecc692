package storyteller

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ravenshollow/grimoire/internal/chance"
	"github.com/ravenshollow/grimoire/internal/common/clock"
	"github.com/ravenshollow/grimoire/internal/common/uuid"
	"github.com/ravenshollow/grimoire/internal/models"
	"github.com/ravenshollow/grimoire/internal/rules"
	"github.com/ravenshollow/grimoire/internal/script"
	"github.com/ravenshollow/grimoire/internal/tracker"
)

// Truth-policy defaults. The source material describes these only
// qualitatively; the concrete constants live here and in Config overrides.
const (
	defaultBaseTruthProbability = 0.85
	defaultBalanceWeight        = 0.10
	defaultDramaWeight          = 0.15

	minTruthProbability = 0.05
	maxTruthProbability = 0.98
)

// Config holds configuration for the decision engine
type Config struct {
	// BaseTruthProbability is the chance a corruption-eligible delivery
	// stays truthful before adjustments; defaults to 0.85
	BaseTruthProbability float64

	// BalanceWeight scales how far the balance score shifts the truth
	// probability toward the losing team
	BalanceWeight float64

	// DramaWeight lowers the truth probability near likely game-ending
	// moments
	DramaWeight float64

	// Sampler is the seeded randomness source
	Sampler *chance.Sampler

	// Tracker supplies balance and disclosure history
	Tracker *tracker.Tracker

	// Clock supplies decision timestamps
	Clock clock.Clock

	// UUID generates decision identifiers
	UUID uuid.UUID

	// Logger for decision auditing
	Logger *zap.Logger
}

type handlerFunc func(ctx context.Context, input *ResolveInput) (*ResolveOutput, error)

// service implements the Service interface
type service struct {
	baseTruth     float64
	balanceWeight float64
	dramaWeight   float64

	sampler *chance.Sampler
	tracker *tracker.Tracker
	clock   clock.Clock
	uuid    uuid.UUID
	logger  *zap.Logger

	// handlers is the closed dispatch table: one entry per character with
	// a night ability. New roles are new rows here.
	handlers map[string]handlerFunc
}

// New creates a new decision engine
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Sampler == nil {
		return nil, ErrNilSampler
	}
	if cfg.Tracker == nil {
		return nil, ErrNilTracker
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.UUID == nil {
		return nil, ErrNilUUID
	}

	s := &service{
		baseTruth:     cfg.BaseTruthProbability,
		balanceWeight: cfg.BalanceWeight,
		dramaWeight:   cfg.DramaWeight,
		sampler:       cfg.Sampler,
		tracker:       cfg.Tracker,
		clock:         cfg.Clock,
		uuid:          cfg.UUID,
		logger:        cfg.Logger,
	}
	if s.baseTruth == 0 {
		s.baseTruth = defaultBaseTruthProbability
	}
	if s.balanceWeight == 0 {
		s.balanceWeight = defaultBalanceWeight
	}
	if s.dramaWeight == 0 {
		s.dramaWeight = defaultDramaWeight
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	s.handlers = map[string]handlerFunc{
		script.Washerwoman:   s.washerwoman,
		script.Librarian:     s.librarian,
		script.Investigator:  s.investigator,
		script.Chef:          s.chef,
		script.Empath:        s.empath,
		script.FortuneTeller: s.fortuneTeller,
		script.Undertaker:    s.undertaker,
		script.Ravenkeeper:   s.ravenkeeper,
		script.Spy:           s.spy,
		script.Monk:          s.monk,
		script.Poisoner:      s.poisoner,
		script.Butler:        s.butler,
		script.Imp:           s.imp,
	}

	return s, nil
}

// Resolve adjudicates one ability trigger
func (s *service) Resolve(ctx context.Context, input *ResolveInput) (*ResolveOutput, error) {
	if input == nil || input.Game == nil {
		return nil, ErrNilGame
	}
	if input.Actor == nil {
		return nil, ErrNilActor
	}

	handler, ok := s.handlers[input.Character]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHandler, input.Character)
	}

	out, err := handler(ctx, input)
	if err != nil {
		return nil, err
	}

	s.logger.Info("ability resolved",
		zap.String("game_id", input.Game.ID),
		zap.String("character", input.Character),
		zap.String("actor", input.Actor.ID),
		zap.Bool("corrupted", out.Record.Corrupted),
		zap.Float64("truth_probability", out.Record.TruthProbability),
	)

	return out, nil
}

// decideTruth runs the corruption policy for one delivery. A sober actor
// always receives the truth; only drunk or poisoned actors are eligible for
// corruption, and then the weighted policy decides.
func (s *service) decideTruth(g *models.GameState, actor *models.Player) (truthful bool, probability float64, reasoning string) {
	if !actor.Incapacitated() {
		return true, 1.0, "actor is sober; true information"
	}

	p := s.baseTruth

	// Balance term: raise the truth probability for the losing team.
	balance := s.tracker.CurrentBalance(g)
	inActorFavor := balance
	if actor.Team == models.TeamEvil {
		inActorFavor = -balance
	}
	p -= s.balanceWeight * inActorFavor

	// Drama term: near a likely ending, lean toward the lie.
	dramatic := s.dramaMoment(g)
	if dramatic {
		p -= s.dramaWeight
	}

	if p < minTruthProbability {
		p = minTruthProbability
	}
	if p > maxTruthProbability {
		p = maxTruthProbability
	}

	truthful = s.sampler.Roll(p)

	why := fmt.Sprintf("actor %s; balance %.2f", statusWord(actor), balance)
	if dramatic {
		why += "; end-game tension"
	}
	if truthful {
		why += "; truth sampled at p=" + fmt.Sprintf("%.2f", p)
	} else {
		why += "; corruption sampled at p=" + fmt.Sprintf("%.2f", p)
	}
	return truthful, p, why
}

// dramaMoment reports whether the game is within one swing of ending: the
// board is down to four non-travelers, or the demon is on the block today.
func (s *service) dramaMoment(g *models.GameState) bool {
	if len(g.LivingNonTravelers()) <= 4 {
		return true
	}
	for _, n := range g.NominationsToday() {
		nominee := g.PlayerByID(n.NomineeID)
		if nominee != nil && script.IsDemon(nominee.Character) {
			return true
		}
	}
	return false
}

// priorDelivery looks for an earlier ruling for the same actor, character
// and target set, so repeated queries never contradict what the player was
// already told.
func (s *service) priorDelivery(actorID, character string, targetIDs []string) (string, bool) {
	key := targetKey(targetIDs)
	for _, rec := range s.tracker.RecentDisclosures(actorID) {
		if rec.Character == character && targetKey(rec.TargetIDs) == key {
			return rec.DeliveredResult, true
		}
	}
	return "", false
}

// record assembles an append-ready decision record
func (s *service) record(input *ResolveInput, targets []string, trueResult, delivered string, corrupted bool, probability, confidence float64, reasoning string) *models.DecisionRecord {
	night := input.Game.Phase == models.PhaseFirstNight || input.Game.Phase == models.PhaseNight
	return &models.DecisionRecord{
		ID:               s.uuid.NewUUID(),
		Character:        input.Character,
		ActorID:          input.Actor.ID,
		ActorTeam:        input.Actor.Team,
		TargetIDs:        targets,
		TrueResult:       trueResult,
		DeliveredResult:  delivered,
		Corrupted:        corrupted,
		TruthProbability: probability,
		Confidence:       confidence,
		Reasoning:        reasoning,
		Day:              input.Game.Day,
		Night:            night,
		Timestamp:        s.clock.Now(),
	}
}

// SelectKill chooses the demon's victim among legal targets using the same
// balance and drama weighting as information rulings. A clearly dominant
// candidate is taken outright; otherwise the weights drive a sample.
func (s *service) SelectKill(ctx context.Context, input *SelectKillInput) (*SelectKillOutput, error) {
	if input == nil || input.Game == nil {
		return nil, ErrNilGame
	}
	g := input.Game

	type candidate struct {
		id     string
		weight float64
		why    string
	}

	balance := s.tracker.CurrentBalance(g)
	var candidates []candidate
	for _, p := range g.LivingPlayers() {
		if p.ID == input.DemonID {
			continue
		}
		if rules.ProtectedFromDemon(g, p.ID) {
			continue
		}

		weight := 1.0
		why := "living player"
		if c, ok := script.Get(p.Character); ok && c.Ability == models.AbilityInfoReveal {
			// Silencing an information role is the demon's strongest
			// play, but when good is already losing the engine eases off.
			if balance >= 0 {
				weight += 0.8
				why = "information role while good holds the advantage"
			} else {
				weight += 0.2
				why = "information role, softened while good is behind"
			}
		}
		if p.Incapacitated() {
			// A malfunctioning player is already neutralized.
			weight -= 0.5
			why = "already incapacitated"
		}
		if weight < 0.1 {
			weight = 0.1
		}
		candidates = append(candidates, candidate{id: p.ID, weight: weight, why: why})
	}

	if len(candidates) == 0 {
		return nil, ErrNoLegalTargets
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].weight > candidates[j].weight })
	best := candidates[0]
	if len(candidates) == 1 || best.weight >= 1.5*candidates[1].weight {
		return &SelectKillOutput{TargetID: best.id, Reasoning: best.why}, nil
	}

	total := 0.0
	for _, c := range candidates {
		total += c.weight
	}
	roll := s.sampler.Float64() * total
	for _, c := range candidates {
		roll -= c.weight
		if roll <= 0 {
			return &SelectKillOutput{TargetID: c.id, Reasoning: c.why}, nil
		}
	}
	return &SelectKillOutput{TargetID: best.id, Reasoning: best.why}, nil
}

// ChooseBluffs draws three good characters not in play, townsfolk first,
// as the demon's decoys
func (s *service) ChooseBluffs(ctx context.Context, input *ChooseBluffsInput) (*ChooseBluffsOutput, error) {
	if input == nil || input.Game == nil {
		return nil, ErrNilGame
	}

	var inPlay []string
	for _, p := range input.Game.Players {
		if p.Character != "" {
			inPlay = append(inPlay, p.Character)
		}
	}

	pool := script.GoodNotIn(inPlay)
	var townsfolk, outsiders []string
	for _, name := range pool {
		if script.IsTownsfolk(name) {
			townsfolk = append(townsfolk, name)
		} else {
			outsiders = append(outsiders, name)
		}
	}

	var bluffs []string
	for _, group := range [][]string{townsfolk, outsiders} {
		remaining := append([]string(nil), group...)
		for len(bluffs) < 3 && len(remaining) > 0 {
			i := s.sampler.Intn(len(remaining))
			bluffs = append(bluffs, remaining[i])
			remaining = append(remaining[:i], remaining[i+1:]...)
		}
	}

	return &ChooseBluffsOutput{Bluffs: bluffs}, nil
}

func targetKey(ids []string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return strings.Join(sorted, "|")
}

func statusWord(p *models.Player) string {
	switch {
	case p.Drunk:
		return "drunk"
	case p.Poisoned:
		return "poisoned"
	default:
		return "sober"
	}
}
