package night

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ravenshollow/grimoire/internal/chance"
	"github.com/ravenshollow/grimoire/internal/common/clock"
	"github.com/ravenshollow/grimoire/internal/common/uuid"
	"github.com/ravenshollow/grimoire/internal/models"
	"github.com/ravenshollow/grimoire/internal/repositories/archive"
	"github.com/ravenshollow/grimoire/internal/repositories/snapshot"
	"github.com/ravenshollow/grimoire/internal/rules"
	"github.com/ravenshollow/grimoire/internal/script"
	"github.com/ravenshollow/grimoire/internal/services/storyteller"
	"github.com/ravenshollow/grimoire/internal/tracker"
)

// defaultActionTimeout bounds how long the machine waits for one player
// choice before falling back to the timeout default.
const defaultActionTimeout = 60 * time.Second

// Config holds configuration for the night machine
type Config struct {
	// Repository persists game snapshots
	Repository snapshot.Repository

	// Archive is the append-only decision/event store; optional
	Archive archive.Repository

	// Engine is the decision engine
	Engine storyteller.Service

	// PlayerInput collects player choices
	PlayerInput PlayerInput

	// Notifier delivers private info and public announcements
	Notifier Notifier

	// Sync mirrors events to the platform; optional
	Sync PlatformSync

	// Tracker is the narrative context, shared with the engine
	Tracker *tracker.Tracker

	// Sampler is the seeded randomness source for setup draws
	Sampler *chance.Sampler

	// Clock supplies timestamps
	Clock clock.Clock

	// UUID generates game and event identifiers
	UUID uuid.UUID

	// Logger for machine auditing
	Logger *zap.Logger

	// ActionTimeout bounds each player prompt; defaults to 60s
	ActionTimeout time.Duration
}

// service implements the Service interface. One instance adjudicates one
// table; its tracker and engine carry that game's narrative context.
type service struct {
	repo     snapshot.Repository
	archive  archive.Repository
	engine   storyteller.Service
	input    PlayerInput
	notifier Notifier
	sync     PlatformSync
	tracker  *tracker.Tracker
	sampler  *chance.Sampler
	clock    clock.Clock
	uuid     uuid.UUID
	logger   *zap.Logger

	actionTimeout time.Duration

	// mu serializes all operations; the machine is the single writer of
	// game state.
	mu sync.Mutex

	// overrideMu guards overrides and waiters separately from mu, so a
	// storyteller can record an override while the machine is mid-wait.
	overrideMu sync.Mutex

	// overrides holds manual target choices keyed by game then player,
	// consumed by the player's next wake.
	overrides map[string]map[string][]string

	// waiters maps an in-flight prompt to the channel an override aborts
	// it through, keyed by game and player.
	waiters map[string]chan []string
}

// New creates a new night machine
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Repository == nil {
		return nil, ErrNilRepository
	}
	if cfg.Engine == nil {
		return nil, ErrNilEngine
	}
	if cfg.PlayerInput == nil {
		return nil, ErrNilPlayerInput
	}
	if cfg.Notifier == nil {
		return nil, ErrNilNotifier
	}
	if cfg.Tracker == nil {
		return nil, ErrNilTracker
	}
	if cfg.Sampler == nil {
		return nil, ErrNilSampler
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.UUID == nil {
		return nil, ErrNilUUID
	}

	s := &service{
		repo:          cfg.Repository,
		archive:       cfg.Archive,
		engine:        cfg.Engine,
		input:         cfg.PlayerInput,
		notifier:      cfg.Notifier,
		sync:          cfg.Sync,
		tracker:       cfg.Tracker,
		sampler:       cfg.Sampler,
		clock:         cfg.Clock,
		uuid:          cfg.UUID,
		logger:        cfg.Logger,
		actionTimeout: cfg.ActionTimeout,
		overrides:     make(map[string]map[string][]string),
		waiters:       make(map[string]chan []string),
	}
	if s.actionTimeout == 0 {
		s.actionTimeout = defaultActionTimeout
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	return s, nil
}

// AttachSync late-binds the platform mirror. The mirror needs the service
// for inbound corrections and the service needs the mirror for publishing,
// so one of them has to attach after construction.
func (s *service) AttachSync(sync PlatformSync) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sync = sync
}

// CreateGame seats the players, draws and assigns characters per the
// distribution table, applies setup modifiers and prepares the first night
func (s *service) CreateGame(ctx context.Context, input *CreateGameInput) (*CreateGameOutput, error) {
	if input == nil {
		return nil, ErrNilConfig
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	count := len(input.Seats)
	dist, err := script.DistributionFor(count)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedPlayers, err)
	}

	now := s.clock.Now()
	g := &models.GameState{
		ID:        s.uuid.NewUUID(),
		Phase:     models.PhaseFirstNight,
		Day:       0,
		Script:    script.Names(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i, seat := range input.Seats {
		g.Players = append(g.Players, &models.Player{
			ID:    seat.PlayerID,
			Name:  seat.Name,
			Seat:  i,
			Alive: true,
		})
	}

	characters := s.drawCharacters(dist)
	s.shuffle(characters)
	for i, name := range characters {
		c, _ := script.Get(name)
		if err := g.Players[i].AssignCharacter(name, c.Team); err != nil {
			return nil, fmt.Errorf("failed to assign %s: %w", name, err)
		}
	}

	if err := s.applySetupModifiers(g); err != nil {
		return nil, err
	}

	bluffs, err := s.engine.ChooseBluffs(ctx, &storyteller.ChooseBluffsInput{Game: g})
	if err != nil {
		return nil, fmt.Errorf("failed to choose bluffs: %w", err)
	}
	g.Bluffs = bluffs.Bluffs

	if err := s.saveGame(ctx, g); err != nil {
		return nil, err
	}

	s.logger.Info("game created",
		zap.String("game_id", g.ID),
		zap.Int("players", count),
	)

	return &CreateGameOutput{Game: g}, nil
}

// drawCharacters draws one character set matching the distribution. The
// Baron shifts two townsfolk to outsiders before the good draws happen.
func (s *service) drawCharacters(dist script.Distribution) []string {
	var drawn []string

	minionPool := namesOf(models.CategoryMinion)
	for i := 0; i < dist.Minions; i++ {
		drawn = append(drawn, s.draw(&minionPool))
	}
	for _, name := range drawn {
		if name == script.Baron {
			dist = script.ApplyBaron(dist)
		}
	}

	townsfolkPool := namesOf(models.CategoryTownsfolk)
	for i := 0; i < dist.Townsfolk; i++ {
		drawn = append(drawn, s.draw(&townsfolkPool))
	}
	outsiderPool := namesOf(models.CategoryOutsider)
	for i := 0; i < dist.Outsiders; i++ {
		drawn = append(drawn, s.draw(&outsiderPool))
	}
	for i := 0; i < dist.Demons; i++ {
		drawn = append(drawn, script.Imp)
	}

	return drawn
}

// applySetupModifiers places the tokens the setup implies: the Drunk's false
// identity and the Fortune Teller's red herring
func (s *service) applySetupModifiers(g *models.GameState) error {
	if drunk := g.PlayerWithCharacter(script.Drunk); drunk != nil {
		believed := s.believedTownsfolk(g)
		if err := drunk.AddReminderToken(models.ReminderToken{
			Kind:   models.TokenFalseIdentity,
			Source: script.Drunk,
			Detail: believed,
		}); err != nil {
			return err
		}
		if err := drunk.SetStatus(models.StatusDrunk, true, script.Drunk); err != nil {
			return err
		}
	}

	if ft := g.PlayerWithCharacter(script.FortuneTeller); ft != nil {
		var goodPlayers []*models.Player
		for _, p := range g.Players {
			if p.Team == models.TeamGood && p.ID != ft.ID {
				goodPlayers = append(goodPlayers, p)
			}
		}
		if len(goodPlayers) > 0 {
			herring := goodPlayers[s.sampler.Intn(len(goodPlayers))]
			if err := herring.AddReminderToken(models.ReminderToken{
				Kind:   models.TokenRedHerring,
				Source: script.FortuneTeller,
			}); err != nil {
				return err
			}
		}
	}

	return nil
}

// believedTownsfolk picks the townsfolk identity the Drunk is handed: one
// not already in play
func (s *service) believedTownsfolk(g *models.GameState) string {
	var inPlay []string
	for _, p := range g.Players {
		inPlay = append(inPlay, p.Character)
	}
	taken := make(map[string]bool, len(inPlay))
	for _, name := range inPlay {
		taken[name] = true
	}

	var pool []string
	for _, c := range script.All() {
		if c.Category == models.CategoryTownsfolk && !taken[c.Name] {
			pool = append(pool, c.Name)
		}
	}
	if len(pool) == 0 {
		return script.Soldier
	}
	return pool[s.sampler.Intn(len(pool))]
}

// Override records a manual target choice for a player. If the machine is
// currently waiting on that player's prompt the wait is aborted and the
// override takes its place; otherwise it is consumed by the player's next
// wake. Setting the same override again is a no-op.
func (s *service) Override(ctx context.Context, input *OverrideInput) error {
	if input == nil || input.GameID == "" || input.PlayerID == "" {
		return ErrUnknownPlayer
	}
	targets := append([]string(nil), input.TargetIDs...)

	s.overrideMu.Lock()
	defer s.overrideMu.Unlock()

	if ch, ok := s.waiters[overrideKey(input.GameID, input.PlayerID)]; ok {
		select {
		case ch <- targets:
			s.logger.Info("override aborted a waiting prompt",
				zap.String("game_id", input.GameID),
				zap.String("player_id", input.PlayerID),
				zap.Strings("targets", input.TargetIDs),
			)
			return nil
		default:
			// The waiter was already satisfied; store for the next wake.
		}
	}

	perGame, ok := s.overrides[input.GameID]
	if !ok {
		perGame = make(map[string][]string)
		s.overrides[input.GameID] = perGame
	}
	perGame[input.PlayerID] = targets

	s.logger.Info("override recorded",
		zap.String("game_id", input.GameID),
		zap.String("player_id", input.PlayerID),
		zap.Strings("targets", input.TargetIDs),
	)
	return nil
}

// takeOverride consumes a pending override for a player, if any
func (s *service) takeOverride(gameID, playerID string) ([]string, bool) {
	s.overrideMu.Lock()
	defer s.overrideMu.Unlock()

	perGame, ok := s.overrides[gameID]
	if !ok {
		return nil, false
	}
	targets, ok := perGame[playerID]
	if !ok {
		return nil, false
	}
	delete(perGame, playerID)
	return targets, true
}

// registerOverrideWaiter exposes an in-flight prompt to Override so it can
// abort the wait. The returned cancel must be called when the wait ends.
func (s *service) registerOverrideWaiter(gameID, playerID string) (<-chan []string, func()) {
	key := overrideKey(gameID, playerID)
	ch := make(chan []string, 1)

	s.overrideMu.Lock()
	s.waiters[key] = ch
	s.overrideMu.Unlock()

	cancel := func() {
		s.overrideMu.Lock()
		delete(s.waiters, key)
		s.overrideMu.Unlock()
	}
	return ch, cancel
}

func overrideKey(gameID, playerID string) string {
	return gameID + "|" + playerID
}

// ApplyCorrection re-runs an external state correction through the entity
// model's mutators. A correction the model rejects means the platform and
// the adjudicator disagree, which is surfaced as ErrDesync.
func (s *service) ApplyCorrection(ctx context.Context, input *ApplyCorrectionInput) error {
	if input == nil || input.GameID == "" {
		return ErrNilGame
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.loadGame(ctx, input.GameID)
	if err != nil {
		return err
	}
	player := g.PlayerByID(input.PlayerID)
	if player == nil {
		return fmt.Errorf("%w: %s", ErrDesync, input.PlayerID)
	}

	switch input.Kind {
	case CorrectionMarkDead:
		err = player.MarkDead()
	case CorrectionMarkAlive:
		err = player.MarkAlive(input.Rule)
	case CorrectionSetStatus:
		err = player.SetStatus(input.Status, input.Active, input.Source)
	case CorrectionSpendGhost:
		err = player.UseGhostVote()
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCorrection, input.Kind)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDesync, err)
	}

	s.appendEvent(ctx, g, &models.PublicEvent{
		Type:     models.EventStatusUpdate,
		TargetID: input.PlayerID,
		Message:  fmt.Sprintf("state corrected: %s for %s", input.Kind, player.Name),
	}, false)

	return s.saveGame(ctx, g)
}

// ExportSnapshot returns the persisted full state of a game
func (s *service) ExportSnapshot(ctx context.Context, input *ExportSnapshotInput) (*models.GameState, error) {
	if input == nil || input.GameID == "" {
		return nil, ErrNilGame
	}
	return s.loadGame(ctx, input.GameID)
}

// ImportSnapshot replaces a game's state wholesale and rebuilds the
// narrative context from the imported logs
func (s *service) ImportSnapshot(ctx context.Context, input *ImportSnapshotInput) error {
	if input == nil || input.Game == nil {
		return ErrNilGame
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	g := input.Game
	s.tracker.Reset()
	for _, rec := range g.Decisions {
		s.tracker.RecordDecision(rec)
	}
	for _, ev := range g.Events {
		s.tracker.RecordEvent(ev)
	}

	if err := s.repo.SaveSnapshot(ctx, &snapshot.SaveSnapshotInput{Game: g}); err != nil {
		return fmt.Errorf("failed to import snapshot: %w", err)
	}

	s.logger.Info("snapshot imported",
		zap.String("game_id", g.ID),
		zap.Int("decisions", len(g.Decisions)),
		zap.Int("events", len(g.Events)),
	)
	return nil
}

func (s *service) loadGame(ctx context.Context, gameID string) (*models.GameState, error) {
	g, err := s.repo.GetSnapshot(ctx, &snapshot.GetSnapshotInput{GameID: gameID})
	if err != nil {
		return nil, fmt.Errorf("failed to load game %s: %w", gameID, err)
	}
	return g, nil
}

func (s *service) saveGame(ctx context.Context, g *models.GameState) error {
	g.UpdatedAt = s.clock.Now()
	if err := s.repo.SaveSnapshot(ctx, &snapshot.SaveSnapshotInput{Game: g}); err != nil {
		return fmt.Errorf("failed to save game %s: %w", g.ID, err)
	}
	return nil
}

// appendEvent stamps, appends and fans out one public event: game log,
// tracker, archive, platform stream and, when announce is set, the table
// notifier. Collaborator failures are logged, never fatal.
func (s *service) appendEvent(ctx context.Context, g *models.GameState, event *models.PublicEvent, announce bool) *models.PublicEvent {
	event.ID = s.uuid.NewUUID()
	event.Day = g.Day
	event.Phase = g.Phase
	event.Timestamp = s.clock.Now()

	g.Events = append(g.Events, event)
	s.tracker.RecordEvent(event)

	if s.archive != nil {
		if err := s.archive.AppendEvent(ctx, &archive.AppendEventInput{GameID: g.ID, Event: event}); err != nil {
			s.logger.Warn("failed to archive event", zap.String("game_id", g.ID), zap.Error(err))
		}
	}
	if s.sync != nil {
		if err := s.sync.Publish(ctx, &SyncEvent{GameID: g.ID, Event: event}); err != nil {
			s.logger.Warn("failed to publish event", zap.String("game_id", g.ID), zap.Error(err))
		}
	}
	if announce {
		if err := s.notifier.AnnouncePublic(ctx, event); err != nil {
			s.logger.Warn("failed to announce event", zap.String("game_id", g.ID), zap.Error(err))
		}
	}
	return event
}

// appendDecision folds one engine ruling into the game log, tracker and
// archive
func (s *service) appendDecision(ctx context.Context, g *models.GameState, rec *models.DecisionRecord) {
	g.Decisions = append(g.Decisions, rec)
	s.tracker.RecordDecision(rec)

	if s.archive != nil {
		if err := s.archive.AppendDecision(ctx, &archive.AppendDecisionInput{GameID: g.ID, Decision: rec}); err != nil {
			s.logger.Warn("failed to archive decision", zap.String("game_id", g.ID), zap.Error(err))
		}
	}
}

// deliver sends private information, logging failures
func (s *service) deliver(ctx context.Context, gameID, playerID, message string) {
	if message == "" {
		return
	}
	if err := s.notifier.DeliverPrivateInfo(ctx, &PrivateInfo{
		GameID:   gameID,
		PlayerID: playerID,
		Message:  message,
	}); err != nil {
		s.logger.Warn("failed to deliver private info",
			zap.String("game_id", gameID),
			zap.String("player_id", playerID),
			zap.Error(err),
		)
	}
}

// killPlayer applies one death to the entity model, including the Scarlet
// Woman's promotion when the demon dies with five or more non-travelers
// standing. Returns false when the target was already dead.
func (s *service) killPlayer(ctx context.Context, g *models.GameState, targetID string) (bool, error) {
	target := g.PlayerByID(targetID)
	if target == nil {
		return false, fmt.Errorf("%w: %s", ErrUnknownPlayer, targetID)
	}
	if !target.Alive {
		return false, nil
	}

	livingBefore := len(g.LivingNonTravelers())
	if err := target.MarkDead(); err != nil {
		return false, err
	}

	if script.IsDemon(target.Character) && livingBefore >= 5 {
		if sw := g.PlayerWithCharacter(script.ScarletWoman); sw != nil && sw.Alive && !sw.Incapacitated() {
			sw.Character = script.Imp
			s.logger.Info("scarlet woman promoted",
				zap.String("game_id", g.ID),
				zap.String("player_id", sw.ID),
			)
			s.deliver(ctx, g.ID, sw.ID, "The demon has fallen and its mantle passes to you. You are the Imp.")
		}
	}

	return true, nil
}

// checkEnd evaluates the win conditions and, on a result, closes the game:
// winner set once, phase moved to ended, final event announced
func (s *service) checkEnd(ctx context.Context, g *models.GameState) bool {
	if g.Ended() {
		return true
	}
	winner, reason := rules.CheckWinCondition(g)
	if winner == models.WinnerNone {
		return false
	}
	s.endGame(ctx, g, winner, reason)
	return true
}

func (s *service) endGame(ctx context.Context, g *models.GameState, winner models.Winner, reason string) {
	g.Winner = winner
	g.WinReason = reason
	g.Phase = models.PhaseEnded

	s.appendEvent(ctx, g, &models.PublicEvent{
		Type:    models.EventGameEnd,
		Message: reason,
	}, true)

	s.logger.Info("game ended",
		zap.String("game_id", g.ID),
		zap.String("winner", string(winner)),
		zap.String("reason", reason),
	)
}

// requestTargets prompts a player with the machine's action deadline,
// normalizing expiry to ErrTimedOut
func (s *service) requestTargets(ctx context.Context, input *RequestTargetsInput) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.actionTimeout)
	defer cancel()

	out, err := s.input.RequestTargets(ctx, input)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrTimedOut) {
			return nil, ErrTimedOut
		}
		return nil, err
	}
	return out.TargetIDs, nil
}

// requestVote prompts a voter with the machine's action deadline; a timeout
// counts as a lowered hand
func (s *service) requestVote(ctx context.Context, input *RequestVoteInput) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.actionTimeout)
	defer cancel()

	out, err := s.input.RequestVote(ctx, input)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrTimedOut) {
			return false, ErrTimedOut
		}
		return false, err
	}
	return out.InFavor, nil
}

// draw removes and returns one uniformly chosen name from the pool
func (s *service) draw(pool *[]string) string {
	i := s.sampler.Intn(len(*pool))
	name := (*pool)[i]
	*pool = append((*pool)[:i], (*pool)[i+1:]...)
	return name
}

// shuffle permutes the character draw before seat assignment
func (s *service) shuffle(names []string) {
	for i := len(names) - 1; i > 0; i-- {
		j := s.sampler.Intn(i + 1)
		names[i], names[j] = names[j], names[i]
	}
}

func namesOf(category models.Category) []string {
	var names []string
	for _, c := range script.All() {
		if c.Category == category {
			names = append(names, c.Name)
		}
	}
	return names
}
