package storyteller

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/ravenshollow/grimoire/internal/chance"
	clockMocks "github.com/ravenshollow/grimoire/internal/common/clock/mocks"
	uuidMocks "github.com/ravenshollow/grimoire/internal/common/uuid/mocks"
	"github.com/ravenshollow/grimoire/internal/models"
	"github.com/ravenshollow/grimoire/internal/script"
	"github.com/ravenshollow/grimoire/internal/tracker"
)

type StorytellerServiceTestSuite struct {
	suite.Suite
	mockCtrl  *gomock.Controller
	mockClock *clockMocks.MockClock
	mockUUID  *uuidMocks.MockUUID
	sampler   *chance.Sampler
	tracker   *tracker.Tracker
	service   *service
	ctx       context.Context

	testTime time.Time
	game     *models.GameState
}

func (s *StorytellerServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)
	s.sampler = chance.New(&chance.Config{Seed: 42})
	s.tracker = tracker.New()
	s.ctx = context.Background()

	s.testTime = time.Date(2025, 11, 2, 21, 0, 0, 0, time.UTC)
	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()
	s.mockUUID.EXPECT().NewUUID().Return("test-decision-id").AnyTimes()

	svc, err := New(&Config{
		Sampler: s.sampler,
		Tracker: s.tracker,
		Clock:   s.mockClock,
		UUID:    s.mockUUID,
	})
	s.Require().NoError(err)
	s.service = svc

	s.game = s.sevenPlayerGame()
}

func (s *StorytellerServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

// sevenPlayerGame builds a board without the Recluse or Spy so that
// information readings are deterministic for sober actors.
func (s *StorytellerServiceTestSuite) sevenPlayerGame() *models.GameState {
	mk := func(seat int, name, character string, team models.Team) *models.Player {
		return &models.Player{
			ID:        fmt.Sprintf("player-%d", seat),
			Name:      name,
			Seat:      seat,
			Character: character,
			Team:      team,
			Alive:     true,
		}
	}
	return &models.GameState{
		ID:    "test-game-id",
		Phase: models.PhaseNight,
		Day:   2,
		Players: []*models.Player{
			mk(0, "Alice", script.Empath, models.TeamGood),
			mk(1, "Bob", script.Imp, models.TeamEvil),
			mk(2, "Carol", script.Poisoner, models.TeamEvil),
			mk(3, "Dave", script.Monk, models.TeamGood),
			mk(4, "Eve", script.FortuneTeller, models.TeamGood),
			mk(5, "Frank", script.Soldier, models.TeamGood),
			mk(6, "Grace", script.Butler, models.TeamGood),
		},
	}
}

func (s *StorytellerServiceTestSuite) TestNew_Validation() {
	testCases := []struct {
		name     string
		cfg      *Config
		expected error
	}{
		{"nil config", nil, ErrNilConfig},
		{"nil sampler", &Config{Tracker: s.tracker, Clock: s.mockClock, UUID: s.mockUUID}, ErrNilSampler},
		{"nil tracker", &Config{Sampler: s.sampler, Clock: s.mockClock, UUID: s.mockUUID}, ErrNilTracker},
		{"nil clock", &Config{Sampler: s.sampler, Tracker: s.tracker, UUID: s.mockUUID}, ErrNilClock},
		{"nil uuid", &Config{Sampler: s.sampler, Tracker: s.tracker, Clock: s.mockClock}, ErrNilUUID},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			svc, err := New(tc.cfg)
			s.Nil(svc)
			s.ErrorIs(err, tc.expected)
		})
	}
}

func (s *StorytellerServiceTestSuite) TestNew_Defaults() {
	s.Equal(defaultBaseTruthProbability, s.service.baseTruth)
	s.Equal(defaultBalanceWeight, s.service.balanceWeight)
	s.Equal(defaultDramaWeight, s.service.dramaWeight)
}

func (s *StorytellerServiceTestSuite) TestResolve_UnknownCharacter() {
	actor := s.game.PlayerByID("player-0")
	out, err := s.service.Resolve(s.ctx, &ResolveInput{
		Game:      s.game,
		Actor:     actor,
		Character: "Mayor",
	})
	s.Nil(out)
	s.ErrorIs(err, ErrUnknownHandler)
}

func (s *StorytellerServiceTestSuite) TestResolve_SoberActorAlwaysTruthful() {
	// Alice's living neighbors are Grace (good) and Bob (evil): exactly one
	// evil neighbor, and a sober Empath must be told so.
	actor := s.game.PlayerByID("player-0")

	out, err := s.service.Resolve(s.ctx, &ResolveInput{
		Game:      s.game,
		Actor:     actor,
		Character: script.Empath,
	})
	s.Require().NoError(err)

	s.Equal("1", out.Record.TrueResult)
	s.Equal("1", out.Record.DeliveredResult)
	s.False(out.Record.Corrupted)
	s.Equal(1.0, out.Record.TruthProbability)
	s.Contains(out.Record.Reasoning, "sober")
	s.Contains(out.Delivery, "1 of your living neighbors")
	s.Equal(s.testTime, out.Record.Timestamp)
	s.Equal("test-decision-id", out.Record.ID)
}

func (s *StorytellerServiceTestSuite) TestResolve_PoisonedActorEligibleForCorruption() {
	actor := s.game.PlayerByID("player-0")
	s.Require().NoError(actor.SetStatus(models.StatusPoisoned, true, script.Poisoner))

	sawTruth := false
	sawLie := false
	for i := 0; i < 400 && !(sawTruth && sawLie); i++ {
		out, err := s.service.Resolve(s.ctx, &ResolveInput{
			Game:      s.game,
			Actor:     actor,
			Character: script.Empath,
		})
		s.Require().NoError(err)

		s.Less(out.Record.TruthProbability, 1.0)
		s.Contains(out.Record.Reasoning, "poisoned")
		s.Equal(out.Record.Corrupted, out.Record.TrueResult != out.Record.DeliveredResult)
		if out.Record.Corrupted {
			sawLie = true
			s.NotEqual(out.Record.TrueResult, out.Record.DeliveredResult)
		} else {
			sawTruth = true
		}
	}
	s.True(sawTruth, "the policy should sometimes keep the truth")
	s.True(sawLie, "the policy should sometimes corrupt")
}

func (s *StorytellerServiceTestSuite) TestResolve_CorruptedCountStaysInRange() {
	actor := s.game.PlayerByID("player-0")
	s.Require().NoError(actor.SetStatus(models.StatusPoisoned, true, script.Poisoner))

	for i := 0; i < 100; i++ {
		out, err := s.service.Resolve(s.ctx, &ResolveInput{
			Game:      s.game,
			Actor:     actor,
			Character: script.Empath,
		})
		s.Require().NoError(err)
		s.Contains([]string{"0", "1", "2"}, out.Record.DeliveredResult)
	}
}

func (s *StorytellerServiceTestSuite) TestResolve_FortuneTellerDetectsDemon() {
	actor := s.game.PlayerByID("player-4")

	out, err := s.service.Resolve(s.ctx, &ResolveInput{
		Game:      s.game,
		Actor:     actor,
		Character: script.FortuneTeller,
		TargetIDs: []string{"player-1", "player-3"},
	})
	s.Require().NoError(err)

	s.Equal("yes", out.Record.TrueResult)
	s.Equal("yes", out.Record.DeliveredResult)
	s.Contains(out.Delivery, "YES")
}

func (s *StorytellerServiceTestSuite) TestResolve_FortuneTellerRedHerring() {
	actor := s.game.PlayerByID("player-4")
	frank := s.game.PlayerByID("player-5")
	s.Require().NoError(frank.AddReminderToken(models.ReminderToken{
		Kind:   models.TokenRedHerring,
		Source: script.FortuneTeller,
	}))

	out, err := s.service.Resolve(s.ctx, &ResolveInput{
		Game:      s.game,
		Actor:     actor,
		Character: script.FortuneTeller,
		TargetIDs: []string{"player-5", "player-3"},
	})
	s.Require().NoError(err)

	s.Equal("yes", out.Record.TrueResult)
	s.Equal("yes", out.Record.DeliveredResult)
}

func (s *StorytellerServiceTestSuite) TestResolve_FortuneTellerRepeatStaysConsistent() {
	actor := s.game.PlayerByID("player-4")
	s.Require().NoError(actor.SetStatus(models.StatusPoisoned, true, script.Poisoner))

	first, err := s.service.Resolve(s.ctx, &ResolveInput{
		Game:      s.game,
		Actor:     actor,
		Character: script.FortuneTeller,
		TargetIDs: []string{"player-0", "player-3"},
	})
	s.Require().NoError(err)
	s.tracker.RecordDecision(first.Record)

	// Repeat queries against the same pair must echo the earlier ruling,
	// truthful or not.
	for i := 0; i < 10; i++ {
		again, err := s.service.Resolve(s.ctx, &ResolveInput{
			Game:      s.game,
			Actor:     actor,
			Character: script.FortuneTeller,
			TargetIDs: []string{"player-3", "player-0"},
		})
		s.Require().NoError(err)
		s.Equal(first.Record.DeliveredResult, again.Record.DeliveredResult)
		s.Contains(again.Record.Reasoning, "consistent")
	}
}

func (s *StorytellerServiceTestSuite) TestResolve_FortuneTellerTargetValidation() {
	actor := s.game.PlayerByID("player-4")

	_, err := s.service.Resolve(s.ctx, &ResolveInput{
		Game:      s.game,
		Actor:     actor,
		Character: script.FortuneTeller,
		TargetIDs: []string{"player-0"},
	})
	s.ErrorIs(err, ErrMissingTargets)

	_, err = s.service.Resolve(s.ctx, &ResolveInput{
		Game:      s.game,
		Actor:     actor,
		Character: script.FortuneTeller,
		TargetIDs: []string{"player-0", "no-such-player"},
	})
	s.ErrorIs(err, ErrUnknownTarget)
}

func (s *StorytellerServiceTestSuite) TestResolve_ChefCountsAdjacentEvilPair() {
	// Bob (seat 1) and Carol (seat 2) are adjacent evil: one pair.
	s.game.Phase = models.PhaseFirstNight
	actor := s.game.PlayerByID("player-3")
	actor.Character = script.Chef

	out, err := s.service.Resolve(s.ctx, &ResolveInput{
		Game:       s.game,
		Actor:      actor,
		Character:  script.Chef,
		FirstNight: true,
	})
	s.Require().NoError(err)

	s.Equal("1", out.Record.TrueResult)
	s.Equal("1", out.Record.DeliveredResult)
	s.True(out.Record.Night)
}

func (s *StorytellerServiceTestSuite) TestResolve_WasherwomanShowsRealTownsfolk() {
	s.game.Phase = models.PhaseFirstNight
	actor := s.game.PlayerByID("player-6")
	actor.Character = script.Washerwoman

	out, err := s.service.Resolve(s.ctx, &ResolveInput{
		Game:       s.game,
		Actor:      actor,
		Character:  script.Washerwoman,
		FirstNight: true,
	})
	s.Require().NoError(err)

	s.False(out.Record.Corrupted)
	s.Len(out.Record.TargetIDs, 2)
	shown := s.game.PlayerByID(out.Record.TargetIDs[0])
	s.Require().NotNil(shown)
	s.Equal(shown.Character, out.Record.TrueResult)
	s.True(script.IsTownsfolk(shown.Character))
	s.Contains(out.Delivery, out.Record.DeliveredResult)
}

func (s *StorytellerServiceTestSuite) TestResolve_LibrarianWithNoOutsiders() {
	s.game.Phase = models.PhaseFirstNight
	actor := s.game.PlayerByID("player-6")
	actor.Character = script.Librarian

	out, err := s.service.Resolve(s.ctx, &ResolveInput{
		Game:       s.game,
		Actor:      actor,
		Character:  script.Librarian,
		FirstNight: true,
	})
	s.Require().NoError(err)

	s.Equal("none", out.Record.TrueResult)
	s.Contains(out.Delivery, "no Outsiders")
}

func (s *StorytellerServiceTestSuite) TestResolve_UndertakerNoExecution() {
	actor := s.game.PlayerByID("player-6")
	actor.Character = script.Undertaker

	out, err := s.service.Resolve(s.ctx, &ResolveInput{
		Game:      s.game,
		Actor:     actor,
		Character: script.Undertaker,
	})
	s.Require().NoError(err)

	s.Equal("none", out.Record.TrueResult)
	s.False(out.Record.Corrupted)
	s.Contains(out.Delivery, "No one was executed")
}

func (s *StorytellerServiceTestSuite) TestResolve_UndertakerLearnsExecutedCharacter() {
	carol := s.game.PlayerByID("player-2")
	s.Require().NoError(carol.MarkDead())
	s.game.ExecutedToday = carol.ID

	actor := s.game.PlayerByID("player-6")
	actor.Character = script.Undertaker

	out, err := s.service.Resolve(s.ctx, &ResolveInput{
		Game:      s.game,
		Actor:     actor,
		Character: script.Undertaker,
	})
	s.Require().NoError(err)

	s.Equal(script.Poisoner, out.Record.TrueResult)
	s.Equal(script.Poisoner, out.Record.DeliveredResult)
	s.Contains(out.Delivery, script.Poisoner)
}

func (s *StorytellerServiceTestSuite) TestResolve_MonkProtects() {
	actor := s.game.PlayerByID("player-3")

	out, err := s.service.Resolve(s.ctx, &ResolveInput{
		Game:      s.game,
		Actor:     actor,
		Character: script.Monk,
		TargetIDs: []string{"player-4"},
	})
	s.Require().NoError(err)

	s.Require().Len(out.Effects, 1)
	s.Equal(EffectProtect, out.Effects[0].Kind)
	s.Equal("player-4", out.Effects[0].TargetID)
	s.Equal(script.Monk, out.Effects[0].Source)
	s.False(out.Record.EfficacyFailed)
	s.Empty(out.Delivery)
}

func (s *StorytellerServiceTestSuite) TestResolve_MonkCannotProtectSelf() {
	actor := s.game.PlayerByID("player-3")

	_, err := s.service.Resolve(s.ctx, &ResolveInput{
		Game:      s.game,
		Actor:     actor,
		Character: script.Monk,
		TargetIDs: []string{actor.ID},
	})
	s.ErrorIs(err, ErrIllegalTarget)
}

func (s *StorytellerServiceTestSuite) TestResolve_PoisonedMonkFailsSilently() {
	actor := s.game.PlayerByID("player-3")
	s.Require().NoError(actor.SetStatus(models.StatusPoisoned, true, script.Poisoner))

	out, err := s.service.Resolve(s.ctx, &ResolveInput{
		Game:      s.game,
		Actor:     actor,
		Character: script.Monk,
		TargetIDs: []string{"player-4"},
	})
	s.Require().NoError(err)

	s.Empty(out.Effects)
	s.True(out.Record.EfficacyFailed)
	s.False(out.Record.Corrupted)
	s.Contains(out.Record.Reasoning, "nullified")
}

func (s *StorytellerServiceTestSuite) TestResolve_PoisonerPlacesPoison() {
	actor := s.game.PlayerByID("player-2")

	out, err := s.service.Resolve(s.ctx, &ResolveInput{
		Game:      s.game,
		Actor:     actor,
		Character: script.Poisoner,
		TargetIDs: []string{"player-0"},
	})
	s.Require().NoError(err)

	s.Require().Len(out.Effects, 1)
	s.Equal(EffectPoison, out.Effects[0].Kind)
	s.Equal("player-0", out.Effects[0].TargetID)
}

func (s *StorytellerServiceTestSuite) TestResolve_ButlerChoosesMaster() {
	actor := s.game.PlayerByID("player-6")

	out, err := s.service.Resolve(s.ctx, &ResolveInput{
		Game:      s.game,
		Actor:     actor,
		Character: script.Butler,
		TargetIDs: []string{"player-0"},
	})
	s.Require().NoError(err)

	s.Require().Len(out.Effects, 1)
	s.Equal(EffectSetMaster, out.Effects[0].Kind)
	s.Equal("player-0", out.Effects[0].TargetID)
}

func (s *StorytellerServiceTestSuite) TestResolve_ImpKill() {
	actor := s.game.PlayerByID("player-1")

	out, err := s.service.Resolve(s.ctx, &ResolveInput{
		Game:      s.game,
		Actor:     actor,
		Character: script.Imp,
		TargetIDs: []string{"player-0"},
	})
	s.Require().NoError(err)

	s.Require().Len(out.Effects, 1)
	s.Equal(EffectKill, out.Effects[0].Kind)
	s.Equal("player-0", out.Effects[0].TargetID)
	s.Equal(script.Imp, out.Effects[0].Source)
}

func (s *StorytellerServiceTestSuite) TestResolve_ImpStarPassPrefersScarletWoman() {
	carol := s.game.PlayerByID("player-2")
	carol.Character = script.ScarletWoman
	actor := s.game.PlayerByID("player-1")

	out, err := s.service.Resolve(s.ctx, &ResolveInput{
		Game:      s.game,
		Actor:     actor,
		Character: script.Imp,
		TargetIDs: []string{actor.ID},
	})
	s.Require().NoError(err)

	s.Require().Len(out.Effects, 2)
	s.Equal(EffectBecomeDemon, out.Effects[0].Kind)
	s.Equal(carol.ID, out.Effects[0].TargetID)
	s.Equal(EffectKill, out.Effects[1].Kind)
	s.Equal(actor.ID, out.Effects[1].TargetID)
	s.Equal("starpass", out.Record.TrueResult)
}

func (s *StorytellerServiceTestSuite) TestResolve_ImpStarPassWithoutMinions() {
	actor := s.game.PlayerByID("player-1")
	carol := s.game.PlayerByID("player-2")
	s.Require().NoError(carol.MarkDead())

	out, err := s.service.Resolve(s.ctx, &ResolveInput{
		Game:      s.game,
		Actor:     actor,
		Character: script.Imp,
		TargetIDs: []string{actor.ID},
	})
	s.Require().NoError(err)

	s.Require().Len(out.Effects, 1)
	s.Equal(EffectKill, out.Effects[0].Kind)
	s.Equal(actor.ID, out.Effects[0].TargetID)
}

func (s *StorytellerServiceTestSuite) TestResolve_PoisonedImpKillFails() {
	actor := s.game.PlayerByID("player-1")
	s.Require().NoError(actor.SetStatus(models.StatusPoisoned, true, script.Poisoner))

	out, err := s.service.Resolve(s.ctx, &ResolveInput{
		Game:      s.game,
		Actor:     actor,
		Character: script.Imp,
		TargetIDs: []string{"player-0"},
	})
	s.Require().NoError(err)

	s.Empty(out.Effects)
	s.True(out.Record.EfficacyFailed)
}

func (s *StorytellerServiceTestSuite) TestSelectKill_SkipsProtectedPlayers() {
	eve := s.game.PlayerByID("player-4")
	s.Require().NoError(eve.AddReminderToken(models.ReminderToken{
		Kind:   models.TokenProtected,
		Source: script.Monk,
	}))

	for i := 0; i < 50; i++ {
		out, err := s.service.SelectKill(s.ctx, &SelectKillInput{
			Game:    s.game,
			DemonID: "player-1",
		})
		s.Require().NoError(err)
		s.NotEqual(eve.ID, out.TargetID, "protected players are never chosen")
		s.NotEqual("player-1", out.TargetID, "the demon never targets itself here")
		s.NotEqual("player-5", out.TargetID, "the Soldier is immune to the demon")
		s.NotEmpty(out.Reasoning)
	}
}

func (s *StorytellerServiceTestSuite) TestSelectKill_NoLegalTargets() {
	for _, p := range s.game.Players {
		if p.ID != "player-1" && p.ID != "player-5" {
			s.Require().NoError(p.MarkDead())
		}
	}

	out, err := s.service.SelectKill(s.ctx, &SelectKillInput{
		Game:    s.game,
		DemonID: "player-1",
	})
	s.Nil(out)
	s.ErrorIs(err, ErrNoLegalTargets)
}

func (s *StorytellerServiceTestSuite) TestChooseBluffs_ThreeGoodCharactersNotInPlay() {
	out, err := s.service.ChooseBluffs(s.ctx, &ChooseBluffsInput{Game: s.game})
	s.Require().NoError(err)
	s.Require().Len(out.Bluffs, 3)

	inPlay := make(map[string]bool)
	for _, p := range s.game.Players {
		inPlay[p.Character] = true
	}

	seen := make(map[string]bool)
	for _, bluff := range out.Bluffs {
		s.False(inPlay[bluff], "bluff %s is in play", bluff)
		s.False(seen[bluff], "bluff %s repeated", bluff)
		s.True(script.IsTownsfolk(bluff) || script.IsOutsider(bluff))
		seen[bluff] = true
	}
}

func (s *StorytellerServiceTestSuite) TestChooseBluffs_PrefersTownsfolk() {
	for i := 0; i < 20; i++ {
		out, err := s.service.ChooseBluffs(s.ctx, &ChooseBluffsInput{Game: s.game})
		s.Require().NoError(err)
		for _, bluff := range out.Bluffs {
			s.True(script.IsTownsfolk(bluff),
				"with enough townsfolk off the board, outsider bluff %s should not appear", bluff)
		}
	}
}

func (s *StorytellerServiceTestSuite) TestResolve_SpyGrimoireListsEveryPlayer() {
	actor := s.game.PlayerByID("player-2")
	actor.Character = script.Spy
	s.game.Phase = models.PhaseFirstNight

	out, err := s.service.Resolve(s.ctx, &ResolveInput{
		Game:       s.game,
		Actor:      actor,
		Character:  script.Spy,
		FirstNight: true,
	})
	s.Require().NoError(err)

	for _, p := range s.game.Players {
		s.Contains(out.Delivery, p.Name)
	}
	s.True(strings.HasPrefix(out.Delivery, "You see the Grimoire"))
}

func TestStorytellerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StorytellerServiceTestSuite))
}
