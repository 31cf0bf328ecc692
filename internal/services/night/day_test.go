package night_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/ravenshollow/grimoire/internal/chance"
	clockMocks "github.com/ravenshollow/grimoire/internal/common/clock/mocks"
	uuidMocks "github.com/ravenshollow/grimoire/internal/common/uuid/mocks"
	"github.com/ravenshollow/grimoire/internal/models"
	"github.com/ravenshollow/grimoire/internal/repositories/snapshot"
	snapshotMocks "github.com/ravenshollow/grimoire/internal/repositories/snapshot/mocks"
	"github.com/ravenshollow/grimoire/internal/rules"
	"github.com/ravenshollow/grimoire/internal/script"
	"github.com/ravenshollow/grimoire/internal/services/night"
	nightMocks "github.com/ravenshollow/grimoire/internal/services/night/mocks"
	storytellerMocks "github.com/ravenshollow/grimoire/internal/services/storyteller/mocks"
	"github.com/ravenshollow/grimoire/internal/tracker"
)

type DayPhaseTestSuite struct {
	suite.Suite
	mockCtrl     *gomock.Controller
	mockRepo     *snapshotMocks.MockRepository
	mockEngine   *storytellerMocks.MockService
	mockInput    *nightMocks.MockPlayerInput
	mockNotifier *nightMocks.MockNotifier
	mockClock    *clockMocks.MockClock
	mockUUID     *uuidMocks.MockUUID
	service      night.Service
	ctx          context.Context

	game *models.GameState
}

func (s *DayPhaseTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockRepo = snapshotMocks.NewMockRepository(s.mockCtrl)
	s.mockEngine = storytellerMocks.NewMockService(s.mockCtrl)
	s.mockInput = nightMocks.NewMockPlayerInput(s.mockCtrl)
	s.mockNotifier = nightMocks.NewMockNotifier(s.mockCtrl)
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)
	s.ctx = context.Background()

	s.mockClock.EXPECT().Now().Return(time.Date(2025, 11, 3, 14, 0, 0, 0, time.UTC)).AnyTimes()
	s.mockUUID.EXPECT().NewUUID().Return("test-id").AnyTimes()
	s.mockNotifier.EXPECT().DeliverPrivateInfo(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	s.mockNotifier.EXPECT().AnnouncePublic(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc, err := night.New(&night.Config{
		Repository:  s.mockRepo,
		Engine:      s.mockEngine,
		PlayerInput: s.mockInput,
		Notifier:    s.mockNotifier,
		Tracker:     tracker.New(),
		Sampler:     chance.New(&chance.Config{Seed: 11}),
		Clock:       s.mockClock,
		UUID:        s.mockUUID,
	})
	s.Require().NoError(err)
	s.service = svc

	s.game = s.dayGame()
	s.mockRepo.EXPECT().
		GetSnapshot(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, input *snapshot.GetSnapshotInput) (*models.GameState, error) {
			return s.game, nil
		}).
		AnyTimes()
	s.mockRepo.EXPECT().SaveSnapshot(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func (s *DayPhaseTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *DayPhaseTestSuite) dayGame() *models.GameState {
	mk := func(seat int, name, character string, team models.Team) *models.Player {
		return &models.Player{
			ID:        name,
			Name:      name,
			Seat:      seat,
			Character: character,
			Team:      team,
			Alive:     true,
		}
	}
	return &models.GameState{
		ID:    "test-game-id",
		Phase: models.PhaseDay,
		Day:   2,
		Players: []*models.Player{
			mk(0, "slayer", script.Slayer, models.TeamGood),
			mk(1, "imp", script.Imp, models.TeamEvil),
			mk(2, "poisoner", script.Poisoner, models.TeamEvil),
			mk(3, "virgin", script.Virgin, models.TeamGood),
			mk(4, "saint", script.Saint, models.TeamGood),
			mk(5, "empath", script.Empath, models.TeamGood),
			mk(6, "mayor", script.Mayor, models.TeamGood),
		},
	}
}

// votesInFavor wires the vote prompt so the listed voters raise their hand
func (s *DayPhaseTestSuite) votesInFavor(yes ...string) {
	inFavor := make(map[string]bool, len(yes))
	for _, id := range yes {
		inFavor[id] = true
	}
	s.mockInput.EXPECT().
		RequestVote(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, input *night.RequestVoteInput) (*night.RequestVoteOutput, error) {
			return &night.RequestVoteOutput{InFavor: inFavor[input.VoterID]}, nil
		}).
		AnyTimes()
}

func (s *DayPhaseTestSuite) nominate(nominator, nominee string) *night.NominateOutput {
	out, err := s.service.Nominate(s.ctx, &night.NominateInput{
		GameID:      s.game.ID,
		NominatorID: nominator,
		NomineeID:   nominee,
	})
	s.Require().NoError(err)
	return out
}

func (s *DayPhaseTestSuite) TestNominate_RecordsNomination() {
	out := s.nominate("empath", "imp")

	s.Equal(models.PhaseNomination, s.game.Phase)
	s.Equal("empath", out.Nomination.NominatorID)
	s.Equal("imp", out.Nomination.NomineeID)
	s.False(out.VirginTriggered)

	var found bool
	for _, ev := range s.game.Events {
		if ev.Type == models.EventNomination && ev.TargetID == "imp" {
			found = true
		}
	}
	s.True(found)
}

func (s *DayPhaseTestSuite) TestNominate_RuleViolations() {
	dead := s.game.PlayerByID("poisoner")
	s.Require().NoError(dead.MarkDead())

	_, err := s.service.Nominate(s.ctx, &night.NominateInput{
		GameID:      s.game.ID,
		NominatorID: "poisoner",
		NomineeID:   "imp",
	})
	var v *rules.RuleViolation
	s.Require().ErrorAs(err, &v)
	s.Equal(rules.ReasonNominatorDead, v.Code)

	// One nomination per nominator per day.
	s.nominate("empath", "imp")
	_, err = s.service.Nominate(s.ctx, &night.NominateInput{
		GameID:      s.game.ID,
		NominatorID: "empath",
		NomineeID:   "saint",
	})
	s.Require().ErrorAs(err, &v)
	s.Equal(rules.ReasonNominatorSpent, v.Code)
}

func (s *DayPhaseTestSuite) TestNominate_VirginTriggerExecutesNominator() {
	out := s.nominate("empath", "virgin")

	s.True(out.VirginTriggered)
	s.False(s.game.PlayerByID("empath").Alive)
	s.Equal(1, s.game.ExecutionsToday)
	s.Equal("empath", s.game.ExecutedToday)
	s.Equal(models.PhaseDay, s.game.Phase, "the day continues after the trigger")
	s.True(s.game.PlayerByID("virgin").HasToken(models.TokenAbilitySpent))
}

func (s *DayPhaseTestSuite) TestNominate_PoisonedVirginSpendsForNothing() {
	virgin := s.game.PlayerByID("virgin")
	s.Require().NoError(virgin.SetStatus(models.StatusPoisoned, true, script.Poisoner))

	out := s.nominate("empath", "virgin")

	s.False(out.VirginTriggered)
	s.True(s.game.PlayerByID("empath").Alive)
	s.True(virgin.HasToken(models.TokenAbilitySpent))
}

func (s *DayPhaseTestSuite) TestConductVote_StrictMajorityExecutes() {
	s.nominate("empath", "imp")
	// 7 living, threshold 4.
	s.votesInFavor("slayer", "virgin", "saint", "empath")

	out, err := s.service.ConductVote(s.ctx, &night.ConductVoteInput{
		GameID:    s.game.ID,
		NomineeID: "imp",
	})
	s.Require().NoError(err)

	s.Equal(4, out.Threshold)
	s.Equal(4, out.Nomination.Tally)
	s.True(out.Executed)
	s.False(s.game.PlayerByID("imp").Alive)

	// Executing the demon ends the game for good.
	s.True(s.game.Ended())
	s.Equal(models.GoodWin, s.game.Winner)
}

func (s *DayPhaseTestSuite) TestConductVote_ExactHalfNeverExecutes() {
	// Kill one player so 6 live: half is 3, threshold 4.
	s.Require().NoError(s.game.PlayerByID("mayor").MarkDead())
	s.game.PlayerByID("mayor").GhostVoteUsed = true

	s.nominate("empath", "imp")
	s.votesInFavor("slayer", "virgin", "saint")

	out, err := s.service.ConductVote(s.ctx, &night.ConductVoteInput{
		GameID:    s.game.ID,
		NomineeID: "imp",
	})
	s.Require().NoError(err)

	s.Equal(4, out.Threshold)
	s.Equal(3, out.Nomination.Tally)
	s.False(out.Executed)
	s.True(s.game.PlayerByID("imp").Alive)
	s.Equal(models.PhaseDay, s.game.Phase)
}

func (s *DayPhaseTestSuite) TestConductVote_GhostVoteSpentOnce() {
	ghost := s.game.PlayerByID("mayor")
	s.Require().NoError(ghost.MarkDead())

	s.nominate("empath", "poisoner")
	s.votesInFavor("mayor")

	out, err := s.service.ConductVote(s.ctx, &night.ConductVoteInput{
		GameID:    s.game.ID,
		NomineeID: "poisoner",
	})
	s.Require().NoError(err)

	s.False(out.Executed)
	s.True(ghost.GhostVoteUsed, "a raised dead hand is spent even on a failed vote")

	// On the next vote the ghost is no longer polled: 6 living voters only.
	s.nominate("saint", "imp")
	out, err = s.service.ConductVote(s.ctx, &night.ConductVoteInput{
		GameID:    s.game.ID,
		NomineeID: "imp",
	})
	s.Require().NoError(err)
	s.Len(out.Nomination.Votes, 6)
}

func (s *DayPhaseTestSuite) TestConductVote_ButlerVoteGatedOnMaster() {
	// Rewire: empath becomes a Butler whose master is the slayer.
	butler := s.game.PlayerByID("empath")
	butler.Character = script.Butler
	s.Require().NoError(butler.AddReminderToken(models.ReminderToken{
		Kind:     models.TokenVoteRestriction,
		Source:   script.Butler,
		TargetID: "slayer",
	}))

	s.nominate("saint", "poisoner")
	// Butler raises their hand but the master does not: the vote is void.
	s.votesInFavor("empath", "virgin", "mayor")

	out, err := s.service.ConductVote(s.ctx, &night.ConductVoteInput{
		GameID:    s.game.ID,
		NomineeID: "poisoner",
	})
	s.Require().NoError(err)
	s.Equal(2, out.Nomination.Tally)
}

func (s *DayPhaseTestSuite) TestConductVote_SaintExecutionEndsGameForEvil() {
	s.nominate("empath", "saint")
	s.votesInFavor("slayer", "virgin", "empath", "mayor")

	out, err := s.service.ConductVote(s.ctx, &night.ConductVoteInput{
		GameID:    s.game.ID,
		NomineeID: "saint",
	})
	s.Require().NoError(err)

	s.True(out.Executed)
	s.True(s.game.Ended())
	s.Equal(models.EvilWin, s.game.Winner)
}

func (s *DayPhaseTestSuite) TestSlayerShot_KillsDemon() {
	out, err := s.service.SlayerShot(s.ctx, &night.SlayerShotInput{
		GameID:   s.game.ID,
		SlayerID: "slayer",
		TargetID: "imp",
	})
	s.Require().NoError(err)

	s.True(out.Killed)
	s.False(s.game.PlayerByID("imp").Alive)
	s.True(s.game.Ended())
	s.Equal(models.GoodWin, s.game.Winner)
}

func (s *DayPhaseTestSuite) TestSlayerShot_OncePerGame() {
	_, err := s.service.SlayerShot(s.ctx, &night.SlayerShotInput{
		GameID:   s.game.ID,
		SlayerID: "slayer",
		TargetID: "saint",
	})
	s.Require().NoError(err)

	_, err = s.service.SlayerShot(s.ctx, &night.SlayerShotInput{
		GameID:   s.game.ID,
		SlayerID: "slayer",
		TargetID: "imp",
	})
	s.ErrorIs(err, night.ErrAbilitySpent)
}

func (s *DayPhaseTestSuite) TestSlayerShot_DrunkSlayerMisses() {
	slayer := s.game.PlayerByID("slayer")
	s.Require().NoError(slayer.SetStatus(models.StatusDrunk, true, script.Drunk))

	out, err := s.service.SlayerShot(s.ctx, &night.SlayerShotInput{
		GameID:   s.game.ID,
		SlayerID: "slayer",
		TargetID: "imp",
	})
	s.Require().NoError(err)

	s.False(out.Killed)
	s.True(s.game.PlayerByID("imp").Alive)
}

func (s *DayPhaseTestSuite) TestEndDay_MovesToNight() {
	out, err := s.service.EndDay(s.ctx, &night.EndDayInput{GameID: s.game.ID})
	s.Require().NoError(err)

	s.False(out.Ended)
	s.Equal(models.PhaseNight, s.game.Phase)
}

func (s *DayPhaseTestSuite) TestEndDay_MayorWinAtDusk() {
	// Exactly three alive, no execution today, sober Mayor standing.
	for _, id := range []string{"slayer", "poisoner", "virgin", "saint"} {
		s.Require().NoError(s.game.PlayerByID(id).MarkDead())
	}

	out, err := s.service.EndDay(s.ctx, &night.EndDayInput{GameID: s.game.ID})
	s.Require().NoError(err)

	s.True(out.Ended)
	s.Equal(models.GoodWin, s.game.Winner)
	s.Equal(models.PhaseEnded, s.game.Phase)
}

func (s *DayPhaseTestSuite) TestWinnerIsMonotonic() {
	// Once a winner is set, no later operation may change it.
	s.game.Winner = models.GoodWin
	s.game.WinReason = "the demon has been slain"
	s.game.Phase = models.PhaseEnded

	_, err := s.service.Nominate(s.ctx, &night.NominateInput{
		GameID:      s.game.ID,
		NominatorID: "empath",
		NomineeID:   "saint",
	})
	s.ErrorIs(err, night.ErrGameEnded)
	s.Equal(models.GoodWin, s.game.Winner)
}

func (s *DayPhaseTestSuite) TestApplyCorrection_ContradictionIsDesync() {
	s.Require().NoError(s.game.PlayerByID("saint").MarkDead())

	err := s.service.ApplyCorrection(s.ctx, &night.ApplyCorrectionInput{
		GameID:   s.game.ID,
		Kind:     night.CorrectionMarkDead,
		PlayerID: "saint",
	})
	s.ErrorIs(err, night.ErrDesync)

	// A resurrection without a named rule is equally a contradiction.
	err = s.service.ApplyCorrection(s.ctx, &night.ApplyCorrectionInput{
		GameID:   s.game.ID,
		Kind:     night.CorrectionMarkAlive,
		PlayerID: "saint",
	})
	s.ErrorIs(err, night.ErrDesync)
}

func (s *DayPhaseTestSuite) TestExportSnapshot() {
	g, err := s.service.ExportSnapshot(s.ctx, &night.ExportSnapshotInput{GameID: s.game.ID})
	s.Require().NoError(err)
	s.Equal(s.game, g)
}

func (s *DayPhaseTestSuite) TestImportSnapshot_RebuildsContext() {
	imported := s.dayGame()
	imported.Decisions = []*models.DecisionRecord{
		{ID: "d1", ActorID: "empath", ActorTeam: models.TeamGood, Corrupted: true},
	}
	imported.Events = []*models.PublicEvent{
		{ID: "e1", Type: models.EventPhaseChange, Day: 1, Message: "Dawn of day 1."},
	}

	err := s.service.ImportSnapshot(s.ctx, &night.ImportSnapshotInput{Game: imported})
	s.Require().NoError(err)

	// The replaced state is what subsequent reads see.
	s.game = imported
	g, err := s.service.ExportSnapshot(s.ctx, &night.ExportSnapshotInput{GameID: imported.ID})
	s.Require().NoError(err)
	s.Equal(imported, g)
}

func TestDayPhaseTestSuite(t *testing.T) {
	suite.Run(t, new(DayPhaseTestSuite))
}
