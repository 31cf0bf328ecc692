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
	snapshotMocks "github.com/ravenshollow/grimoire/internal/repositories/snapshot/mocks"
	"github.com/ravenshollow/grimoire/internal/script"
	"github.com/ravenshollow/grimoire/internal/services/night"
	nightMocks "github.com/ravenshollow/grimoire/internal/services/night/mocks"
	"github.com/ravenshollow/grimoire/internal/services/storyteller"
	storytellerMocks "github.com/ravenshollow/grimoire/internal/services/storyteller/mocks"
	"github.com/ravenshollow/grimoire/internal/tracker"
)

type CreateGameTestSuite struct {
	suite.Suite
	mockCtrl   *gomock.Controller
	mockRepo   *snapshotMocks.MockRepository
	mockEngine *storytellerMocks.MockService
	service    night.Service
	ctx        context.Context
}

func (s *CreateGameTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockRepo = snapshotMocks.NewMockRepository(s.mockCtrl)
	s.mockEngine = storytellerMocks.NewMockService(s.mockCtrl)
	mockInput := nightMocks.NewMockPlayerInput(s.mockCtrl)
	mockNotifier := nightMocks.NewMockNotifier(s.mockCtrl)
	mockClock := clockMocks.NewMockClock(s.mockCtrl)
	mockUUID := uuidMocks.NewMockUUID(s.mockCtrl)
	s.ctx = context.Background()

	mockClock.EXPECT().Now().Return(time.Date(2025, 11, 2, 20, 0, 0, 0, time.UTC)).AnyTimes()
	mockUUID.EXPECT().NewUUID().Return("test-game-id").AnyTimes()

	svc, err := night.New(&night.Config{
		Repository:  s.mockRepo,
		Engine:      s.mockEngine,
		PlayerInput: mockInput,
		Notifier:    mockNotifier,
		Tracker:     tracker.New(),
		Sampler:     chance.New(&chance.Config{Seed: 3}),
		Clock:       mockClock,
		UUID:        mockUUID,
	})
	s.Require().NoError(err)
	s.service = svc
}

func (s *CreateGameTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func seats(n int) []night.Seat {
	names := []string{
		"Alice", "Bob", "Carol", "Dave", "Eve", "Frank", "Grace",
		"Heidi", "Ivan", "Judy", "Ken", "Lena", "Mal", "Nina", "Omar",
	}
	out := make([]night.Seat, n)
	for i := 0; i < n; i++ {
		out[i] = night.Seat{PlayerID: names[i], Name: names[i]}
	}
	return out
}

func (s *CreateGameTestSuite) expectBluffs() {
	s.mockEngine.EXPECT().
		ChooseBluffs(gomock.Any(), gomock.Any()).
		Return(&storyteller.ChooseBluffsOutput{
			Bluffs: []string{script.Chef, script.Slayer, script.Librarian},
		}, nil)
	s.mockRepo.EXPECT().SaveSnapshot(gomock.Any(), gomock.Any()).Return(nil)
}

func (s *CreateGameTestSuite) TestCreateGame_SevenPlayers() {
	s.expectBluffs()

	out, err := s.service.CreateGame(s.ctx, &night.CreateGameInput{Seats: seats(7)})
	s.Require().NoError(err)
	g := out.Game

	s.Equal("test-game-id", g.ID)
	s.Equal(models.PhaseFirstNight, g.Phase)
	s.Equal(0, g.Day)
	s.Len(g.Players, 7)
	s.Len(g.Bluffs, 3)

	counts := map[models.Category]int{}
	for _, p := range g.Players {
		c, ok := script.Get(p.Character)
		s.Require().True(ok, "every seat gets a catalog character")
		counts[c.Category]++
		s.True(p.Alive)
	}
	// 7 players: 5 townsfolk, 1 minion, 1 demon, unless a Baron was drawn.
	hasBaron := false
	for _, p := range g.Players {
		if p.Character == script.Baron {
			hasBaron = true
		}
	}
	if hasBaron {
		s.Equal(3, counts[models.CategoryTownsfolk])
		s.Equal(2, counts[models.CategoryOutsider])
	} else {
		s.Equal(5, counts[models.CategoryTownsfolk])
		s.Equal(0, counts[models.CategoryOutsider])
	}
	s.Equal(1, counts[models.CategoryMinion])
	s.Equal(1, counts[models.CategoryDemon])
}

func (s *CreateGameTestSuite) TestCreateGame_CharactersAreUnique() {
	s.expectBluffs()

	out, err := s.service.CreateGame(s.ctx, &night.CreateGameInput{Seats: seats(15)})
	s.Require().NoError(err)

	seen := map[string]bool{}
	for _, p := range out.Game.Players {
		s.False(seen[p.Character], "character %s dealt twice", p.Character)
		seen[p.Character] = true
	}
}

func (s *CreateGameTestSuite) TestCreateGame_DrunkSetup() {
	// Draw enough tables that some contain the Drunk; every one of those
	// must carry a false identity and the drunk status.
	sawDrunk := false
	for i := 0; i < 20 && !sawDrunk; i++ {
		s.expectBluffs()
		out, err := s.service.CreateGame(s.ctx, &night.CreateGameInput{Seats: seats(9)})
		s.Require().NoError(err)

		drunk := out.Game.PlayerWithCharacter(script.Drunk)
		if drunk == nil {
			continue
		}
		sawDrunk = true

		s.True(drunk.Drunk)
		token, ok := drunk.TokenBy(models.TokenFalseIdentity)
		s.Require().True(ok)
		s.True(script.IsTownsfolk(token.Detail), "the Drunk believes they are a townsfolk")
		s.Nil(out.Game.PlayerWithCharacter(token.Detail), "the believed character is not in play")
		s.Equal(token.Detail, drunk.ApparentCharacter())
	}
	s.True(sawDrunk, "9-player tables with two outsiders should produce a Drunk within 20 deals")
}

func (s *CreateGameTestSuite) TestCreateGame_FortuneTellerRedHerring() {
	sawFortuneTeller := false
	for i := 0; i < 20 && !sawFortuneTeller; i++ {
		s.expectBluffs()
		out, err := s.service.CreateGame(s.ctx, &night.CreateGameInput{Seats: seats(7)})
		s.Require().NoError(err)

		ft := out.Game.PlayerWithCharacter(script.FortuneTeller)
		if ft == nil {
			continue
		}
		sawFortuneTeller = true

		var herring *models.Player
		for _, p := range out.Game.Players {
			if p.HasToken(models.TokenRedHerring) {
				s.Nil(herring, "exactly one red herring")
				herring = p
			}
		}
		s.Require().NotNil(herring)
		s.Equal(models.TeamGood, herring.Team)
		s.NotEqual(ft.ID, herring.ID)
	}
	s.True(sawFortuneTeller, "7-player tables should produce a Fortune Teller within 20 deals")
}

func (s *CreateGameTestSuite) TestCreateGame_UnsupportedPlayerCounts() {
	_, err := s.service.CreateGame(s.ctx, &night.CreateGameInput{Seats: seats(4)})
	s.ErrorIs(err, night.ErrUnsupportedPlayers)

	_, err = s.service.CreateGame(s.ctx, &night.CreateGameInput{Seats: nil})
	s.ErrorIs(err, night.ErrUnsupportedPlayers)
}

func TestCreateGameTestSuite(t *testing.T) {
	suite.Run(t, new(CreateGameTestSuite))
}
