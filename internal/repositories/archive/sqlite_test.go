package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ravenshollow/grimoire/internal/models"
	"github.com/ravenshollow/grimoire/internal/script"
)

type SQLiteRepositoryTestSuite struct {
	suite.Suite
	repo    Repository
	ctx     context.Context
	testNow time.Time
}

func (s *SQLiteRepositoryTestSuite) SetupTest() {
	repo, err := NewSQLite(&Config{
		Path: filepath.Join(s.T().TempDir(), "archive.db"),
	})
	s.Require().NoError(err)
	s.repo = repo

	s.ctx = context.Background()
	s.testNow = time.Date(2025, 11, 2, 21, 0, 0, 0, time.UTC)
}

func (s *SQLiteRepositoryTestSuite) TearDownTest() {
	s.Require().NoError(s.repo.Close())
}

func TestSQLiteRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(SQLiteRepositoryTestSuite))
}

func (s *SQLiteRepositoryTestSuite) testDecision(id string, at time.Time) *models.DecisionRecord {
	return &models.DecisionRecord{
		ID:               id,
		Character:        script.FortuneTeller,
		ActorID:          "player-1",
		ActorTeam:        models.TeamGood,
		TargetIDs:        []string{"player-2", "player-3"},
		TrueResult:       "no",
		DeliveredResult:  "yes",
		Corrupted:        true,
		TruthProbability: 0.7,
		Confidence:       0.8,
		Reasoning:        "actor poisoned; corruption sampled",
		Day:              2,
		Night:            true,
		Timestamp:        at,
	}
}

func (s *SQLiteRepositoryTestSuite) TestAppendAndListDecisions() {
	first := s.testDecision("decision-1", s.testNow)
	second := s.testDecision("decision-2", s.testNow.Add(time.Minute))
	second.Corrupted = false
	second.DeliveredResult = "no"

	s.Require().NoError(s.repo.AppendDecision(s.ctx, &AppendDecisionInput{GameID: "game-1", Decision: first}))
	s.Require().NoError(s.repo.AppendDecision(s.ctx, &AppendDecisionInput{GameID: "game-1", Decision: second}))

	// A different game's rows never leak in.
	other := s.testDecision("decision-3", s.testNow)
	s.Require().NoError(s.repo.AppendDecision(s.ctx, &AppendDecisionInput{GameID: "game-2", Decision: other}))

	decisions, err := s.repo.ListDecisions(s.ctx, &ListDecisionsInput{GameID: "game-1"})
	s.Require().NoError(err)
	s.Require().Len(decisions, 2)

	s.Equal(first, decisions[0])
	s.Equal(second, decisions[1])
}

func (s *SQLiteRepositoryTestSuite) TestAppendAndListEvents() {
	death := &models.PublicEvent{
		ID:        "event-1",
		Type:      models.EventDeath,
		Day:       1,
		Phase:     models.PhaseDay,
		TargetID:  "player-2",
		Message:   "Bob died in the night",
		Timestamp: s.testNow,
	}
	execution := &models.PublicEvent{
		ID:        "event-2",
		Type:      models.EventExecution,
		Day:       2,
		Phase:     models.PhaseExecution,
		ActorID:   "player-1",
		TargetID:  "player-3",
		Message:   "Carol was executed",
		Timestamp: s.testNow.Add(time.Hour),
	}

	s.Require().NoError(s.repo.AppendEvent(s.ctx, &AppendEventInput{GameID: "game-1", Event: death}))
	s.Require().NoError(s.repo.AppendEvent(s.ctx, &AppendEventInput{GameID: "game-1", Event: execution}))

	all, err := s.repo.ListEvents(s.ctx, &ListEventsInput{GameID: "game-1", Day: -1})
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(death, all[0])
	s.Equal(execution, all[1])

	dayTwo, err := s.repo.ListEvents(s.ctx, &ListEventsInput{GameID: "game-1", Day: 2})
	s.Require().NoError(err)
	s.Require().Len(dayTwo, 1)
	s.Equal(execution, dayTwo[0])
}

func (s *SQLiteRepositoryTestSuite) TestListDecisions_EmptyGame() {
	decisions, err := s.repo.ListDecisions(s.ctx, &ListDecisionsInput{GameID: "no-such-game"})
	s.Require().NoError(err)
	s.Empty(decisions)
}

func (s *SQLiteRepositoryTestSuite) TestAppendDecision_Validation() {
	s.Error(s.repo.AppendDecision(s.ctx, nil))
	s.Error(s.repo.AppendDecision(s.ctx, &AppendDecisionInput{GameID: "game-1"}))
	s.Error(s.repo.AppendDecision(s.ctx, &AppendDecisionInput{Decision: s.testDecision("d", s.testNow)}))
}
