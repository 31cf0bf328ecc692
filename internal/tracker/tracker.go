// Package tracker maintains the running narrative context a storyteller
// carries in their head: who has been told the truth, who has been lied to,
// and which way the game is tilting. The night machine feeds it
// synchronously on every log append; the decision engine only reads it.
package tracker

import (
	"sync"

	"github.com/ravenshollow/grimoire/internal/models"
)

// How strongly accumulated lies against one team tilt the balance score.
const truthDeficitWeight = 0.05

// Tracker aggregates disclosed information, public events and the
// team-balance signal for one game
type Tracker struct {
	mu sync.RWMutex

	trueCount      map[models.Team]int
	corruptedCount map[models.Team]int
	byPlayer       map[string][]*models.DecisionRecord
	eventsByDay    map[int][]*models.PublicEvent
}

// New creates an empty tracker
func New() *Tracker {
	return &Tracker{
		trueCount:      make(map[models.Team]int),
		corruptedCount: make(map[models.Team]int),
		byPlayer:       make(map[string][]*models.DecisionRecord),
		eventsByDay:    make(map[int][]*models.PublicEvent),
	}
}

// Reset clears all aggregates, used when a snapshot import replaces the
// game this tracker follows
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.trueCount = make(map[models.Team]int)
	t.corruptedCount = make(map[models.Team]int)
	t.byPlayer = make(map[string][]*models.DecisionRecord)
	t.eventsByDay = make(map[int][]*models.PublicEvent)
}

// RecordDecision folds an appended decision record into the aggregates
func (t *Tracker) RecordDecision(rec *models.DecisionRecord) {
	if rec == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if rec.Corrupted {
		t.corruptedCount[rec.ActorTeam]++
	} else {
		t.trueCount[rec.ActorTeam]++
	}
	t.byPlayer[rec.ActorID] = append(t.byPlayer[rec.ActorID], rec)
}

// RecordEvent folds an appended public event into the per-day history
func (t *Tracker) RecordEvent(ev *models.PublicEvent) {
	if ev == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.eventsByDay[ev.Day] = append(t.eventsByDay[ev.Day], ev)
}

// Counts returns the true and corrupted delivery counts for a team
func (t *Tracker) Counts(team models.Team) (trueDeliveries, corrupted int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.trueCount[team], t.corruptedCount[team]
}

// CurrentBalance returns a signed scalar in [-1, 1]; positive favors good.
// Living-player counts carry most of the signal (evil players weigh double,
// since parity is what ends the game); the accumulated truth deficit nudges
// it further toward whichever team has been lied to more.
func (t *Tracker) CurrentBalance(g *models.GameState) float64 {
	living := len(g.LivingPlayers())
	if living == 0 {
		return 0
	}
	good := g.LivingByTeam(models.TeamGood)
	evil := g.LivingByTeam(models.TeamEvil)

	balance := float64(good-2*evil) / float64(living)

	t.mu.RLock()
	deficit := t.corruptedCount[models.TeamGood] - t.corruptedCount[models.TeamEvil]
	t.mu.RUnlock()
	balance -= truthDeficitWeight * float64(deficit)

	return clamp(balance, -1, 1)
}

// RecentDisclosures returns the decisions delivered to a player, oldest
// first. The decision engine reads these to avoid contradicting an earlier
// disclosure to the same player.
func (t *Tracker) RecentDisclosures(playerID string) []*models.DecisionRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	records := t.byPlayer[playerID]
	out := make([]*models.DecisionRecord, len(records))
	copy(out, records)
	return out
}

// EventsOnDay returns the public events recorded for a day
func (t *Tracker) EventsOnDay(day int) []*models.PublicEvent {
	t.mu.RLock()
	defer t.mu.RUnlock()
	events := t.eventsByDay[day]
	out := make([]*models.PublicEvent, len(events))
	copy(out, events)
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
