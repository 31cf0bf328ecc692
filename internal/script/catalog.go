// Package script holds the fixed Trouble Brewing character catalog: one
// read-only table loaded once per process. New roles are new rows here plus
// a handler entry in the storyteller service, never runtime plugins.
package script

import (
	"sort"

	"github.com/ravenshollow/grimoire/internal/models"
)

// Character names
const (
	Washerwoman   = "Washerwoman"
	Librarian     = "Librarian"
	Investigator  = "Investigator"
	Chef          = "Chef"
	Empath        = "Empath"
	FortuneTeller = "Fortune Teller"
	Undertaker    = "Undertaker"
	Monk          = "Monk"
	Ravenkeeper   = "Ravenkeeper"
	Virgin        = "Virgin"
	Slayer        = "Slayer"
	Soldier       = "Soldier"
	Mayor         = "Mayor"
	Butler        = "Butler"
	Drunk         = "Drunk"
	Recluse       = "Recluse"
	Saint         = "Saint"
	Poisoner      = "Poisoner"
	Spy           = "Spy"
	ScarletWoman  = "Scarlet Woman"
	Baron         = "Baron"
	Imp           = "Imp"
)

// Name is the script identifier
const Name = "trouble_brewing"

var catalog = []*models.Character{
	// Townsfolk
	{Name: Washerwoman, Team: models.TeamGood, Category: models.CategoryTownsfolk, Ability: models.AbilityInfoReveal, FirstNightRank: 2},
	{Name: Librarian, Team: models.TeamGood, Category: models.CategoryTownsfolk, Ability: models.AbilityInfoReveal, FirstNightRank: 3},
	{Name: Investigator, Team: models.TeamGood, Category: models.CategoryTownsfolk, Ability: models.AbilityInfoReveal, FirstNightRank: 4},
	{Name: Chef, Team: models.TeamGood, Category: models.CategoryTownsfolk, Ability: models.AbilityInfoReveal, FirstNightRank: 5},
	{Name: Empath, Team: models.TeamGood, Category: models.CategoryTownsfolk, Ability: models.AbilityInfoReveal, FirstNightRank: 6, OtherNightRank: 6},
	{Name: FortuneTeller, Team: models.TeamGood, Category: models.CategoryTownsfolk, Ability: models.AbilityInfoReveal, Targets: 2, FirstNightRank: 7, OtherNightRank: 7},
	{Name: Undertaker, Team: models.TeamGood, Category: models.CategoryTownsfolk, Ability: models.AbilityInfoReveal, OtherNightRank: 8},
	{Name: Monk, Team: models.TeamGood, Category: models.CategoryTownsfolk, Ability: models.AbilityTargetedAction, Targets: 1, OtherNightRank: 2},
	{Name: Ravenkeeper, Team: models.TeamGood, Category: models.CategoryTownsfolk, Ability: models.AbilityInfoReveal, Targets: 1, OtherNightRank: 5, WakesOnDeath: true},
	{Name: Virgin, Team: models.TeamGood, Category: models.CategoryTownsfolk, Ability: models.AbilityPassive},
	{Name: Slayer, Team: models.TeamGood, Category: models.CategoryTownsfolk, Ability: models.AbilityPassive},
	{Name: Soldier, Team: models.TeamGood, Category: models.CategoryTownsfolk, Ability: models.AbilityPassive},
	{Name: Mayor, Team: models.TeamGood, Category: models.CategoryTownsfolk, Ability: models.AbilityPassive},

	// Outsiders
	{Name: Butler, Team: models.TeamGood, Category: models.CategoryOutsider, Ability: models.AbilityTargetedAction, Targets: 1, FirstNightRank: 8, OtherNightRank: 9},
	{Name: Drunk, Team: models.TeamGood, Category: models.CategoryOutsider, Ability: models.AbilitySetupModifier},
	{Name: Recluse, Team: models.TeamGood, Category: models.CategoryOutsider, Ability: models.AbilityPassive},
	{Name: Saint, Team: models.TeamGood, Category: models.CategoryOutsider, Ability: models.AbilityPassive},

	// Minions
	{Name: Poisoner, Team: models.TeamEvil, Category: models.CategoryMinion, Ability: models.AbilityTargetedAction, Targets: 1, FirstNightRank: 1, OtherNightRank: 1},
	{Name: Spy, Team: models.TeamEvil, Category: models.CategoryMinion, Ability: models.AbilityInfoReveal, FirstNightRank: 9, OtherNightRank: 10},
	{Name: ScarletWoman, Team: models.TeamEvil, Category: models.CategoryMinion, Ability: models.AbilityPassive, OtherNightRank: 3},
	{Name: Baron, Team: models.TeamEvil, Category: models.CategoryMinion, Ability: models.AbilitySetupModifier},

	// Demon
	{Name: Imp, Team: models.TeamEvil, Category: models.CategoryDemon, Ability: models.AbilityTargetedAction, Targets: 1, OtherNightRank: 4},
}

var byName = func() map[string]*models.Character {
	m := make(map[string]*models.Character, len(catalog))
	for _, c := range catalog {
		m[c.Name] = c
	}
	return m
}()

// Get returns the catalog entry for a character name
func Get(name string) (*models.Character, bool) {
	c, ok := byName[name]
	return c, ok
}

// All returns every character in the script
func All() []*models.Character {
	out := make([]*models.Character, len(catalog))
	copy(out, catalog)
	return out
}

// Names returns every character name in the script
func Names() []string {
	names := make([]string, len(catalog))
	for i, c := range catalog {
		names[i] = c.Name
	}
	return names
}

// IsDemon reports whether the named character is a demon
func IsDemon(name string) bool {
	c, ok := byName[name]
	return ok && c.Category == models.CategoryDemon
}

// IsMinion reports whether the named character is a minion
func IsMinion(name string) bool {
	c, ok := byName[name]
	return ok && c.Category == models.CategoryMinion
}

// IsEvil reports whether the named character defaults to the evil team
func IsEvil(name string) bool {
	c, ok := byName[name]
	return ok && c.Team == models.TeamEvil
}

// IsTownsfolk reports whether the named character is a townsfolk
func IsTownsfolk(name string) bool {
	c, ok := byName[name]
	return ok && c.Category == models.CategoryTownsfolk
}

// IsOutsider reports whether the named character is an outsider
func IsOutsider(name string) bool {
	c, ok := byName[name]
	return ok && c.Category == models.CategoryOutsider
}

// NightOrder returns the characters that act on the given night kind, in
// ascending rank. Rank is the default sequencing hint; handlers may still
// reorder the pending queue.
func NightOrder(firstNight bool) []*models.Character {
	var acting []*models.Character
	for _, c := range catalog {
		if c.ActsOnNight(firstNight) {
			acting = append(acting, c)
		}
	}
	sort.Slice(acting, func(i, j int) bool {
		return acting[i].Rank(firstNight) < acting[j].Rank(firstNight)
	})
	return acting
}

// GoodNotIn returns good characters absent from the given in-play set,
// the pool demon bluffs are drawn from.
func GoodNotIn(inPlay []string) []string {
	taken := make(map[string]bool, len(inPlay))
	for _, name := range inPlay {
		taken[name] = true
	}
	var pool []string
	for _, c := range catalog {
		if c.Team == models.TeamGood && !taken[c.Name] {
			pool = append(pool, c.Name)
		}
	}
	return pool
}
