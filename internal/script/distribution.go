package script

import "fmt"

// Distribution is the character-type breakdown for a player count before
// setup modifiers are applied
type Distribution struct {
	Townsfolk int
	Outsiders int
	Minions   int
	Demons    int
}

var distributions = map[int]Distribution{
	5:  {3, 0, 1, 1},
	6:  {3, 1, 1, 1},
	7:  {5, 0, 1, 1},
	8:  {5, 1, 1, 1},
	9:  {5, 2, 1, 1},
	10: {7, 0, 2, 1},
	11: {7, 1, 2, 1},
	12: {7, 2, 2, 1},
	13: {9, 0, 3, 1},
	14: {9, 1, 3, 1},
	15: {9, 2, 3, 1},
}

// DistributionFor returns the standard breakdown for a player count
func DistributionFor(playerCount int) (Distribution, error) {
	d, ok := distributions[playerCount]
	if !ok {
		return Distribution{}, fmt.Errorf("no distribution for %d players (supported range 5-15)", playerCount)
	}
	return d, nil
}

// ApplyBaron applies the Baron's setup modifier: two townsfolk become
// outsiders
func ApplyBaron(d Distribution) Distribution {
	d.Townsfolk -= 2
	d.Outsiders += 2
	return d
}
