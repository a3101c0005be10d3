package tests

import (
	"github.com/Setheum-Labs/HS3/pkg/gomel"
	"github.com/Setheum-Labs/HS3/pkg/unit"
)

// NewUnit creates a correctly signed unit. Parents are given per creator slot, nil for none.
func (c *Committee) NewUnit(creator uint16, round int, parents []gomel.Unit, data []byte) gomel.Unit {
	hashes := make([]*gomel.Hash, c.NProc)
	for i, p := range parents {
		if p != nil {
			hashes[i] = p.Hash()
		}
	}
	return unit.New(creator, round, hashes, data, c.Hasher, c.PrivateKeys[creator])
}

// Genesis returns one unit of round 0 for every process.
func (c *Committee) Genesis() []gomel.Unit {
	result := make([]gomel.Unit, c.NProc)
	for pid := range result {
		result[pid] = c.NewUnit(uint16(pid), 0, nil, []byte{byte(pid)})
	}
	return result
}

// NextRound returns one unit for every process, each having all of prev as parents.
func (c *Committee) NextRound(prev []gomel.Unit) []gomel.Unit {
	round := prev[0].Round() + 1
	result := make([]gomel.Unit, c.NProc)
	for pid := range result {
		result[pid] = c.NewUnit(uint16(pid), round, prev, []byte{byte(pid), byte(round)})
	}
	return result
}

// Rounds returns a full dag with rounds 0..last, every unit having every unit of the previous round as a parent.
// The result is indexed by round and then by creator.
func (c *Committee) Rounds(last int) [][]gomel.Unit {
	result := [][]gomel.Unit{c.Genesis()}
	for r := 1; r <= last; r++ {
		result = append(result, c.NextRound(result[r-1]))
	}
	return result
}

// Flatten lists the units round after round.
func Flatten(rounds [][]gomel.Unit) []gomel.Unit {
	var result []gomel.Unit
	for _, round := range rounds {
		for _, u := range round {
			if u != nil {
				result = append(result, u)
			}
		}
	}
	return result
}

// Hashes returns the hashes of the given units.
func Hashes(units []gomel.Unit) []gomel.Hash {
	result := make([]gomel.Hash, len(units))
	for i, u := range units {
		result[i] = *u.Hash()
	}
	return result
}
