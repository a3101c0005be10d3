package dag

import (
	"github.com/Setheum-Labs/HS3/pkg/gomel"
)

// unitArena holds the units in insertion order together with an index by hash.
type unitArena struct {
	contents []gomel.Unit
	index    map[gomel.Hash]int
}

func newUnitArena() *unitArena {
	return &unitArena{index: map[gomel.Hash]int{}}
}

func (units *unitArena) add(u gomel.Unit) int {
	id := len(units.contents)
	units.contents = append(units.contents, u)
	units.index[*u.Hash()] = id
	return id
}

func (units *unitArena) get(h *gomel.Hash) gomel.Unit {
	if h == nil {
		return nil
	}
	if id, ok := units.index[*h]; ok {
		return units.contents[id]
	}
	return nil
}

func (units *unitArena) at(id int) gomel.Unit {
	return units.contents[id]
}

func (units *unitArena) size() int {
	return len(units.contents)
}
