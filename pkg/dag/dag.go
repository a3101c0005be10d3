// Package dag implements the append-only store of units.
//
// Units are kept in an arena and referenced by hash only, so nothing is ever freed or rewired.
// The store is not safe for concurrent use; it is owned by a single task.
package dag

import (
	"github.com/Setheum-Labs/HS3/pkg/gomel"
)

// Dag extends the read view with the operations used by its owner.
type Dag interface {
	gomel.Dag
	// Insert puts into the dag a unit that passed all the checks.
	// Returns the units already present with the same creator and round, if any.
	Insert(gomel.Unit) []gomel.Unit
	// Contains checks if a unit with the given hash is present.
	Contains(*gomel.Hash) bool
	// Size returns the number of units in the dag.
	Size() int
	// IsForker checks if the given process was caught creating a fork.
	IsForker(uint16) bool
	// Forkers returns the ids of all processes caught creating forks, in ascending order.
	Forkers() []uint16
}

type dag struct {
	nProcesses uint16
	units      *unitArena
	rounds     *roundMap
	forkers    []bool
}

// New constructs a dag for a given number of processes.
func New(n uint16) Dag {
	return &dag{
		nProcesses: n,
		units:      newUnitArena(),
		rounds:     newRoundMap(n, 10),
		forkers:    make([]bool, n),
	}
}

// IsQuorum checks if the given number of processes forms a quorum amongst all processes.
func (dag *dag) IsQuorum(number uint16) bool {
	return gomel.IsQuorum(dag.nProcesses, number)
}

// NProc returns the number of processes which use the dag.
func (dag *dag) NProc() uint16 {
	return dag.nProcesses
}

func (dag *dag) GetUnit(h *gomel.Hash) gomel.Unit {
	return dag.units.get(h)
}

func (dag *dag) Contains(h *gomel.Hash) bool {
	return dag.units.get(h) != nil
}

func (dag *dag) UnitsOnRound(round int) [][]gomel.Unit {
	ids := dag.rounds.get(round)
	result := make([][]gomel.Unit, dag.nProcesses)
	for pid, slot := range ids {
		for _, id := range slot {
			result[pid] = append(result[pid], dag.units.at(id))
		}
	}
	return result
}

func (dag *dag) MaxRound() int {
	return dag.rounds.maxRound()
}

func (dag *dag) Size() int {
	return dag.units.size()
}

func (dag *dag) Insert(u gomel.Unit) []gomel.Unit {
	if dag.Contains(u.Hash()) {
		return nil
	}
	var forked []gomel.Unit
	for _, id := range dag.rounds.slot(u.Round(), u.Creator()) {
		forked = append(forked, dag.units.at(id))
	}
	if len(forked) > 0 {
		dag.forkers[u.Creator()] = true
	}
	id := dag.units.add(u)
	dag.rounds.add(u.Round(), u.Creator(), id)
	return forked
}

func (dag *dag) IsForker(pid uint16) bool {
	return int(pid) < len(dag.forkers) && dag.forkers[pid]
}

func (dag *dag) Forkers() []uint16 {
	var result []uint16
	for pid, forked := range dag.forkers {
		if forked {
			result = append(result, uint16(pid))
		}
	}
	return result
}
