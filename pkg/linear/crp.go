package linear

import (
	"sort"

	"github.com/Setheum-Labs/HS3/pkg/gomel"
)

// candidateOrder returns the permutation of creators used on the given round: all creators rotated by round.
func candidateOrder(nProc uint16, round int) []uint16 {
	pids := make([]uint16, nProc)
	for i := range pids {
		pids[i] = uint16((round + i) % int(nProc))
	}
	return pids
}

// orderCandidates lists the units of a round, sliced by creator, in the order in which they are considered
// for the head of that round. Units of a single (forking) creator are ordered by hash.
func orderCandidates(units [][]gomel.Unit, round int) []gomel.Unit {
	var result []gomel.Unit
	for _, pid := range candidateOrder(uint16(len(units)), round) {
		slot := append([]gomel.Unit(nil), units[pid]...)
		sort.Slice(slot, func(i, j int) bool {
			return slot[i].Hash().LessThan(slot[j].Hash())
		})
		result = append(result, slot...)
	}
	return result
}
