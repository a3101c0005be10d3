package terminal

import (
	"github.com/Setheum-Labs/HS3/pkg/gomel"
)

// waitingUnit is a unit that passed all the checks not requiring its parents,
// and waits until all of them are inserted.
type waitingUnit struct {
	u              gomel.Unit
	source         string
	missingParents int
}

// waitingRoom is a buffer zone where units with missing parents wait to be added to the dag.
type waitingRoom struct {
	waiting  map[gomel.Hash]*waitingUnit
	neededBy map[gomel.Hash][]*waitingUnit
	limit    int
}

func newWaitingRoom(limit int) *waitingRoom {
	return &waitingRoom{
		waiting:  make(map[gomel.Hash]*waitingUnit),
		neededBy: make(map[gomel.Hash][]*waitingUnit),
		limit:    limit,
	}
}

func (wr *waitingRoom) contains(h *gomel.Hash) bool {
	_, ok := wr.waiting[*h]
	return ok
}

func (wr *waitingRoom) size() int {
	return len(wr.waiting)
}

// add puts a unit in the room, registering it as a dependent of every missing parent.
// Returns false if the room is full.
func (wr *waitingRoom) add(u gomel.Unit, source string, missing []*gomel.Hash) bool {
	if len(wr.waiting) >= wr.limit {
		return false
	}
	wu := &waitingUnit{u: u, source: source, missingParents: len(missing)}
	wr.waiting[*u.Hash()] = wu
	for _, h := range missing {
		wr.neededBy[*h] = append(wr.neededBy[*h], wu)
	}
	return true
}

// release is called after the unit with hash h was inserted.
// Returns the waiting units that have no missing parents left, in the order they arrived.
func (wr *waitingRoom) release(h *gomel.Hash) []*waitingUnit {
	var ready []*waitingUnit
	for _, wu := range wr.neededBy[*h] {
		if !wr.contains(wu.u.Hash()) {
			continue
		}
		wu.missingParents--
		if wu.missingParents == 0 {
			delete(wr.waiting, *wu.u.Hash())
			ready = append(ready, wu)
		}
	}
	delete(wr.neededBy, *h)
	return ready
}

// drop removes all units depending, directly or not, on the unit with hash h, and returns them.
// Used when h can never be inserted.
func (wr *waitingRoom) drop(h *gomel.Hash) []*waitingUnit {
	var dropped []*waitingUnit
	queue := []gomel.Hash{*h}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		for _, wu := range wr.neededBy[next] {
			if _, ok := wr.waiting[*wu.u.Hash()]; !ok {
				continue
			}
			delete(wr.waiting, *wu.u.Hash())
			dropped = append(dropped, wu)
			queue = append(queue, *wu.u.Hash())
		}
		delete(wr.neededBy, next)
	}
	return dropped
}

// expire removes all units of rounds below the given one and returns them.
func (wr *waitingRoom) expire(below int) []*waitingUnit {
	var expired []*waitingUnit
	for h, wu := range wr.waiting {
		if wu.u.Round() < below {
			delete(wr.waiting, h)
			expired = append(expired, wu)
		}
	}
	if len(expired) == 0 {
		return nil
	}
	for h, wus := range wr.neededBy {
		kept := wus[:0]
		for _, wu := range wus {
			if wr.contains(wu.u.Hash()) {
				kept = append(kept, wu)
			}
		}
		if len(kept) == 0 {
			delete(wr.neededBy, h)
		} else {
			wr.neededBy[h] = kept
		}
	}
	return expired
}
