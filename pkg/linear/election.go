package linear

import (
	"github.com/Setheum-Labs/HS3/pkg/gomel"
)

// election is the process of choosing the head of a single round.
// The candidates are fixed when the election opens. A unit of that round arriving later
// cannot be seen by any unit of round+3 present at opening, so it is decided false everywhere.
type election struct {
	round      int
	candidates []gomel.Unit
	decisions  []vote
}

func newElection(round int, units [][]gomel.Unit) *election {
	candidates := orderCandidates(units, round)
	decisions := make([]vote, len(candidates))
	for i := range decisions {
		decisions[i] = undecided
	}
	return &election{
		round:      round,
		candidates: candidates,
		decisions:  decisions,
	}
}

// head tries to establish the head of the round. Returns the head, or nil with true if every candidate
// was decided false, or nil with false if the decision is not possible yet.
func (e *election) head(decide func(gomel.Unit) vote) (gomel.Unit, bool) {
	for i, uc := range e.candidates {
		if e.decisions[i] == undecided {
			e.decisions[i] = decide(uc)
		}
		switch e.decisions[i] {
		case popular:
			return uc, true
		case undecided:
			return nil, false
		}
	}
	return nil, true
}
