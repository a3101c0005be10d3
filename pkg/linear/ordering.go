package linear

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/Setheum-Labs/HS3/pkg/dag"
	"github.com/Setheum-Labs/HS3/pkg/gomel"
	"github.com/Setheum-Labs/HS3/pkg/logging"
)

// Ordering decides the heads of consecutive rounds and turns them into batches of linearly ordered units.
// It keeps its own copy of the dag, built from the units it is given. It is not safe for concurrent use.
type Ordering struct {
	dag      dag.Dag
	voter    *unanimousVoter
	round    int
	election *election
	emitted  map[gomel.Hash]bool
	log      zerolog.Logger
}

// NewOrdering constructs an ordering for a committee of nProc processes.
func NewOrdering(nProc uint16, rs gomel.RandomSource, log zerolog.Logger) *Ordering {
	d := dag.New(nProc)
	return &Ordering{
		dag:     d,
		voter:   newUnanimousVoter(d, rs),
		emitted: make(map[gomel.Hash]bool),
		log:     log,
	}
}

// AddUnit records a unit. Units must be added after all their parents, in the order the dag was built.
// Adding a unit twice is a no-op.
func (o *Ordering) AddUnit(u gomel.Unit) {
	if o.dag.Contains(u.Hash()) {
		return
	}
	for _, h := range u.Parents() {
		if h != nil && !o.dag.Contains(h) {
			panic(fmt.Sprintf("unit %s of round %d added before its parent %s", u.Hash().Short(), u.Round(), h.Short()))
		}
	}
	o.dag.Insert(u)
}

// Round returns the round whose head is to be decided next.
func (o *Ordering) Round() int {
	return o.round
}

// DecideRound tries to decide the head of the current round. If it succeeds, it moves to the next round
// and returns true together with the units ordered by that decision, possibly none.
// If the decision cannot be made yet, it returns false and nothing changes.
func (o *Ordering) DecideRound() ([]gomel.Unit, bool) {
	if o.election == nil {
		if o.dag.MaxRound() < o.round+firstDecidingRound {
			return nil, false
		}
		units := o.dag.UnitsOnRound(o.round)
		if !o.dag.IsQuorum(countCreators(units)) {
			panic(fmt.Sprintf("election of round %d opened without a quorum of units on that round", o.round))
		}
		o.election = newElection(o.round, units)
	}
	head, ok := o.election.head(o.decide)
	if !ok {
		return nil, false
	}
	for _, uc := range o.election.candidates {
		o.voter.forget(uc)
	}
	round := o.round
	o.round++
	o.election = nil
	if head == nil {
		roundsDecided.WithLabelValues("skipped").Inc()
		o.log.Info().Int(logging.Round, round).Msg(logging.RoundSkipped)
		return nil, true
	}
	roundsDecided.WithLabelValues("head").Inc()
	o.log.Info().Int(logging.Round, round).Uint16(logging.Creator, head.Creator()).Str(logging.Hash, head.Hash().Short()).Msg(logging.HeadElected)
	return o.batch(head), true
}

// decide looks for a unit that decides about uc.
func (o *Ordering) decide(uc gomel.Unit) vote {
	for r := uc.Round() + firstDecidingRound; r <= o.dag.MaxRound(); r++ {
		for _, slot := range o.dag.UnitsOnRound(r) {
			for _, v := range slot {
				if decision := o.voter.decide(uc, v); decision != undecided {
					return decision
				}
			}
		}
	}
	return undecided
}

// batch returns all units below head that were not emitted yet, sorted by round, creator and hash.
// The emitted units always form a down-set, so the search stops at any of them.
func (o *Ordering) batch(head gomel.Unit) []gomel.Unit {
	var result []gomel.Unit
	stack := []gomel.Unit{head}
	o.emitted[*head.Hash()] = true
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		result = append(result, u)
		for _, h := range u.Parents() {
			if h == nil || o.emitted[*h] {
				continue
			}
			o.emitted[*h] = true
			stack = append(stack, o.dag.GetUnit(h))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return gomel.Less(result[i], result[j])
	})
	return result
}

func countCreators(units [][]gomel.Unit) uint16 {
	count := uint16(0)
	for _, slot := range units {
		if len(slot) > 0 {
			count++
		}
	}
	return count
}
