package linear

import (
	"github.com/Setheum-Labs/HS3/pkg/dag"
	"github.com/Setheum-Labs/HS3/pkg/gomel"
	"github.com/Setheum-Labs/HS3/pkg/random/coin"
)

type vote int

const (
	popular vote = iota
	unpopular
	undecided
)

const (
	firstVotingRound              = 1
	firstDecidingRound            = 3
	commonVoteDeterministicPrefix = 10
)

type votingResult struct {
	popular   uint16
	unpopular uint16
}

type unanimousVoter struct {
	dag        dag.Dag
	rs         gomel.RandomSource
	votingMemo map[gomel.Hash]map[gomel.Hash]vote
}

func newUnanimousVoter(dag dag.Dag, rs gomel.RandomSource) *unanimousVoter {
	return &unanimousVoter{
		dag:        dag,
		rs:         rs,
		votingMemo: make(map[gomel.Hash]map[gomel.Hash]vote),
	}
}

// vote returns the opinion of u about whether uc should become the head of its round.
func (uv *unanimousVoter) vote(uc, u gomel.Unit) (result vote) {
	r := u.Round() - uc.Round()
	if r < firstVotingRound {
		return undecided
	}
	memo, ok := uv.votingMemo[*uc.Hash()]
	if !ok {
		memo = make(map[gomel.Hash]vote)
		uv.votingMemo[*uc.Hash()] = memo
	}
	if cachedResult, ok := memo[*u.Hash()]; ok {
		return cachedResult
	}
	defer func() {
		memo[*u.Hash()] = result
	}()

	if r == firstVotingRound {
		return uv.initialVote(uc, u)
	}

	commonVote := uv.lazyCommonVote(uc, r-1)
	var lastVote *vote
	uv.voteUsingParents(uc, u, func(result vote) bool {
		if result == undecided {
			result = commonVote()
		}
		if lastVote == nil {
			lastVote = &result
			return false
		}
		if *lastVote != result {
			*lastVote = undecided
			return true
		}
		return false
	})
	if lastVote == nil || *lastVote == undecided {
		return uv.commonVote(uc, r)
	}
	return *lastVote
}

// forget drops the memoized votes about uc.
func (uv *unanimousVoter) forget(uc gomel.Unit) {
	delete(uv.votingMemo, *uc.Hash())
}

// initialVote is true iff u points directly at uc.
func (uv *unanimousVoter) initialVote(uc, u gomel.Unit) vote {
	if p := u.Parents()[uc.Creator()]; p != nil && p.Equal(uc.Hash()) {
		return popular
	}
	return unpopular
}

func (uv *unanimousVoter) lazyCommonVote(uc gomel.Unit, round int) func() vote {
	initialized := false
	var commonVoteValue vote
	return func() vote {
		if !initialized {
			commonVoteValue = uv.commonVote(uc, round)
			initialized = true
		}
		return commonVoteValue
	}
}

// commonVote is the default opinion about uc at the given relative round.
// It is false on round 3, so every unit that is not seen by round 3 gets decided false there.
func (uv *unanimousVoter) commonVote(uc gomel.Unit, round int) vote {
	if round <= firstVotingRound {
		return undecided
	}
	if round <= commonVoteDeterministicPrefix {
		if round == 3 {
			return unpopular
		}
		return popular
	}
	if coin.Toss(uv.rs.RandomBytes(uc.Hash(), uc.Round()+round+1)) {
		return popular
	}
	return unpopular
}

// decide returns the decision about uc that can be made at u, or undecided.
func (uv *unanimousVoter) decide(uc, u gomel.Unit) vote {
	r := u.Round() - uc.Round()
	if r < firstDecidingRound {
		return undecided
	}
	commonVote := uv.lazyCommonVote(uc, r-1)
	var votes votingResult
	uv.voteUsingParents(uc, u, func(result vote) bool {
		if result == undecided {
			result = commonVote()
		}
		switch result {
		case popular:
			votes.popular++
		case unpopular:
			votes.unpopular++
		}
		return false
	})
	result := superMajority(uv.dag, votes)
	if result != undecided && result == uv.commonVote(uc, r) {
		return result
	}
	return undecided
}

// voteUsingParents calls voter with the vote of every parent of u, until voter returns true.
// There is one parent per creator, so a forking creator is never counted twice.
func (uv *unanimousVoter) voteUsingParents(uc, u gomel.Unit, voter func(vote) bool) {
	for _, h := range u.Parents() {
		if h == nil {
			continue
		}
		parent := uv.dag.GetUnit(h)
		if parent == nil {
			panic("voting unit without its parents in the dag")
		}
		if voter(uv.vote(uc, parent)) {
			return
		}
	}
}

// superMajority checks if votes for popular or unpopular make a quorum.
// Returns the vote making a quorum or undecided if there is no quorum.
func superMajority(dag gomel.Dag, votes votingResult) vote {
	if dag.IsQuorum(votes.popular) {
		return popular
	}
	if dag.IsQuorum(votes.unpopular) {
		return unpopular
	}
	return undecided
}
