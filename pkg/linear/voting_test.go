package linear

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/Setheum-Labs/HS3/pkg/dag"
	"github.com/Setheum-Labs/HS3/pkg/tests"
)

var _ = Describe("unanimousVoter", func() {
	var committee *tests.Committee

	BeforeEach(func() {
		committee = tests.NewCommittee(4)
	})

	Describe("commonVote", func() {
		It("should follow the deterministic prefix", func() {
			uv := newUnanimousVoter(dag.New(4), tests.NewTestRandomSource(1))
			uc := committee.Genesis()[0]
			Expect(uv.commonVote(uc, 0)).To(Equal(undecided))
			Expect(uv.commonVote(uc, 1)).To(Equal(undecided))
			Expect(uv.commonVote(uc, 2)).To(Equal(popular))
			Expect(uv.commonVote(uc, 3)).To(Equal(unpopular))
			for k := 4; k <= commonVoteDeterministicPrefix; k++ {
				Expect(uv.commonVote(uc, k)).To(Equal(popular))
			}
		})

		It("should toss the coin beyond the prefix", func() {
			uc := committee.Genesis()[0]
			heads := newUnanimousVoter(dag.New(4), tests.NewTestRandomSource(0))
			tails := newUnanimousVoter(dag.New(4), tests.NewTestRandomSource(1))
			Expect(heads.commonVote(uc, commonVoteDeterministicPrefix+1)).To(Equal(popular))
			Expect(tails.commonVote(uc, commonVoteDeterministicPrefix+1)).To(Equal(unpopular))
		})
	})

	Describe("vote", func() {
		It("should be popular exactly for units pointing at the candidate", func() {
			d := dag.New(4)
			rounds := committee.Rounds(1)
			for _, u := range tests.Flatten(rounds) {
				d.Insert(u)
			}
			uv := newUnanimousVoter(d, tests.NewTestRandomSource(0))
			fork := committee.NewUnit(2, 0, nil, []byte("fork"))
			d.Insert(fork)
			Expect(uv.vote(rounds[0][2], rounds[1][0])).To(Equal(popular))
			Expect(uv.vote(fork, rounds[1][0])).To(Equal(unpopular))
			Expect(uv.vote(rounds[0][2], rounds[0][1])).To(Equal(undecided))
		})
	})

	Describe("decide", func() {
		It("should decide a well known candidate at relative round 4", func() {
			d := dag.New(4)
			rounds := committee.Rounds(4)
			for _, u := range tests.Flatten(rounds) {
				d.Insert(u)
			}
			uv := newUnanimousVoter(d, tests.NewTestRandomSource(0))
			uc := rounds[0][1]
			Expect(uv.decide(uc, rounds[2][0])).To(Equal(undecided))
			Expect(uv.decide(uc, rounds[3][0])).To(Equal(undecided))
			Expect(uv.decide(uc, rounds[4][0])).To(Equal(popular))
		})
	})

	It("should find a quorum of votes", func() {
		d := dag.New(4)
		Expect(superMajority(d, votingResult{popular: 3})).To(Equal(popular))
		Expect(superMajority(d, votingResult{unpopular: 3, popular: 1})).To(Equal(unpopular))
		Expect(superMajority(d, votingResult{popular: 2, unpopular: 2})).To(Equal(undecided))
	})
})
