package creator_test

import (
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/Setheum-Labs/HS3/pkg/config"
	"github.com/Setheum-Labs/HS3/pkg/creator"
	"github.com/Setheum-Labs/HS3/pkg/gomel"
	"github.com/Setheum-Labs/HS3/pkg/queue"
	"github.com/Setheum-Labs/HS3/pkg/terminator"
	"github.com/Setheum-Labs/HS3/pkg/tests"
)

type constantData []byte

func (cd constantData) GetData() []byte { return cd }

var _ = Describe("Creator", func() {
	var (
		committee *tests.Committee
		conf      config.Config
		parents   *queue.Queue[gomel.Unit]
		out       *queue.Queue[gomel.Unit]
		start     chan int
		exit      chan struct{}
		finished  chan error
	)

	run := func() {
		cr := creator.New(conf, committee.PrivateKeys[conf.Pid], committee.Hasher, constantData("data"), parents, out, zerolog.Nop())
		term := terminator.New(exit, "creator", zerolog.Nop())
		go func() {
			finished <- cr.Run(start, term)
		}()
	}

	created := func(count int) []gomel.Unit {
		var result []gomel.Unit
		Eventually(func() int {
			result = append(result, out.Drain()...)
			return len(result)
		}, 5*time.Second, 10*time.Millisecond).Should(BeNumerically(">=", count))
		return result
	}

	BeforeEach(func() {
		committee = tests.NewCommittee(4)
		conf = committee.Config(0)
		parents = queue.New[gomel.Unit]()
		out = queue.New[gomel.Unit]()
		start = make(chan int, 1)
		exit = make(chan struct{})
		finished = make(chan error, 1)
	})

	AfterEach(func() {
		select {
		case <-exit:
		default:
			close(exit)
		}
		Eventually(finished).Should(Receive())
	})

	Context("when the starting round channel is closed without a value", func() {
		It("should create a unit of round 0 without parents", func() {
			close(start)
			run()
			units := created(1)
			Expect(units[0].Round()).To(Equal(0))
			Expect(units[0].Creator()).To(Equal(uint16(0)))
			Expect(units[0].Data()).To(Equal([]byte("data")))
			Expect(gomel.NParents(units[0])).To(BeZero())
		})
	})

	Context("when nothing arrives on the starting round channel", func() {
		It("should not create anything", func() {
			run()
			Consistently(out.Len, 200*time.Millisecond).Should(BeZero())
		})
	})

	Context("having a quorum of units on the previous round", func() {
		It("should create a unit of the next round with all of them as parents", func() {
			close(start)
			run()
			genesis := committee.Genesis()
			own := created(1)[0]
			Expect(parents.Push(genesis[1])).To(Succeed())
			Expect(parents.Push(genesis[2])).To(Succeed())
			u := created(1)[0]
			Expect(u.Round()).To(Equal(1))
			Expect(u.Parents()[0]).To(Equal(own.Hash()))
			Expect(u.Parents()[1]).To(Equal(genesis[1].Hash()))
			Expect(u.Parents()[2]).To(Equal(genesis[2].Hash()))
			Expect(u.Parents()[3]).To(BeNil())
		})
	})

	Context("having too few units on the previous round", func() {
		It("should wait for more", func() {
			close(start)
			run()
			genesis := committee.Genesis()
			created(1)
			Expect(parents.Push(genesis[1])).To(Succeed())
			Consistently(out.Len, 200*time.Millisecond).Should(BeZero())
			Expect(parents.Push(genesis[3])).To(Succeed())
			u := created(1)[0]
			Expect(u.Round()).To(Equal(1))
			Expect(gomel.NParents(u)).To(Equal(uint16(3)))
		})
	})

	Context("when starting from a later round", func() {
		var rounds [][]gomel.Unit

		BeforeEach(func() {
			rounds = committee.Rounds(3)
			start <- 3
		})

		It("should not create anything without its own unit on the previous round", func() {
			run()
			for _, u := range rounds[2][1:] {
				Expect(parents.Push(u)).To(Succeed())
			}
			Consistently(out.Len, 200*time.Millisecond).Should(BeZero())
			Expect(parents.Push(rounds[2][0])).To(Succeed())
			u := created(1)[0]
			Expect(u.Round()).To(Equal(3))
			Expect(gomel.NParents(u)).To(Equal(uint16(4)))
		})

		It("should use the first seen unit of a forking creator", func() {
			start = make(chan int, 1)
			start <- 4
			fork := committee.NewUnit(2, 3, rounds[2], []byte("fork"))
			Expect(fork.Hash()).NotTo(Equal(rounds[3][2].Hash()))
			for _, u := range []gomel.Unit{rounds[3][0], rounds[3][2], fork, rounds[3][1]} {
				Expect(parents.Push(u)).To(Succeed())
			}
			run()
			u := created(1)[0]
			Expect(u.Round()).To(Equal(4))
			Expect(u.Parents()[2]).To(Equal(rounds[3][2].Hash()))
			Expect(gomel.NParents(u)).To(Equal(uint16(3)))
		})
	})

	Context("with a round limit", func() {
		It("should not create units above it", func() {
			conf.MaxRound = 1
			close(start)
			run()
			genesis := committee.Genesis()
			created(1)
			for _, u := range genesis[1:] {
				Expect(parents.Push(u)).To(Succeed())
			}
			units := created(1)
			Expect(units[len(units)-1].Round()).To(Equal(1))
			level1 := committee.NextRound(genesis)
			for _, u := range level1[1:] {
				Expect(parents.Push(u)).To(Succeed())
			}
			Consistently(out.Len, 200*time.Millisecond).Should(BeZero())
		})
	})

	Context("when asked to exit", func() {
		It("should return and close the parents queue", func() {
			close(start)
			run()
			created(1)
			close(exit)
			Eventually(finished).Should(Receive(BeNil()))
			Expect(parents.Closed()).To(BeTrue())
			finished <- nil
		})
	})

	Context("when exit is signaled before it starts", func() {
		It("should not create anything even with enough parents queued", func() {
			conf.CreateDelay = 0
			rounds := committee.Rounds(4)
			for i := 0; i < 20; i++ {
				parents = queue.New[gomel.Unit]()
				out = queue.New[gomel.Unit]()
				start = make(chan int, 1)
				exit = make(chan struct{})
				for _, round := range rounds {
					for _, u := range round[1:] {
						Expect(parents.Push(u)).To(Succeed())
					}
				}
				close(start)
				close(exit)
				run()
				Eventually(finished).Should(Receive(BeNil()))
				Expect(out.Len()).To(BeZero())
			}
			finished <- nil
		})
	})

	Context("when the output queue is closed", func() {
		It("should return an error", func() {
			out.Close()
			close(start)
			run()
			Eventually(finished).Should(Receive(HaveOccurred()))
			finished <- nil
		})
	})
})
