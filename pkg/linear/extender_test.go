package linear_test

import (
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/Setheum-Labs/HS3/pkg/gomel"
	. "github.com/Setheum-Labs/HS3/pkg/linear"
	"github.com/Setheum-Labs/HS3/pkg/queue"
	"github.com/Setheum-Labs/HS3/pkg/random/coin"
	"github.com/Setheum-Labs/HS3/pkg/terminator"
	"github.com/Setheum-Labs/HS3/pkg/tests"
)

var _ = Describe("Extender", func() {
	var (
		committee *tests.Committee
		input     *queue.Queue[gomel.Unit]
		output    *queue.Queue[[]gomel.Unit]
		exit      chan struct{}
		finished  chan error
	)

	BeforeEach(func() {
		committee = tests.NewCommittee(4)
		input = queue.New[gomel.Unit]()
		output = queue.New[[]gomel.Unit]()
		exit = make(chan struct{})
		finished = make(chan error, 1)
		ext := NewExtender(committee.Config(0), coin.New(nil), input, output, zerolog.Nop())
		term := terminator.New(exit, "extender", zerolog.Nop())
		go func() {
			finished <- ext.Run(term)
		}()
	})

	AfterEach(func() {
		select {
		case <-exit:
		default:
			close(exit)
		}
	})

	It("should push a batch for every decided round", func() {
		for _, u := range tests.Flatten(committee.Rounds(5)) {
			Expect(input.Push(u)).To(Succeed())
		}
		var batches [][]gomel.Unit
		Eventually(func() int {
			batches = append(batches, output.Drain()...)
			return len(batches)
		}, 5*time.Second, 10*time.Millisecond).Should(Equal(2))
		Expect(batches[0]).To(HaveLen(1))
		Expect(batches[1]).To(HaveLen(4))
		Consistently(output.Len, 100*time.Millisecond).Should(BeZero())
	})

	It("should stop and close its input on exit", func() {
		close(exit)
		Eventually(finished).Should(Receive(BeNil()))
		Expect(input.Closed()).To(BeTrue())
		Expect(input.Push(committee.Genesis()[0])).To(MatchError(queue.ErrClosed))
		Expect(output.Len()).To(BeZero())
	})

	It("should fail when the output is closed", func() {
		output.Close()
		for _, u := range tests.Flatten(committee.Rounds(4)) {
			Expect(input.Push(u)).To(Succeed())
		}
		Eventually(finished, 5*time.Second).Should(Receive(HaveOccurred()))
	})
})
