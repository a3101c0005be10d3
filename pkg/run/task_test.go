package run

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/Setheum-Labs/HS3/pkg/terminator"
)

var _ = Describe("spawn", func() {
	var (
		exit   chan struct{}
		root   *terminator.Terminator
		exited chan *task
	)

	BeforeEach(func() {
		exit = make(chan struct{})
		root = terminator.New(exit, "root", zerolog.Nop())
		exited = make(chan *task, 1)
	})

	It("should turn a panic into an error", func() {
		t := spawn("faulty", root, exited, func(*terminator.Terminator) error {
			panic("impossible state")
		})
		Eventually(exited).Should(Receive(Equal(t)))
		Expect(t.err).To(MatchError(ContainSubstring("impossible state")))
		Eventually(t.done).Should(BeClosed())
	})

	It("should keep the error of the task", func() {
		failure := errors.New("failure")
		t := spawn("failing", root, exited, func(*terminator.Terminator) error {
			return failure
		})
		Eventually(exited).Should(Receive(Equal(t)))
		Expect(t.err).To(Equal(failure))
	})

	It("should let the task wait for the exit signal of its parent", func() {
		t := spawn("waiting", root, exited, func(term *terminator.Terminator) error {
			<-term.GetExit()
			return nil
		})
		Consistently(t.done, 50*time.Millisecond).ShouldNot(BeClosed())
		root.TerminateSync()
		Eventually(t.done).Should(BeClosed())
		Expect(t.err).NotTo(HaveOccurred())
	})
})
