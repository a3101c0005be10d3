package rmc_test

import (
	"context"
	"time"

	"github.com/algorand/go-deadlock"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Setheum-Labs/HS3/pkg/crypto/multi"
	"github.com/Setheum-Labs/HS3/pkg/gomel"
	. "github.com/Setheum-Labs/HS3/pkg/rmc"
	"github.com/Setheum-Labs/HS3/pkg/tests"
)

type countingMetrics struct {
	mx        deadlock.Mutex
	completed []gomel.Hash
}

func (cm *countingMetrics) ReportAggregationComplete(h gomel.Hash) {
	cm.mx.Lock()
	defer cm.mx.Unlock()
	cm.completed = append(cm.completed, h)
}

func (cm *countingMetrics) count() int {
	cm.mx.Lock()
	defer cm.mx.Unlock()
	return len(cm.completed)
}

// recordingSink remembers sent messages and hands out the ones pushed to incoming.
type recordingSink struct {
	mx       deadlock.Mutex
	sent     []Message
	fail     bool
	incoming chan Message
}

func newRecordingSink() *recordingSink {
	return &recordingSink{incoming: make(chan Message, 16)}
}

func (rs *recordingSink) Send(msg Message, _ Recipient) error {
	rs.mx.Lock()
	defer rs.mx.Unlock()
	if rs.fail {
		return ErrSendFail
	}
	rs.sent = append(rs.sent, msg)
	return nil
}

func (rs *recordingSink) Next(ctx context.Context) (Message, bool) {
	select {
	case <-ctx.Done():
		return Message{}, false
	case msg := <-rs.incoming:
		return msg, true
	}
}

func (rs *recordingSink) sentOfKind(kind Kind) int {
	rs.mx.Lock()
	defer rs.mx.Unlock()
	count := 0
	for _, msg := range rs.sent {
		if msg.Kind == kind {
			count++
		}
	}
	return count
}

var _ = Describe("Aggregator", func() {
	var (
		committee *tests.Committee
		hash      gomel.Hash
		metrics   *countingMetrics
		sink      *recordingSink
		agg       *Aggregator
	)

	signed := func(pid uint16) Message {
		return SignedMessage(&hash, pid, committee.Keychain(pid).Sign(&hash))
	}

	BeforeEach(func() {
		committee = tests.NewCommittee(4)
		hash = *committee.Hasher.Hash([]byte("finalized block"))
		metrics = &countingMetrics{}
		sink = newRecordingSink()
		agg = NewAggregator(&hash, committee.Keychain(0), sink, metrics, zerolog.Nop())
	})

	Describe("Handle", func() {
		It("should complete exactly once, on the third distinct signature", func() {
			Expect(agg.Handle(signed(0))).To(Equal(Collecting))
			Expect(agg.Handle(signed(1))).To(Equal(Collecting))
			Expect(agg.Status()).To(Equal(Collecting))
			Expect(agg.Proof()).To(BeNil())
			Expect(metrics.count()).To(BeZero())

			Expect(agg.Handle(signed(2))).To(Equal(Completed))
			Expect(metrics.count()).To(Equal(1))
			Expect(sink.sentOfKind(Multisigned)).To(Equal(1))

			Expect(agg.Handle(signed(3))).To(Equal(Completed))
			Expect(metrics.count()).To(Equal(1))
			Expect(sink.sentOfKind(Multisigned)).To(Equal(1))
			Expect(agg.Proof().Signers()).To(Equal([]uint16{0, 1, 2}))
			Expect(agg.Proof().Verify(committee.Keychain(3))).To(BeTrue())
		})

		It("should count a repeated signer once", func() {
			agg.Handle(signed(0))
			agg.Handle(signed(1))
			Expect(agg.Handle(signed(1))).To(Equal(Collecting))
			Expect(metrics.count()).To(BeZero())
		})

		It("should ignore signatures that do not verify", func() {
			agg.Handle(signed(0))
			agg.Handle(signed(1))
			forged := SignedMessage(&hash, 2, committee.Keychain(1).Sign(&hash))
			Expect(agg.Handle(forged)).To(Equal(Collecting))
			outOfRange := SignedMessage(&hash, 7, committee.Keychain(1).Sign(&hash))
			Expect(agg.Handle(outOfRange)).To(Equal(Collecting))
			Expect(metrics.count()).To(BeZero())
			Expect(agg.Handle(signed(2))).To(Equal(Completed))
		})

		It("should ignore messages of other sessions", func() {
			other := *committee.Hasher.Hash([]byte("other block"))
			agg.Handle(signed(0))
			agg.Handle(signed(1))
			msg := SignedMessage(&other, 2, committee.Keychain(2).Sign(&other))
			Expect(agg.Handle(msg)).To(Equal(Collecting))
		})

		It("should complete at once on a valid multisignature", func() {
			proof := multi.NewSignature(3, &hash)
			for pid := uint16(1); pid <= 3; pid++ {
				proof.Aggregate(pid, committee.Keychain(pid).Sign(&hash))
			}
			Expect(agg.Handle(MultisignedMessage(&hash, proof.Marshal()))).To(Equal(Completed))
			Expect(metrics.count()).To(Equal(1))
			Expect(agg.Handle(MultisignedMessage(&hash, proof.Marshal()))).To(Equal(Completed))
			Expect(agg.Handle(signed(0))).To(Equal(Completed))
			Expect(metrics.count()).To(Equal(1))
		})

		It("should reject a multisignature with too few valid signatures", func() {
			proof := multi.NewSignature(1, &hash)
			proof.Aggregate(1, committee.Keychain(1).Sign(&hash))
			proof.Aggregate(2, committee.Keychain(1).Sign(&hash))
			proof.Aggregate(3, committee.Keychain(1).Sign(&hash))
			Expect(agg.Handle(MultisignedMessage(&hash, proof.Marshal()))).To(Equal(Collecting))
			Expect(agg.Handle(MultisignedMessage(&hash, []byte{1, 2, 3}))).To(Equal(Collecting))
			Expect(metrics.count()).To(BeZero())
		})
	})

	Describe("Run", func() {
		It("should multicast its own signature and return the multisignature", func() {
			sink.incoming <- signed(2)
			sink.incoming <- signed(3)
			proof, err := agg.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(proof.Signers()).To(Equal([]uint16{0, 2, 3}))
			Expect(sink.sentOfKind(Signed)).To(Equal(1))
			Expect(sink.sentOfKind(Multisigned)).To(Equal(1))
		})

		It("should carry on when sending fails", func() {
			sink.fail = true
			sink.incoming <- signed(1)
			sink.incoming <- signed(2)
			proof, err := agg.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(proof.Complete()).To(BeTrue())
			Expect(metrics.count()).To(Equal(1))
		})

		It("should stop when the context is done", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			proof, err := agg.Run(ctx)
			Expect(err).To(MatchError(context.DeadlineExceeded))
			Expect(proof).To(BeNil())
			Expect(agg.Status()).To(Equal(Collecting))
		})
	})

	Describe("over a router", func() {
		var router *Router

		BeforeEach(func() {
			router = NewRouter(committee.NProc)
		})

		runAll := func() []*Aggregator {
			aggs := make([]*Aggregator, committee.NProc)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			g, ctx := errgroup.WithContext(ctx)
			for pid := range aggs {
				pid := uint16(pid)
				aggs[pid] = NewAggregator(&hash, committee.Keychain(pid), router.Sink(pid, &hash), metrics, zerolog.Nop())
				g.Go(func() error {
					_, err := aggs[pid].Run(ctx)
					return err
				})
			}
			Expect(g.Wait()).To(Succeed())
			return aggs
		}

		It("should complete every session", func() {
			for _, a := range runAll() {
				Expect(a.Status()).To(Equal(Completed))
				Expect(a.Proof().Verify(committee.Keychain(0))).To(BeTrue())
			}
			Expect(metrics.count()).To(Equal(4))
		})

		It("should complete a process whose messages are all lost", func() {
			router.SetFilter(func(from, _ uint16) bool { return from != 3 })
			aggs := runAll()
			Expect(aggs[3].Status()).To(Equal(Completed))
			Expect(aggs[3].Proof().Has(3)).To(BeFalse())
		})

		It("should close the sinks of a forgotten session", func() {
			s0 := router.Sink(0, &hash)
			s1 := router.Sink(1, &hash)
			Expect(router.Sessions()).To(Equal(1))
			router.Forget(&hash)
			Expect(router.Sessions()).To(BeZero())
			_, ok := s0.Next(context.Background())
			Expect(ok).To(BeFalse())
			Expect(s1.Send(signed(1), Everyone())).To(MatchError(ErrSendFail))
		})

		It("should forget a session once every process released it", func() {
			runAll()
			for pid := uint16(0); pid < committee.NProc-1; pid++ {
				router.Release(pid, &hash)
				router.Release(pid, &hash)
			}
			Expect(router.Sessions()).To(Equal(1))
			router.Release(committee.NProc-1, &hash)
			Expect(router.Sessions()).To(BeZero())
		})

		It("should report completions to prometheus", func() {
			reg := prometheus.NewRegistry()
			pm := NewPrometheusMetrics(reg)
			a := NewAggregator(&hash, committee.Keychain(1), router.Sink(1, &hash), pm, zerolog.Nop())
			for _, pid := range []uint16{0, 1, 2} {
				a.Handle(signed(pid))
			}
			families, err := reg.Gather()
			Expect(err).NotTo(HaveOccurred())
			values := map[string]float64{}
			for _, mf := range families {
				for _, m := range mf.GetMetric() {
					if m.GetCounter() != nil {
						values[mf.GetName()] = m.GetCounter().GetValue()
					}
				}
			}
			Expect(values).To(HaveKeyWithValue("rmc_aggregations_completed_total", 1.0))
		})
	})
})

var _ = Describe("Message", func() {
	It("should survive encoding", func() {
		var h gomel.Hash
		h[3] = 7
		msg := SignedMessage(&h, 2, gomel.Signature{1, 2, 3})
		decoded, err := Unmarshal(msg.Marshal())
		Expect(err).NotTo(HaveOccurred())
		Expect(decoded).To(Equal(msg))
	})

	It("should reject truncated data", func() {
		var h gomel.Hash
		data := MultisignedMessage(&h, []byte{1, 2, 3}).Marshal()
		_, err := Unmarshal(data[:len(data)-1])
		Expect(err).To(HaveOccurred())
		_, err = Unmarshal([]byte{9})
		Expect(err).To(HaveOccurred())
	})
})
