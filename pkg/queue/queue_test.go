package queue_test

import (
	"sync"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	. "github.com/Setheum-Labs/HS3/pkg/queue"
)

var _ = Describe("Queue", func() {
	var q *Queue[int]

	BeforeEach(func() {
		q = New[int]()
	})

	It("should return items in the order they were pushed", func() {
		for i := 0; i < 5; i++ {
			Expect(q.Push(i)).To(Succeed())
		}
		Expect(q.Len()).To(Equal(5))
		Eventually(q.Ready()).Should(Receive())
		Expect(q.Drain()).To(Equal([]int{0, 1, 2, 3, 4}))
		Expect(q.Drain()).To(BeEmpty())
		Expect(q.Len()).To(BeZero())
	})

	It("should not signal readiness when nothing was pushed", func() {
		Consistently(q.Ready(), "50ms").ShouldNot(Receive())
	})

	It("should keep the order of every producer", func() {
		var wg sync.WaitGroup
		for p := 0; p < 4; p++ {
			wg.Add(1)
			go func(p int) {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					Expect(q.Push(p*1000 + i)).To(Succeed())
				}
			}(p)
		}
		wg.Wait()
		last := map[int]int{0: -1, 1: -1, 2: -1, 3: -1}
		items := q.Drain()
		Expect(items).To(HaveLen(400))
		for _, item := range items {
			Expect(item % 1000).To(Equal(last[item/1000] + 1))
			last[item/1000] = item % 1000
		}
	})

	Context("when closed", func() {
		BeforeEach(func() {
			Expect(q.Push(1)).To(Succeed())
			q.Drain()
			q.Close()
		})

		It("should reject new items", func() {
			Expect(q.Push(2)).To(MatchError(ErrClosed))
			Expect(q.Closed()).To(BeTrue())
			Expect(q.Drain()).To(BeEmpty())
		})

		It("should wake up the consumer", func() {
			Eventually(q.Ready()).Should(Receive())
		})
	})
})
