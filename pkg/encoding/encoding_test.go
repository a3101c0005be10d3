package encoding_test

import (
	"bytes"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	. "github.com/Setheum-Labs/HS3/pkg/encoding"
	"github.com/Setheum-Labs/HS3/pkg/gomel"
	"github.com/Setheum-Labs/HS3/pkg/tests"
)

var _ = Describe("Encoding/Decoding", func() {
	var (
		committee *tests.Committee
		rounds    [][]gomel.Unit
		network   *bytes.Buffer
	)

	BeforeEach(func() {
		committee = tests.NewCommittee(4)
		rounds = committee.Rounds(2)
		network = &bytes.Buffer{}
	})

	expectSame := func(decoded, u gomel.Unit) {
		Expect(decoded.Creator()).To(Equal(u.Creator()))
		Expect(decoded.Round()).To(Equal(u.Round()))
		Expect(decoded.Hash()).To(Equal(u.Hash()))
		Expect(decoded.Signature()).To(Equal(u.Signature()))
		Expect(decoded.Parents()).To(Equal(u.Parents()))
		Expect(decoded.Data()).To(Equal(u.Data()))
	}

	Context("A unit of round 0", func() {
		It("should be decoded to the same unit", func() {
			u := rounds[0][2]
			Expect(SendUnit(u, network)).To(Succeed())
			decoded, err := ReceiveUnit(network, committee.Hasher)
			Expect(err).NotTo(HaveOccurred())
			expectSame(decoded, u)
			Expect(network.Len()).To(BeZero())
		})
	})

	Context("A unit with an empty parent slot", func() {
		It("should keep the slot empty", func() {
			parents := append([]gomel.Unit(nil), rounds[0]...)
			parents[3] = nil
			u := committee.NewUnit(1, 1, parents, []byte("payload"))
			data, err := EncodeUnit(u)
			Expect(err).NotTo(HaveOccurred())
			decoded, err := DecodeUnit(data, committee.Hasher)
			Expect(err).NotTo(HaveOccurred())
			expectSame(decoded, u)
			Expect(decoded.Parents()[3]).To(BeNil())
		})
	})

	Context("A chunk of units", func() {
		It("should be decoded in the same order", func() {
			units := tests.Flatten(rounds)
			Expect(SendChunk(units, network)).To(Succeed())
			decoded, err := ReceiveChunk(network, committee.Hasher)
			Expect(err).NotTo(HaveOccurred())
			Expect(decoded).To(HaveLen(len(units)))
			for i := range units {
				expectSame(decoded[i], units[i])
			}
		})
	})

	Context("Damaged data", func() {
		var data []byte

		BeforeEach(func() {
			var err error
			data, err = EncodeUnit(rounds[1][0])
			Expect(err).NotTo(HaveOccurred())
		})

		It("should fail to decode when truncated", func() {
			for _, cut := range []int{1, 5, 40, len(data) - 1} {
				_, err := DecodeUnit(data[:cut], committee.Hasher)
				Expect(err).To(HaveOccurred())
			}
		})

		It("should fail to decode with trailing bytes", func() {
			_, err := DecodeUnit(append(data, 7), committee.Hasher)
			Expect(err).To(HaveOccurred())
		})

		It("should produce a different hash when the content changes", func() {
			damaged := append([]byte(nil), data...)
			damaged[len(damaged)-1]++
			decoded, err := DecodeUnit(damaged, committee.Hasher)
			Expect(err).NotTo(HaveOccurred())
			Expect(decoded.Hash()).NotTo(Equal(rounds[1][0].Hash()))
			Expect(committee.PublicKeys[0].Verify(decoded.Hash(), decoded.Signature())).To(BeFalse())
		})
	})
})
