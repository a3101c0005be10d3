package signing_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/Setheum-Labs/HS3/pkg/crypto/hashing"
	. "github.com/Setheum-Labs/HS3/pkg/crypto/signing"
	"github.com/Setheum-Labs/HS3/pkg/gomel"
)

var _ = Describe("Signatures", func() {
	var (
		pub  gomel.PublicKey
		priv gomel.PrivateKey
		h    *gomel.Hash
		sig  gomel.Signature
	)

	BeforeEach(func() {
		var err error
		pub, priv, err = GenerateKeys()
		Expect(err).NotTo(HaveOccurred())
		h = hashing.NewSHA3().Hash([]byte("unit"))
		sig = priv.Sign(h)
	})

	It("should verify a correct signature", func() {
		Expect(pub.Verify(h, sig)).To(BeTrue())
	})

	It("should reject a forged signature", func() {
		sig[0]++
		Expect(pub.Verify(h, sig)).To(BeFalse())
	})

	It("should reject a signature of another hash", func() {
		other := hashing.NewSHA3().Hash([]byte("other unit"))
		Expect(pub.Verify(other, sig)).To(BeFalse())
	})

	It("should reject signatures of wrong length", func() {
		Expect(pub.Verify(h, sig[1:])).To(BeFalse())
		Expect(pub.Verify(h, nil)).To(BeFalse())
		Expect(pub.Verify(nil, sig)).To(BeFalse())
	})

	Describe("encoding", func() {
		It("should decode encoded keys", func() {
			pub2, err := DecodePublicKey(pub.Encode())
			Expect(err).NotTo(HaveOccurred())
			priv2, err := DecodePrivateKey(priv.Encode())
			Expect(err).NotTo(HaveOccurred())
			Expect(pub2.Verify(h, priv2.Sign(h))).To(BeTrue())
		})

		It("should reject keys of wrong length", func() {
			_, err := DecodePublicKey(priv.Encode())
			Expect(err).To(HaveOccurred())
			_, err = DecodePrivateKey(pub.Encode())
			Expect(err).To(HaveOccurred())
			_, err = DecodePublicKey("not base64!")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("keychain", func() {
		It("should verify signatures of committee members only", func() {
			pub2, priv2, err := GenerateKeys()
			Expect(err).NotTo(HaveOccurred())
			keys := NewKeychain(1, priv2, []gomel.PublicKey{pub, pub2})
			Expect(keys.Pid()).To(Equal(uint16(1)))
			Expect(keys.NProc()).To(Equal(uint16(2)))
			Expect(keys.Verify(0, h, sig)).To(BeTrue())
			Expect(keys.Verify(1, h, sig)).To(BeFalse())
			Expect(keys.Verify(1, h, keys.Sign(h))).To(BeTrue())
			Expect(keys.Verify(2, h, sig)).To(BeFalse())
		})
	})
})
