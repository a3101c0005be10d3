package hashing_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	. "github.com/Setheum-Labs/HS3/pkg/crypto/hashing"
	"github.com/Setheum-Labs/HS3/pkg/gomel"
)

var _ = Describe("Hashers", func() {
	It("should be deterministic", func() {
		Expect(NewSHA3().Hash([]byte("abc"))).To(Equal(NewSHA3().Hash([]byte("abc"))))
		Expect(NewBlake2b().Hash([]byte("abc"))).To(Equal(NewBlake2b().Hash([]byte("abc"))))
		Expect(NewSHA3().Hash([]byte("abc"))).NotTo(Equal(NewSHA3().Hash([]byte("abd"))))
	})

	It("should differ between functions", func() {
		Expect(NewSHA3().Hash([]byte("abc"))).NotTo(Equal(NewBlake2b().Hash([]byte("abc"))))
	})

	It("should be found by name", func() {
		h, err := ByName("")
		Expect(err).NotTo(HaveOccurred())
		Expect(h.Hash(nil)).To(Equal(NewSHA3().Hash(nil)))
		h, err = ByName("blake2b")
		Expect(err).NotTo(HaveOccurred())
		Expect(h.Hash(nil)).To(Equal(NewBlake2b().Hash(nil)))
		_, err = ByName("md5")
		Expect(err).To(BeAssignableToTypeOf(&gomel.ConfigError{}))
	})
})
