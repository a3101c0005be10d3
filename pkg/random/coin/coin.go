// Package coin implements the default RandomSource: a deterministic coin derived from a hash.
//
// Every process obtains the same bytes from the same seed, candidate and round,
// so the coin keeps all honest processes in agreement. It is only as unpredictable as the seed.
package coin

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"github.com/Setheum-Labs/HS3/pkg/gomel"
)

type coin struct {
	seed []byte
}

// New returns a RandomSource based on SHA3-256 over the seed, the candidate hash and the round.
func New(seed []byte) gomel.RandomSource {
	return &coin{seed: append([]byte(nil), seed...)}
}

func (c *coin) RandomBytes(candidate *gomel.Hash, round int) []byte {
	h := sha3.New256()
	h.Write(c.seed)
	if candidate != nil {
		h.Write(candidate[:])
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(round))
	h.Write(buf[:])
	return h.Sum(nil)
}

// Toss extracts a single bit from the given random bytes.
func Toss(bytes []byte) bool {
	if len(bytes) == 0 {
		return false
	}
	return bytes[len(bytes)-1]&1 == 0
}
