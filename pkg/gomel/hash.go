package gomel

import (
	"bytes"
	"encoding/base64"

	"golang.org/x/crypto/sha3"
)

// HashLength is the size of hashes of units.
const HashLength = 32

// Hash is a type storing hash values, usually used to identify units.
type Hash [HashLength]byte

// Short returns a shortened version of the hash for easy viewing.
func (h *Hash) Short() string {
	if h == nil {
		return "<nil>"
	}
	return base64.StdEncoding.EncodeToString(h[:8])
}

// LessThan checks if h is less than k in lexicographic order.
// This is used to create a linear order on hashes.
func (h *Hash) LessThan(k *Hash) bool {
	return bytes.Compare(h[:], k[:]) < 0
}

// Equal checks if both hashes are present and identical.
func (h *Hash) Equal(k *Hash) bool {
	if h == nil || k == nil {
		return h == k
	}
	return *h == *k
}

// ZeroHash is a hash containing zeros at all 32 positions.
var ZeroHash Hash

// CombineHashes computes hash from sequence of hashes.
// Absent hashes are treated as ZeroHash.
func CombineHashes(hashes []*Hash) *Hash {
	var (
		result Hash
		data   bytes.Buffer
	)
	for _, h := range hashes {
		if h != nil {
			data.Write(h[:])
		} else {
			data.Write(ZeroHash[:])
		}
	}
	sha3.ShakeSum128(result[:], data.Bytes())
	return &result
}

// ToHashes returns the hashes of the given units, keeping nils in place.
func ToHashes(units []Unit) []*Hash {
	result := make([]*Hash, len(units))
	for i, u := range units {
		if u != nil {
			result[i] = u.Hash()
		}
	}
	return result
}
