// Package unit contains the concrete implementation of gomel.Unit.
package unit

import (
	"bytes"
	"encoding/binary"

	"github.com/Setheum-Labs/HS3/pkg/gomel"
)

const (
	absentParent  byte = 0
	presentParent byte = 1
)

type unit struct {
	creator   uint16
	round     int
	parents   []*gomel.Hash
	data      []byte
	hash      *gomel.Hash
	signature gomel.Signature
}

// New constructs a new unit with the given parents, computes its hash and signs it with the provided signer.
func New(creator uint16, round int, parents []*gomel.Hash, data []byte, hasher gomel.Hasher, signer gomel.Signer) gomel.Unit {
	hash := ComputeHash(hasher, creator, round, parents, data)
	return &unit{
		creator:   creator,
		round:     round,
		parents:   copyParents(parents),
		data:      data,
		hash:      hash,
		signature: signer.Sign(hash),
	}
}

// FromParts assembles a unit from data received from elsewhere.
// The claimed hash and signature are taken as they are; checking them is the job of the dag checks.
func FromParts(creator uint16, round int, parents []*gomel.Hash, data []byte, hash *gomel.Hash, signature gomel.Signature) gomel.Unit {
	return &unit{
		creator:   creator,
		round:     round,
		parents:   copyParents(parents),
		data:      data,
		hash:      hash,
		signature: signature,
	}
}

func (u *unit) Creator() uint16 {
	return u.creator
}

func (u *unit) Round() int {
	return u.round
}

func (u *unit) Parents() []*gomel.Hash {
	return u.parents
}

func (u *unit) Data() []byte {
	return u.data
}

func (u *unit) Hash() *gomel.Hash {
	return u.hash
}

func (u *unit) Signature() gomel.Signature {
	return u.signature
}

// Encode produces the canonical byte representation of the hashed part of a unit.
// Every process must obtain the same bytes for the same logical content.
func Encode(creator uint16, round int, parents []*gomel.Hash, data []byte) []byte {
	var buf bytes.Buffer
	header := make([]byte, 2+8+2)
	binary.LittleEndian.PutUint16(header[0:], creator)
	binary.LittleEndian.PutUint64(header[2:], uint64(round))
	binary.LittleEndian.PutUint16(header[10:], uint16(len(parents)))
	buf.Write(header)
	for _, p := range parents {
		if p == nil {
			buf.WriteByte(absentParent)
			continue
		}
		buf.WriteByte(presentParent)
		buf.Write(p[:])
	}
	dataLen := make([]byte, 4)
	binary.LittleEndian.PutUint32(dataLen, uint32(len(data)))
	buf.Write(dataLen)
	buf.Write(data)
	return buf.Bytes()
}

// ComputeHash calculates the value of unit's hash based on provided data.
func ComputeHash(hasher gomel.Hasher, creator uint16, round int, parents []*gomel.Hash, data []byte) *gomel.Hash {
	return hasher.Hash(Encode(creator, round, parents, data))
}

func copyParents(parents []*gomel.Hash) []*gomel.Hash {
	result := make([]*gomel.Hash, len(parents))
	for i, p := range parents {
		if p != nil {
			h := *p
			result[i] = &h
		}
	}
	return result
}
