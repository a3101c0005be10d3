// Package multi implements multisignatures as sets of partial signatures from distinct committee members.
package multi

import (
	"encoding/binary"
	"errors"
	"sort"

	"github.com/Setheum-Labs/HS3/pkg/gomel"
)

// Signature over a single hash, built from partial signatures of distinct processes.
// It is complete once it holds threshold of them.
type Signature struct {
	threshold uint16
	hash      gomel.Hash
	sgs       map[uint16]gomel.Signature
}

// NewSignature returns an empty multisignature over h that becomes complete with threshold partial signatures.
func NewSignature(threshold uint16, h *gomel.Hash) *Signature {
	return &Signature{
		threshold: threshold,
		hash:      *h,
		sgs:       make(map[uint16]gomel.Signature),
	}
}

// Aggregate adds the partial signature of pid. Signatures are not verified here.
// Only the first signature of every process is kept.
// Returns true if the multisignature is complete after this call.
func (s *Signature) Aggregate(pid uint16, sig gomel.Signature) bool {
	if _, ok := s.sgs[pid]; !ok {
		s.sgs[pid] = sig
	}
	return s.Complete()
}

// Complete checks if enough partial signatures were aggregated.
func (s *Signature) Complete() bool {
	return uint16(len(s.sgs)) >= s.threshold
}

// Hash returns the hash being signed.
func (s *Signature) Hash() *gomel.Hash {
	return &s.hash
}

// Has checks if a partial signature of pid was aggregated.
func (s *Signature) Has(pid uint16) bool {
	_, ok := s.sgs[pid]
	return ok
}

// Partial returns the partial signature of pid, or nil if there is none.
func (s *Signature) Partial(pid uint16) gomel.Signature {
	return s.sgs[pid]
}

// Signers returns the ids of processes whose signatures were aggregated, in ascending order.
func (s *Signature) Signers() []uint16 {
	result := make([]uint16, 0, len(s.sgs))
	for pid := range s.sgs {
		result = append(result, pid)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// Verify checks that at least threshold of the aggregated signatures are valid under the given keys.
func (s *Signature) Verify(keys gomel.Keychain) bool {
	valid := uint16(0)
	for pid, sig := range s.sgs {
		if keys.Verify(pid, &s.hash, sig) {
			valid++
		}
	}
	return valid >= s.threshold
}

// Marshal encodes the multisignature.
func (s *Signature) Marshal() []byte {
	data := make([]byte, 0, gomel.HashLength+4+len(s.sgs)*(4+64))
	data = append(data, s.hash[:]...)
	data = binary.LittleEndian.AppendUint16(data, s.threshold)
	data = binary.LittleEndian.AppendUint16(data, uint16(len(s.sgs)))
	for _, pid := range s.Signers() {
		sig := s.sgs[pid]
		data = binary.LittleEndian.AppendUint16(data, pid)
		data = binary.LittleEndian.AppendUint16(data, uint16(len(sig)))
		data = append(data, sig...)
	}
	return data
}

var errMalformed = errors.New("malformed multisignature")

// Unmarshal decodes a multisignature encoded with Marshal.
func Unmarshal(data []byte) (*Signature, error) {
	if len(data) < gomel.HashLength+4 {
		return nil, errMalformed
	}
	var h gomel.Hash
	copy(h[:], data)
	data = data[gomel.HashLength:]
	s := NewSignature(binary.LittleEndian.Uint16(data), &h)
	count := binary.LittleEndian.Uint16(data[2:])
	data = data[4:]
	for i := uint16(0); i < count; i++ {
		if len(data) < 4 {
			return nil, errMalformed
		}
		pid := binary.LittleEndian.Uint16(data)
		sigLen := int(binary.LittleEndian.Uint16(data[2:]))
		data = data[4:]
		if len(data) < sigLen {
			return nil, errMalformed
		}
		s.Aggregate(pid, gomel.Signature(append([]byte(nil), data[:sigLen]...)))
		data = data[sigLen:]
	}
	if len(data) != 0 {
		return nil, errMalformed
	}
	return s, nil
}
