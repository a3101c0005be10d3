package rmc

import (
	"encoding/binary"
	"errors"

	"github.com/Setheum-Labs/HS3/pkg/gomel"
)

// Kind of a message exchanged by aggregators.
type Kind byte

const (
	// Signed carries a partial signature of a single process.
	Signed Kind = iota
	// Multisigned carries a complete multisignature.
	Multisigned
)

// Message is a single message of the reliable multicast protocol.
type Message struct {
	Kind Kind
	Hash gomel.Hash
	// Signer and Signature are set for Signed messages.
	Signer    uint16
	Signature gomel.Signature
	// Proof is the encoded multisignature of Multisigned messages.
	Proof []byte
}

// SignedMessage returns a message with the partial signature of signer over h.
func SignedMessage(h *gomel.Hash, signer uint16, sig gomel.Signature) Message {
	return Message{Kind: Signed, Hash: *h, Signer: signer, Signature: sig}
}

// MultisignedMessage returns a message with the encoded multisignature over h.
func MultisignedMessage(h *gomel.Hash, proof []byte) Message {
	return Message{Kind: Multisigned, Hash: *h, Proof: proof}
}

var errMalformed = errors.New("malformed message")

// Marshal encodes the message.
func (m Message) Marshal() []byte {
	data := make([]byte, 0, 1+gomel.HashLength+2+4+len(m.Signature)+len(m.Proof))
	data = append(data, byte(m.Kind))
	data = append(data, m.Hash[:]...)
	switch m.Kind {
	case Signed:
		data = binary.LittleEndian.AppendUint16(data, m.Signer)
		data = binary.LittleEndian.AppendUint32(data, uint32(len(m.Signature)))
		data = append(data, m.Signature...)
	case Multisigned:
		data = binary.LittleEndian.AppendUint32(data, uint32(len(m.Proof)))
		data = append(data, m.Proof...)
	}
	return data
}

// Unmarshal decodes a message encoded with Marshal.
func Unmarshal(data []byte) (Message, error) {
	var m Message
	if len(data) < 1+gomel.HashLength {
		return m, errMalformed
	}
	m.Kind = Kind(data[0])
	copy(m.Hash[:], data[1:])
	data = data[1+gomel.HashLength:]
	switch m.Kind {
	case Signed:
		if len(data) < 6 {
			return m, errMalformed
		}
		m.Signer = binary.LittleEndian.Uint16(data)
		payload, err := readBytes(data[2:])
		if err != nil {
			return m, err
		}
		m.Signature = payload
	case Multisigned:
		payload, err := readBytes(data)
		if err != nil {
			return m, err
		}
		m.Proof = payload
	default:
		return m, errMalformed
	}
	return m, nil
}

func readBytes(data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, errMalformed
	}
	length := binary.LittleEndian.Uint32(data)
	data = data[4:]
	if uint32(len(data)) != length {
		return nil, errMalformed
	}
	return append([]byte(nil), data...), nil
}
