// Package encoding implements the wire format of units.
//
// Decoded units carry a hash recomputed from their content, so a unit altered in transit
// fails the signature check instead of impersonating the original.
package encoding

import (
	"bytes"
	"io"

	"github.com/Setheum-Labs/HS3/pkg/gomel"
)

// EncodeUnit encodes a unit to a slice of bytes.
func EncodeUnit(u gomel.Unit) ([]byte, error) {
	var buf bytes.Buffer
	if err := newEncoder(&buf).encodeUnit(u); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeUnit decodes the given data into a unit. Complementary to EncodeUnit.
// Trailing data is an error.
func DecodeUnit(data []byte, hasher gomel.Hasher) (gomel.Unit, error) {
	r := bytes.NewReader(data)
	u, err := newDecoder(r, hasher).decodeUnit()
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, gomel.NewDataError("trailing data after unit")
	}
	return u, nil
}

// SendUnit writes encoded unit to writer.
func SendUnit(u gomel.Unit, w io.Writer) error {
	return newEncoder(w).encodeUnit(u)
}

// ReceiveUnit decodes a unit from reader.
func ReceiveUnit(r io.Reader, hasher gomel.Hasher) (gomel.Unit, error) {
	return newDecoder(r, hasher).decodeUnit()
}

// SendChunk encodes units and writes them to writer, in the given order.
func SendChunk(units []gomel.Unit, w io.Writer) error {
	return newEncoder(w).encodeChunk(units)
}

// ReceiveChunk decodes a slice of units written by SendChunk.
func ReceiveChunk(r io.Reader, hasher gomel.Hasher) ([]gomel.Unit, error) {
	return newDecoder(r, hasher).decodeChunk()
}
