package encoding

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/Setheum-Labs/HS3/pkg/gomel"
)

type encoder struct {
	io.Writer
}

// newEncoder returns an encoder writing units in the following format:
//  1. Creator id, 2 bytes.
//  2. Round, 4 bytes.
//  3. Size of the signature, 2 bytes, and the signature itself.
//  4. Number of parent slots, 2 bytes.
//  5. For every slot a presence byte, followed by the 32 byte parent hash if present.
//  6. Size of the unit data, 4 bytes, and the data itself.
//
// All integers are little endian. The hash is not sent; the receiver recomputes it from the content.
func newEncoder(w io.Writer) *encoder {
	return &encoder{w}
}

func (e *encoder) encodeUnit(u gomel.Unit) error {
	if u.Round() < 0 || int64(u.Round()) > math.MaxUint32 {
		return gomel.NewDataError("round out of range")
	}
	if len(u.Signature()) > math.MaxUint16 || len(u.Parents()) > math.MaxUint16 {
		return gomel.NewDataError("unit too big to encode")
	}
	if len(u.Data()) > maxDataSize {
		return gomel.NewDataError("unit data too big to encode")
	}
	data := make([]byte, 0, 2+4+2+len(u.Signature())+2+len(u.Parents())*(1+gomel.HashLength)+4)
	data = binary.LittleEndian.AppendUint16(data, u.Creator())
	data = binary.LittleEndian.AppendUint32(data, uint32(u.Round()))
	data = binary.LittleEndian.AppendUint16(data, uint16(len(u.Signature())))
	data = append(data, u.Signature()...)
	data = binary.LittleEndian.AppendUint16(data, uint16(len(u.Parents())))
	for _, p := range u.Parents() {
		if p == nil {
			data = append(data, 0)
			continue
		}
		data = append(data, 1)
		data = append(data, p[:]...)
	}
	data = binary.LittleEndian.AppendUint32(data, uint32(len(u.Data())))
	if _, err := e.Write(data); err != nil {
		return err
	}
	if len(u.Data()) > 0 {
		if _, err := e.Write(u.Data()); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) encodeChunk(units []gomel.Unit) error {
	if err := e.encodeUint32(uint32(len(units))); err != nil {
		return err
	}
	for _, u := range units {
		if err := e.encodeUnit(u); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) encodeUint32(i uint32) error {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, i)
	_, err := e.Write(buf)
	return err
}
