package encoding

import (
	"encoding/binary"
	"io"

	"github.com/Setheum-Labs/HS3/pkg/gomel"
	"github.com/Setheum-Labs/HS3/pkg/unit"
)

// maxDataSize bounds the unit data accepted from the wire.
const maxDataSize = 1 << 24

type decoder struct {
	io.Reader
	hasher gomel.Hasher
}

// newDecoder returns a decoder reading units written by encoder.
// It reads only as much data as needed.
func newDecoder(r io.Reader, hasher gomel.Hasher) *decoder {
	return &decoder{r, hasher}
}

func (d *decoder) decodeUnit() (gomel.Unit, error) {
	creator, err := d.decodeUint16()
	if err != nil {
		return nil, err
	}
	round, err := d.decodeUint32()
	if err != nil {
		return nil, err
	}
	sigLen, err := d.decodeUint16()
	if err != nil {
		return nil, err
	}
	signature := make(gomel.Signature, sigLen)
	if _, err = io.ReadFull(d, signature); err != nil {
		return nil, err
	}
	nParents, err := d.decodeUint16()
	if err != nil {
		return nil, err
	}
	parents := make([]*gomel.Hash, nParents)
	presence := make([]byte, 1)
	for i := range parents {
		if _, err = io.ReadFull(d, presence); err != nil {
			return nil, err
		}
		switch presence[0] {
		case 0:
		case 1:
			parents[i] = &gomel.Hash{}
			if _, err = io.ReadFull(d, parents[i][:]); err != nil {
				return nil, err
			}
		default:
			return nil, gomel.NewDataError("malformed parent slot")
		}
	}
	dataLen, err := d.decodeUint32()
	if err != nil {
		return nil, err
	}
	if dataLen > maxDataSize {
		return nil, gomel.NewDataError("unit data too big")
	}
	var data []byte
	if dataLen > 0 {
		data = make([]byte, dataLen)
		if _, err = io.ReadFull(d, data); err != nil {
			return nil, err
		}
	}
	hash := unit.ComputeHash(d.hasher, creator, int(round), parents, data)
	return unit.FromParts(creator, int(round), parents, data, hash, signature), nil
}

func (d *decoder) decodeChunk() ([]gomel.Unit, error) {
	k, err := d.decodeUint32()
	if err != nil {
		return nil, err
	}
	var result []gomel.Unit
	for i := uint32(0); i < k; i++ {
		u, err := d.decodeUnit()
		if err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, nil
}

func (d *decoder) decodeUint16() (uint16, error) {
	buf := make([]byte, 2)
	if _, err := io.ReadFull(d, buf); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf), nil
}

func (d *decoder) decodeUint32() (uint32, error) {
	buf := make([]byte, 4)
	if _, err := io.ReadFull(d, buf); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}
