// Package transactions implements the payload carried by units: encoded, compressed lists of transactions.
package transactions

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/golang/snappy"

	"github.com/Setheum-Labs/HS3/pkg/gomel"
)

// Tx is a minimalistic transaction.
type Tx struct {
	ID       uint32
	Issuer   string
	Receiver string
	Amount   uint32
}

// Encode returns the byte representation of given list of transactions, in the following format:
//  1. ID as uint32 (4 bytes)
//  2. length of Issuer as uint8 (1 byte)
//  3. Issuer
//  4. length of Receiver as uint8 (1 byte)
//  5. Receiver
//  6. Amount as uint32 (4 bytes)
//
// Issuer and Receiver longer than 255 bytes are truncated.
func Encode(txs []Tx) []byte {
	var data bytes.Buffer
	for _, tx := range txs {
		data.Write(binary.LittleEndian.AppendUint32(nil, tx.ID))
		writeShortString(&data, tx.Issuer)
		writeShortString(&data, tx.Receiver)
		data.Write(binary.LittleEndian.AppendUint32(nil, tx.Amount))
	}
	return data.Bytes()
}

func writeShortString(w *bytes.Buffer, s string) {
	if len(s) > math.MaxUint8 {
		s = s[:math.MaxUint8]
	}
	w.WriteByte(uint8(len(s)))
	w.WriteString(s)
}

// Decode decodes bytes produced by Encode.
func Decode(data []byte) ([]Tx, error) {
	reader := bytes.NewReader(data)
	var result []Tx
	for reader.Len() > 0 {
		var tx Tx
		if err := binary.Read(reader, binary.LittleEndian, &tx.ID); err != nil {
			return result, err
		}
		issuer, err := readShortString(reader)
		if err != nil {
			return result, err
		}
		receiver, err := readShortString(reader)
		if err != nil {
			return result, err
		}
		if err := binary.Read(reader, binary.LittleEndian, &tx.Amount); err != nil {
			return result, err
		}
		tx.Issuer, tx.Receiver = issuer, receiver
		result = append(result, tx)
	}
	return result, nil
}

func readShortString(r *bytes.Reader) (string, error) {
	n, err := r.ReadByte()
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// Compress compresses the data with snappy.
func Compress(data []byte) []byte {
	return snappy.Encode(nil, data)
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	return snappy.Decode(nil, data)
}

// FromBatch extracts the transactions of an ordered batch, in order. Units without data are skipped.
// A unit whose data cannot be decoded makes the whole call fail with a DataError.
func FromBatch(batch []gomel.Unit) ([]Tx, error) {
	var result []Tx
	for _, u := range batch {
		if len(u.Data()) == 0 {
			continue
		}
		raw, err := Decompress(u.Data())
		if err != nil {
			return nil, gomel.NewDataError("unit data is not compressed transactions")
		}
		txs, err := Decode(raw)
		if err != nil {
			return nil, gomel.NewDataError("unit data holds malformed transactions")
		}
		result = append(result, txs...)
	}
	return result, nil
}
