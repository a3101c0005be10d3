// Package hashing provides implementations of gomel.Hasher.
package hashing

import (
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"github.com/Setheum-Labs/HS3/pkg/gomel"
)

type sha3Hasher struct{}

// NewSHA3 returns a hasher computing SHA3-256 digests.
func NewSHA3() gomel.Hasher {
	return sha3Hasher{}
}

func (sha3Hasher) Hash(data []byte) *gomel.Hash {
	result := gomel.Hash(sha3.Sum256(data))
	return &result
}

type blake2bHasher struct{}

// NewBlake2b returns a hasher computing BLAKE2b-256 digests.
func NewBlake2b() gomel.Hasher {
	return blake2bHasher{}
}

func (blake2bHasher) Hash(data []byte) *gomel.Hash {
	result := gomel.Hash(blake2b.Sum256(data))
	return &result
}

// ByName returns the hasher registered under the given name.
func ByName(name string) (gomel.Hasher, error) {
	switch name {
	case "sha3", "":
		return NewSHA3(), nil
	case "blake2b":
		return NewBlake2b(), nil
	}
	return nil, gomel.NewConfigError("unknown hasher " + name)
}
