// Package signing implements unit signatures with ed25519 keys from golang.org/x/crypto/nacl/sign.
package signing

import (
	"encoding/base64"

	"golang.org/x/crypto/nacl/sign"

	"github.com/Setheum-Labs/HS3/pkg/gomel"
)

type publicKey struct {
	data *[32]byte
}

type privateKey struct {
	data *[64]byte
}

// Verify checks if sig is a valid detached signature of h.
func (pub *publicKey) Verify(h *gomel.Hash, sig gomel.Signature) bool {
	if h == nil || len(sig) != sign.Overhead {
		return false
	}
	msgSig := make([]byte, 0, sign.Overhead+len(h))
	msgSig = append(msgSig, sig...)
	msgSig = append(msgSig, h[:]...)
	_, v := sign.Open(nil, msgSig, pub.data)
	return v
}

func (pub *publicKey) Encode() string {
	return base64.StdEncoding.EncodeToString(pub.data[:])
}

// Sign signs a hash and returns only the signature.
func (priv *privateKey) Sign(h *gomel.Hash) gomel.Signature {
	return sign.Sign(nil, h[:], priv.data)[:sign.Overhead]
}

func (priv *privateKey) Encode() string {
	return base64.StdEncoding.EncodeToString(priv.data[:])
}

// GenerateKeys produces a pair of keys for signing units.
func GenerateKeys() (gomel.PublicKey, gomel.PrivateKey, error) {
	pubData, privData, err := sign.GenerateKey(nil)
	if err != nil {
		return nil, nil, err
	}
	return &publicKey{pubData}, &privateKey{privData}, nil
}

// DecodePublicKey decodes a public key encoded by Encode.
func DecodePublicKey(enc string) (gomel.PublicKey, error) {
	data, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return nil, err
	}
	if len(data) != 32 {
		return nil, gomel.NewDataError("wrong public key length")
	}
	result := &[32]byte{}
	copy(result[:], data)
	return &publicKey{result}, nil
}

// DecodePrivateKey decodes a private key encoded by Encode.
func DecodePrivateKey(enc string) (gomel.PrivateKey, error) {
	data, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return nil, err
	}
	if len(data) != 64 {
		return nil, gomel.NewDataError("wrong private key length")
	}
	result := &[64]byte{}
	copy(result[:], data)
	return &privateKey{result}, nil
}
