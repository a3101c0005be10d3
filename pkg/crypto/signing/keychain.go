package signing

import (
	"github.com/Setheum-Labs/HS3/pkg/gomel"
)

type keychain struct {
	pid  uint16
	priv gomel.PrivateKey
	pubs []gomel.PublicKey
}

// NewKeychain binds the private key of process pid with the public keys of the whole committee.
func NewKeychain(pid uint16, priv gomel.PrivateKey, pubs []gomel.PublicKey) gomel.Keychain {
	return &keychain{pid, priv, pubs}
}

func (k *keychain) Pid() uint16 {
	return k.pid
}

func (k *keychain) NProc() uint16 {
	return uint16(len(k.pubs))
}

func (k *keychain) Sign(h *gomel.Hash) gomel.Signature {
	return k.priv.Sign(h)
}

func (k *keychain) Verify(pid uint16, h *gomel.Hash, sig gomel.Signature) bool {
	if int(pid) >= len(k.pubs) {
		return false
	}
	return k.pubs[pid].Verify(h, sig)
}
