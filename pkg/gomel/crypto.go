package gomel

// Hasher computes digests used as unit identities.
// All processes must use the same Hasher.
type Hasher interface {
	// Hash returns the digest of the given data.
	Hash(data []byte) *Hash
}

// PublicKey used for signature checking.
type PublicKey interface {
	// Verify checks if sig is a correct signature of h.
	Verify(h *Hash, sig Signature) bool
	// Encode encodes the public key in base 64.
	Encode() string
}

// Signer is anything able to sign hashes on behalf of a single process.
type Signer interface {
	// Sign computes and returns a signature of h.
	Sign(h *Hash) Signature
}

// PrivateKey used for signing units and signable hashes.
type PrivateKey interface {
	Signer
	// Encode encodes the private key in base 64.
	Encode() string
}

// Keychain holds the local private key together with the public keys of the whole committee.
type Keychain interface {
	// Pid of the local process.
	Pid() uint16
	// NProc is the size of the committee.
	NProc() uint16
	// Signer signs with the local private key.
	Signer
	// Verify checks sig over h against the public key of the given process.
	Verify(pid uint16, h *Hash, sig Signature) bool
}
