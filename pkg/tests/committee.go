// Package tests contains helpers for testing the engine: committees with real keys, unit builders and in-memory networks.
package tests

import (
	"github.com/Setheum-Labs/HS3/pkg/config"
	"github.com/Setheum-Labs/HS3/pkg/crypto/hashing"
	"github.com/Setheum-Labs/HS3/pkg/crypto/signing"
	"github.com/Setheum-Labs/HS3/pkg/gomel"
)

// Committee holds the keys of all processes together with the shared hasher.
type Committee struct {
	NProc       uint16
	PublicKeys  []gomel.PublicKey
	PrivateKeys []gomel.PrivateKey
	Hasher      gomel.Hasher
}

// NewCommittee generates fresh keys for nProc processes.
func NewCommittee(nProc uint16) *Committee {
	c := &Committee{NProc: nProc, Hasher: hashing.NewSHA3()}
	for i := uint16(0); i < nProc; i++ {
		pub, priv, err := signing.GenerateKeys()
		if err != nil {
			panic(err)
		}
		c.PublicKeys = append(c.PublicKeys, pub)
		c.PrivateKeys = append(c.PrivateKeys, priv)
	}
	return c
}

// Keychain returns the keychain of process pid.
func (c *Committee) Keychain(pid uint16) gomel.Keychain {
	return signing.NewKeychain(pid, c.PrivateKeys[pid], c.PublicKeys)
}

// Config returns a configuration of process pid suitable for tests: no creation delay, logging disabled.
func (c *Committee) Config(pid uint16) config.Config {
	conf := config.NewDefaultConfig()
	conf.NProc = c.NProc
	conf.Pid = pid
	conf.CreateDelay = 0
	conf.LogLevel = 5
	conf.LogBuffer = 0
	conf.LogMemInterval = 0
	return conf
}
