package check

import (
	"github.com/Setheum-Labs/HS3/pkg/gomel"
)

// Signatures returns a checker verifying the creator's signature with the given keys.
func Signatures(keys gomel.Keychain) gomel.UnitChecker {
	return func(u gomel.Unit, _ gomel.Dag) error {
		if !keys.Verify(u.Creator(), u.Hash(), u.Signature()) {
			return gomel.NewDataError("invalid signature")
		}
		return nil
	}
}
