package check

import (
	"github.com/Setheum-Labs/HS3/pkg/gomel"
	"github.com/Setheum-Labs/HS3/pkg/unit"
)

// Hashes returns a checker recomputing the hash of the unit's content.
func Hashes(hasher gomel.Hasher) gomel.UnitChecker {
	return func(u gomel.Unit, _ gomel.Dag) error {
		if u.Hash() == nil {
			return gomel.NewDataError("missing hash")
		}
		if *unit.ComputeHash(hasher, u.Creator(), u.Round(), u.Parents(), u.Data()) != *u.Hash() {
			return gomel.NewDataError("hash does not match content")
		}
		return nil
	}
}
