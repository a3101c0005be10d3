package check

import (
	"github.com/Setheum-Labs/HS3/pkg/gomel"
)

// Default returns the checks every unit has to pass before insertion.
// The hash is verified first, so later failures are attributable to the content behind that hash.
// ParentConsistency goes last, as it is the only one that may fail with UnknownParents.
func Default(keys gomel.Keychain, hasher gomel.Hasher) []gomel.UnitChecker {
	return []gomel.UnitChecker{Hashes(hasher), BasicCompliance, Signatures(keys), ParentConsistency}
}

// Run applies the checks in order and returns the first error.
func Run(u gomel.Unit, dag gomel.Dag, checks []gomel.UnitChecker) error {
	for _, check := range checks {
		if err := check(u, dag); err != nil {
			return err
		}
	}
	return nil
}
