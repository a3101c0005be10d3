// Package check implements validation of units before they are inserted into the dag.
package check

import (
	"github.com/Setheum-Labs/HS3/pkg/gomel"
)

// BasicCompliance checks the following notion of correctness:
//  1. The creator is a member of the committee.
//  2. There is exactly one parent slot per process.
//  3. A unit of round 0 has no parents.
//  4. A unit of higher round has its creator's own predecessor among its parents,
//     and parents from a quorum of distinct processes.
func BasicCompliance(u gomel.Unit, dag gomel.Dag) error {
	if u.Creator() >= dag.NProc() {
		return gomel.NewDataError("invalid creator")
	}
	if u.Round() < 0 {
		return gomel.NewDataError("negative round")
	}
	if len(u.Parents()) != int(dag.NProc()) {
		return gomel.NewDataError("wrong number of parent slots")
	}
	nParents := gomel.NParents(u)
	if u.Round() == 0 {
		if nParents != 0 {
			return gomel.NewComplianceError("unit of round 0 with parents")
		}
		return nil
	}
	if u.Parents()[u.Creator()] == nil {
		return gomel.NewComplianceError("missing own predecessor")
	}
	if !dag.IsQuorum(nParents) {
		return gomel.NewComplianceError("not enough parents")
	}
	return nil
}
