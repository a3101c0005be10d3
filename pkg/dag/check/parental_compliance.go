package check

import (
	"github.com/Setheum-Labs/HS3/pkg/gomel"
)

// ParentConsistency checks that every parent is present in the dag,
// sits in the slot of its creator and comes from the directly preceding round.
func ParentConsistency(u gomel.Unit, dag gomel.Dag) error {
	missing := 0
	for pid, h := range u.Parents() {
		if h == nil {
			continue
		}
		parent := dag.GetUnit(h)
		if parent == nil {
			missing++
			continue
		}
		if parent.Creator() != uint16(pid) {
			return gomel.NewComplianceError("parent in a wrong slot")
		}
		if parent.Round() != u.Round()-1 {
			return gomel.NewComplianceError("parent from a wrong round")
		}
	}
	if missing > 0 {
		return gomel.NewUnknownParents(missing)
	}
	return nil
}
