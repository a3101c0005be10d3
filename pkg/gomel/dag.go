// Package gomel defines all the interfaces representing basic components of the ordering engine.
//
// The main components defined in this package are:
//  1. The unit, representing the information produced by a single process in a single round of the protocol.
//  2. The dag, containing all the units created by processes and representing the partial order between them.
//  3. The cryptographic capabilities (hashing, signing) that the protocol logic is parametrized with.
//  4. The random source used by the linear ordering to break symmetry once deterministic voting is exhausted.
package gomel

// UnitChecker is a function that performs a check on a Unit before it is inserted into the dag.
type UnitChecker func(Unit, Dag) error

// Dag is a read-only view of the units known to the local process.
type Dag interface {
	// GetUnit returns a unit with the given hash, if present in the dag, or nil otherwise.
	GetUnit(*Hash) Unit
	// UnitsOnRound returns all units with the given round, sliced by creator.
	// A creator that forked contributes more than one unit to its slot.
	UnitsOnRound(int) [][]Unit
	// MaxRound returns the highest round of any unit in the dag, or -1 if it is empty.
	MaxRound() int
	// IsQuorum checks if the given number of processes is enough to form a quorum.
	IsQuorum(uint16) bool
	// NProc returns the number of processes that shares this dag.
	NProc() uint16
}

// IsQuorum checks if subsetSize forms a quorum amongst all nProcesses.
func IsQuorum(nProcesses, subsetSize uint16) bool {
	return 3*subsetSize >= 2*nProcesses
}

// MinimalQuorum is the minimal possible size of a subset forming a quorum within nProcesses.
func MinimalQuorum(nProcesses uint16) uint16 {
	return nProcesses - nProcesses/3
}
