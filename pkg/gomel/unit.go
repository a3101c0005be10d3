package gomel

// Signature of a unit or of a signable hash.
type Signature []byte

// Unit is a single vertex of the dag, produced by one process in one round.
// Units are immutable once created. Parents are referenced by hash only.
type Unit interface {
	// Creator is the id of the process that produced this unit.
	Creator() uint16
	// Round of this unit. Every creator produces exactly one unit per round.
	Round() int
	// Parents returns a slice of length NProc. Position i holds the hash of
	// the parent created by process i, or nil if there is no such parent.
	Parents() []*Hash
	// Data is the application payload carried by this unit.
	Data() []byte
	// Hash is the digest of creator, round, parents and data.
	Hash() *Hash
	// Signature of the creator over Hash.
	Signature() Signature
}

// NParents counts non-empty parent slots of the given unit.
func NParents(u Unit) uint16 {
	count := uint16(0)
	for _, p := range u.Parents() {
		if p != nil {
			count++
		}
	}
	return count
}

// Less defines the canonical tie-break on units: ascending round, then creator, then hash.
func Less(u, v Unit) bool {
	if u.Round() != v.Round() {
		return u.Round() < v.Round()
	}
	if u.Creator() != v.Creator() {
		return u.Creator() < v.Creator()
	}
	return u.Hash().LessThan(v.Hash())
}
