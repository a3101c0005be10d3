package gomel

// RandomSource represents a source of randomness shared by all processes.
// It is consulted only after the deterministic part of the voting schedule is exhausted,
// so every honest process must obtain the same bytes for the same arguments.
type RandomSource interface {
	// RandomBytes returns random bytes for a given candidate unit and round.
	RandomBytes(candidate *Hash, round int) []byte
}
