package tests

import (
	"github.com/Setheum-Labs/HS3/pkg/gomel"
)

type testRandomSource struct {
	value byte
}

// NewTestRandomSource returns a RandomSource that always returns the same bytes.
// With value 0 every coin toss comes out as "true".
func NewTestRandomSource(value byte) gomel.RandomSource {
	return &testRandomSource{value}
}

func (rs *testRandomSource) RandomBytes(*gomel.Hash, int) []byte {
	answer := make([]byte, 32)
	for i := range answer {
		answer[i] = rs.value
	}
	return answer
}
