package transactions

import (
	"github.com/algorand/go-deadlock"
)

// Pool collects transactions submitted to a process and hands them out as unit data.
// It implements gomel.DataSource.
type Pool struct {
	mx      deadlock.Mutex
	pending []Tx
	perUnit int
}

// NewPool returns an empty pool putting at most perUnit transactions in a single unit.
// A non-positive perUnit means no limit.
func NewPool(perUnit int) *Pool {
	return &Pool{perUnit: perUnit}
}

// Add submits transactions. They are put in units in the order they were added.
func (p *Pool) Add(txs ...Tx) {
	p.mx.Lock()
	defer p.mx.Unlock()
	p.pending = append(p.pending, txs...)
}

// Len returns the number of transactions not yet put in any unit.
func (p *Pool) Len() int {
	p.mx.Lock()
	defer p.mx.Unlock()
	return len(p.pending)
}

// GetData takes the oldest pending transactions and returns them encoded and compressed.
// Returns nil when the pool is empty.
func (p *Pool) GetData() []byte {
	p.mx.Lock()
	take := p.pending
	if p.perUnit > 0 && len(take) > p.perUnit {
		take = take[:p.perUnit]
	}
	p.pending = p.pending[len(take):]
	p.mx.Unlock()
	if len(take) == 0 {
		return nil
	}
	return Compress(Encode(take))
}
