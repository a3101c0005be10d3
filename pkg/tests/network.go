package tests

import (
	"sync"

	"github.com/algorand/go-deadlock"

	"github.com/Setheum-Labs/HS3/pkg/encoding"
	"github.com/Setheum-Labs/HS3/pkg/gomel"
	"github.com/Setheum-Labs/HS3/pkg/queue"
)

// Network delivers units broadcast by any process to the incoming queues of all other processes.
// Delivery is reliable and FIFO per pair of processes. Every unit travels in its wire format,
// so receivers get their own copy with a recomputed hash.
type Network struct {
	hasher   gomel.Hasher
	incoming []*queue.Queue[gomel.Unit]
	outgoing []*queue.Queue[gomel.Unit]
	exit     chan struct{}
	wg       sync.WaitGroup
	mx       deadlock.Mutex
	filter   func(from, to uint16, u gomel.Unit) bool
}

// NewNetwork creates queues for nProc processes. Nothing is delivered before Start.
func NewNetwork(nProc uint16, hasher gomel.Hasher) *Network {
	n := &Network{hasher: hasher, exit: make(chan struct{})}
	for i := uint16(0); i < nProc; i++ {
		n.incoming = append(n.incoming, queue.New[gomel.Unit]())
		n.outgoing = append(n.outgoing, queue.New[gomel.Unit]())
	}
	return n
}

// Incoming is the queue process pid receives units from.
func (n *Network) Incoming(pid uint16) *queue.Queue[gomel.Unit] {
	return n.incoming[pid]
}

// Outgoing is the queue process pid broadcasts units through.
func (n *Network) Outgoing(pid uint16) *queue.Queue[gomel.Unit] {
	return n.outgoing[pid]
}

// SetFilter installs a predicate deciding which units are delivered. Nil delivers everything.
func (n *Network) SetFilter(filter func(from, to uint16, u gomel.Unit) bool) {
	n.mx.Lock()
	defer n.mx.Unlock()
	n.filter = filter
}

func (n *Network) deliver(from uint16, u gomel.Unit) {
	n.mx.Lock()
	filter := n.filter
	n.mx.Unlock()
	data, err := encoding.EncodeUnit(u)
	if err != nil {
		return
	}
	for to, in := range n.incoming {
		if uint16(to) == from {
			continue
		}
		if filter != nil && !filter(from, uint16(to), u) {
			continue
		}
		received, err := encoding.DecodeUnit(data, n.hasher)
		if err != nil {
			continue
		}
		// a closed queue belongs to a stopped process
		_ = in.Push(received)
	}
}

// Start runs one forwarding routine per process.
func (n *Network) Start() {
	for pid, out := range n.outgoing {
		n.wg.Add(1)
		go func(pid uint16, out *queue.Queue[gomel.Unit]) {
			defer n.wg.Done()
			for {
				select {
				case <-n.exit:
					return
				case <-out.Ready():
					for _, u := range out.Drain() {
						n.deliver(pid, u)
					}
				}
			}
		}(uint16(pid), out)
	}
}

// Stop terminates all forwarding routines.
func (n *Network) Stop() {
	close(n.exit)
	n.wg.Wait()
}
