package rmc

import (
	"context"

	"github.com/algorand/go-deadlock"

	"github.com/Setheum-Labs/HS3/pkg/gomel"
	"github.com/Setheum-Labs/HS3/pkg/queue"
)

// Router is an in-memory transport connecting the sessions of all processes of a committee.
// Messages are routed by the hash of the session, so a session may start after messages for it arrived.
// Messages travel encoded, the same way they would over a network.
type Router struct {
	mx       deadlock.Mutex
	nProc    uint16
	sessions map[gomel.Hash][]*queue.Queue[[]byte]
	released map[gomel.Hash]map[uint16]bool
	filter   func(from, to uint16) bool
}

// NewRouter constructs a router for nProc processes.
func NewRouter(nProc uint16) *Router {
	return &Router{
		nProc:    nProc,
		sessions: make(map[gomel.Hash][]*queue.Queue[[]byte]),
		released: make(map[gomel.Hash]map[uint16]bool),
	}
}

// SetFilter installs a predicate deciding which messages are delivered. Undelivered ones fail with ErrSendFail.
func (r *Router) SetFilter(filter func(from, to uint16) bool) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.filter = filter
}

// Sink returns the transport of process pid in the session for h.
func (r *Router) Sink(pid uint16, h *gomel.Hash) ProtocolSink {
	return &routerSink{router: r, pid: pid, hash: *h, in: r.inbox(*h, pid)}
}

// Forget drops all undelivered messages of the session for h.
// Sinks of that session stop receiving and fail to send.
func (r *Router) Forget(h *gomel.Hash) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.forget(*h)
}

// Release marks the session for h as finished by process pid.
// The session is forgotten once every process released it.
func (r *Router) Release(pid uint16, h *gomel.Hash) {
	r.mx.Lock()
	defer r.mx.Unlock()
	if _, ok := r.sessions[*h]; !ok {
		return
	}
	done, ok := r.released[*h]
	if !ok {
		done = make(map[uint16]bool)
		r.released[*h] = done
	}
	done[pid] = true
	if len(done) == int(r.nProc) {
		r.forget(*h)
	}
}

// Sessions returns the number of sessions the router keeps.
func (r *Router) Sessions() int {
	r.mx.Lock()
	defer r.mx.Unlock()
	return len(r.sessions)
}

func (r *Router) forget(h gomel.Hash) {
	for _, q := range r.sessions[h] {
		q.Close()
	}
	delete(r.sessions, h)
	delete(r.released, h)
}

func (r *Router) inbox(h gomel.Hash, pid uint16) *queue.Queue[[]byte] {
	r.mx.Lock()
	defer r.mx.Unlock()
	inboxes, ok := r.sessions[h]
	if !ok {
		inboxes = make([]*queue.Queue[[]byte], r.nProc)
		for i := range inboxes {
			inboxes[i] = queue.New[[]byte]()
		}
		r.sessions[h] = inboxes
	}
	return inboxes[pid]
}

func (r *Router) deliver(from uint16, h gomel.Hash, data []byte, to Recipient) error {
	r.mx.Lock()
	inboxes, ok := r.sessions[h]
	filter := r.filter
	r.mx.Unlock()
	if !ok {
		return ErrSendFail
	}
	var err error
	for pid, in := range inboxes {
		if uint16(pid) == from {
			continue
		}
		if !to.IsEveryone() && to.Pid() != uint16(pid) {
			continue
		}
		if filter != nil && !filter(from, uint16(pid)) {
			err = ErrSendFail
			continue
		}
		if in.Push(data) != nil {
			err = ErrSendFail
		}
	}
	return err
}

type routerSink struct {
	router  *Router
	pid     uint16
	hash    gomel.Hash
	in      *queue.Queue[[]byte]
	pending [][]byte
}

func (s *routerSink) Send(msg Message, to Recipient) error {
	return s.router.deliver(s.pid, s.hash, msg.Marshal(), to)
}

func (s *routerSink) Next(ctx context.Context) (Message, bool) {
	for {
		for len(s.pending) > 0 {
			data := s.pending[0]
			s.pending = s.pending[1:]
			if msg, err := Unmarshal(data); err == nil {
				return msg, true
			}
		}
		if s.in.Closed() {
			return Message{}, false
		}
		select {
		case <-ctx.Done():
			return Message{}, false
		case <-s.in.Ready():
			s.pending = s.in.Drain()
		}
	}
}
