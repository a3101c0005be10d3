// Package rmc implements reliable multicast of signatures: a session per signable hash, in which every process
// signs the hash, collects the signatures of others and ends up with a multisignature of a quorum.
//
// Once complete, the multisignature is multicast too, so any process that receives it completes immediately.
package rmc

import (
	"context"

	"github.com/algorand/go-deadlock"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/Setheum-Labs/HS3/pkg/crypto/multi"
	"github.com/Setheum-Labs/HS3/pkg/gomel"
	"github.com/Setheum-Labs/HS3/pkg/logging"
)

// Status of a session.
type Status int

const (
	// Collecting means the session gathers signatures.
	Collecting Status = iota
	// Completed means a multisignature of a quorum is known. It never changes afterwards.
	Completed
)

func (s Status) String() string {
	if s == Completed {
		return "completed"
	}
	return "collecting"
}

// Aggregator drives a single session.
type Aggregator struct {
	mx      deadlock.Mutex
	hash    gomel.Hash
	keys    gomel.Keychain
	sink    ProtocolSink
	metrics Metrics
	quorum  uint16
	proof   *multi.Signature
	status  Status
	log     zerolog.Logger
}

// NewAggregator constructs a session for the hash h.
func NewAggregator(h *gomel.Hash, keys gomel.Keychain, sink ProtocolSink, metrics Metrics, log zerolog.Logger) *Aggregator {
	quorum := gomel.MinimalQuorum(keys.NProc())
	return &Aggregator{
		hash:    *h,
		keys:    keys,
		sink:    sink,
		metrics: metrics,
		quorum:  quorum,
		proof:   multi.NewSignature(quorum, h),
		status:  Collecting,
		log:     log.With().Int(logging.Service, logging.RMCService).Str(logging.Hash, h.Short()).Logger(),
	}
}

// Status returns the current status of the session.
func (a *Aggregator) Status() Status {
	a.mx.Lock()
	defer a.mx.Unlock()
	return a.status
}

// Proof returns the multisignature once the session is completed, nil before.
func (a *Aggregator) Proof() *multi.Signature {
	a.mx.Lock()
	defer a.mx.Unlock()
	if a.status != Completed {
		return nil
	}
	return a.proof
}

// Run signs the hash, multicasts the signature and processes incoming messages until the session completes.
// Returns the multisignature, or an error if the context got done or the sink was closed first.
func (a *Aggregator) Run(ctx context.Context) (*multi.Signature, error) {
	own := a.keys.Sign(&a.hash)
	a.Handle(SignedMessage(&a.hash, a.keys.Pid(), own))
	a.send(SignedMessage(&a.hash, a.keys.Pid(), own), Everyone())
	for {
		if proof := a.Proof(); proof != nil {
			return proof, nil
		}
		msg, ok := a.sink.Next(ctx)
		if !ok {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return nil, errors.New("sink closed")
		}
		a.Handle(msg)
	}
}

// Handle processes a single message. Invalid messages are logged and ignored.
// Returns the status after processing.
func (a *Aggregator) Handle(msg Message) Status {
	if msg.Hash != a.hash {
		a.log.Debug().Str("where", "Handle").Msg(logging.InvalidSignature)
		return a.Status()
	}
	switch msg.Kind {
	case Signed:
		return a.acceptSignature(msg.Signer, msg.Signature)
	case Multisigned:
		return a.acceptProof(msg.Proof)
	}
	a.log.Debug().Msg(logging.InvalidSignature)
	return a.Status()
}

func (a *Aggregator) acceptSignature(pid uint16, sig gomel.Signature) Status {
	if !a.keys.Verify(pid, &a.hash, sig) {
		a.log.Warn().Uint16(logging.PID, pid).Msg(logging.InvalidSignature)
		return a.Status()
	}
	a.mx.Lock()
	if a.status == Completed || a.proof.Has(pid) {
		defer a.mx.Unlock()
		return a.status
	}
	a.log.Debug().Uint16(logging.PID, pid).Msg(logging.SignatureAccepted)
	if !a.proof.Aggregate(pid, sig) {
		defer a.mx.Unlock()
		return a.status
	}
	a.status = Completed
	a.mx.Unlock()
	a.complete()
	return Completed
}

func (a *Aggregator) acceptProof(data []byte) Status {
	received, err := multi.Unmarshal(data)
	if err != nil || *received.Hash() != a.hash {
		a.log.Warn().Msg(logging.InvalidSignature)
		return a.Status()
	}
	// the threshold claimed by the sender is irrelevant, only verified signatures count
	proof := multi.NewSignature(a.quorum, &a.hash)
	for _, pid := range received.Signers() {
		if sig := received.Partial(pid); a.keys.Verify(pid, &a.hash, sig) {
			proof.Aggregate(pid, sig)
		}
	}
	if !proof.Complete() {
		a.log.Warn().Int(logging.Size, len(proof.Signers())).Msg(logging.InvalidSignature)
		return a.Status()
	}
	a.mx.Lock()
	if a.status == Completed {
		defer a.mx.Unlock()
		return a.status
	}
	a.proof = proof
	a.status = Completed
	a.mx.Unlock()
	a.complete()
	return Completed
}

// complete is called exactly once, right after the status changed to Completed.
func (a *Aggregator) complete() {
	a.log.Info().Int(logging.Size, len(a.proof.Signers())).Msg(logging.AggregationComplete)
	if a.metrics != nil {
		a.metrics.ReportAggregationComplete(a.hash)
	}
	a.send(MultisignedMessage(&a.hash, a.proof.Marshal()), Everyone())
}

func (a *Aggregator) send(msg Message, to Recipient) {
	if err := a.sink.Send(msg, to); err != nil {
		a.log.Debug().Str("where", "send").Msg(logging.SendFailed)
	}
}
