// Package terminal implements the task owning the dag.
//
// The terminal validates every incoming unit, parks units whose parents are not known yet,
// inserts the rest and forwards every inserted unit to all registered outputs.
// It is the only component that ever touches the dag.
package terminal

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/Setheum-Labs/HS3/pkg/config"
	"github.com/Setheum-Labs/HS3/pkg/dag"
	"github.com/Setheum-Labs/HS3/pkg/dag/check"
	"github.com/Setheum-Labs/HS3/pkg/gomel"
	"github.com/Setheum-Labs/HS3/pkg/logging"
	"github.com/Setheum-Labs/HS3/pkg/queue"
	"github.com/Setheum-Labs/HS3/pkg/terminator"
)

const (
	sourceNetwork = "network"
	sourceOwn     = "own"
)

// Terminal owns the dag and is the single source of truth about its content.
type Terminal struct {
	conf     config.Config
	dag      dag.Dag
	checks   []gomel.UnitChecker
	incoming *queue.Queue[gomel.Unit]
	own      *queue.Queue[gomel.Unit]
	outgoing *queue.Queue[gomel.Unit]
	outputs  []*queue.Queue[gomel.Unit]
	waiting  *waitingRoom
	rejected *lru.Cache[gomel.Hash, struct{}]
	log      zerolog.Logger

	expiredBelow int // waiting units of lower rounds were already dropped
}

// New constructs a terminal reading units from the network through incoming and
// units created locally through own. Locally created units are passed on to outgoing after insertion.
func New(conf config.Config, keys gomel.Keychain, hasher gomel.Hasher, incoming, own, outgoing *queue.Queue[gomel.Unit], log zerolog.Logger) *Terminal {
	cacheSize := conf.RejectedCacheSize
	if cacheSize <= 0 {
		cacheSize = 1
	}
	rejected, err := lru.New[gomel.Hash, struct{}](cacheSize)
	if err != nil {
		panic(err)
	}
	return &Terminal{
		conf:     conf,
		dag:      dag.New(conf.NProc),
		checks:   check.Default(keys, hasher),
		incoming: incoming,
		own:      own,
		outgoing: outgoing,
		waiting:  newWaitingRoom(conf.MaxWaiting),
		rejected: rejected,
		log:      log.With().Int(logging.Service, logging.TerminalService).Logger(),
	}
}

// AddOutput registers a queue receiving every unit inserted from now on, in insertion order.
// Outputs are written in registration order. Must not be called after Run started.
func (t *Terminal) AddOutput(out *queue.Queue[gomel.Unit]) {
	t.outputs = append(t.outputs, out)
}

// Dag returns the read view of the dag. It is not safe to use while Run is active.
func (t *Terminal) Dag() gomel.Dag {
	return t.dag
}

// Forkers returns the ids of all processes caught creating forks.
func (t *Terminal) Forkers() []uint16 {
	return t.dag.Forkers()
}

// Insert validates the unit and adds it to the dag, together with any waiting units it unblocks.
// Returned errors:
//
//	DuplicateUnit - the unit is already in the dag or waiting, nothing happened;
//	UnknownParents - the unit was parked until its parents arrive;
//	DataError, ComplianceError - the unit was dropped;
//	anything else - an output is closed, which is fatal for the terminal.
func (t *Terminal) Insert(u gomel.Unit) error {
	return t.insert(u, sourceNetwork)
}

func (t *Terminal) insert(u gomel.Unit, source string) error {
	if u.Hash() == nil {
		return gomel.NewDataError("missing hash")
	}
	if existing := t.dag.GetUnit(u.Hash()); existing != nil {
		return gomel.NewDuplicateUnit(existing)
	}
	if t.waiting.contains(u.Hash()) {
		return gomel.NewDuplicateUnit(u)
	}
	if t.rejected.Contains(*u.Hash()) {
		return gomel.NewComplianceError("unit rejected before")
	}
	err := check.Run(u, t.dag, t.checks)
	switch err.(type) {
	case nil:
	case *gomel.UnknownParents:
		return t.park(u, source, err)
	default:
		t.reject(u, err)
		return err
	}
	return t.add(u, source)
}

// park puts the unit in the waiting room, or rejects it if one of its parents was rejected already.
func (t *Terminal) park(u gomel.Unit, source string, err error) error {
	var missing []*gomel.Hash
	for _, h := range u.Parents() {
		if h == nil || t.dag.Contains(h) {
			continue
		}
		if t.rejected.Contains(*h) {
			cerr := gomel.NewComplianceError("parent rejected before")
			t.reject(u, cerr)
			return cerr
		}
		missing = append(missing, h)
	}
	if !t.waiting.add(u, source, missing) {
		t.log.Warn().Uint16(logging.Creator, u.Creator()).Int(logging.Round, u.Round()).Int(logging.Size, t.waiting.size()).Msg(logging.WaitingRoomFull)
		return err
	}
	unitsWaiting.Inc()
	return err
}

// reject drops the unit. If the failure is determined by the content behind the hash,
// the hash is remembered and all units waiting on it are dropped too.
func (t *Terminal) reject(u gomel.Unit, err error) {
	unitsRejected.Inc()
	if _, ok := err.(*gomel.ComplianceError); !ok {
		return
	}
	t.rejected.Add(*u.Hash(), struct{}{})
	for _, wu := range t.waiting.drop(u.Hash()) {
		unitsWaiting.Dec()
		unitsRejected.Inc()
		t.rejected.Add(*wu.u.Hash(), struct{}{})
		logging.InsertError(gomel.NewComplianceError("parent rejected"), wu.u, wu.source, t.log)
	}
}

// add inserts a unit that passed all checks, and then every waiting unit that becomes ready because of it.
func (t *Terminal) add(u gomel.Unit, source string) error {
	ready := []*waitingUnit{{u: u, source: source}}
	for len(ready) > 0 {
		next := ready[0]
		ready = ready[1:]
		if err := t.insertChecked(next.u, next.source); err != nil {
			return err
		}
		for _, wu := range t.waiting.release(next.u.Hash()) {
			unitsWaiting.Dec()
			// everything but the parents was verified before parking
			if err := check.ParentConsistency(wu.u, t.dag); err != nil {
				t.reject(wu.u, err)
				logging.InsertError(err, wu.u, wu.source, t.log)
				continue
			}
			ready = append(ready, wu)
		}
	}
	t.expireWaiting()
	return nil
}

// expireWaiting drops the waiting units that fell too far below the top of the dag.
func (t *Terminal) expireWaiting() {
	if t.conf.MaxWaitingRounds <= 0 {
		return
	}
	below := t.dag.MaxRound() - t.conf.MaxWaitingRounds
	if below <= t.expiredBelow {
		return
	}
	t.expiredBelow = below
	for _, wu := range t.waiting.expire(below) {
		unitsWaiting.Dec()
		t.log.Warn().
			Uint16(logging.Creator, wu.u.Creator()).
			Int(logging.Round, wu.u.Round()).
			Str(logging.Hash, wu.u.Hash().Short()).
			Msg(logging.WaitingExpired)
	}
}

func (t *Terminal) insertChecked(u gomel.Unit, source string) error {
	forked := t.dag.Insert(u)
	unitsInserted.Inc()
	for _, v := range forked {
		forksDetected.Inc()
		t.log.Warn().
			Uint16(logging.Creator, u.Creator()).
			Int(logging.Round, u.Round()).
			Str(logging.Hash, u.Hash().Short()).
			Str(logging.Fork, v.Hash().Short()).
			Msg(logging.ForkDetected)
	}
	t.log.Debug().Uint16(logging.Creator, u.Creator()).Int(logging.Round, u.Round()).Str(logging.Hash, u.Hash().Short()).Msg(logging.UnitAdded)
	for _, out := range t.outputs {
		if err := out.Push(u); err != nil {
			return errors.Wrap(err, "terminal output")
		}
	}
	if source == sourceOwn && t.outgoing != nil {
		if err := t.outgoing.Push(u); err != nil {
			return errors.Wrap(err, "terminal outgoing")
		}
	}
	return nil
}

// handle inserts the units one by one, stopping as soon as exit is signaled.
func (t *Terminal) handle(units []gomel.Unit, source string, exit <-chan struct{}) error {
	for _, u := range units {
		if closed(exit) {
			return nil
		}
		err := t.insert(u, source)
		switch {
		case err == nil:
		case gomel.IsInvalid(err), expected(err):
			logging.InsertError(err, u, source, t.log)
		default:
			return err
		}
	}
	return nil
}

// expected checks if err is a normal outcome of asynchronous delivery that leaves the unit unharmed.
func expected(err error) bool {
	switch err.(type) {
	case *gomel.DuplicateUnit, *gomel.UnknownParents:
		return true
	}
	return false
}

func closed(exit <-chan struct{}) bool {
	select {
	case <-exit:
		return true
	default:
		return false
	}
}

// Run processes units until the terminator signals exit or an output turns out to be closed.
// On return the input queues are closed, so producers notice that the terminal is gone.
func (t *Terminal) Run(term *terminator.Terminator) error {
	defer t.incoming.Close()
	defer t.own.Close()
	t.log.Info().Msg(logging.ServiceStarted)
	defer func() {
		t.log.Info().Int(logging.Size, t.dag.Size()).Msg(logging.ServiceStopped)
	}()
	exit := term.GetExit()
	for {
		if closed(exit) {
			return nil
		}
		select {
		case <-exit:
			return nil
		case <-t.own.Ready():
			if err := t.handle(t.own.Drain(), sourceOwn, exit); err != nil {
				t.log.Error().Str("where", "Run").Msg(err.Error())
				return err
			}
		case <-t.incoming.Ready():
			if err := t.handle(t.incoming.Drain(), sourceNetwork, exit); err != nil {
				t.log.Error().Str("where", "Run").Msg(err.Error())
				return err
			}
		}
	}
}
