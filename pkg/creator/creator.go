// Package creator implements the task producing the units of the local process.
package creator

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/Setheum-Labs/HS3/pkg/config"
	"github.com/Setheum-Labs/HS3/pkg/gomel"
	"github.com/Setheum-Labs/HS3/pkg/logging"
	"github.com/Setheum-Labs/HS3/pkg/queue"
	"github.com/Setheum-Labs/HS3/pkg/terminator"
	"github.com/Setheum-Labs/HS3/pkg/unit"
)

// Creator is a component responsible for producing new units. It reads units already inserted into the dag
// from the parents queue and stores them as possible parents (candidates), one per creator and round.
// Whenever there is a quorum of candidates on the previous round, including our own unit, Creator collects data
// from its DataSource, then builds, signs and pushes a new unit to the out queue.
type Creator struct {
	conf       config.Config
	key        gomel.Signer
	hasher     gomel.Hasher
	ds         gomel.DataSource
	parents    *queue.Queue[gomel.Unit]
	out        *queue.Queue[gomel.Unit]
	candidates map[int][]gomel.Unit
	onRound    map[int]uint16 // number of candidates on a given round
	quorum     uint16
	round      int // round of the next unit to create
	log        zerolog.Logger
}

// New constructs a creator. Units with possible parents are read from parents, created units are pushed to out.
// The data source may be nil, then units carry no data.
func New(conf config.Config, key gomel.Signer, hasher gomel.Hasher, source gomel.DataSource, parents, out *queue.Queue[gomel.Unit], log zerolog.Logger) *Creator {
	return &Creator{
		conf:       conf,
		key:        key,
		hasher:     hasher,
		ds:         source,
		parents:    parents,
		out:        out,
		candidates: make(map[int][]gomel.Unit),
		onRound:    make(map[int]uint16),
		quorum:     conf.Quorum(),
		log:        log.With().Int(logging.Service, logging.CreatorService).Logger(),
	}
}

// Round returns the round of the next unit this creator is going to produce.
func (cr *Creator) Round() int {
	return cr.round
}

// Run waits for the round to start from and then produces units until the terminator signals exit.
// A closed startingRound channel without any value means starting from round 0.
// The parents queue is closed on return.
func (cr *Creator) Run(startingRound <-chan int, term *terminator.Terminator) error {
	defer cr.parents.Close()
	select {
	case <-term.GetExit():
		return nil
	case r, ok := <-startingRound:
		if exiting(term) {
			return nil
		}
		if ok && r > 0 {
			cr.round = r
		}
	}
	cr.log.Info().Int(logging.Round, cr.round).Msg(logging.StartingRound)
	defer func() {
		cr.log.Info().Int(logging.Round, cr.round).Msg(logging.ServiceStopped)
	}()

	for {
		if exiting(term) {
			return nil
		}
		cr.updateAll()
		if cr.ready() {
			if !cr.delay(term) {
				return nil
			}
			cr.updateAll()
			if exiting(term) {
				return nil
			}
			if err := cr.createUnit(); err != nil {
				cr.log.Error().Str("where", "Run").Msg(err.Error())
				return err
			}
			continue
		}
		select {
		case <-term.GetExit():
			return nil
		case <-cr.parents.Ready():
		}
	}
}

// exiting checks without blocking if the terminator signaled exit.
func exiting(term *terminator.Terminator) bool {
	select {
	case <-term.GetExit():
		return true
	default:
		return false
	}
}

// delay waits for CreateDelay, unless the terminator signals exit earlier. Returns false on exit.
func (cr *Creator) delay(term *terminator.Terminator) bool {
	if cr.conf.CreateDelay <= 0 {
		return true
	}
	timer := time.NewTimer(cr.conf.CreateDelay)
	defer timer.Stop()
	select {
	case <-term.GetExit():
		return false
	case <-timer.C:
		return true
	}
}

func (cr *Creator) updateAll() {
	for _, u := range cr.parents.Drain() {
		cr.update(u)
	}
}

// update stores the unit as a candidate, unless it is too old to be a parent
// or a unit of the same creator and round was seen before.
func (cr *Creator) update(u gomel.Unit) {
	if u.Round() < cr.round-1 || int(u.Creator()) >= int(cr.conf.NProc) {
		return
	}
	slots, ok := cr.candidates[u.Round()]
	if !ok {
		slots = make([]gomel.Unit, cr.conf.NProc)
		cr.candidates[u.Round()] = slots
	}
	if slots[u.Creator()] != nil {
		return
	}
	slots[u.Creator()] = u
	cr.onRound[u.Round()]++
}

// ready checks if there are enough candidates to produce a unit of the current round.
func (cr *Creator) ready() bool {
	if cr.conf.MaxRound > 0 && cr.round > cr.conf.MaxRound {
		return false
	}
	if cr.round == 0 {
		return true
	}
	prev := cr.candidates[cr.round-1]
	return prev != nil && prev[cr.conf.Pid] != nil && cr.onRound[cr.round-1] >= cr.quorum
}

func (cr *Creator) getData() []byte {
	if cr.ds == nil {
		return nil
	}
	return cr.ds.GetData()
}

// createUnit builds a unit of the current round on top of all candidates of the previous one, and moves to the next round.
func (cr *Creator) createUnit() error {
	parents := make([]*gomel.Hash, cr.conf.NProc)
	if cr.round > 0 {
		parents = gomel.ToHashes(cr.candidates[cr.round-1])
	}
	u := unit.New(cr.conf.Pid, cr.round, parents, cr.getData(), cr.hasher, cr.key)
	cr.log.Info().Int(logging.Round, u.Round()).Uint16(logging.Size, gomel.NParents(u)).Str(logging.Hash, u.Hash().Short()).Msg(logging.UnitCreated)
	if err := cr.out.Push(u); err != nil {
		return errors.Wrap(err, "creator output")
	}
	unitsCreated.Inc()
	currentRound.Set(float64(u.Round()))
	cr.update(u)
	delete(cr.candidates, cr.round-1)
	delete(cr.onRound, cr.round-1)
	cr.round++
	return nil
}
