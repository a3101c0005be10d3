// Package linear implements the algorithm for extending partial dag order into linear order.
//
// For every round, the units of that round are candidates for its head. Units of later rounds vote
// on every candidate: first by pointing at it directly, then by the unanimous opinion of their parents,
// falling back to a common vote. A unit at least three rounds above decides a candidate when a quorum of
// its parents votes the same way as the common vote. The first candidate decided true, after all the earlier
// ones were decided false, is the head. The head together with everything below it, that was not output yet,
// forms the next batch.
package linear

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/Setheum-Labs/HS3/pkg/config"
	"github.com/Setheum-Labs/HS3/pkg/gomel"
	"github.com/Setheum-Labs/HS3/pkg/logging"
	"github.com/Setheum-Labs/HS3/pkg/queue"
	"github.com/Setheum-Labs/HS3/pkg/terminator"
)

// Extender is a task that extends a partial order of units, received in the order they were inserted into the dag,
// to a linear order. Every time a round gets decided, the newly ordered units are pushed to the output as one batch.
type Extender struct {
	ordering *Ordering
	input    *queue.Queue[gomel.Unit]
	output   *queue.Queue[[]gomel.Unit]
	log      zerolog.Logger
}

// NewExtender constructs an extender reading units from input and pushing batches of ordered units to output.
func NewExtender(conf config.Config, rs gomel.RandomSource, input *queue.Queue[gomel.Unit], output *queue.Queue[[]gomel.Unit], log zerolog.Logger) *Extender {
	logger := log.With().Int(logging.Service, logging.ExtenderService).Logger()
	return &Extender{
		ordering: NewOrdering(conf.NProc, rs, logger),
		input:    input,
		output:   output,
		log:      logger,
	}
}

// Run processes units until the terminator signals exit or the output turns out to be closed.
// The input queue is closed on return.
func (ext *Extender) Run(term *terminator.Terminator) error {
	defer ext.input.Close()
	ext.log.Info().Msg(logging.ServiceStarted)
	defer func() {
		ext.log.Info().Int(logging.Round, ext.ordering.Round()).Msg(logging.ServiceStopped)
	}()
	for {
		select {
		case <-term.GetExit():
			return nil
		case <-ext.input.Ready():
			for _, u := range ext.input.Drain() {
				ext.ordering.AddUnit(u)
			}
			if err := ext.extend(term); err != nil {
				ext.log.Error().Str("where", "Run").Msg(err.Error())
				return err
			}
		}
	}
}

// extend decides as many rounds as possible and pushes the resulting batches.
func (ext *Extender) extend(term *terminator.Terminator) error {
	for {
		select {
		case <-term.GetExit():
			return nil
		default:
		}
		units, ok := ext.ordering.DecideRound()
		if !ok {
			return nil
		}
		if len(units) == 0 {
			continue
		}
		if err := ext.output.Push(units); err != nil {
			return errors.Wrap(err, "extender output")
		}
		unitsOrdered.Add(float64(len(units)))
		for _, u := range units {
			ext.log.Debug().
				Uint16(logging.Creator, u.Creator()).
				Int(logging.Round, u.Round()).
				Str(logging.Hash, u.Hash().Short()).
				Msg(logging.UnitOrdered)
		}
		ext.log.Info().Int(logging.Size, len(units)).Int(logging.Round, ext.ordering.Round()-1).Msg(logging.LinearOrderExtended)
	}
}
