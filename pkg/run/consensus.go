// Package run connects the components of the engine and supervises them.
package run

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/Setheum-Labs/HS3/pkg/config"
	"github.com/Setheum-Labs/HS3/pkg/creator"
	"github.com/Setheum-Labs/HS3/pkg/gomel"
	"github.com/Setheum-Labs/HS3/pkg/linear"
	"github.com/Setheum-Labs/HS3/pkg/logging"
	"github.com/Setheum-Labs/HS3/pkg/queue"
	"github.com/Setheum-Labs/HS3/pkg/terminal"
	"github.com/Setheum-Labs/HS3/pkg/terminator"
)

// IO holds the queues connecting the engine with the rest of the node.
type IO struct {
	// Incoming carries units received from other processes. Closed by the engine on exit.
	Incoming *queue.Queue[gomel.Unit]
	// Outgoing receives units created locally, after they are inserted into the dag.
	Outgoing *queue.Queue[gomel.Unit]
	// OrderedBatches receives the batches of units in their final order.
	OrderedBatches *queue.Queue[[]gomel.Unit]
	// Data provides the payload of created units. Nil means empty payloads.
	Data gomel.DataSource
}

// Consensus runs the terminal, the creator and the extender, and blocks until the terminator signals exit
// or any of them exits on its own. In both cases all of them are terminated and awaited, without any timeout.
// The creator starts from the round received on startingRound; closing it without a value means round 0.
// Returns the error of the first component that failed, if any. A component failing only because another one
// closed its queues during the shutdown is not considered failed.
func Consensus(conf config.Config, keys gomel.Keychain, hasher gomel.Hasher, rs gomel.RandomSource, io IO, startingRound <-chan int, term *terminator.Terminator, log zerolog.Logger) error {
	clog := log.With().Int(logging.Service, logging.ConsensusService).Logger()

	own := queue.New[gomel.Unit]()
	parents := queue.New[gomel.Unit]()
	toExtend := queue.New[gomel.Unit]()

	tl := terminal.New(conf, keys, hasher, io.Incoming, own, io.Outgoing, log)
	tl.AddOutput(parents)
	tl.AddOutput(toExtend)
	cr := creator.New(conf, keys, hasher, io.Data, parents, own, log)
	ext := linear.NewExtender(conf, rs, toExtend, io.OrderedBatches, log)

	exited := make(chan *task, 4)
	tasks := []*task{
		spawn("terminal", term, exited, tl.Run),
		spawn("creator", term, exited, func(t *terminator.Terminator) error { return cr.Run(startingRound, t) }),
		spawn("extender", term, exited, ext.Run),
	}
	if conf.LogMemInterval > 0 {
		memlog := term.AddOffspringConnection("memlog")
		go func() {
			defer memlog.TerminateSync()
			logging.MemoryUsageLoop(time.Duration(conf.LogMemInterval)*time.Second, memlog.GetExit(), log)
		}()
	}
	clog.Info().Msg(logging.ServiceStarted)

	var first *task
	select {
	case <-term.GetExit():
	case first = <-exited:
		ev := clog.Warn()
		if first.err != nil {
			ev = clog.Error().Str("reason", first.err.Error())
		}
		ev.Str(logging.Task, first.name).Bool(logging.Early, true).Msg(logging.TaskExited)
	}

	term.TerminateSync()
	var result error
	for _, t := range tasks {
		<-t.done
		if t != first {
			ev := clog.Info()
			if t.err != nil {
				ev = clog.Error().Str("reason", t.err.Error())
			}
			ev.Str(logging.Task, t.name).Msg(logging.TaskExited)
		}
		if t.err != nil && result == nil && (t == first || errors.Cause(t.err) != queue.ErrClosed) {
			result = errors.Wrap(t.err, t.name)
		}
	}
	clog.Info().Msg(logging.ServiceStopped)
	return result
}
