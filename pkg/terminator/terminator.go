// Package terminator implements a tree of cooperative cancellation signals.
//
// Every task gets its own Terminator, connected to the Terminator of the task that spawned it.
// A task selects on GetExit next to its inputs, and calls TerminateSync on its way out.
// TerminateSync first signals all offspring and waits until each of them has terminated,
// so a parent never finishes before its children.
package terminator

import (
	"sync"

	"github.com/algorand/go-deadlock"
	"github.com/rs/zerolog"

	"github.com/Setheum-Labs/HS3/pkg/logging"
)

// Terminator is a single node of the cancellation tree.
type Terminator struct {
	name       string
	parentExit <-chan struct{}
	exit       chan struct{}
	exitOnce   sync.Once
	done       chan struct{}
	doneOnce   sync.Once
	mx         deadlock.Mutex
	offspring  []*Terminator
	log        zerolog.Logger
}

// New creates a root Terminator that is signaled when exit gets closed.
func New(exit <-chan struct{}, name string, log zerolog.Logger) *Terminator {
	return &Terminator{
		name:       name,
		parentExit: exit,
		exit:       make(chan struct{}),
		done:       make(chan struct{}),
		log:        log.With().Int(logging.Service, logging.TerminatorService).Str(logging.Task, name).Logger(),
	}
}

// AddOffspringConnection creates a child Terminator. The child is signaled when this one terminates,
// and this one does not finish terminating before the child does.
func (t *Terminator) AddOffspringConnection(name string) *Terminator {
	child := &Terminator{
		name:       name,
		parentExit: t.exit,
		exit:       make(chan struct{}),
		done:       make(chan struct{}),
		log:        t.log.With().Str(logging.Task, name).Logger(),
	}
	t.mx.Lock()
	t.offspring = append(t.offspring, child)
	t.mx.Unlock()
	return child
}

// Name of the task owning this Terminator.
func (t *Terminator) Name() string {
	return t.name
}

// GetExit returns a channel that is closed when the parent requests termination.
func (t *Terminator) GetExit() <-chan struct{} {
	return t.parentExit
}

// Done returns a channel that is closed once TerminateSync has completed.
func (t *Terminator) Done() <-chan struct{} {
	return t.done
}

// TerminateSync signals all offspring, waits until every one of them has terminated, and marks this node as done.
// It blocks without any timeout. Calling it more than once is safe.
func (t *Terminator) TerminateSync() {
	t.exitOnce.Do(func() { close(t.exit) })
	t.mx.Lock()
	offspring := t.offspring
	t.mx.Unlock()
	for _, child := range offspring {
		<-child.done
		t.log.Debug().Str(logging.Offspring, child.name).Msg(logging.OffspringTerminated)
	}
	t.doneOnce.Do(func() {
		close(t.done)
		t.log.Debug().Msg(logging.Terminated)
	})
}
