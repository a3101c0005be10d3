package run

import (
	"fmt"

	"github.com/Setheum-Labs/HS3/pkg/terminator"
)

// task is a single essential component running in its own goroutine under its own terminator.
type task struct {
	name string
	term *terminator.Terminator
	done chan struct{}
	err  error
}

// spawn starts run in a new goroutine. A panic inside run is turned into the error of the task.
// Once run returns, the offspring of the task are terminated and exited receives the task.
func spawn(name string, parent *terminator.Terminator, exited chan<- *task, run func(*terminator.Terminator) error) *task {
	t := &task{
		name: name,
		term: parent.AddOffspringConnection(name),
		done: make(chan struct{}),
	}
	go func() {
		defer func() {
			t.term.TerminateSync()
			close(t.done)
			exited <- t
		}()
		defer func() {
			if r := recover(); r != nil {
				t.err = fmt.Errorf("panic in %s: %v", name, r)
			}
		}()
		t.err = run(t.term)
	}()
	return t
}
