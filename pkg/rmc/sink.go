package rmc

import (
	"context"
	"errors"
)

// ErrSendFail is returned by a sink that could not deliver a message. It is never fatal for a session.
var ErrSendFail = errors.New("send failed")

// Recipient of a message: either everyone else in the committee or a single process.
type Recipient struct {
	everyone bool
	pid      uint16
}

// Everyone addresses all other processes.
func Everyone() Recipient {
	return Recipient{everyone: true}
}

// Specific addresses a single process.
func Specific(pid uint16) Recipient {
	return Recipient{pid: pid}
}

// IsEveryone checks if the recipient is the whole committee.
func (r Recipient) IsEveryone() bool {
	return r.everyone
}

// Pid of a specific recipient.
func (r Recipient) Pid() uint16 {
	return r.pid
}

// ProtocolSink is the transport of a single session.
type ProtocolSink interface {
	// Send a message. Failures are reported as ErrSendFail.
	Send(Message, Recipient) error
	// Next blocks until a message arrives. Returns false when the context is done or the transport is gone.
	Next(context.Context) (Message, bool)
}
