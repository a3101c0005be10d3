package logging

import (
	"github.com/rs/zerolog"

	"github.com/Setheum-Labs/HS3/pkg/gomel"
)

// InsertError logs the outcome of a failed attempt to add the given unit to the dag.
// None of these outcomes is fatal.
func InsertError(err error, u gomel.Unit, source string, log zerolog.Logger) {
	ev := func(e *zerolog.Event) *zerolog.Event {
		return e.Uint16(Creator, u.Creator()).Int(Round, u.Round()).Str(Hash, u.Hash().Short()).Str(Task, source)
	}
	switch e := err.(type) {
	case *gomel.DuplicateUnit:
		ev(log.Debug()).Msg(DuplicateUnit)
	case *gomel.UnknownParents:
		ev(log.Debug()).Int(Size, e.Amount).Msg(UnknownParents)
	case *gomel.DataError, *gomel.ComplianceError:
		ev(log.Warn()).Str("reason", err.Error()).Msg(InvalidUnit)
	default:
		ev(log.Error()).Str("where", "Insert").Msg(err.Error())
	}
}
