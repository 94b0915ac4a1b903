// Package zerolog adapts a zerolog.Logger to etf.Logger.
package zerolog

import (
	"github.com/rs/zerolog"
	"github.com/unkn0wn-root/etf"
)

type Logger struct{ L zerolog.Logger }

var _ etf.Logger = Logger{}

func (z Logger) Debug(msg string, f etf.Fields) { emit(z.L.Debug(), msg, f) }
func (z Logger) Info(msg string, f etf.Fields)  { emit(z.L.Info(), msg, f) }
func (z Logger) Warn(msg string, f etf.Fields)  { emit(z.L.Warn(), msg, f) }
func (z Logger) Error(msg string, f etf.Fields) { emit(z.L.Error(), msg, f) }

// emit tolerates a nil event, which zerolog returns for disabled levels.
func emit(e *zerolog.Event, msg string, f etf.Fields) {
	if e == nil {
		return
	}
	if len(f) > 0 {
		e = e.Fields(map[string]any(f))
	}
	e.Msg(msg)
}
