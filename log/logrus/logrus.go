package logrus

import (
	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/etf"
)

type LogrusLogger struct{ E *logrus.Entry }

var _ etf.Logger = LogrusLogger{}

func (l LogrusLogger) Debug(msg string, f etf.Fields) { l.with(f).Debug(msg) }
func (l LogrusLogger) Info(msg string, f etf.Fields)  { l.with(f).Info(msg) }
func (l LogrusLogger) Warn(msg string, f etf.Fields)  { l.with(f).Warn(msg) }
func (l LogrusLogger) Error(msg string, f etf.Fields) { l.with(f).Error(msg) }

func (l LogrusLogger) with(f etf.Fields) *logrus.Entry {
	if len(f) == 0 {
		return l.E
	}
	return l.E.WithFields(logrus.Fields(f))
}
