package synchronizer

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"

	Logger "github.com/debatify/debatify-go/utils/log"
)

// busLogger bridges watermill's logger interface onto LogV2. Info/Trace
// level bus chatter is demoted to debug; only real bus errors surface.
type busLogger struct {
	fields watermill.LogFields
}

func newBusLogger() watermill.LoggerAdapter {
	return &busLogger{}
}

func (l *busLogger) Error(msg string, err error, fields watermill.LogFields) {
	Logger.LogV2.Errorf("event bus:", msg, err, l.fields.Add(fields))
}

func (l *busLogger) Info(msg string, fields watermill.LogFields) {
	Logger.LogV2.Debugf("event bus:", msg, l.fields.Add(fields))
}

func (l *busLogger) Debug(msg string, fields watermill.LogFields) {
	Logger.LogV2.Debugf("event bus:", msg, l.fields.Add(fields))
}

func (l *busLogger) Trace(msg string, fields watermill.LogFields) {
	Logger.LogV2.Debugf("event bus:", fmt.Sprint(msg), l.fields.Add(fields))
}

func (l *busLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &busLogger{fields: l.fields.Add(fields)}
}
