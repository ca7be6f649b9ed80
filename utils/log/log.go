package log

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/debatify/debatify-go/utils"
)

// global accessible logger
var (
	LogV2 *Logger
)

// This init function is only for testing cases, where the entry point is not
// main function. Unit test will fail with nil pointer dereference if we don't
// init here.
func init() {
	initLogger()
}

type Logger struct {
	*logrus.Logger
}

func (l *Logger) Infof(params ...interface{}) {
	strs := make([]string, len(params))

	for i, param := range params {
		strs[i] = fmt.Sprint(param)
	}

	l.Info(strings.Join(strs, ", "))
}

func (l *Logger) Debugf(params ...interface{}) {
	strs := make([]string, len(params))

	for i, param := range params {
		strs[i] = fmt.Sprint(param)
	}

	l.Debug(strings.Join(strs, ", "))
}

func (l *Logger) Errorf(params ...interface{}) {
	strs := make([]string, len(params))

	for i, param := range params {
		strs[i] = fmt.Sprint(param)
	}

	l.Error(strings.Join(strs, ", "))
}

func initLogger() {
	base := logrus.New()
	base.SetOutput(os.Stderr)
	if utils.IsProdEnv() {
		base.SetFormatter(&logrus.JSONFormatter{})
	} else {
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level := logrus.InfoLevel
	if parsed, err := logrus.ParseLevel(os.Getenv("DEBATIFY_LOG_LEVEL")); err == nil {
		level = parsed
	}
	base.SetLevel(level)

	LogV2 = &Logger{
		base,
	}
}
