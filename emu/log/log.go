package log

import "gopkg.in/Sirupsen/logrus.v0"

type Level = logrus.Level

const (
	ErrorLevel = logrus.ErrorLevel
	WarnLevel  = logrus.WarnLevel
	InfoLevel  = logrus.InfoLevel
	DebugLevel = logrus.DebugLevel
)

var disabled bool

func init() {
	logrus.SetLevel(logrus.DebugLevel)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
}

// Disable turns off all logging, including warnings and errors.
func Disable() {
	disabled = true
}
