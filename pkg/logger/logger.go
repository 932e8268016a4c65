// Package logger provides the zap-based application logger.
package logger

import "go.uber.org/zap"

// Log is the shared logger. Nop until Init is called, so library code
// and tests can log without setup.
var Log = zap.NewNop()

// Init configures the logger. Pass debug=true for development output.
func Init(debug bool) error {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	Log = l
	return nil
}

// Sync flushes buffered log entries. Call on shutdown.
func Sync() {
	_ = Log.Sync()
}
