// Package logger is the public API of Hydra-Logger. Most users only
// need to import this package.
//
// AsyncHydraLogger fans every log call out to an ordered list of
// handlers, isolating each handler's errors and panics so one
// misbehaving sink never breaks the others or the caller. Build one
// with a Config and BuildLogger, or assemble handlers by hand with the
// Builder:
//
//	log := logger.NewBuilder().
//	    WithHandler(myHandler).
//	    WithLevel(logger.DebugLevel).
//	    WithCaller(true).
//	    Build()
//
// The package also keeps a process-wide default logger (console, text
// format, InfoLevel) initialized in init(). The package-level functions
// Info, Error, Debugf, etc. delegate to it, so simple programs can log
// without any setup:
//
//	logger.Info("ready", logger.Int("port", 8080))
//
// Child loggers with extra default fields are created via With, which
// returns a new logger sharing the same handlers:
//
//	reqLog := log.With(logger.String("request_id", id))
//
// Level checks happen before any allocation, so filtered-out messages
// cost only a single comparison against the logger's configured level.
package logger
