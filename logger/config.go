package logger

import (
	"fmt"

	"github.com/hydra-logger/hydra-logger/core"
	"github.com/hydra-logger/hydra-logger/handler"
	"github.com/hydra-logger/hydra-logger/handler/compositehandler"
	"github.com/hydra-logger/hydra-logger/handler/consolehandler"
	"github.com/hydra-logger/hydra-logger/handler/filehandler"
)

// Config is the structured value supplied at Logger construction (§6
// External Interfaces): a level plus an ordered list of handler
// configurations.
type Config struct {
	Level         core.Level
	IncludeCaller bool
	Handlers      []handler.HandlerConfig
}

// BuildLogger translates cfg into live handler instances and returns a
// fully initialized AsyncHydraLogger. Each handler's writer goroutine is
// already running by the time BuildLogger returns.
func BuildLogger(cfg Config) (*AsyncHydraLogger, error) {
	b := NewBuilder().WithLevel(cfg.Level).WithCaller(cfg.IncludeCaller)
	for _, hc := range cfg.Handlers {
		h, err := buildHandler(hc)
		if err != nil {
			return nil, err
		}
		b.WithHandler(h)
	}
	return b.Build(), nil
}

// buildHandler constructs a single handler.Handler from its tagged-union
// configuration, recursing into Composite's children.
func buildHandler(hc handler.HandlerConfig) (handler.Handler, error) {
	switch hc.Kind {
	case handler.KindFile:
		if hc.File == nil {
			return nil, fmt.Errorf("logger: file handler config missing File")
		}
		return filehandler.New(filehandler.Config{FileConfig: *hc.File})

	case handler.KindConsole:
		if hc.Console == nil {
			return nil, fmt.Errorf("logger: console handler config missing Console")
		}
		return consolehandler.New(consolehandler.Config{ConsoleConfig: *hc.Console}), nil

	case handler.KindComposite:
		if hc.Composite == nil {
			return nil, fmt.Errorf("logger: composite handler config missing Composite")
		}
		children := make([]handler.Handler, 0, len(hc.Composite.Children))
		for _, childCfg := range hc.Composite.Children {
			child, err := buildHandler(childCfg)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		return compositehandler.New(compositehandler.Config{
			Children: children,
			Parallel: hc.Composite.Parallel,
			FailFast: hc.Composite.FailFast,
		}), nil

	default:
		return nil, fmt.Errorf("logger: unknown handler kind %d", hc.Kind)
	}
}
